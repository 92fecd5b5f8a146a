// Command seed carga los turnos y cuentas iniciales.
// Uso: go run ./cmd/seed
// Es idempotente: una tabla que ya tiene filas no se toca.
package main

import (
	"context"
	"os"
	"time"

	"farmacierre/internal/config"
	"farmacierre/internal/infra"
	"farmacierre/internal/repository"
	"farmacierre/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL, false)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	turnos := repository.NewTurnoRepository(db)
	cuentas := repository.NewCuentaRepository(db)
	usuarios := repository.NewUsuarioRepository(db)
	if err := service.Bootstrap(ctx, turnos, cuentas, usuarios); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}

	nt, _ := turnos.Contar(ctx)
	nc, _ := cuentas.Contar(ctx)
	nu, _ := usuarios.Contar(ctx)
	log.Info().Int64("turnos", nt).Int64("cuentas", nc).Int64("usuarios", nu).Msg("catalogs seeded")
}
