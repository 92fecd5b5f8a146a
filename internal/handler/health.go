package handler

import (
	"context"
	"net/http"
	"time"

	"farmacierre/internal/infra"
	"farmacierre/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health returns a JSON health check response.
// Checks DB and Redis connectivity; never exposes credentials or internals.
// The SMTP breaker state and dead-lettered report jobs are informational and
// never fail the check.
func Health(db *gorm.DB, rdb *redis.Client, smtp *infra.CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "connected"
		var fallidos int64
		if rdb == nil || rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		} else if n, err := worker.DLQLength(ctx, rdb, worker.QueueReporteEmail); err == nil {
			fallidos = n
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		body := gin.H{
			"ok":              status == http.StatusOK,
			"db":              dbStatus,
			"redis":           redisStatus,
			"envios_fallidos": fallidos,
		}
		if smtp != nil {
			body["smtp"] = smtp.Snapshot()
		}
		c.JSON(status, body)
	}
}
