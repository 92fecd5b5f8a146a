package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Sentinel errors. Services wrap them with a user-facing message so handlers can
// map them to a status with errors.Is and still show the message.
var (
	ErrValidacion   = errors.New("validación")
	ErrConflicto    = errors.New("conflicto")
	ErrNoEncontrado = errors.New("no encontrado")
)

// Error is a sentinel plus the message shown to the client.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Kind }

func validacion(format string, args ...any) error {
	return &Error{Kind: ErrValidacion, Msg: fmt.Sprintf(format, args...)}
}

func conflicto(msg string) error { return &Error{Kind: ErrConflicto, Msg: msg} }

func noEncontrado(msg string) error { return &Error{Kind: ErrNoEncontrado, Msg: msg} }

// traducir maps store errors to sentinels: record-not-found becomes
// ErrNoEncontrado with msg, duplicate keys become ErrConflicto.
func traducir(err error, msg, msgConflicto string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return noEncontrado(msg)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return conflicto(msgConflicto)
	default:
		return err
	}
}
