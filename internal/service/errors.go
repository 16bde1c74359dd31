package service

import (
	"errors"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound           = errors.New("resource not found")
	ErrForbidden          = errors.New("not allowed to modify this project")
	ErrInvalidCredentials = errors.New("The provided credentials are incorrect.")
	ErrSessionRevoked     = errors.New("session is no longer active")
	ErrSessionStore       = errors.New("session store unavailable")
)

// ValidationError 收集欄位層級的錯誤訊息，在任何寫入之前回傳
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// orNil 沒有欄位錯誤時回傳 nil，避免 typed-nil error
func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
