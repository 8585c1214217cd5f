package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"io"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
)

// Коды ошибок PostgreSQL, после которых транзакцию безопасно повторить целиком.
const (
	pgCodeSerializationFailure = "40001"
	pgCodeDeadlockDetected     = "40P01"
	pgClassConnectionException = "08"
)

// isTransient распознаёт временные сбои: конфликты сериализации, дедлоки и
// потерю соединения. Такие ошибки не связаны с данными запроса и уходят при
// повторе блока.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, io.EOF) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgCodeSerializationFailure || pgErr.Code == pgCodeDeadlockDetected {
			return true
		}
		if len(pgErr.Code) >= 2 && pgErr.Code[:2] == pgClassConnectionException {
			return true
		}
		return false
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
