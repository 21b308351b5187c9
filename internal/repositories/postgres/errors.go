package postgres

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/asakaida/groupperm/internal/repositories"
	"github.com/lib/pq"
)

const (
	uniqueViolation     pq.ErrorCode  = "23505"
	connectionException pq.ErrorClass = "08"
	adminShutdown       pq.ErrorCode  = "57P01"
	crashShutdown       pq.ErrorCode  = "57P02"
	cannotConnectNow    pq.ErrorCode  = "57P03"

	// database/sql does not export the error returned by a closed pool
	errDatabaseClosed = "sql: database is closed"
)

// wrapError maps a driver error onto the repository error taxonomy
func wrapError(action string, err error) error {
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("failed to %s: %w: %w", action, repositories.ErrDuplicateName, err)
	case isUnavailable(err):
		return fmt.Errorf("failed to %s: %w: %w", action, repositories.ErrStoreUnavailable, err)
	default:
		return fmt.Errorf("failed to %s: %w: %w", action, repositories.ErrQuery, err)
	}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func isUnavailable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	if strings.Contains(err.Error(), errDatabaseClosed) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case adminShutdown, crashShutdown, cannotConnectNow:
			return true
		}
		return pqErr.Code.Class() == connectionException
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
