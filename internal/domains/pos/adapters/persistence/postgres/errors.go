package postgres

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/Apurer/boba-pos/internal/domains/pos/ports"
)

const uniqueViolation = "23505"

// classify maps driver failures onto the store's error vocabulary. Errors that
// already carry a ports sentinel pass through untouched.
func classify(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{
		ports.ErrNotFound, ports.ErrConnectivity, ports.ErrTransactionFailed,
		ports.ErrUnknownReference, ports.ErrAlreadyExists, ports.ErrUnknownCollection,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %w", ports.ErrNotFound, err)
	}
	if isConnectivity(err) {
		return fmt.Errorf("%w: %w", ports.ErrConnectivity, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %w", ports.ErrAlreadyExists, err)
	}
	return err
}

func isConnectivity(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// class 08 connection exception, 57P operator intervention, 53300 too many connections
		return strings.HasPrefix(pgErr.Code, "08") ||
			strings.HasPrefix(pgErr.Code, "57P") ||
			pgErr.Code == "53300"
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	if pgconn.SafeToRetry(err) {
		return true
	}
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, net.ErrClosed) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
