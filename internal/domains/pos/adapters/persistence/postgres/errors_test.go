package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/Apurer/boba-pos/internal/domains/pos/ports"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"unique violation", &pgconn.PgError{Code: "23505"}, ports.ErrAlreadyExists},
		{"connection failure", &pgconn.PgError{Code: "08006"}, ports.ErrConnectivity},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, ports.ErrConnectivity},
		{"bad conn", driver.ErrBadConn, ports.ErrConnectivity},
		{"unexpected eof", fmt.Errorf("read: %w", io.ErrUnexpectedEOF), ports.ErrConnectivity},
		{"dial", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, ports.ErrConnectivity},
		{"record not found", gorm.ErrRecordNotFound, ports.ErrNotFound},
		{"already classified", fmt.Errorf("%w: menu item 4", ports.ErrUnknownReference), ports.ErrUnknownReference},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, classify(tt.err), tt.want)
		})
	}
}

func TestClassify_LeavesOtherErrorsAlone(t *testing.T) {
	assert.Nil(t, classify(nil))

	check := &pgconn.PgError{Code: "23514", Message: "violates check constraint"}
	got := classify(check)
	assert.Same(t, error(check), got)
	assert.NotErrorIs(t, got, ports.ErrConnectivity)
	assert.NotErrorIs(t, got, ports.ErrAlreadyExists)
}

func TestNextID_RejectsUnknownCollection(t *testing.T) {
	store := NewStore(nil)
	_, err := store.NextID(context.Background(), ports.CollectionOrders)
	assert.Error(t, err)

	_, err = nextID(nil, "customers")
	assert.ErrorIs(t, err, ports.ErrUnknownCollection)
}
