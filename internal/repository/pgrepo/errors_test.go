package pgrepo

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/fsdevblog/groph-points/internal/domain"
)

func TestConvertErr(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		wantErr error
	}{
		{name: "no rows", err: pgx.ErrNoRows, wantErr: domain.ErrRecordNotFound},
		{name: "check violation", err: &pgconn.PgError{Code: checkViolationCode}, wantErr: domain.ErrInvalidAmount},
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}, wantErr: domain.ErrUnknown},
		{name: "plain", err: errors.New("conn reset"), wantErr: domain.ErrUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := convertErr(tc.err, "saving balance for userID %d", 1)
			require.ErrorIs(t, err, tc.wantErr)
			require.Contains(t, err.Error(), "[repository/saving balance for userID 1]")
		})
	}

	require.NoError(t, convertErr(nil, "noop"))
}
