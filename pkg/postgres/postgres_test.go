package postgres

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func TestDB_DSN(t *testing.T) {
	tests := []struct {
		name     string
		cfg      DB
		password string
		port     uint16
	}{
		{
			name:     "plain",
			cfg:      DB{Host: "localhost", Port: "5432", Username: "postgres", Password: "postgres", NameDB: "lending", SSLMode: "disable"},
			password: "postgres",
			port:     5432,
		},
		{
			name:     "reserved characters in password",
			cfg:      DB{Host: "db", Port: "5433", Username: "lender", Password: "p@ss/w:rd?#%", NameDB: "lending", SSLMode: "disable"},
			password: "p@ss/w:rd?#%",
			port:     5433,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			poolCfg, err := pgxpool.ParseConfig(tt.cfg.DSN())
			require.NoError(t, err)

			conn := poolCfg.ConnConfig
			require.Equal(t, tt.cfg.Host, conn.Host)
			require.Equal(t, tt.cfg.Username, conn.User)
			require.Equal(t, tt.password, conn.Password)
			require.Equal(t, tt.cfg.NameDB, conn.Database)
			require.Equal(t, tt.port, conn.Port)
		})
	}
}
