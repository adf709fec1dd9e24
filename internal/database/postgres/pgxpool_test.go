package postgres

import (
	"context"
	"testing"
	"time"

	"companygrow/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN_EscapesCredentials(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		DBHost:     "db.internal",
		DBPort:     "5433",
		DBUser:     "grow",
		DBPassword: "p@ss word",
		DBName:     "companygrow",
		DBSSLMode:  "disable",
	})

	pcfg, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)
	assert.Equal(t, "db.internal", pcfg.ConnConfig.Host)
	assert.Equal(t, uint16(5433), pcfg.ConnConfig.Port)
	assert.Equal(t, "grow", pcfg.ConnConfig.User)
	assert.Equal(t, "p@ss word", pcfg.ConnConfig.Password)
	assert.Equal(t, "companygrow", pcfg.ConnConfig.Database)
}

func TestApplyPoolTuning(t *testing.T) {
	pcfg, err := pgxpool.ParseConfig(DSN(config.DatabaseConfig{DBHost: "localhost", DBPort: "5432", DBName: "x"}))
	require.NoError(t, err)

	applyPoolTuning(pcfg, config.DatabaseConfig{
		ConnectTimeout:      3 * time.Second,
		PoolMaxConns:        20,
		PoolMinConns:        2,
		PoolMaxConnLifetime: time.Hour,
	})
	assert.Equal(t, 3*time.Second, pcfg.ConnConfig.ConnectTimeout)
	assert.Equal(t, int32(20), pcfg.MaxConns)
	assert.Equal(t, int32(2), pcfg.MinConns)
	assert.Equal(t, time.Hour, pcfg.MaxConnLifetime)
}

func TestNilPool(t *testing.T) {
	var p *Pool
	assert.ErrorIs(t, p.Ping(context.Background()), errNilPool)
	assert.ErrorIs(t, p.QueryRow(context.Background(), "SELECT 1").Scan(), errNilPool)
	assert.NoError(t, p.Close())
}
