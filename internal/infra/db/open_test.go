package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConnectionConfig(t *testing.T) {
	cfg := DefaultConnectionConfig()

	assert.Equal(t, 25, cfg.MaxOpenConns)
	assert.Equal(t, 10, cfg.MaxIdleConns)
	assert.Equal(t, 1*time.Hour, cfg.ConnMaxLifetime)
	assert.Equal(t, 30*time.Minute, cfg.ConnMaxIdleTime)
}

func TestGetConnectionConfigFromEnv_Defaults(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "")
	t.Setenv("DB_MAX_IDLE_CONNS", "")
	t.Setenv("DB_CONN_MAX_LIFETIME", "")
	t.Setenv("DB_CONN_MAX_IDLE_TIME", "")

	assert.Equal(t, DefaultConnectionConfig(), getConnectionConfigFromEnv())
}

func TestGetConnectionConfigFromEnv_MaxOpenConns(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected int
	}{
		{name: "valid value", envValue: "50", expected: 50},
		{name: "invalid value - non-numeric", envValue: "invalid", expected: 25},
		{name: "invalid value - zero", envValue: "0", expected: 25},
		{name: "invalid value - negative", envValue: "-10", expected: 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DB_MAX_OPEN_CONNS", tt.envValue)

			cfg := getConnectionConfigFromEnv()
			assert.Equal(t, tt.expected, cfg.MaxOpenConns)
		})
	}
}

func TestGetConnectionConfigFromEnv_AllCustomValues(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "100")
	t.Setenv("DB_MAX_IDLE_CONNS", "50")
	t.Setenv("DB_CONN_MAX_LIFETIME", "2h")
	t.Setenv("DB_CONN_MAX_IDLE_TIME", "15m")

	cfg := getConnectionConfigFromEnv()

	assert.Equal(t, 100, cfg.MaxOpenConns)
	assert.Equal(t, 50, cfg.MaxIdleConns)
	assert.Equal(t, 2*time.Hour, cfg.ConnMaxLifetime)
	assert.Equal(t, 15*time.Minute, cfg.ConnMaxIdleTime)
}

func TestGetConnectionConfigFromEnv_InvalidDurations(t *testing.T) {
	t.Setenv("DB_CONN_MAX_LIFETIME", "forever")
	t.Setenv("DB_CONN_MAX_IDLE_TIME", "-5m")

	cfg := getConnectionConfigFromEnv()

	assert.Equal(t, 1*time.Hour, cfg.ConnMaxLifetime)
	assert.Equal(t, 30*time.Minute, cfg.ConnMaxIdleTime)
}

func TestParseURL(t *testing.T) {
	tests := []struct {
		url         string
		wantDialect Dialect
		wantDSN     string
		wantErr     bool
	}{
		{url: "postgres://u:p@localhost:5432/briefly?sslmode=disable", wantDialect: DialectPostgres, wantDSN: "postgres://u:p@localhost:5432/briefly?sslmode=disable"},
		{url: "postgresql://localhost/briefly", wantDialect: DialectPostgres, wantDSN: "postgresql://localhost/briefly"},
		{url: "sqlite://data/briefly.db", wantDialect: DialectSQLite, wantDSN: "data/briefly.db"},
		{url: "sqlite://:memory:", wantDialect: DialectSQLite, wantDSN: ":memory:"},
		{url: "file:briefly.db?cache=shared", wantDialect: DialectSQLite, wantDSN: "file:briefly.db?cache=shared"},
		{url: "sqlite://", wantErr: true},
		{url: "mysql://localhost/briefly", wantErr: true},
		{url: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			dialect, dsn, err := ParseURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDialect, dialect)
			assert.Equal(t, tt.wantDSN, dsn)
		})
	}
}

func TestOpen_SQLiteMemory(t *testing.T) {
	db, dialect, err := Open(context.Background(), "sqlite://:memory:")
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	assert.Equal(t, DialectSQLite, dialect)
	assert.Equal(t, 1, db.Stats().MaxOpenConnections)
}

func TestOpen_UnsupportedScheme(t *testing.T) {
	_, _, err := Open(context.Background(), "mongodb://localhost")
	assert.Error(t, err)
}

func TestOpen_UnreachablePostgresHonoursContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, _, err := Open(ctx, "postgres://briefly@127.0.0.1:1/briefly?sslmode=disable&connect_timeout=1")
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}
