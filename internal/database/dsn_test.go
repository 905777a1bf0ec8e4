package database

import (
	"testing"

	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
)

func TestBuildMySQLDSN(t *testing.T) {
	dsn, err := buildMySQLDSN(Config{
		User:     "app",
		Password: "pw",
		Name:     "pricedesk",
		Options:  map[string]string{"tls": "skip-verify"},
	})
	require.NoError(t, err)

	parsed, err := mysqldrv.ParseDSN(dsn)
	require.NoError(t, err)
	require.Equal(t, "app", parsed.User)
	require.Equal(t, "pw", parsed.Passwd)
	require.Equal(t, "127.0.0.1:3306", parsed.Addr)
	require.Equal(t, "pricedesk", parsed.DBName)
	require.True(t, parsed.ParseTime)
	require.Equal(t, "utf8mb4", parsed.Params["charset"])
}

func TestBuildMySQLDSNRequiresUserAndName(t *testing.T) {
	_, err := buildMySQLDSN(Config{User: "app"})
	require.Error(t, err)
}

func TestBuildMySQLDSNPassthrough(t *testing.T) {
	dsn, err := buildMySQLDSN(Config{DSN: "app@tcp(db:3306)/custom"})
	require.NoError(t, err)
	require.Equal(t, "app@tcp(db:3306)/custom", dsn)
}
