package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppPort string

	// sheet_rows backing table: "mysql" in production, "sqlite" for
	// local runs.
	DBDriver   string
	SQLitePath string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	// Shared manager secret for approval actions. Empty disables the
	// approval routes entirely.
	AdminSecret string

	// Uniform storage retry policy.
	RetryAttempts int
	RetryDelay    time.Duration

	// Snapshot cache TTL; 0 disables the cache layer.
	CacheTTLSecs int

	// AWB tracker endpoint; empty or disabled swaps in the fixed
	// "disabled" responder.
	TrackerBaseURL  string
	TrackerDisabled bool

	IdempTTLSecs int
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func Load() *Config {
	c := &Config{
		AppPort:    getenv("APP_PORT", "8080"),
		DBDriver:   getenv("DB_DRIVER", "sqlite"),
		SQLitePath: getenv("SQLITE_PATH", "complaints.db"),

		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "complaints"),
		MySQLUser: getenv("MYSQL_USER", "complaints"),
		MySQLPass: getenv("MYSQL_PASS", "complaints"),

		RedisAddr: getenv("REDIS_ADDR", ""),
		RedisDB:   getenvInt("REDIS_DB", 0),

		AdminSecret: os.Getenv("ADMIN_SECRET"),

		RetryAttempts: getenvInt("STORE_RETRY_ATTEMPTS", 5),
		RetryDelay:    time.Duration(getenvInt("STORE_RETRY_DELAY_SECONDS", 1)) * time.Second,
		CacheTTLSecs:  getenvInt("SNAPSHOT_CACHE_TTL_SECONDS", 60),

		TrackerBaseURL:  os.Getenv("TRACKER_BASE_URL"),
		TrackerDisabled: os.Getenv("TRACKER_DISABLED") == "true",

		IdempTTLSecs: getenvInt("IDEMPOTENCY_TTL_SECONDS", 300),
	}
	return c
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	switch c.DBDriver {
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	case "mysql":
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q (want mysql or sqlite)", c.DBDriver)
	}
	if c.RetryAttempts < 1 {
		return errors.New("STORE_RETRY_ATTEMPTS must be at least 1")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME columns
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
