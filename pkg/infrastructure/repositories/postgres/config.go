package postgres

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds PostgreSQL connection settings for the driver. ConnString wins
// when set; otherwise a DSN is built from the individual fields.
type Config struct {
	ConnString  string
	Host        string
	Port        string
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
	PingTimeout time.Duration
}

// DSN returns the connection string for pgx and database/sql
func (c *Config) DSN() string {
	if c.ConnString != "" {
		return c.ConnString
	}
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%s", c.Host, c.Port),
		Path:     c.DBName,
		RawQuery: url.Values{"sslmode": []string{sslMode}}.Encode(),
	}
	return u.String()
}
