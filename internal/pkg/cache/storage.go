package cache

import (
	"net"
	"strconv"

	redisstorage "github.com/gofiber/storage/redis"

	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/env"
)

// Database layout on the shared Redis instance.
const (
	DBCache   = 0
	DBSession = 1
	DBOAuth   = 2
	DBLimiter = 3
)

// NewStorage creates a fiber storage backed by the same Redis server as the
// cache client, but on a separate database.
func NewStorage(database int) *redisstorage.Storage {
	host, port := "127.0.0.1", 6379
	password := env.GetEnv("CACHE_PASSWORD", "")
	username := ""

	if opts := GetClient().Options(); opts != nil {
		if h, p, err := net.SplitHostPort(opts.Addr); err == nil {
			host = h
			if parsed, e := strconv.Atoi(p); e == nil {
				port = parsed
			}
		} else if opts.Addr != "" {
			host = opts.Addr
		}
		if opts.Password != "" {
			password = opts.Password
		}
		username = opts.Username
	}

	return redisstorage.New(redisstorage.Config{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		Database: database,
		Reset:    false,
	})
}
