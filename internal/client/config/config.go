package config

import (
	"time"

	"github.com/eurisssow03/wc-helper-sub001/internal/client/client"
	"github.com/eurisssow03/wc-helper-sub001/internal/client/slots"
)

// Config holds runtime settings for the admin CLI.
//
// Fields:
//   - ServerURL: base URL of the backend HTTP API.
//   - HealthPath, LoginPath: endpoints under ServerURL.
//   - GRPCHealthAddr: when set, reachability is probed over gRPC health
//     instead of HTTP.
//   - ProbeTimeout: deadline of one reachability check.
//   - OnlineCheckInterval: how often the background watcher probes.
//   - StoreDriver, StoreDSN, RedisAddr, RedisPassword: local slot store.
//   - LogLevel: debug, info, warn or error.
//   - S3*: snapshot backup target.
//   - BackupDir: local snapshot directory, used when no S3 bucket is set.
type Config struct {
	ServerURL           string
	HealthPath          string
	LoginPath           string
	GRPCHealthAddr      string
	ProbeTimeout        time.Duration
	OnlineCheckInterval time.Duration

	StoreDriver   string
	StoreDSN      string
	RedisAddr     string
	RedisPassword string

	LogLevel string

	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string

	BackupDir string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.HealthPath = client.DefaultHealthPath
	c.LoginPath = client.DefaultLoginPath
	c.ProbeTimeout = 5 * time.Second
	c.OnlineCheckInterval = 10 * time.Second
	c.StoreDriver = slots.DriverSQLite
	c.StoreDSN = "wchelper.db"
	c.RedisAddr = "127.0.0.1:6379"
	c.LogLevel = "info"
	c.S3Region = "us-east-1"
}

// StoreOptions converts the store settings for slots.Open.
func (c *Config) StoreOptions() slots.Options {
	return slots.Options{
		Driver:        c.StoreDriver,
		DSN:           c.StoreDSN,
		RedisAddr:     c.RedisAddr,
		RedisPassword: c.RedisPassword,
	}
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a config file (if present) and command-line flags (if present). Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseFlags(cfg)
	return cfg
}
