package config

import (
	"flag"
	"os"
	"time"

	"github.com/eurisssow03/wc-helper-sub001/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     base URL of the backend server
//	-i int        online check interval in seconds
//	-t duration   probe timeout (e.g. 3s)
//	-s string     store driver: sqlite, redis or memory
//	-d string     store DSN (SQLite file path)
//	-l string     log level
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-i", "-t", "-s", "-d", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the backend server")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.DurationVar(&cfg.ProbeTimeout, "t", cfg.ProbeTimeout, "connection probe timeout")
	fs.StringVar(&cfg.StoreDriver, "s", cfg.StoreDriver, "local store driver (sqlite, redis, memory)")
	fs.StringVar(&cfg.StoreDSN, "d", cfg.StoreDSN, "local store DSN")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
