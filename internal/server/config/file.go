package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/eurisssow03/wc-helper-sub001/internal/flagx"
	"github.com/eurisssow03/wc-helper-sub001/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the file representation of Config. Durations accept either
// strings such as "5s" or integer nanoseconds.
type FileConfig struct {
	HTTPAddr            string         `json:"http_addr" yaml:"http_addr"`
	GRPCAddr            string         `json:"grpc_addr" yaml:"grpc_addr"`
	DatabaseDSN         string         `json:"database_dsn" yaml:"database_dsn"`
	SecretKey           string         `json:"secret_key" yaml:"secret_key"`
	TokenValidity       timex.Duration `json:"token_validity" yaml:"token_validity"`
	HealthCheckInterval timex.Duration `json:"health_check_interval" yaml:"health_check_interval"`
	LogLevel            string         `json:"log_level" yaml:"log_level"`
}

// parseFile overlays config with the file named by -c/-config or
// $WCHELPER_CONFIG. Missing fields keep their current values; read or decode
// errors panic.
func parseFile(config *Config) {
	path := flagx.ConfigFile(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		err = json.Unmarshal(data, c)
	}
	if err != nil {
		panic(err)
	}

	overlay(&config.HTTPAddr, c.HTTPAddr)
	overlay(&config.GRPCAddr, c.GRPCAddr)
	overlay(&config.DatabaseDSN, c.DatabaseDSN)
	overlay(&config.SecretKey, c.SecretKey)
	overlay(&config.LogLevel, c.LogLevel)
	if c.TokenValidity.Duration > 0 {
		config.TokenValidity = c.TokenValidity.Duration
	}
	if c.HealthCheckInterval.Duration > 0 {
		config.HealthCheckInterval = c.HealthCheckInterval.Duration
	}
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
