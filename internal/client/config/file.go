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

// FileConfig is a DTO used exclusively for config file unmarshalling.
// It relies on timex.Duration so files can specify intervals either as
// strings like "3s" or as integer nanoseconds.
type FileConfig struct {
	ServerURL           string         `json:"server_url" yaml:"server_url"`
	HealthPath          string         `json:"health_path" yaml:"health_path"`
	LoginPath           string         `json:"login_path" yaml:"login_path"`
	GRPCHealthAddr      string         `json:"grpc_health_addr" yaml:"grpc_health_addr"`
	ProbeTimeout        timex.Duration `json:"probe_timeout" yaml:"probe_timeout"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval" yaml:"online_check_interval"`
	StoreDriver         string         `json:"store_driver" yaml:"store_driver"`
	StoreDSN            string         `json:"store_dsn" yaml:"store_dsn"`
	RedisAddr           string         `json:"redis_addr" yaml:"redis_addr"`
	RedisPassword       string         `json:"redis_password" yaml:"redis_password"`
	LogLevel            string         `json:"log_level" yaml:"log_level"`
	S3Endpoint          string         `json:"s3_endpoint" yaml:"s3_endpoint"`
	S3Region            string         `json:"s3_region" yaml:"s3_region"`
	S3Bucket            string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3AccessKey         string         `json:"s3_access_key" yaml:"s3_access_key"`
	S3SecretKey         string         `json:"s3_secret_key" yaml:"s3_secret_key"`
	BackupDir           string         `json:"backup_dir" yaml:"backup_dir"`
}

// decodeFile unmarshals data as YAML for .yaml/.yml paths and as JSON otherwise.
func decodeFile(path string, data []byte, fc *FileConfig) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, fc)
	default:
		return json.Unmarshal(data, fc)
	}
}

// parseFile overlays Config with values loaded from a config file.
//
// The path comes from -c/-config or $WCHELPER_CONFIG (see flagx.ConfigFile);
// when there is none the function returns without changes. Only fields
// present in the file override the current values. Read or decode errors
// panic.
func parseFile(cfg *Config) {
	path := flagx.ConfigFile(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc FileConfig
	if err := decodeFile(path, data, &fc); err != nil {
		panic(err)
	}

	setString(&cfg.ServerURL, fc.ServerURL)
	setString(&cfg.HealthPath, fc.HealthPath)
	setString(&cfg.LoginPath, fc.LoginPath)
	setString(&cfg.GRPCHealthAddr, fc.GRPCHealthAddr)
	setString(&cfg.StoreDriver, fc.StoreDriver)
	setString(&cfg.StoreDSN, fc.StoreDSN)
	setString(&cfg.RedisAddr, fc.RedisAddr)
	setString(&cfg.RedisPassword, fc.RedisPassword)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.S3Endpoint, fc.S3Endpoint)
	setString(&cfg.S3Region, fc.S3Region)
	setString(&cfg.S3Bucket, fc.S3Bucket)
	setString(&cfg.S3AccessKey, fc.S3AccessKey)
	setString(&cfg.S3SecretKey, fc.S3SecretKey)
	setString(&cfg.BackupDir, fc.BackupDir)

	if fc.ProbeTimeout.Duration > 0 {
		cfg.ProbeTimeout = fc.ProbeTimeout.Duration
	}
	if fc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = fc.OnlineCheckInterval.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
