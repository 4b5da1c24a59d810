// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	dbPath         = pflag.String("db-path", "", "Overrides the SQLite database path")
	validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}
)

// DefaultExtensions is the extension allow-set used when the config
// doesn't specify one
var DefaultExtensions = []string{"png", "jpg", "jpeg", "gif"}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "app_log_level")

	v.BindEnv("host.port", "host_port")
	v.BindEnv("host.domain", "host_domain")

	v.BindEnv("db.path", "db_path")
	v.BindEnv("db.max_open", "db_max_open")
	v.BindEnv("db.max_idle", "db_max_idle")
	v.BindEnv("db.timeout_seconds", "db_timeout_seconds")

	v.BindEnv("session.secret", "session_secret")
	v.BindEnv("session.remember_days", "session_remember_days")

	v.BindEnv("upload.max_size", "upload_max_size")
	v.BindEnv("upload.allowed_extensions", "upload_allowed_extensions")

	v.BindEnv("vision.credentials_file", "google_application_credentials")
	v.BindEnv("vision.timeout_seconds", "vision_timeout_seconds")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.domain", "localhost")

	v.SetDefault("db.path", "database.db")
	v.SetDefault("db.max_open", 10)
	v.SetDefault("db.max_idle", 5)
	v.SetDefault("db.timeout_seconds", 5)

	v.SetDefault("session.remember_days", 30)

	v.SetDefault("upload.max_size", 16)
	v.SetDefault("upload.allowed_extensions", DefaultExtensions)

	v.SetDefault("vision.timeout_seconds", 15)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file, %w", err)
		}

		// Running off defaults and envs alone is fine
	}

	if *dbPath != "" {
		v.Set("db.path", *dbPath)
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if v.GetInt("upload.max_size") <= 0 {
		return errors.New("upload.max_size must be bigger than 0")
	}

	if v.GetInt("db.max_open") <= 0 {
		return errors.New("db.max_open must be bigger than 0")
	}

	if v.GetInt("db.timeout_seconds") <= 0 {
		return errors.New("db.timeout_seconds must be bigger than 0")
	}

	if v.GetInt("session.remember_days") <= 0 {
		return errors.New("session.remember_days must be bigger than 0")
	}

	if v.GetString("session.secret") == "" {
		return errors.New("session.secret is missing, set it in config.toml or the SESSION_SECRET environment variable")
	}

	// The zap globals aren't installed yet at this point, so plain
	// stdout it is
	if v.GetString("vision.credentials_file") == "" {
		fmt.Println("[WARNING]: No vision.credentials_file set, the Vision client will fall back to application default credentials")
	}

	if len(v.GetStringSlice("upload.allowed_extensions")) == 0 {
		return errors.New("upload.allowed_extensions can't be empty")
	}

	v.Set("upload.max_size", v.GetInt64("upload.max_size")<<20)
	return nil
}
