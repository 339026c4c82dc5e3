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
	validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}
	validDBDrivers = []string{"sqlite", "postgres"}
)

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that. Missing signing secrets or mail credentials are fatal
// here, never a per-request error.
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

	v.BindEnv("db.driver", "db_driver")
	v.BindEnv("db.path", "db_path")
	v.BindEnv("db.dsn", "db_dsn")

	v.BindEnv("jwt.secret", "jwt_secret")
	v.BindEnv("jwt.refresh_secret", "jwt_refresh_secret")

	v.BindEnv("mail.host", "mail_host")
	v.BindEnv("mail.port", "mail_port")
	v.BindEnv("mail.username", "mail_username")
	v.BindEnv("mail.password", "mail_password")
	v.BindEnv("mail.from", "mail_from")

	v.BindEnv("oauth.google.client_id", "oauth_google_client_id")
	v.BindEnv("oauth.facebook.app_id", "oauth_facebook_app_id")
	v.BindEnv("oauth.facebook.app_secret", "oauth_facebook_app_secret")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.path", "database.db")

	v.SetDefault("mail.port", 587)

	if err := v.ReadInConfig(); err != nil {
		// No config file is fine as long as the environment
		// provides everything required
		if _, ok := err.(v.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file, %w", err)
		}
	}

	return validate()
}

// validate checks that every required setting is present and sane. It
// runs once at boot, a missing secret can never surface as a
// per-request error
func validate() error {
	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if !slices.Contains(validDBDrivers, v.GetString("db.driver")) {
		return errors.New("invalid database driver provided")
	}

	if v.GetString("db.driver") == "postgres" && v.GetString("db.dsn") == "" {
		return errors.New("db.dsn can't be empty when using postgres")
	}

	if v.GetString("jwt.secret") == "" {
		return errors.New("no jwt secret provided")
	}

	if v.GetString("jwt.refresh_secret") == "" {
		return errors.New("no jwt refresh secret provided")
	}

	if v.GetString("jwt.secret") == v.GetString("jwt.refresh_secret") {
		return errors.New("jwt secret and refresh secret must differ")
	}

	if v.GetString("mail.host") == "" {
		return errors.New("no mail host provided")
	}

	if v.GetInt("mail.port") <= 0 {
		return errors.New("invalid mail port provided")
	}

	if v.GetString("mail.username") == "" {
		return errors.New("no mail username provided")
	}

	if v.GetString("mail.password") == "" {
		return errors.New("no mail password provided")
	}

	if v.GetString("mail.from") == "" {
		return errors.New("no mail sender address provided")
	}

	if v.GetString("oauth.google.client_id") == "" {
		return errors.New("no google client id provided")
	}

	if v.GetString("oauth.facebook.app_id") == "" {
		return errors.New("no facebook app id provided")
	}

	if v.GetString("oauth.facebook.app_secret") == "" {
		return errors.New("no facebook app secret provided")
	}

	return nil
}
