// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Posters   PosterConfig
	RateLimit RateLimitConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
	// DataPath holds the token key, the sqlite database and the default poster directory.
	DataPath string
}

// IsProduction reports whether the server runs in production mode.
func (a AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
	// File is an optional path that receives a copy of every log line.
	File string
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port         string        // Server port (default: 3001)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 30s)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
	TLSCertFile  string        // Optional; TLS is enabled when both files are set
	TLSKeyFile   string
	CORSOrigins  []string
}

// TLSEnabled reports whether both certificate files are configured.
func (s ServerConfig) TLSEnabled() bool {
	return s.TLSCertFile != "" && s.TLSKeyFile != ""
}

// DatabaseConfig holds SQL store configuration.
type DatabaseConfig struct {
	Driver          string // sqlite, mysql or postgres
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Fixed API limits. Clients rely on a 24h token lifetime and a 5 MiB poster cap.
const (
	TokenLifetime  = 24 * time.Hour
	MaxPosterBytes = 5 << 20
)

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	TokenFormat   string // paseto or jwt
	JWTSecret     string
	TokenDuration time.Duration // always TokenLifetime
	Issuer        string
}

// PosterConfig holds poster blob storage configuration.
type PosterConfig struct {
	Backend       string // fs, badger or redis
	Path          string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	MaxBytes      int64 // at most MaxPosterBytes
	// MissingStatus is the HTTP status returned when a poster does not exist.
	MissingStatus int
}

// RateLimitConfig holds limits for the /user routes.
type RateLimitConfig struct {
	PerMinute int
	Burst     int
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	return loadFromArgs(flag.CommandLine, os.Args[1:])
}

func loadFromArgs(fs *flag.FlagSet, args []string) (*Config, error) {
	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	logFile := fs.String("log-file", "", "Append log output to this file")
	dataPath := fs.String("data-path", "", "Base path for keys, database and posters")

	serverPort := fs.String("port", "", "Server port (default: 3001)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 30s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	tlsCert := fs.String("tls-cert", "", "TLS certificate file")
	tlsKey := fs.String("tls-key", "", "TLS private key file")
	corsOrigins := fs.String("cors-origins", "", "Comma-separated allowed CORS origins (default: *)")

	dbDriver := fs.String("db-driver", "", "Database driver: sqlite, mysql, postgres (default: sqlite)")
	dbDSN := fs.String("db-dsn", "", "Database DSN (default: {data}/cinevault.db for sqlite)")

	tokenFormat := fs.String("token-format", "", "Bearer token format: paseto or jwt (default: paseto)")

	posterBackend := fs.String("poster-backend", "", "Poster storage: fs, badger, redis (default: fs)")
	posterPath := fs.String("poster-path", "", "Poster storage directory")
	redisAddr := fs.String("redis-addr", "", "Redis address for the redis poster backend")

	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
			DataPath:    getConfigValue(*dataPath, "DATA_PATH", ""),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
			File:  getConfigValue(*logFile, "LOG_FILE", ""),
		},
		Server: ServerConfig{
			Port:        getConfigValue(*serverPort, "SERVER_PORT", "3001"),
			TLSCertFile: getConfigValue(*tlsCert, "TLS_CERT_FILE", ""),
			TLSKeyFile:  getConfigValue(*tlsKey, "TLS_KEY_FILE", ""),
			CORSOrigins: splitList(getConfigValue(*corsOrigins, "CORS_ORIGINS", "*")),
		},
		Database: DatabaseConfig{
			Driver:       strings.ToLower(getConfigValue(*dbDriver, "DB_DRIVER", "sqlite")),
			DSN:          getConfigValue(*dbDSN, "DB_DSN", ""),
			MaxOpenConns: getIntConfigValue("", "DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getIntConfigValue("", "DB_MAX_IDLE_CONNS", 5),
		},
		Auth: AuthConfig{
			TokenFormat:   strings.ToLower(getConfigValue(*tokenFormat, "TOKEN_FORMAT", "paseto")),
			JWTSecret:     getConfigValue("", "JWT_SECRET", ""),
			TokenDuration: TokenLifetime,
			Issuer:        getConfigValue("", "TOKEN_ISSUER", "cinevault"),
		},
		Posters: PosterConfig{
			Backend:       strings.ToLower(getConfigValue(*posterBackend, "POSTER_BACKEND", "fs")),
			Path:          getConfigValue(*posterPath, "POSTER_PATH", ""),
			RedisAddr:     getConfigValue(*redisAddr, "REDIS_ADDR", "localhost:6379"),
			RedisPassword: getConfigValue("", "REDIS_PASSWORD", ""),
			RedisDB:       getIntConfigValue("", "REDIS_DB", 0),
			MaxBytes:      int64(getIntConfigValue("", "POSTER_MAX_BYTES", MaxPosterBytes)),
			MissingStatus: getIntConfigValue("", "POSTER_MISSING_STATUS", 500),
		},
		RateLimit: RateLimitConfig{
			PerMinute: getIntConfigValue("", "AUTH_RATE_PER_MINUTE", 20),
			Burst:     getIntConfigValue("", "AUTH_RATE_BURST", 5),
		},
	}

	var err error
	if cfg.Server.ReadTimeout, err = getDurationConfigValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.WriteTimeout, err = getDurationConfigValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "30s"); err != nil {
		return nil, err
	}
	if cfg.Server.IdleTimeout, err = getDurationConfigValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"); err != nil {
		return nil, err
	}
	if cfg.Database.ConnMaxLifetime, err = getDurationConfigValue("", "DB_CONN_MAX_LIFETIME", "5m"); err != nil {
		return nil, err
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %q (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.App.DataPath == "" {
		return errors.New("data path cannot be empty after expansion")
	}

	if c.Server.Port == "" {
		return errors.New("SERVER_PORT is required")
	}
	if (c.Server.TLSCertFile == "") != (c.Server.TLSKeyFile == "") {
		return errors.New("TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}

	switch c.Database.Driver {
	case "sqlite":
	case "mysql", "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("DB_DSN is required for driver %s", c.Database.Driver)
		}
	default:
		return fmt.Errorf("invalid database driver: %s (must be sqlite, mysql, or postgres)", c.Database.Driver)
	}

	switch c.Auth.TokenFormat {
	case "paseto":
	case "jwt":
		if len(c.Auth.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 bytes when TOKEN_FORMAT=jwt")
		}
	default:
		return fmt.Errorf("invalid token format: %s (must be paseto or jwt)", c.Auth.TokenFormat)
	}
	if c.Auth.TokenDuration != TokenLifetime {
		return fmt.Errorf("token duration must be %s", TokenLifetime)
	}

	switch c.Posters.Backend {
	case "fs", "badger":
		if c.Posters.Path == "" {
			return errors.New("poster path cannot be empty after expansion")
		}
	case "redis":
		if c.Posters.RedisAddr == "" {
			return errors.New("REDIS_ADDR is required for the redis poster backend")
		}
	default:
		return fmt.Errorf("invalid poster backend: %s (must be fs, badger, or redis)", c.Posters.Backend)
	}
	if c.Posters.MaxBytes <= 0 || c.Posters.MaxBytes > MaxPosterBytes {
		return fmt.Errorf("POSTER_MAX_BYTES must be between 1 and %d", MaxPosterBytes)
	}
	if c.Posters.MissingStatus != 404 && c.Posters.MissingStatus != 500 {
		return fmt.Errorf("invalid POSTER_MISSING_STATUS: %d (must be 404 or 500)", c.Posters.MissingStatus)
	}

	if c.RateLimit.PerMinute <= 0 || c.RateLimit.Burst <= 0 {
		return errors.New("AUTH_RATE_PER_MINUTE and AUTH_RATE_BURST must be positive")
	}

	return nil
}

// expandPaths resolves the data directory and the paths derived from it.
func (c *Config) expandPaths() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	dataPath, err := expandPath(c.App.DataPath, filepath.Join(homeDir, "CineVault"))
	if err != nil {
		return err
	}
	c.App.DataPath = dataPath

	defaultPosters := filepath.Join(dataPath, "posters")
	if c.Posters.Backend == "badger" {
		defaultPosters = filepath.Join(dataPath, "posters.badger")
	}
	if c.Posters.Path, err = expandPath(c.Posters.Path, defaultPosters); err != nil {
		return err
	}

	if c.Database.Driver == "sqlite" && c.Database.DSN == "" {
		c.Database.DSN = filepath.Join(dataPath, "cinevault.db")
	}

	if c.Logger.File != "" {
		if c.Logger.File, err = expandPath(c.Logger.File, ""); err != nil {
			return err
		}
	}
	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// getDurationConfigValue parses a duration from flag, env var, or default.
func getDurationConfigValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	strValue := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(strValue)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, strValue, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		// Real environment variables take precedence over the file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
