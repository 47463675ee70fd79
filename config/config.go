package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"goboard/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig   `json:"server"`
	Static   StaticConfig   `json:"static"`
	CORS     CORSConfig     `json:"cors"`
	Storage  StorageConfig  `json:"storage"`
	Postgres PostgresConfig `json:"postgres"`
	SQLite   SQLiteConfig   `json:"sqlite"`
	Redis    RedisConfig    `json:"redis"`
}

type ServerConfig struct {
	Host         string `json:"host"`
	Port         string `json:"port"`
	ReadTimeout  string `json:"read_timeout"`
	WriteTimeout string `json:"write_timeout"`
	IdleTimeout  string `json:"idle_timeout"`

	// Private fields to store parsed durations
	readTimeoutDuration  time.Duration
	writeTimeoutDuration time.Duration
	idleTimeoutDuration  time.Duration
}

type StaticConfig struct {
	Port string `json:"port"`
	Dir  string `json:"dir"`
}

type CORSConfig struct {
	AllowedOrigins []string `json:"allowed_origins"`
}

type StorageConfig struct {
	Driver string `json:"driver"` // memory, sqlite, postgres
	Seed   bool   `json:"seed"`
}

type PostgresConfig struct {
	Host            string `json:"host"`
	Port            int    `json:"port"`
	User            string `json:"user"`
	Password        string `json:"password"`
	DBName          string `json:"DBName"`
	MaxConnections  int    `json:"max_connections"`
	MinConnections  int    `json:"min_connections"`
	MaxConnLifetime string `json:"max_conn_lifetime"`
	MaxConnIdleTime string `json:"max_conn_idle_time"`

	maxConnLifetimeDuration time.Duration
	maxConnIdleTimeDuration time.Duration
}

type SQLiteConfig struct {
	Path string `json:"path"`
}

type RedisConfig struct {
	Enabled        bool   `json:"enabled"`
	Host           string `json:"host"`
	Port           string `json:"port"`
	Password       string `json:"password"`
	DB             int    `json:"db"`
	ConnectTimeout string `json:"connect_timeout"`
	FlushInterval  string `json:"flush_interval"`

	connectTimeoutDuration time.Duration
	flushIntervalDuration  time.Duration
}

// GetConfig loads configuration and handles errors internally
func GetConfig() *Config {
	log := logger.GetLogger()

	// Optional .env next to the binary; missing file is fine.
	_ = godotenv.Load()

	workDir, err := os.Getwd()
	if err != nil {
		log.Error("Failed to get working directory", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	configPath := filepath.Join(workDir, "config", "config.json")

	var config Config
	if _, err := os.Stat(configPath); err == nil {
		configFile, err := os.ReadFile(configPath)
		if err != nil {
			log.Error("Failed to read config file", map[string]interface{}{
				"error": err.Error(),
				"path":  configPath,
			})
			os.Exit(1)
		}
		if err := json.Unmarshal(configFile, &config); err != nil {
			log.Error("Failed to parse config file", map[string]interface{}{
				"error": err.Error(),
				"path":  configPath,
			})
			os.Exit(1)
		}
		log.Info("Loaded configuration", map[string]interface{}{
			"path": configPath,
		})
	} else {
		log.Info("No config file found, using defaults", map[string]interface{}{
			"path": configPath,
		})
	}

	config.applyDefaults()
	config.applyEnvOverrides()

	if err := config.parseDurations(); err != nil {
		log.Error("Invalid configuration", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	return &config
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == "" {
		c.Server.Port = "8000"
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = "15s"
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = "15s"
	}
	if c.Server.IdleTimeout == "" {
		c.Server.IdleTimeout = "60s"
	}
	if c.Static.Port == "" {
		c.Static.Port = "8001"
	}
	if c.Static.Dir == "" {
		c.Static.Dir = "."
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		// The HTML frontend is served from port 8001. A server restart
		// is required after changing this list.
		c.CORS.AllowedOrigins = []string{
			"http://127.0.0.1:8001",
			"http://localhost:8001",
		}
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
		c.Storage.Seed = true
	}
	if c.SQLite.Path == "" {
		c.SQLite.Path = "./data/board.db"
	}
	if c.Postgres.MaxConnections == 0 {
		c.Postgres.MaxConnections = 10
	}
	if c.Postgres.MinConnections == 0 {
		c.Postgres.MinConnections = 2
	}
	if c.Postgres.MaxConnLifetime == "" {
		c.Postgres.MaxConnLifetime = "1h"
	}
	if c.Postgres.MaxConnIdleTime == "" {
		c.Postgres.MaxConnIdleTime = "30m"
	}
	if c.Redis.Host == "" {
		c.Redis.Host = "localhost"
	}
	if c.Redis.Port == "" {
		c.Redis.Port = "6379"
	}
	if c.Redis.ConnectTimeout == "" {
		c.Redis.ConnectTimeout = "5s"
	}
	if c.Redis.FlushInterval == "" {
		c.Redis.FlushInterval = "5s"
	}
}

// applyEnvOverrides lets BOARD_* environment variables override the file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("BOARD_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("BOARD_PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("BOARD_STATIC_PORT"); v != "" {
		c.Static.Port = v
	}
	if v := os.Getenv("BOARD_STATIC_DIR"); v != "" {
		c.Static.Dir = v
	}
	if v := os.Getenv("BOARD_STORAGE_DRIVER"); v != "" {
		c.Storage.Driver = v
	}
	if v := os.Getenv("BOARD_SEED"); v != "" {
		c.Storage.Seed = v == "true" || v == "1"
	}
	if v := os.Getenv("BOARD_CORS_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		c.CORS.AllowedOrigins = origins
	}
	if v := os.Getenv("BOARD_SQLITE_PATH"); v != "" {
		c.SQLite.Path = v
	}
	if v := os.Getenv("BOARD_PG_HOST"); v != "" {
		c.Postgres.Host = v
	}
	if v := os.Getenv("BOARD_PG_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Postgres.Port = p
		}
	}
	if v := os.Getenv("BOARD_PG_USER"); v != "" {
		c.Postgres.User = v
	}
	if v := os.Getenv("BOARD_PG_PASSWORD"); v != "" {
		c.Postgres.Password = v
	}
	if v := os.Getenv("BOARD_PG_DBNAME"); v != "" {
		c.Postgres.DBName = v
	}
	if v := os.Getenv("BOARD_REDIS_ENABLED"); v != "" {
		c.Redis.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("BOARD_REDIS_HOST"); v != "" {
		c.Redis.Host = v
	}
	if v := os.Getenv("BOARD_REDIS_PORT"); v != "" {
		c.Redis.Port = v
	}
	if v := os.Getenv("BOARD_REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
}

func (c *Config) parseDurations() error {
	if err := c.Server.ToDuration(); err != nil {
		return err
	}
	if err := c.Postgres.ToDuration(); err != nil {
		return err
	}
	return c.Redis.ToDuration()
}

// ToDuration converts the string values to time.Duration after unmarshaling
func (s *ServerConfig) ToDuration() error {
	var err error
	s.readTimeoutDuration, err = time.ParseDuration(s.ReadTimeout)
	if err != nil {
		return fmt.Errorf("invalid read_timeout duration: %w", err)
	}
	s.writeTimeoutDuration, err = time.ParseDuration(s.WriteTimeout)
	if err != nil {
		return fmt.Errorf("invalid write_timeout duration: %w", err)
	}
	s.idleTimeoutDuration, err = time.ParseDuration(s.IdleTimeout)
	if err != nil {
		return fmt.Errorf("invalid idle_timeout duration: %w", err)
	}
	return nil
}

func (s *ServerConfig) GetReadTimeout() time.Duration  { return s.readTimeoutDuration }
func (s *ServerConfig) GetWriteTimeout() time.Duration { return s.writeTimeoutDuration }
func (s *ServerConfig) GetIdleTimeout() time.Duration  { return s.idleTimeoutDuration }

func (p *PostgresConfig) ToDuration() error {
	var err error
	p.maxConnLifetimeDuration, err = time.ParseDuration(p.MaxConnLifetime)
	if err != nil {
		return fmt.Errorf("invalid max_conn_lifetime duration: %w", err)
	}
	p.maxConnIdleTimeDuration, err = time.ParseDuration(p.MaxConnIdleTime)
	if err != nil {
		return fmt.Errorf("invalid max_conn_idle_time duration: %w", err)
	}
	return nil
}

func (p *PostgresConfig) GetMaxConnLifetime() time.Duration { return p.maxConnLifetimeDuration }
func (p *PostgresConfig) GetMaxConnIdleTime() time.Duration { return p.maxConnIdleTimeDuration }

func (r *RedisConfig) ToDuration() error {
	var err error
	r.connectTimeoutDuration, err = time.ParseDuration(r.ConnectTimeout)
	if err != nil {
		return fmt.Errorf("invalid connect_timeout duration: %w", err)
	}
	r.flushIntervalDuration, err = time.ParseDuration(r.FlushInterval)
	if err != nil {
		return fmt.Errorf("invalid flush_interval duration: %w", err)
	}
	return nil
}

func (r *RedisConfig) GetConnectTimeout() time.Duration { return r.connectTimeoutDuration }
func (r *RedisConfig) GetFlushInterval() time.Duration  { return r.flushIntervalDuration }
