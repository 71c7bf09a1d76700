// Package conf provides configuration management using Viper.
// It supports loading configuration from YAML files and environment variables,
// with CLI flag overrides.
package conf

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"google.golang.org/protobuf/types/known/durationpb"
)

// Rate-limit store backends.
const (
	RateLimitStoreMemory = "memory"
	RateLimitStoreRedis  = "redis"
)

// defaultModelVersion is the pinned danielgatis/rembg release.
const defaultModelVersion = "danielgatis/rembg:adf11c7e5806af2b9f29d91caecff33a45e1602691f2667604546a8ab7144220"

// Bootstrap is the root configuration structure.
type Bootstrap struct {
	Server    *Server
	Provider  *Provider
	RateLimit *RateLimit
	Data      *Data
	Log       *Log
}

// Server holds transport configuration.
type Server struct {
	Http *Server_HTTP
}

// Server_HTTP configures the HTTP listener.
type Server_HTTP struct {
	Network string
	Addr    string
	Timeout *durationpb.Duration
}

// Provider configures the external inference provider (Replicate).
type Provider struct {
	BaseUrl        string
	Token          string
	ModelVersion   string
	ProxyUrl       string
	PollInterval   *durationpb.Duration
	PollBudget     *durationpb.Duration
	RequestTimeout *durationpb.Duration
}

// RateLimit configures per-client request limiting.
type RateLimit struct {
	Store             string
	Window            *durationpb.Duration
	MaxRequests       int32
	MaxClients        int32
	TrustProxyHeaders bool
}

// Data holds data source configuration. Both MySQL (audit trail) and Redis
// (shared rate-limit store) are optional.
type Data struct {
	Database *Data_Database
	Redis    *Data_Redis
}

// Data_Database configures the optional audit database.
type Data_Database struct {
	Driver string
	Source string
}

// Data_Redis configures the optional Redis connection.
type Data_Redis struct {
	Network      string
	Addr         string
	ReadTimeout  *durationpb.Duration
	WriteTimeout *durationpb.Duration
}

// Log configures the Zap logger.
type Log struct {
	Level      string
	Format     string
	Env        string
	OutputFile string
}

// NewBootstrap creates and initializes a Bootstrap configuration.
// It loads configuration from the specified config file path, applies
// defaults, and allows overrides from environment variables prefixed with
// CLEARCUT_.
//
// Configuration priority: CLI flags > Environment variables > Config file > Defaults
//
// Required environment variables:
//   - REPLICATE_API_TOKEN or CLEARCUT_PROVIDER_TOKEN: provider bearer credential
//
// Optional environment variables:
//   - MYSQL_DSN or CLEARCUT_DATA_DATABASE_SOURCE: audit database DSN
//   - CLEARCUT_DATA_REDIS_ADDR: Redis address for the shared rate-limit store
func NewBootstrap(configPath string) (*Bootstrap, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Enable environment variable support with CLEARCUT_ prefix
	v.SetEnvPrefix("CLEARCUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Allow direct environment variable names (without CLEARCUT_ prefix)
	// for the secrets operators usually export as-is
	_ = v.BindEnv("provider.token", "REPLICATE_API_TOKEN", "CLEARCUT_PROVIDER_TOKEN")
	_ = v.BindEnv("data.database.source", "MYSQL_DSN", "CLEARCUT_DATA_DATABASE_SOURCE")
	_ = v.BindEnv("data.redis.addr", "CLEARCUT_DATA_REDIS_ADDR")

	// Load configuration file
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	bc := &Bootstrap{
		Server: &Server{
			Http: &Server_HTTP{
				Network: v.GetString("server.http.network"),
				Addr:    v.GetString("server.http.addr"),
				Timeout: durationpb.New(v.GetDuration("server.http.timeout")),
			},
		},
		Provider: &Provider{
			BaseUrl:        v.GetString("provider.base_url"),
			Token:          v.GetString("provider.token"),
			ModelVersion:   v.GetString("provider.model_version"),
			ProxyUrl:       v.GetString("provider.proxy_url"),
			PollInterval:   durationpb.New(v.GetDuration("provider.poll_interval")),
			PollBudget:     durationpb.New(v.GetDuration("provider.poll_budget")),
			RequestTimeout: durationpb.New(v.GetDuration("provider.request_timeout")),
		},
		RateLimit: &RateLimit{
			Store:             v.GetString("ratelimit.store"),
			Window:            durationpb.New(v.GetDuration("ratelimit.window")),
			MaxRequests:       v.GetInt32("ratelimit.max_requests"),
			MaxClients:        v.GetInt32("ratelimit.max_clients"),
			TrustProxyHeaders: v.GetBool("ratelimit.trust_proxy_headers"),
		},
		Data: &Data{
			Database: &Data_Database{
				Driver: v.GetString("data.database.driver"),
				Source: v.GetString("data.database.source"),
			},
			Redis: &Data_Redis{
				Network:      v.GetString("data.redis.network"),
				Addr:         v.GetString("data.redis.addr"),
				ReadTimeout:  durationpb.New(v.GetDuration("data.redis.read_timeout")),
				WriteTimeout: durationpb.New(v.GetDuration("data.redis.write_timeout")),
			},
		},
		Log: &Log{
			Level:      v.GetString("log.level"),
			Format:     v.GetString("log.format"),
			Env:        v.GetString("log.env"),
			OutputFile: v.GetString("log.output_file"),
		},
	}

	if err := Validate(bc); err != nil {
		return nil, err
	}

	return bc, nil
}

// setDefaults sets default configuration values. The rate-limit and provider
// timing defaults are external contract values; changing them changes
// observable behavior.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.http.network", "tcp")
	v.SetDefault("server.http.addr", ":8080")
	v.SetDefault("server.http.timeout", 30*time.Second)

	// Provider defaults
	v.SetDefault("provider.base_url", "https://api.replicate.com/v1")
	v.SetDefault("provider.model_version", defaultModelVersion)
	v.SetDefault("provider.poll_interval", 1*time.Second)
	v.SetDefault("provider.poll_budget", 20*time.Second)
	v.SetDefault("provider.request_timeout", 15*time.Second)
	// Note: provider.token (REPLICATE_API_TOKEN) is required from environment

	// Rate-limit defaults: 10 requests per 60-second fixed window
	v.SetDefault("ratelimit.store", RateLimitStoreMemory)
	v.SetDefault("ratelimit.window", 60*time.Second)
	v.SetDefault("ratelimit.max_requests", 10)
	v.SetDefault("ratelimit.max_clients", 4096)
	v.SetDefault("ratelimit.trust_proxy_headers", true)

	// Data defaults; both stores are optional
	v.SetDefault("data.database.driver", "mysql")
	v.SetDefault("data.redis.network", "tcp")
	v.SetDefault("data.redis.read_timeout", 200*time.Millisecond)
	v.SetDefault("data.redis.write_timeout", 200*time.Millisecond)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Validate checks that all required configuration fields are present and
// valid. It returns an error listing all missing or inconsistent fields.
func Validate(bc *Bootstrap) error {
	var missingFields []string

	if bc.Provider == nil || bc.Provider.Token == "" {
		missingFields = append(missingFields, "provider.token (REPLICATE_API_TOKEN)")
	}

	if bc.RateLimit != nil {
		switch bc.RateLimit.Store {
		case RateLimitStoreMemory:
			// nothing to check
		case RateLimitStoreRedis:
			if bc.Data == nil || bc.Data.Redis == nil || bc.Data.Redis.Addr == "" {
				missingFields = append(missingFields, "data.redis.addr (CLEARCUT_DATA_REDIS_ADDR, required for ratelimit.store=redis)")
			}
		default:
			return fmt.Errorf("invalid ratelimit.store %q: must be %q or %q",
				bc.RateLimit.Store, RateLimitStoreMemory, RateLimitStoreRedis)
		}
	}

	if len(missingFields) > 0 {
		return fmt.Errorf("missing required configuration fields: %s", strings.Join(missingFields, ", "))
	}

	return nil
}
