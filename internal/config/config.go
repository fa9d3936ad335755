package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	RemoteFirestore = "firestore"
	RemoteRTDB      = "rtdb"

	CacheFile  = "file"
	CacheRedis = "redis"
)

const (
	DefaultHTTPAddr     = ":8080"
	DefaultCollection   = "sharedProfiles"
	DefaultPollInterval = 5 * time.Second
	DefaultRedisAddr    = "localhost:6379"
)

type Config struct {
	ProjectID           string       `yaml:"project_id"`
	LogLevel            string       `yaml:"log_level"`
	HTTPAddr            string       `yaml:"http_addr"`
	Remote              RemoteConfig `yaml:"remote"`
	Cache               CacheConfig  `yaml:"cache"`
	DefaultParticipants []string     `yaml:"default_participants"`
}

// RemoteConfig selects the shared document store holding the profiles.
type RemoteConfig struct {
	// Backend is one of: firestore | rtdb.
	Backend    string `yaml:"backend"`
	Collection string `yaml:"collection"`

	// DatabaseURL is the Realtime Database URL, required for rtdb.
	DatabaseURL string `yaml:"database_url"`

	// PollInterval is how often rtdb is checked for changes.
	PollInterval time.Duration `yaml:"poll_interval"`
}

// CacheConfig selects the per-device fallback cache.
type CacheConfig struct {
	// Backend is one of: file | redis.
	Backend string      `yaml:"backend"`
	Dir     string      `yaml:"dir"`
	Redis   RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	UseTLS   bool   `yaml:"use_tls"`
}

// New builds the configuration from defaults, the optional YAML file named
// by CONFIGFILE, and finally environment variables.
func New() (*Config, error) {
	return Load(os.Getenv("CONFIGFILE"))
}

// Load is New with an explicit file path; an empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		LogLevel: "info",
		HTTPAddr: DefaultHTTPAddr,
		Remote: RemoteConfig{
			Backend:      RemoteFirestore,
			Collection:   DefaultCollection,
			PollInterval: DefaultPollInterval,
		},
		Cache: CacheConfig{
			Backend: CacheFile,
			Dir:     defaultCacheDir(),
			Redis:   RedisConfig{Addr: DefaultRedisAddr},
		},
	}
}

func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".hisaab"
	}
	return filepath.Join(home, ".hisaab")
}

func applyEnv(cfg *Config) error {
	setString(&cfg.ProjectID, "PROJECTID")
	setString(&cfg.LogLevel, "LOGLEVEL")
	setString(&cfg.HTTPAddr, "HTTPADDR")
	setString(&cfg.Remote.Backend, "REMOTEBACKEND")
	setString(&cfg.Remote.Collection, "PROFILESCOLLECTION")
	setString(&cfg.Remote.DatabaseURL, "DATABASEURL")
	setString(&cfg.Cache.Backend, "CACHEBACKEND")
	setString(&cfg.Cache.Dir, "CACHEDIR")
	setString(&cfg.Cache.Redis.Addr, "REDISADDR")
	setString(&cfg.Cache.Redis.Password, "REDISPASSWORD")

	if v := os.Getenv("POLLINTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: POLLINTERVAL: %w", err)
		}
		cfg.Remote.PollInterval = d
	}
	if v := os.Getenv("REDISDB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: REDISDB: %w", err)
		}
		cfg.Cache.Redis.DB = db
	}
	if v := os.Getenv("REDISTLS"); v != "" {
		cfg.Cache.Redis.UseTLS = v == "true" || v == "1"
	}
	if v := os.Getenv("DEFAULTPARTICIPANTS"); v != "" {
		cfg.DefaultParticipants = splitList(v)
	}
	return nil
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func validate(cfg *Config) error {
	switch cfg.Remote.Backend {
	case RemoteFirestore:
	case RemoteRTDB:
		if cfg.Remote.DatabaseURL == "" {
			return fmt.Errorf("remote.database_url is required for backend %q", RemoteRTDB)
		}
	default:
		return fmt.Errorf("remote.backend %q: must be %q or %q", cfg.Remote.Backend, RemoteFirestore, RemoteRTDB)
	}
	if cfg.Remote.Collection == "" {
		return fmt.Errorf("remote.collection must not be empty")
	}
	if cfg.Remote.PollInterval <= 0 {
		return fmt.Errorf("remote.poll_interval must be positive, got %v", cfg.Remote.PollInterval)
	}

	switch cfg.Cache.Backend {
	case CacheFile:
		if cfg.Cache.Dir == "" {
			return fmt.Errorf("cache.dir must not be empty")
		}
	case CacheRedis:
		if cfg.Cache.Redis.Addr == "" {
			return fmt.Errorf("cache.redis.addr must not be empty")
		}
	default:
		return fmt.Errorf("cache.backend %q: must be %q or %q", cfg.Cache.Backend, CacheFile, CacheRedis)
	}
	return nil
}
