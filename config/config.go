package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageMongo = "mongo"
	StorageLocal = "local"
)

type Config struct {
	Env           string        `mapstructure:"env"`
	Port          int           `mapstructure:"port"`
	Storage       string        `mapstructure:"storage"`
	LocalDBPath   string        `mapstructure:"local_db_path"`
	MongoDatabase string        `mapstructure:"mongodb_database"`
	MongoURI      string        `mapstructure:"mongodb_connstring"`
	Sign          string        `mapstructure:"sign"`
	TokenTTL      time.Duration `mapstructure:"token_ttl"`
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Load reads the configuration from defaults, an optional config/.env.<env>
// file and the process environment, in increasing priority. ENV selects the
// environment and defaults to dev.
func Load() (Config, error) {
	env := strings.ToLower(os.Getenv("ENV"))
	if env == "" {
		env = "dev"
	}

	dotEnvPath := filepath.Join("config", ".env."+env)
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return Config{}, fmt.Errorf("loading %s: %w", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("checking %s: %w", dotEnvPath, err)
	}

	v := newViper()
	v.Set("env", env)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config to struct: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("port", 80)
	v.SetDefault("storage", StorageMongo)
	v.SetDefault("local_db_path", "./database/conferences.json")
	v.SetDefault("mongodb_database", "conference-service")
	v.SetDefault("mongodb_connstring", "")
	v.SetDefault("sign", "")
	v.SetDefault("token_ttl", 8*time.Hour)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func (c Config) validate() error {
	switch c.Storage {
	case StorageMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGODB_CONNSTRING is required for %s storage", StorageMongo)
		}
	case StorageLocal:
	default:
		return fmt.Errorf("unknown storage %q", c.Storage)
	}
	if c.Sign == "" {
		return fmt.Errorf("SIGN is required to issue tokens")
	}
	return nil
}

func GetSecret(key string) (string, error) {
	val, exist := os.LookupEnv(key)
	if exist {
		return val, nil
	}
	return "", fmt.Errorf("no env variable with key %v", key)
}
