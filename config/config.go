// Ininicializing common application configuration
package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Kafka   KafkaConfig   `mapstructure:"kafka"`
	Render  RenderConfig  `mapstructure:"render"`
	Export  ExportConfig  `mapstructure:"export"`
}

type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	Timeout      time.Duration `mapstructure:"timeout"`
	Idle_timeout time.Duration `mapstructure:"idle_timeout"`
	Mode         string        `mapstructure:"mode"`
}

type StorageConfig struct {
	// Backend is "file" or "redis".
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

type RedisConfig struct {
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	PoolSize    int           `mapstructure:"pool_size"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	KeyPrefix   string        `mapstructure:"key_prefix"`
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	GroupID string   `mapstructure:"group_id"`
}

type RenderConfig struct {
	Template string `mapstructure:"template"`
}

type ExportConfig struct {
	Sidecars bool `mapstructure:"sidecars"`
	UseCache bool `mapstructure:"use_cache"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.timeout", 60*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.mode", "release")

	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.path", "./storage")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.key_prefix", "cardforge:")

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "card-render")
	v.SetDefault("kafka.group_id", "card-render-worker")

	v.SetDefault("render.template", "classic")

	v.SetDefault("export.sidecars", true)
	v.SetDefault("export.use_cache", true)
}

// LoadConfig reads config.yaml from paths, or from $CARDFORGE_CONFIG_DIR and the working
// directory, when present. Every key can be overridden from the
// environment, e.g. CARDFORGE_SERVER_PORT or CARDFORGE_KAFKA_ENABLED.
func LoadConfig(paths ...string) (*viper.Viper, error) {
	viperInstance := viper.New()
	setDefaults(viperInstance)

	if len(paths) == 0 {
		paths = []string{GetEnv("CARDFORGE_CONFIG_DIR", "./config"), "."}
	}
	for _, p := range paths {
		viperInstance.AddConfigPath(p)
	}
	viperInstance.SetConfigName("config")
	viperInstance.SetConfigType("yaml")

	viperInstance.SetEnvPrefix("CARDFORGE")
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperInstance.AutomaticEnv()

	if err := viperInstance.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}
	return viperInstance, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	if c.Storage.Backend != "file" && c.Storage.Backend != "redis" {
		return nil, errors.New("storage.backend must be file or redis")
	}
	return &c, nil
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
