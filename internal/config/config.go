package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

type Config struct {
	LogLevel string  `yaml:"log-level" env-default:"info"`
	HTTPPort string  `yaml:"http-port" env-default:"9090"`
	Storage  string  `yaml:"storage" env-default:"memory"`
	Console  bool    `yaml:"console" env-default:"false"`
	Redis    Redis   `yaml:"redis"`
	Players  Players `yaml:"players"`
}

type Redis struct {
	Host string `yaml:"host" env-default:"localhost"`
	Port string `yaml:"port" env-default:"6379"`
}

type Players struct {
	NameA string `yaml:"name-a" env-default:"Player 1"`
	NameB string `yaml:"name-b" env-default:"Player 2"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
