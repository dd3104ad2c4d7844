package config

import (
	"errors"
	"log/slog"

	"github.com/spf13/viper"
)

type Config struct {
	Firebase   Firebase
	Chat       Chat
	LoggerMode LoggerMode
}

type Firebase struct {
	ProjectID       string
	StorageBucket   string
	CredentialsFile string
}

type Chat struct {
	// Seconds a revealed view-once attachment stays visible.
	DwellSeconds int
	// Seconds before the coarse send-progress indicator resets to 0.
	ProgressResetSeconds int
	// Bytes per chunk when streaming uploads (progress granularity).
	UploadChunkBytes int
}

type LoggerMode struct {
	Development bool
	Prod        bool
	Level       string
}

func LoadConfig(filename string) (*viper.Viper, error) {
	v := viper.New()

	v.SetConfigName(filename)
	v.SetConfigType("yaml")
	v.AddConfigPath("config")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, errors.New("config file not found")
		}
		return nil, err
	}
	return v, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config
	err := v.Unmarshal(&c)
	if err != nil {
		slog.Error("Unable to unmarshal config", "err", err)
		return nil, err
	}
	c.applyDefaults()
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Chat.DwellSeconds <= 0 {
		c.Chat.DwellSeconds = 1
	}
	if c.Chat.ProgressResetSeconds <= 0 {
		c.Chat.ProgressResetSeconds = 1
	}
	if c.Chat.UploadChunkBytes <= 0 {
		c.Chat.UploadChunkBytes = 256 * 1024
	}
}
