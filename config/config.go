package config

import (
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	App    AppConfig    `mapstructure:"app"`
	Server ServerConfig `mapstructure:"server"`
	Game   GameConfig   `mapstructure:"game"`
	Limits LimitsConfig `mapstructure:"limits"`
}

type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

// GameConfig carries the board parameters every new room is created with.
// Clients never send positions or resources; they all originate here.
type GameConfig struct {
	StartCell                 int  `mapstructure:"start_cell"`
	FinalCell                 int  `mapstructure:"final_cell"`
	InitialPearls             int  `mapstructure:"initial_pearls"`
	InitialAmulets            int  `mapstructure:"initial_amulets"`
	JoinCodeLength            int  `mapstructure:"join_code_length"`
	FirstJoinerBecomesCurrent bool `mapstructure:"first_joiner_becomes_current"`
}

// LimitsConfig bounds inbound traffic per websocket connection.
type LimitsConfig struct {
	MessagesPerSecond float64 `mapstructure:"messages_per_second"`
	MessageBurst      int     `mapstructure:"message_burst"`
}

func Read() Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/app")

	// Defaults
	viper.SetDefault("app.name", "boardgame-service")
	viper.SetDefault("app.version", "0.1.0")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.host", "0.0.0.0")

	viper.SetDefault("game.start_cell", 1)
	viper.SetDefault("game.final_cell", 40)
	viper.SetDefault("game.initial_pearls", 0)
	viper.SetDefault("game.initial_amulets", 0)
	viper.SetDefault("game.join_code_length", 6)
	viper.SetDefault("game.first_joiner_becomes_current", false)

	viper.SetDefault("limits.messages_per_second", 20)
	viper.SetDefault("limits.message_burst", 40)

	// ENV overrides with prefix BOARDGAME_ and dot-to-underscore replacement
	viper.SetEnvPrefix("BOARDGAME")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		zap.L().Warn("Failed to read configuration file", zap.Error(err))
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		zap.L().Error("Configuration could not be parsed", zap.Error(err))
	}

	return config
}
