package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Dictionary DictionaryConfig `mapstructure:"dictionary"`
	Game       GameConfig       `mapstructure:"game"`
}

type ServerConfig struct {
	HTTPAddress    string `mapstructure:"http_address"`
	RPCAddress     string `mapstructure:"rpc_address"`
	MetricsAddress string `mapstructure:"metrics_address"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

// DictionaryConfig points at the external Korean dictionary lookup service.
type DictionaryConfig struct {
	APIBaseURL     string `mapstructure:"api_base_url"`
	APIKey         string `mapstructure:"api_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type GameConfig struct {
	BotDelayMS         int    `mapstructure:"bot_delay_ms"`
	DefaultStartLetter string `mapstructure:"default_start_letter"`
	CandidateTag       string `mapstructure:"candidate_tag"`
	CandidateLimit     int    `mapstructure:"candidate_limit"`
}

// BotDelay returns the bot thinking delay as a duration.
func (g GameConfig) BotDelay() time.Duration {
	return time.Duration(g.BotDelayMS) * time.Millisecond
}

func (d DictionaryConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutSeconds) * time.Second
}

func LoadConfig(path string) (config *Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("game.bot_delay_ms", 1500)
	viper.SetDefault("game.default_start_letter", "가")
	viper.SetDefault("game.candidate_tag", "명")
	viper.SetDefault("game.candidate_limit", 20)
	viper.SetDefault("dictionary.timeout_seconds", 5)

	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
