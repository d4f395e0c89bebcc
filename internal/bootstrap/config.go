package bootstrap

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"

	"othello_ai/internal/usecase/search"
)

type Config struct {
	ServerPort        string `mapstructure:"SERVER_PORT"`
	GrpcPort          string `mapstructure:"GRPC_PORT"`
	EngineGrpcAddr    string `mapstructure:"ENGINE_GRPC_ADDR"`
	RedisUrl          string `mapstructure:"REDIS_URL"`
	MongoUri          string `mapstructure:"MONGO_URI"`
	MongoDatabase     string `mapstructure:"MONGO_DATABASE"`
	IsLocalCors       bool   `mapstructure:"LOCAL_CORS"`
	TimeLimitMs       int    `mapstructure:"TIME_LIMIT_MS"`
	SafetyMarginMs    int    `mapstructure:"SAFETY_MARGIN_MS"`
	StartDepth        int    `mapstructure:"START_DEPTH"`
	MaxDepth          int    `mapstructure:"MAX_DEPTH"`
	SessionTTLMinutes int    `mapstructure:"SESSION_TTL_MINUTES"`
	ProgramName       string `mapstructure:"PROGRAM_NAME"`
	RefereeDir        string `mapstructure:"REFEREE_DIR"`
	SelfplayRounds    int    `mapstructure:"SELFPLAY_ROUNDS"`
	SelfplayWorkers   int    `mapstructure:"SELFPLAY_WORKERS"`
	LogDevelopment    bool   `mapstructure:"LOG_DEVELOPMENT"`
}

var defaults = map[string]any{
	"SERVER_PORT":         ":8080",
	"GRPC_PORT":           ":8082",
	"ENGINE_GRPC_ADDR":    "",
	"REDIS_URL":           "localhost:6379",
	"MONGO_URI":           "mongodb://localhost:27017",
	"MONGO_DATABASE":      "othello",
	"LOCAL_CORS":          false,
	"TIME_LIMIT_MS":       1000,
	"SAFETY_MARGIN_MS":    150,
	"START_DEPTH":         5,
	"MAX_DEPTH":           0,
	"SESSION_TTL_MINUTES": 60,
	"PROGRAM_NAME":        "othello_ai",
	"REFEREE_DIR":         ".",
	"SELFPLAY_ROUNDS":     1,
	"SELFPLAY_WORKERS":    4,
	"LOG_DEVELOPMENT":     false,
}

// Setup reads cfgPath and overlays the environment. A missing file leaves
// the defaults and the environment in charge.
func Setup(cfgPath string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetConfigFile(cfgPath)
	v.SetConfigType("env")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) SearchOptions() search.Options {
	return search.Options{
		StartDepth:   c.StartDepth,
		SafetyMargin: time.Duration(c.SafetyMarginMs) * time.Millisecond,
		MaxDepth:     c.MaxDepth,
	}
}

// TimeBudget is the wall-clock allowance for one move, margin included.
func (c *Config) TimeBudget() time.Duration {
	return time.Duration(c.TimeLimitMs) * time.Millisecond
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}
