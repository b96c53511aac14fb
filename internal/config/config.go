package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Uniswap V3 factory on mainnet and its pool init code hash.
	DefaultFactory      = "0x1F98431c8aD98523631AE4a59f267346ea31F984"
	DefaultInitCodeHash = "0xe34f199b19b2b4f47f68442619d555527d244f78a3297ea89325f843f87b8b54"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	Snapshot         string
	Events           string
	MaxHops          int
	MaxResults       int
	SlippageBps      int64
	WindowSize       int
	SnapshotInterval int
	Strict           bool
	Concurrency      int
	Factory          string
	InitCodeHash     string
	LogLevel         string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("QUOTER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("snapshot", "./data/snapshot.json")
	v.SetDefault("events", "./data/events.json")
	v.SetDefault("max-hops", 3)
	v.SetDefault("max-results", 3)
	v.SetDefault("slippage-bps", 50)
	v.SetDefault("window-size", 24)
	v.SetDefault("snapshot-interval", 3600)
	v.SetDefault("concurrency", 4)
	v.SetDefault("factory", DefaultFactory)
	v.SetDefault("init-code-hash", DefaultInitCodeHash)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		Snapshot:         v.GetString("snapshot"),
		Events:           v.GetString("events"),
		MaxHops:          v.GetInt("max-hops"),
		MaxResults:       v.GetInt("max-results"),
		SlippageBps:      v.GetInt64("slippage-bps"),
		WindowSize:       v.GetInt("window-size"),
		SnapshotInterval: v.GetInt("snapshot-interval"),
		Strict:           v.GetBool("strict"),
		Concurrency:      v.GetInt("concurrency"),
		Factory:          v.GetString("factory"),
		InitCodeHash:     v.GetString("init-code-hash"),
		LogLevel:         v.GetString("log-level"),
	}
	if cfg.SlippageBps < 0 || cfg.SlippageBps > 10000 {
		return Config{}, fmt.Errorf("slippage-bps %d out of range [0, 10000]", cfg.SlippageBps)
	}
	if cfg.Concurrency <= 0 {
		return Config{}, fmt.Errorf("concurrency must be positive")
	}
	return cfg, nil
}
