package util

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

func setDefaults() {
	viper.SetDefault("MAP_FILE", "./data/map.osm.pbf")
	viper.SetDefault("API_PORT", 6060)
	viper.SetDefault("API_TIMEOUT", "30s")
	viper.SetDefault("SEARCH_MAX_STEPS", 2_000_000)
	viper.SetDefault("REGION_PADDING_METERS", 1500.0)
	viper.SetDefault("STREAM_STEPS_PER_SECOND", 240.0)
	viper.SetDefault("STREAM_STEP_BURST", 16)
	viper.SetDefault("USE_RATE_LIMIT", false)
	viper.SetDefault("RATE_LIMIT_RPS", 10.0)
	viper.SetDefault("RATE_LIMIT_BURST", 20)
	viper.SetDefault("LOG_LEVEL", "info")
}

// ReadConfig. read config.yaml from configDir (./data/ when empty). every key can be overridden by env.
// a missing config file is not an error, defaults are used.
func ReadConfig(configDir string) error {
	if configDir == "" {
		configDir = "./data/"
	}
	setDefaults()
	viper.SetConfigName("config")
	viper.AddConfigPath(configDir)
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) {
		return fmt.Errorf("fatal error config file: %w", err)
	}
	return nil
}

type RoutingConfig struct {
	MapFile              string
	SearchMaxSteps       int
	RegionPaddingMeters  float64
	StreamStepsPerSecond float64
	StreamStepBurst      int
}

func LoadRoutingConfig() RoutingConfig {
	setDefaults()
	return RoutingConfig{
		MapFile:              viper.GetString("MAP_FILE"),
		SearchMaxSteps:       viper.GetInt("SEARCH_MAX_STEPS"),
		RegionPaddingMeters:  viper.GetFloat64("REGION_PADDING_METERS"),
		StreamStepsPerSecond: viper.GetFloat64("STREAM_STEPS_PER_SECOND"),
		StreamStepBurst:      viper.GetInt("STREAM_STEP_BURST"),
	}
}

type ServerConfig struct {
	Port           int
	Timeout        time.Duration
	UseRateLimit   bool
	RateLimitRPS   float64
	RateLimitBurst int
}

func LoadServerConfig() ServerConfig {
	setDefaults()
	return ServerConfig{
		Port:           viper.GetInt("API_PORT"),
		Timeout:        viper.GetDuration("API_TIMEOUT"),
		UseRateLimit:   viper.GetBool("USE_RATE_LIMIT"),
		RateLimitRPS:   viper.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst: viper.GetInt("RATE_LIMIT_BURST"),
	}
}
