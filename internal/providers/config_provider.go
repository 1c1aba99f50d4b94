package providers

import (
	"fmt"
	"github.com/spf13/viper"
	"path/filepath"
	"rpd/internal/structures"
	"strings"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "RPD_LOG_LEVEL")
	viper.BindEnv("cache.enabled", "RPD_CACHE_ENABLED")
	viper.BindEnv("cache.size", "RPD_CACHE_SIZE")
	viper.BindEnv("archive.ttl", "RPD_ARCHIVE_TTL")
	viper.BindEnv("reddit.clientID", "REDDIT_CLIENT_ID")
	viper.BindEnv("reddit.clientSecret", "REDDIT_CLIENT_SECRET")
	viper.BindEnv("reddit.userAgent", "REDDIT_USER_AGENT")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "RedditPersonaDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
