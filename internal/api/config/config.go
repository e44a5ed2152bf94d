package config

import (
	"errors"
	"fmt"
	log "log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从文件加载配置并填充到 Cfg，环境变量 (SUBFAPP_ 前缀) 覆盖同名配置
func LoadConfig() error {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, skipping")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.SetEnvPrefix("SUBFAPP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		log.Warn("config file not found, using defaults and environment")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	Cfg = &cfg

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.max_idle", 10)
	v.SetDefault("database.max_open", 50)
	v.SetDefault("database.max_lifetime", 30)
	v.SetDefault("redis.pool_size", 20)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.slow_sql", 200*time.Millisecond)
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("auth.trust_user_header", false)
	v.SetDefault("logstash.index", "logstash-subfapp")
	v.SetDefault("elastic.post_index", "posts")
	v.SetDefault("mongo.database", "subfapp")

	v.SetDefault("kafka.consumer.session_timeout", 10)
	v.SetDefault("kafka.consumer.heartbeat_interval", 3)
	v.SetDefault("kafka.consumer.rebalance_timeout", 60)
	v.SetDefault("kafka.consumer.max_processing_time", 5)

	v.SetDefault("ranking.engagement_window", 6*time.Hour)
	v.SetDefault("ranking.trending_cooldown", 24*time.Hour)
	v.SetDefault("ranking.min_recent_score", 3)
	v.SetDefault("ranking.min_recent_comments", 2)
	v.SetDefault("ranking.min_views_delta", 50)
	v.SetDefault("ranking.min_score_delta", 10)

	v.SetDefault("feed.default_page_size", 20)
	v.SetDefault("feed.max_page_size", 100)
	v.SetDefault("feed.cache_ttl", 15*time.Minute)
	v.SetDefault("feed.view_throttle", time.Hour)
	v.SetDefault("feed.site_url", "http://localhost:8080")
	v.SetDefault("feed.title", "Subfapp")

	v.SetDefault("jobs.rollover_spec", "@hourly")
	v.SetDefault("jobs.rollover_limit", 0)
	v.SetDefault("jobs.rollover_lock_ttl", 30*time.Minute)
	v.SetDefault("jobs.hot_refresh_spec", "@every 15m")
	v.SetDefault("jobs.hot_refresh_limit", 100)
}
