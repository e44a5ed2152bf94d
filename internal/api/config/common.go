package config

import "time"

// Config 配置主体
type Config struct {
	Server               ServerConfig         `mapstructure:"server"`
	DB                   DBConfig             `mapstructure:"database"`
	Redis                RedisConfig          `mapstructure:"redis"`
	Log                  LogConfig            `mapstructure:"log"`
	Auth                 AuthConfig           `mapstructure:"auth"`
	Logstash             LogstashConfig       `mapstructure:"logstash"`
	Elastic              ElasticConfig        `mapstructure:"elastic"`
	Mongo                MongoConfig          `mapstructure:"mongo"`
	Kafka                KafkaConfig          `mapstructure:"kafka"`
	KafkaCommentConsumer KafkaCommentConsumer `mapstructure:"kafka_comment_consumer"`
	Ranking              RankingConfig        `mapstructure:"ranking"`
	Feed                 FeedConfig           `mapstructure:"feed"`
	Jobs                 JobsConfig           `mapstructure:"jobs"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// AuthConfig 浏览者身份解析配置
type AuthConfig struct {
	JWTSecret       string `mapstructure:"jwt_secret"`
	TrustUserHeader bool   `mapstructure:"trust_user_header"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type LogConfig struct {
	Level   string        `mapstructure:"level"`
	SlowSQL time.Duration `mapstructure:"slow_sql"`

	// File 非空时额外写入滚动日志文件
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

// ElasticConfig Elastic配置
type ElasticConfig struct {
	Enable    bool   `mapstructure:"enable"`
	Address   string `mapstructure:"address"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	PostIndex string `mapstructure:"post_index"`
}

type MongoConfig struct {
	Enable   bool   `mapstructure:"enable"`
	URL      string `mapstructure:"url"`
	Database string `mapstructure:"database"`
}

type KafkaConfig struct {
	Enable   bool           `mapstructure:"enable"`
	Brokers  []string       `mapstructure:"brokers"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

type KafkaCommentConsumer struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

// RankingConfig 排序与热度计算参数
type RankingConfig struct {
	EngagementWindow time.Duration `mapstructure:"engagement_window"`
	TrendingCooldown time.Duration `mapstructure:"trending_cooldown"`
	// 互动规则：窗口内净得分 >= MinRecentScore 或 近期评论数 >= MinRecentComments
	MinRecentScore    int64 `mapstructure:"min_recent_score"`
	MinRecentComments int64 `mapstructure:"min_recent_comments"`
	// 增长规则：相对 24h 基线的浏览/得分增量
	MinViewsDelta int64 `mapstructure:"min_views_delta"`
	MinScoreDelta int64 `mapstructure:"min_score_delta"`
}

type FeedConfig struct {
	DefaultPageSize int           `mapstructure:"default_page_size"`
	MaxPageSize     int           `mapstructure:"max_page_size"`
	CacheTTL        time.Duration `mapstructure:"cache_ttl"`
	ViewThrottle    time.Duration `mapstructure:"view_throttle"`
	SiteURL         string        `mapstructure:"site_url"`
	Title           string        `mapstructure:"title"`
}

type JobsConfig struct {
	RolloverSpec    string        `mapstructure:"rollover_spec"`
	RolloverLimit   int           `mapstructure:"rollover_limit"`
	RolloverLockTTL time.Duration `mapstructure:"rollover_lock_ttl"`
	HotRefreshSpec  string        `mapstructure:"hot_refresh_spec"`
	HotRefreshLimit int           `mapstructure:"hot_refresh_limit"`
}
