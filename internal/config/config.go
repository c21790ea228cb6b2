package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 服务全局配置
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Task     TaskConfig     `mapstructure:"task"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // gin 模式: debug/release/test
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	LogLevel        string        `mapstructure:"log_level"` // silent/error/warn/info
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json/console
}

type AdminConfig struct {
	Secret string `mapstructure:"secret"`
}

// SyncConfig 站点同步参数
type SyncConfig struct {
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`    // 单次远程调用超时
	SiteRPS           float64       `mapstructure:"site_rps"`           // 单站点每秒请求数
	SiteBurst         int           `mapstructure:"site_burst"`         // 单站点突发请求数
	FanoutConcurrency int           `mapstructure:"fanout_concurrency"` // 扇出并发上限
	BulkBatchSize     int           `mapstructure:"bulk_batch_size"`    // 全量同步分页大小
	BulkCooldown      time.Duration `mapstructure:"bulk_cooldown"`      // 手动全量同步冷却时间
	UserAgent         string        `mapstructure:"user_agent"`
}

type RedisConfig struct {
	Addr          string `mapstructure:"addr"` // 为空则不启用
	Password      string `mapstructure:"password"`
	DB            int    `mapstructure:"db"`
	ReloadChannel string `mapstructure:"reload_channel"`
}

type KafkaConfig struct {
	Brokers    []string `mapstructure:"brokers"` // 为空则不启用
	OrderTopic string   `mapstructure:"order_topic"`
	GroupID    string   `mapstructure:"group_id"`
}

// TaskConfig 定时任务配置，cron 表达式为空表示关闭
type TaskConfig struct {
	BulkSyncCron     string `mapstructure:"bulk_sync_cron"`
	LogCleanupCron   string `mapstructure:"log_cleanup_cron"`
	LogRetentionDays int    `mapstructure:"log_retention_days"`
}

// Load 加载配置
// 优先级: 环境变量 > config.yaml > 默认值；.env 文件会先被加载进环境变量
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	// 兼容常用的扁平环境变量名
	bindAliases(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("admin.secret", "")

	v.SetDefault("sync.request_timeout", 15*time.Second)
	v.SetDefault("sync.site_rps", 5.0)
	v.SetDefault("sync.site_burst", 5)
	v.SetDefault("sync.fanout_concurrency", 8)
	v.SetDefault("sync.bulk_batch_size", 100)
	v.SetDefault("sync.bulk_cooldown", 5*time.Minute)
	v.SetDefault("sync.user_agent", "wgss-stock-sync/1.0")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.reload_channel", "wgss:sites:reload")

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.order_topic", "orders")
	v.SetDefault("kafka.group_id", "wgss-stock-sync")

	v.SetDefault("task.bulk_sync_cron", "")
	v.SetDefault("task.log_cleanup_cron", "0 30 3 * * *")
	v.SetDefault("task.log_retention_days", 90)
}

func bindAliases(v *viper.Viper) {
	aliases := map[string]string{
		"server.port":   "SERVER_PORT",
		"database.dsn":  "DATABASE_URL",
		"admin.secret":  "ADMIN_SECRET_KEY",
		"redis.addr":    "REDIS_URL",
		"kafka.brokers": "KAFKA_BROKERS",
	}
	for key, env := range aliases {
		_ = v.BindEnv(key, strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env)
	}
}

// Validate 校验必填项
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return errors.New("database.dsn 未配置")
	}
	if c.Sync.RequestTimeout <= 0 {
		return errors.New("sync.request_timeout 必须大于 0")
	}
	if c.Sync.FanoutConcurrency <= 0 {
		c.Sync.FanoutConcurrency = 1
	}
	if c.Sync.BulkBatchSize <= 0 {
		c.Sync.BulkBatchSize = 100
	}
	return nil
}
