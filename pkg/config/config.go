package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
	Sheets   SheetsConfig   `mapstructure:"sheets"`
	Redis    RedisConfig    `mapstructure:"redis"`
	MySQL    MySQLConfig    `mapstructure:"mysql"`
	MongoDB  MongoDBConfig  `mapstructure:"mongodb"`
	Etcd     EtcdConfig     `mapstructure:"etcd"`
	Gateway  GatewayConfig  `mapstructure:"gateway"`
	Log      LogConfig      `mapstructure:"log"`
}

type TelegramConfig struct {
	Token       string `mapstructure:"token"`
	AdminChatID int64  `mapstructure:"admin_chat_id"`
}

type SheetsConfig struct {
	URL                string `mapstructure:"url"`
	ServiceAccountJSON string `mapstructure:"service_account_json"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type MySQLConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type MongoDBConfig struct {
	URI        string `mapstructure:"uri"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
}

type EtcdConfig struct {
	Endpoints   []string      `mapstructure:"endpoints"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	Prefix      string        `mapstructure:"prefix"`
}

type GatewayConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

type LogConfig struct {
	Level       string   `mapstructure:"level"`
	Encoding    string   `mapstructure:"encoding"`
	OutputPaths []string `mapstructure:"output_paths"`
}

// Load reads the optional yaml config file and applies environment
// overrides. The Telegram token is the only hard requirement; every other
// collaborator is allowed to be absent and is disabled by the caller.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("mongodb.database", "freshmart")
	v.SetDefault("mongodb.collection", "order_events")
	v.SetDefault("etcd.dial_timeout", 5*time.Second)
	v.SetDefault("etcd.prefix", "/freshmart/")
	v.SetDefault("redis.pool_size", 10)

	v.BindEnv("telegram.token", "TELEGRAM_TOKEN")
	v.BindEnv("telegram.admin_chat_id", "ADMIN_CHAT_ID")
	v.BindEnv("sheets.url", "SHEET_URL")
	v.BindEnv("sheets.service_account_json", "GOOGLE_SERVICE_ACCOUNT_JSON")
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("mysql.host", "MYSQL_HOST")
	v.BindEnv("mysql.password", "MYSQL_PASSWORD")
	v.BindEnv("mongodb.uri", "MONGODB_URI")

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Values bound to the environment arrive as strings; decode the typed
	// fields explicitly so an env-only deployment works without a yaml file.
	config.Telegram.Token = v.GetString("telegram.token")
	if raw := v.GetString("telegram.admin_chat_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid admin chat id %q: %w", raw, err)
		}
		config.Telegram.AdminChatID = id
	}
	config.Sheets.URL = v.GetString("sheets.url")
	config.Sheets.ServiceAccountJSON = v.GetString("sheets.service_account_json")

	if config.Telegram.Token == "" {
		return nil, fmt.Errorf("telegram token is required: set TELEGRAM_TOKEN")
	}

	return &config, nil
}

func (c *MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.Username, c.Password, c.Host, c.Port, c.Database)
}
