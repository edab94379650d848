package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Service  ServiceConfig  `mapstructure:"service"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Database DatabaseConfig `mapstructure:"database"`
	Mysql    MysqlConfig    `mapstructure:"mysql"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Limits   LimitsConfig   `mapstructure:"limits"`
	Media    MediaConfig    `mapstructure:"media"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Broker   BrokerConfig   `mapstructure:"broker"`
	Consul   ConsulConfig   `mapstructure:"consul"`
	Tracer   TracerConfig   `mapstructure:"tracer"`
}

type ServiceConfig struct {
	Name         string        `mapstructure:"name"`
	Env          string        `mapstructure:"env"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type LoggerConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

// DatabaseConfig selects the gorm driver. "sqlite" uses Path, "mysql" uses
// the Mysql section.
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"`
	Path         string `mapstructure:"path"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	AutoMigrate  bool   `mapstructure:"auto_migrate"`
}

type MysqlConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DbName   string `mapstructure:"dbname"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	Db       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Algorithm  string        `mapstructure:"algorithm"`
	AccessTTL  time.Duration `mapstructure:"access_ttl"`
	RefreshTTL time.Duration `mapstructure:"refresh_ttl"`
}

type AuthConfig struct {
	BcryptCost        int  `mapstructure:"bcrypt_cost"`
	ProtectCategories bool `mapstructure:"protect_categories"`
}

// LimitsConfig holds per-route QPS ceilings. Zero disables the limit.
type LimitsConfig struct {
	CheckoutQPS float64 `mapstructure:"checkout_qps"`
}

type MediaConfig struct {
	Root         string `mapstructure:"root"`
	URLPrefix    string `mapstructure:"url_prefix"`
	MaxImageSize int64  `mapstructure:"max_image_size"`
}

type CatalogConfig struct {
	ListCacheTTL time.Duration `mapstructure:"list_cache_ttl"`
}

type BrokerConfig struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

type ConsulConfig struct {
	Address string `mapstructure:"address"`
}

type TracerConfig struct {
	Endpoint string `mapstructure:"endpoint"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service.name", "storefront-api")
	v.SetDefault("service.env", "development")
	v.SetDefault("service.port", 8080)
	v.SetDefault("service.read_timeout", 15*time.Second)
	v.SetDefault("service.write_timeout", 30*time.Second)

	v.SetDefault("logger.level", "debug")
	v.SetDefault("logger.encoding", "console")
	v.SetDefault("logger.disable_caller", false)
	v.SetDefault("logger.disable_stacktrace", true)

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.path", "storefront.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("mysql.host", "localhost")
	v.SetDefault("mysql.port", 3306)
	v.SetDefault("mysql.user", "root")
	v.SetDefault("mysql.password", "")
	v.SetDefault("mysql.dbname", "storefront")

	v.SetDefault("redis.address", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.algorithm", "HS256")
	v.SetDefault("jwt.access_ttl", 30*time.Minute)
	v.SetDefault("jwt.refresh_ttl", 7*24*time.Hour)

	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.protect_categories", true)

	v.SetDefault("limits.checkout_qps", 50)

	v.SetDefault("media.root", "media")
	v.SetDefault("media.url_prefix", "/media")
	v.SetDefault("media.max_image_size", 2*1024*1024)

	v.SetDefault("catalog.list_cache_ttl", time.Minute)

	v.SetDefault("broker.url", "")
	v.SetDefault("broker.exchange", "storefront.events")

	v.SetDefault("consul.address", "")
	v.SetDefault("tracer.endpoint", "")
}

// LoadConfig reads config.yaml from path (optional), then applies
// environment overrides such as MYSQL_HOST or JWT_SECRET.
func LoadConfig(path string) (*Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Service.Env == "development"
}
