package config

import (
	"errors"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Postgres  DBConfig
	Redis     RedisConfig
	S3        S3Config
	Upstream  UpstreamConfig
	Monitor   MonitorConfig
	Extractor ExtractorConfig
	Worker    WorkerConfig
	RateLimit RateLimitConfig
	Logger    Logger
}

type ServerConfig struct {
	AppVersion string
	Port       string
	Mode       string
	APIKey     string
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	PgDriver string
}

type RedisConfig struct {
	RedisAddr     string
	RedisPassword string
	DB            int
	MinIdleConns  int
	PoolSize      int
	PoolTimeout   int
	JobQueueKey   string
	ResultTTL     int
}

type S3Config struct {
	Endpoint    string
	Region      string
	AccessKey   string
	SecretKey   string
	PeaksBucket string
}

// UpstreamConfig points at the third-party conversion pipeline.
type UpstreamConfig struct {
	BaseURL        string
	APIKey         string
	RequestTimeout int
}

type MonitorConfig struct {
	AwaitTimeout    int
	PollBaseMs      int
	PollCapMs       int
	PollMaxAttempts int
	ProbeTimeout    int
}

type ExtractorConfig struct {
	ScratchDir    string
	MaxFetchBytes int64
	FetchTimeout  int
}

type WorkerConfig struct {
	WorkerCount int
	MaxCPUUsage float64
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

type Logger struct {
	Development       bool
	DisableCaller     bool
	DisableStacktrace bool
	Encoding          string
	Level             string
}

func LoadConfig(filename string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(filename)
	v.AddConfigPath(".")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFound) {
			return nil, errors.New("config file not found")
		}
		return nil, err
	}
	return v, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}
