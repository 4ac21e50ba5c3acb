package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Endpoint 是命令可能依赖的远端服务
type Endpoint string

const (
	EndpointSolr   Endpoint = "solr"
	EndpointFedora Endpoint = "fedora"
)

var ErrMissingEndpoint = errors.New("endpoint not configured")

// Settings 是 viper 配置的类型化视图
// 两个 URL 只在格式上校验；是否必填由命令通过 Require 决定
type Settings struct {
	SolrURL   string `validate:"omitempty,url"`
	SolrRows  int    `validate:"gt=0"`
	FedoraURL string `validate:"omitempty,url"`

	HTTP    HTTPSettings
	Backup  BackupSettings
	Journal JournalSettings

	LogLevel   string `validate:"omitempty,oneof=debug info warn warning error"`
	IgnoreFile string
}

type HTTPSettings struct {
	Timeout   time.Duration `validate:"gte=0"`
	Rate      float64       `validate:"gte=0"`
	Burst     int           `validate:"gte=1"`
	UserAgent string
}

type BackupSettings struct {
	Type     string `validate:"oneof=none disk s3"`
	Path     string `validate:"required_if=Type disk"`
	RedisURL string
	CacheTTL time.Duration

	S3 S3Settings
}

type S3Settings struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

type JournalSettings struct {
	Driver string `validate:"oneof=none sqlite postgres"`
	Path   string `validate:"required_if=Driver sqlite"`

	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Current 从全局 viper 读取当前配置 (默认值、配置文件、环境变量、命令行参数 已合并)
func Current() Settings {
	return Settings{
		SolrURL:   viper.GetString("solr.url"),
		SolrRows:  viper.GetInt("solr.rows"),
		FedoraURL: viper.GetString("fedora.url"),
		HTTP: HTTPSettings{
			Timeout:   viper.GetDuration("http.timeout"),
			Rate:      viper.GetFloat64("http.rate"),
			Burst:     viper.GetInt("http.burst"),
			UserAgent: viper.GetString("http.user_agent"),
		},
		Backup: BackupSettings{
			Type:     strings.ToLower(viper.GetString("backup.type")),
			Path:     viper.GetString("backup.path"),
			RedisURL: viper.GetString("backup.redis_url"),
			CacheTTL: viper.GetDuration("backup.cache_ttl"),
			S3: S3Settings{
				Endpoint:  viper.GetString("backup.s3.endpoint"),
				Region:    viper.GetString("backup.s3.region"),
				Bucket:    viper.GetString("backup.s3.bucket"),
				AccessKey: viper.GetString("backup.s3.access_key"),
				SecretKey: viper.GetString("backup.s3.secret_key"),
			},
		},
		Journal: JournalSettings{
			Driver:   strings.ToLower(viper.GetString("journal.driver")),
			Path:     viper.GetString("journal.path"),
			Host:     viper.GetString("database.host"),
			Port:     viper.GetInt("database.port"),
			User:     viper.GetString("database.user"),
			Password: viper.GetString("database.password"),
			DBName:   viper.GetString("database.dbname"),
			SSLMode:  viper.GetString("database.sslmode"),
		},
		LogLevel:   viper.GetString("log.level"),
		IgnoreFile: viper.GetString("ignore.file"),
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate 检查配置；错误信息列出全部不合法的字段
func (s Settings) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, ", "))
}

// Require 检查命令需要的远端地址都已配置
// 只读运行日志的命令 (runs) 不需要任何地址
func (s Settings) Require(endpoints ...Endpoint) error {
	var missing []string
	for _, e := range endpoints {
		switch e {
		case EndpointSolr:
			if s.SolrURL == "" {
				missing = append(missing, "solr.url")
			}
		case EndpointFedora:
			if s.FedoraURL == "" {
				missing = append(missing, "fedora.url")
			}
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingEndpoint, strings.Join(missing, ", "))
	}
	return nil
}
