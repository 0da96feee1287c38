package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/shouni/go-resort-importer/pkg/geocode"
	"github.com/shouni/go-resort-importer/pkg/httpclient"
)

// ---- 定数定義 ----

const (
	// EnvPrefix は環境変数のプレフィックスです (例: RESORTS_DATABASE_URL)。
	EnvPrefix = "RESORTS"

	DefaultListingURL = "https://www.homemate-research-ski.com/search-list/"
	DefaultCSVPath    = "resorts.csv"
	DefaultSQLPath    = "resorts.sql"
	DefaultTimeoutSec = 30
)

// 設定キー。cobra のフラグはこのキーにバインドされます。
const (
	KeyListingURL  = "listing_url"
	KeyGeocoderURL = "geocoder_url"
	KeyUserAgent   = "user_agent"
	KeyCSVPath     = "csv"
	KeySQLPath     = "sql"
	KeyTimeoutSec  = "timeout"
	KeyDatabaseURL = "database_url"
)

// Config はアプリケーション全体の設定です。
type Config struct {
	ListingURL  string `mapstructure:"listing_url"`
	GeocoderURL string `mapstructure:"geocoder_url"`
	UserAgent   string `mapstructure:"user_agent"`
	CSVPath     string `mapstructure:"csv"`
	SQLPath     string `mapstructure:"sql"`
	TimeoutSec  int    `mapstructure:"timeout"`
	DatabaseURL string `mapstructure:"database_url"`
}

// Timeout は HTTP リクエスト1回あたりのタイムアウトです。
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// NewViper は環境変数とデフォルト値を設定済みの viper インスタンスを返します。
// 優先順位は フラグ > 環境変数 > デフォルト値 です。
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyListingURL, DefaultListingURL)
	v.SetDefault(KeyGeocoderURL, geocode.DefaultSearchURL)
	v.SetDefault(KeyUserAgent, httpclient.DefaultUserAgent)
	v.SetDefault(KeyCSVPath, DefaultCSVPath)
	v.SetDefault(KeySQLPath, DefaultSQLPath)
	v.SetDefault(KeyTimeoutSec, DefaultTimeoutSec)
	v.SetDefault(KeyDatabaseURL, "")

	return v
}

// Load は v から Config を読み込みます。
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		return nil, fmt.Errorf("config.Load: viper instance cannot be nil")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("設定の読み込みに失敗しました: %w", err)
	}
	if cfg.TimeoutSec <= 0 {
		return nil, fmt.Errorf("タイムアウトは1秒以上を指定してください (timeout: %d)", cfg.TimeoutSec)
	}
	return &cfg, nil
}

// InitLogger はグローバルの zap ロガーを初期化します。verbose の場合は Debug レベルです。
func InitLogger(verbose bool) error {
	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.DisableStacktrace = true

	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return fmt.Errorf("ロガーの初期化に失敗しました: %w", err)
	}
	zap.ReplaceGlobals(logger)
	return nil
}
