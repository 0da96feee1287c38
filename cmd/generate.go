package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shouni/go-resort-importer/internal/config"
	"github.com/shouni/go-resort-importer/internal/pipeline"
	"github.com/shouni/go-resort-importer/pkg/extract"
	"github.com/shouni/go-resort-importer/pkg/geocode"
	"github.com/shouni/go-resort-importer/pkg/httpclient"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "スキー場一覧を取得し、座標付きの CSV と SQL を生成します",
	Long: `一覧ページからスキー場を抽出し、1件ずつ Nominatim で座標を解決して（1.1秒間隔）、
--csv と --sql で指定したファイルに書き出します。既存のファイルは上書きされます。
一覧ページの取得に失敗した場合、またはスキー場が1件も見つからない場合は終了コード1で終了します。`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("url", config.DefaultListingURL, "スキー場一覧ページのURL")
	generateCmd.Flags().String("geocoder-url", geocode.DefaultSearchURL, "Nominatim 検索エンドポイントのURL")
	generateCmd.Flags().String("user-agent", httpclient.DefaultUserAgent, "HTTPリクエストの User-Agent")
	generateCmd.Flags().String("csv", config.DefaultCSVPath, "CSVの出力先パス")
	generateCmd.Flags().String("sql", config.DefaultSQLPath, "SQLの出力先パス")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, appViper, map[string]string{
		config.KeyListingURL:  "url",
		config.KeyGeocoderURL: "geocoder-url",
		config.KeyUserAgent:   "user-agent",
		config.KeyCSVPath:     "csv",
		config.KeySQLPath:     "sql",
	})
	if err != nil {
		return err
	}

	listingURL, err := ensureScheme(cfg.ListingURL)
	if err != nil {
		return fmt.Errorf("--url: %w", err)
	}
	geocoderURL, err := ensureScheme(cfg.GeocoderURL)
	if err != nil {
		return fmt.Errorf("--geocoder-url: %w", err)
	}

	// 依存性の初期化
	client := httpclient.New(cfg.Timeout(), cfg.UserAgent)

	extractor, err := extract.NewExtractor(client)
	if err != nil {
		return fmt.Errorf("Extractorの初期化エラー: %w", err)
	}
	nominatim, err := geocode.NewNominatimClient(client, geocoderURL)
	if err != nil {
		return fmt.Errorf("Nominatimクライアントの初期化エラー: %w", err)
	}
	geocoder, err := geocode.NewGeocoder(nominatim)
	if err != nil {
		return fmt.Errorf("Geocoderの初期化エラー: %w", err)
	}

	p, err := pipeline.New(extractor, geocoder, os.Stdout)
	if err != nil {
		return err
	}

	_, err = p.Generate(cmd.Context(), listingURL, cfg.CSVPath, cfg.SQLPath)
	return err
}
