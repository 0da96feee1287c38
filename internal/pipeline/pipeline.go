package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/shouni/go-resort-importer/pkg/export"
	"github.com/shouni/go-resort-importer/pkg/prefecture"
	"github.com/shouni/go-resort-importer/pkg/types"
)

// ErrNoResorts は一覧ページから1件もスキー場を抽出できなかったことを示します。
var ErrNoResorts = errors.New("スキー場が1件も見つかりませんでした")

// ResortSource は一覧ページを取得してスキー場を抽出します。*extract.Extractor が満たします。
type ResortSource interface {
	FetchAndExtractResorts(ctx context.Context, url string) ([]types.ResortRaw, error)
}

// Geocoder は1件のスキー場の座標を解決します。*geocode.Geocoder が満たします。
type Geocoder interface {
	Geocode(ctx context.Context, name, pref string) types.GeocodeResult
}

// Pipeline は 取得 → 抽出 → (ジオコーディング, 地方解決) → 出力 を順番に実行します。
type Pipeline struct {
	source   ResortSource
	geocoder Geocoder
	out      io.Writer // 進捗表示の出力先
}

// New は Pipeline を生成します。out が nil の場合、進捗表示は破棄されます。
func New(source ResortSource, geocoder Geocoder, out io.Writer) (*Pipeline, error) {
	if source == nil {
		return nil, fmt.Errorf("pipeline.New: ResortSource cannot be nil")
	}
	if geocoder == nil {
		return nil, fmt.Errorf("pipeline.New: Geocoder cannot be nil")
	}
	if out == nil {
		out = io.Discard
	}
	return &Pipeline{source: source, geocoder: geocoder, out: out}, nil
}

// Run は一覧ページからスキー場を抽出し、1件ずつ順番に座標と地方を解決します。
// 取得失敗と0件は致命的エラーです。ジオコーディングの失敗は座標が空になるだけで、
// 抽出された全てのスキー場が抽出順に1回ずつ結果に含まれます。
func (p *Pipeline) Run(ctx context.Context, listingURL string) ([]types.ResortRecord, error) {
	// 1. 取得と抽出
	fmt.Fprintf(p.out, "Fetching %s ...\n", listingURL)
	resorts, err := p.source.FetchAndExtractResorts(ctx, listingURL)
	if err != nil {
		return nil, fmt.Errorf("一覧ページの取得に失敗しました (URL: %s): %w", listingURL, err)
	}
	fmt.Fprintf(p.out, "Found %d resorts from the page.\n", len(resorts))
	if len(resorts) == 0 {
		return nil, ErrNoResorts
	}

	// 2. ジオコーディングと地方の解決 (逐次実行)
	total := len(resorts)
	fmt.Fprintf(p.out, "Starting geocoding for %d resorts...\n", total)

	records := make([]types.ResortRecord, 0, total)
	failed := 0
	for i, r := range resorts {
		fmt.Fprintf(p.out, "[%d/%d] Processing: %s (%s)\n", i+1, total, r.Name, r.Prefecture)

		geo := p.geocoder.Geocode(ctx, r.Name, r.Prefecture)
		if !geo.Found() {
			failed++
			fmt.Fprintf(p.out, "  -> Geocode failed for %s\n", r.Name)
		}

		_, region := prefecture.Resolve(r.Prefecture)
		records = append(records, types.NewResortRecord(r, geo, region))
	}

	zap.L().Info("ジオコーディング完了",
		zap.Int("total", total),
		zap.Int("geocoded", total-failed),
		zap.Int("failed", failed),
	)
	return records, nil
}

// Generate は Run を実行し、結果を CSV と SQL に書き出します。
// Run が失敗した場合、ファイルは一切書き込まれません。
func (p *Pipeline) Generate(ctx context.Context, listingURL, csvPath, sqlPath string) ([]types.ResortRecord, error) {
	records, err := p.Run(ctx, listingURL)
	if err != nil {
		return nil, err
	}

	if err := export.WriteFiles(csvPath, sqlPath, records); err != nil {
		return nil, fmt.Errorf("出力ファイルの書き込みに失敗しました: %w", err)
	}
	fmt.Fprintf(p.out, "Done. Wrote %s and %s\n", csvPath, sqlPath)
	return records, nil
}
