package geocode

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/shouni/go-resort-importer/pkg/types"
)

// MinRequestInterval は Nominatim の利用規約 (1秒1リクエスト) を守るための呼び出し間隔です。
// フォールバック検索を含む全ての呼び出しに適用され、変更できません。
const MinRequestInterval = 1100 * time.Millisecond

// Searcher はジオコーディングサービスへの1回の検索を表します。
type Searcher interface {
	Search(ctx context.Context, query string) ([]Place, error)
}

// Pacer は次の呼び出しが許可されるまで待機します。*rate.Limiter はこれを満たします。
type Pacer interface {
	Wait(ctx context.Context) error
}

// NewPacer は MinRequestInterval ごとに1回だけ呼び出しを許可する Pacer を返します。
func NewPacer() *rate.Limiter {
	return rate.NewLimiter(rate.Every(MinRequestInterval), 1)
}

// Geocoder は施設名と都道府県から緯度・経度を解決します。
type Geocoder struct {
	searcher Searcher
	pacer    Pacer
}

// Option は Geocoder の設定を行うための関数型です。
type Option func(*Geocoder)

// WithPacer はデフォルトのレートリミッターの代わりに p を使います (主にテスト用)。
func WithPacer(p Pacer) Option {
	return func(g *Geocoder) {
		g.pacer = p
	}
}

// NewGeocoder は Geocoder を生成します。
func NewGeocoder(searcher Searcher, options ...Option) (*Geocoder, error) {
	if searcher == nil {
		return nil, fmt.Errorf("geocode.NewGeocoder: Searcher cannot be nil")
	}
	g := &Geocoder{
		searcher: searcher,
		pacer:    NewPacer(),
	}
	for _, opt := range options {
		opt(g)
	}
	return g, nil
}

// PrimaryQuery は最初に試す "<施設名>, <都道府県>, Japan" 形式のクエリです。
func PrimaryQuery(name, pref string) string {
	return fmt.Sprintf("%s, %s, Japan", name, pref)
}

// FallbackQuery は都道府県を省いた "<施設名>, Japan" 形式のクエリです。
// 同名の施設が他県にある場合、誤った地点に一致することがあります。
func FallbackQuery(name string) string {
	return fmt.Sprintf("%s, Japan", name)
}

// Geocode は施設の緯度・経度を返します。
// 最初のクエリで見つかればそこで終了し、見つからなければ都道府県なしのクエリで1回だけ再検索します。
// 通信エラーや解析エラーはログに記録し「見つからなかった」ものとして扱うため、エラーは返しません。
func (g *Geocoder) Geocode(ctx context.Context, name, pref string) types.GeocodeResult {
	log := zap.L().With(zap.String("resort", name), zap.String("prefecture", pref))

	for _, query := range []string{PrimaryQuery(name, pref), FallbackQuery(name)} {
		if err := g.pacer.Wait(ctx); err != nil {
			log.Warn("ジオコーディングの待機が中断されました", zap.Error(err))
			return types.GeocodeResult{}
		}

		places, err := g.searcher.Search(ctx, query)
		if err != nil {
			log.Warn("ジオコーディングに失敗しました", zap.String("query", query), zap.Error(err))
			return types.GeocodeResult{}
		}

		if len(places) > 0 && places[0].Lat != "" && places[0].Lon != "" {
			log.Debug("ジオコーディング成功",
				zap.String("query", query),
				zap.String("lat", places[0].Lat),
				zap.String("lon", places[0].Lon),
			)
			return types.GeocodeResult{Latitude: places[0].Lat, Longitude: places[0].Lon}
		}
		log.Debug("該当なし", zap.String("query", query))
	}

	return types.GeocodeResult{}
}
