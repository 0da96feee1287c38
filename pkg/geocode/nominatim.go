package geocode

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// DefaultSearchURL は Nominatim の検索エンドポイントです。
const DefaultSearchURL = "https://nominatim.openstreetmap.org/search"

// Fetcher は、URL から取得した JSON を v にデコードする機能のインターフェースです。
// *httpkit.Client はこのインターフェースを満たします。
type Fetcher interface {
	FetchAndDecodeJSON(ctx context.Context, url string, v any) error
}

// Place は Nominatim (format=jsonv2) の検索結果1件です。
type Place struct {
	PlaceID     int64             `json:"place_id"`
	Lat         string            `json:"lat"`
	Lon         string            `json:"lon"`
	DisplayName string            `json:"display_name"`
	Category    string            `json:"category"`
	Type        string            `json:"type"`
	Address     map[string]string `json:"address"`
}

// NominatimClient は Nominatim の検索 API を1回呼び出す Searcher 実装です。
type NominatimClient struct {
	fetcher   Fetcher
	searchURL string
}

// NewNominatimClient は NominatimClient を生成します。searchURL が空の場合は DefaultSearchURL を使います。
func NewNominatimClient(fetcher Fetcher, searchURL string) (*NominatimClient, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("geocode.NewNominatimClient: Fetcher cannot be nil")
	}
	if searchURL == "" {
		searchURL = DefaultSearchURL
	}
	if _, err := url.Parse(searchURL); err != nil {
		return nil, fmt.Errorf("ジオコーダーURLのパースエラー: %w", err)
	}
	return &NominatimClient{
		fetcher:   fetcher,
		searchURL: searchURL,
	}, nil
}

// Search は自由記述のクエリで検索し、最大1件の結果を返します。
// 該当なしの場合は空スライスを返します。
func (c *NominatimClient) Search(ctx context.Context, query string) ([]Place, error) {
	requestURL, err := c.buildURL(query)
	if err != nil {
		return nil, err
	}

	var places []Place
	if err := c.fetcher.FetchAndDecodeJSON(ctx, requestURL, &places); err != nil {
		return nil, fmt.Errorf("ジオコーディングAPIの呼び出しに失敗しました (query: %s): %w", query, err)
	}
	return places, nil
}

// buildURL は q, format=jsonv2, limit=1, addressdetails=1 を付与した検索URLを組み立てます。
func (c *NominatimClient) buildURL(query string) (string, error) {
	u, err := url.Parse(c.searchURL)
	if err != nil {
		return "", fmt.Errorf("ジオコーダーURLのパースエラー: %w", err)
	}
	params := u.Query()
	params.Set("q", query)
	params.Set("format", "jsonv2")
	params.Set("limit", strconv.Itoa(1))
	params.Set("addressdetails", "1")
	u.RawQuery = params.Encode()
	return u.String(), nil
}
