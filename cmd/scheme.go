package cmd

import (
	"fmt"
	"net/url"
)

// ensureScheme は、URLのスキームが存在しない場合に https:// を補完します。
// http / https 以外のスキームと、ホストのないURLはエラーです。
func ensureScheme(rawURL string) (string, error) {
	if rawURL == "" {
		return "", fmt.Errorf("URLが指定されていません")
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("URLのパースエラー: %w", err)
	}

	if parsedURL.Scheme == "" {
		rawURL = "https://" + rawURL
		if parsedURL, err = url.Parse(rawURL); err != nil {
			return "", fmt.Errorf("URLのパースエラー (スキーム補完後): %w", err)
		}
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return "", fmt.Errorf("無効なURLスキームです。httpまたはhttpsを指定してください: %s", rawURL)
	}
	if parsedURL.Host == "" {
		return "", fmt.Errorf("URLにホストがありません: %s", rawURL)
	}
	return rawURL, nil
}
