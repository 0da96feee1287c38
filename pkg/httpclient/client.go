package httpclient

import (
	"net/http"
	"time"

	"github.com/shouni/go-http-kit/pkg/httpkit"
)

const (
	// DefaultHTTPTimeout は、デフォルトのHTTPタイムアウトです。
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultUserAgent は、一覧ページと Nominatim へのリクエストに付与するクライアント識別子です。
	// Nominatim の利用規約により、連絡先を含む固有の User-Agent が必要です。
	DefaultUserAgent = "YukiMateResortImporter/2.0 (nodasy0855@gmail.com)"
)

// Doer は、標準の *http.Client.Do() と互換性のあるHTTPクライアントのインターフェースです。
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// userAgentDoer は全てのリクエストに固定の User-Agent を設定してから委譲します。
// httpkit が独自に設定する User-Agent はここで上書きされます。
type userAgentDoer struct {
	next      Doer
	userAgent string
}

func (d *userAgentDoer) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", d.userAgent)
	return d.next.Do(req)
}

// Option は New の設定を行うための関数型です。
type Option func(*options)

type options struct {
	doer Doer
}

// WithDoer は実際の送信に使う Doer を差し替えます (主にテスト用)。
func WithDoer(doer Doer) Option {
	return func(o *options) {
		o.doer = doer
	}
}

// New は、User-Agent を固定し、リトライを行わない httpkit.Client を生成します。
// 失敗 (ネットワークエラー、非200ステータス) は1回目でそのまま呼び出し元に返ります。
func New(timeout time.Duration, userAgent string, opts ...Option) *httpkit.Client {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	o := &options{
		doer: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(o)
	}

	return httpkit.New(
		timeout,
		httpkit.WithHTTPClient(&userAgentDoer{next: o.doer, userAgent: userAgent}),
		httpkit.WithMaxRetries(0),
	)
}

// IsClientError は与えられたエラーが 4xx 系のHTTPエラーであるかを判断します。
func IsClientError(err error) bool {
	return httpkit.IsNonRetryableError(err)
}
