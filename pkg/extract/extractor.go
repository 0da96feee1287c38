package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	textUtils "github.com/shouni/go-utils/text"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"

	"github.com/shouni/go-resort-importer/pkg/prefecture"
	"github.com/shouni/go-resort-importer/pkg/types"
)

// Extractor は、Fetcher を使ってスキー場一覧の取得と抽出を管理します。
type Extractor struct {
	fetcher Fetcher
}

// NewExtractor は、新しいExtractorのインスタンスを生成します。
func NewExtractor(fetcher Fetcher) (*Extractor, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("extract.NewExtractor: Fetcher cannot be nil")
	}
	return &Extractor{
		fetcher: fetcher,
	}, nil
}

// ----------------------------------------------------------------------
// 定数定義 (解析関連のみ)
// ----------------------------------------------------------------------
const (
	// walkSelectors は走査対象のタグです。goquery は DOM の出現順に要素を返します。
	walkSelectors = "h1, h2, h3, h4, h5, h6, li, dt, dd, div, span, p, a"

	// MinNameLength は施設名として扱う最小文字数 (ルーン数) です。
	MinNameLength = 2
)

// ----------------------------------------------------------------------
// メイン関数 (メソッド化)
// ----------------------------------------------------------------------

// FetchAndExtractResorts は一覧ページを取得し、(施設名, 都道府県) の一覧を抽出します。
// 取得はリトライしません。0件の場合もエラーにはなりません。
func (e *Extractor) FetchAndExtractResorts(ctx context.Context, url string) ([]types.ResortRaw, error) {
	// 1. Fetcherから生のバイト配列を取得 (通信の責務)
	htmlBytes, err := e.fetcher.FetchBytes(ctx, url)
	if err != nil {
		return nil, err
	}

	// 2. 文字コードを UTF-8 に揃えてから goquery.Document に変換 (解析の責務)
	doc, err := parseDocument(htmlBytes)
	if err != nil {
		return nil, err
	}

	return ExtractResorts(doc), nil
}

// parseDocument は本文を UTF-8 として解析します。
// 本文が UTF-8 として不正な場合に限り、meta タグ等から文字コードを判定して変換します。
func parseDocument(htmlBytes []byte) (*goquery.Document, error) {
	var reader io.Reader = bytes.NewReader(htmlBytes)
	if !utf8.Valid(htmlBytes) {
		enc, name, _ := charset.DetermineEncoding(htmlBytes, "")
		zap.L().Debug("文字コードを判定しました", zap.String("charset", name))
		reader = transform.NewReader(reader, enc.NewDecoder())
	}

	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("HTML解析に失敗しました: %w", err)
	}
	return doc, nil
}

// ExtractResorts は goquery.Document を文書順に走査し、都道府県ヘッダーを文脈として
// 直後のリンクを施設名として抽出します。結果は初出順で、施設名は重複しません。
func ExtractResorts(doc *goquery.Document) []types.ResortRaw {
	var (
		resorts           []types.ResortRaw
		currentPrefecture string
		seen              = make(map[string]struct{})
	)

	doc.Find(walkSelectors).Each(func(i int, s *goquery.Selection) {
		text := textUtils.NormalizeText(s.Text())

		kind, value := ClassifyNode(text, goquery.NodeName(s) == "a")
		switch kind {
		case NodeHeader:
			// ヘッダーとして扱ったノードはリンクとしては評価しない
			currentPrefecture = value
			return
		case NodeSkip:
			return
		}

		// ヘッダー出現前のリンクは常にスキップ
		if currentPrefecture == "" {
			return
		}

		name, ok := CleanResortName(text)
		if !ok {
			return
		}
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}

		resorts = append(resorts, types.ResortRaw{
			Name:       name,
			Prefecture: currentPrefecture,
		})
	})

	return resorts
}

// ----------------------------------------------------------------------
// ノード分類 (純粋関数)
// ----------------------------------------------------------------------

// NodeKind はノードの分類結果です。
type NodeKind int

const (
	// NodeSkip は評価対象外のノードです。
	NodeSkip NodeKind = iota
	// NodeHeader は都道府県ヘッダーです。
	NodeHeader
	// NodeCandidate は施設名候補のリンクです。
	NodeCandidate
)

func (k NodeKind) String() string {
	switch k {
	case NodeHeader:
		return "Header"
	case NodeCandidate:
		return "Candidate"
	default:
		return "Skip"
	}
}

// facilitySuffix は「北海道施設」のようなヘッダー表記の接尾辞です。
const facilitySuffix = "施設"

// ClassifyNode はノードのテキストを分類します。
// ヘッダー判定が優先され、NodeHeader の場合は2つ目の戻り値が都道府県名です。
// ヘッダーでないリンクは NodeCandidate、それ以外は NodeSkip です。
func ClassifyNode(text string, isLink bool) (NodeKind, string) {
	if pref, ok := MatchPrefectureHeader(text); ok {
		return NodeHeader, pref
	}
	if isLink {
		return NodeCandidate, ""
	}
	return NodeSkip, ""
}

// MatchPrefectureHeader は text が都道府県ヘッダーかどうかを判定します。
// 都道府県名で始まり、直後が「文字列の終端」「（」「(」「半角/全角スペース」のいずれか、
// または残りがちょうど「施設」である場合にヘッダーとみなします。
// 「北海道・東北地方」のような地方見出しはヘッダーになりません。
func MatchPrefectureHeader(text string) (string, bool) {
	pref, suffix, found := prefecture.CutPrefix(strings.TrimSpace(text))
	if !found {
		return "", false
	}
	if suffix == "" || suffix == facilitySuffix {
		return pref, true
	}
	switch r, _ := utf8.DecodeRuneInString(suffix); r {
	case '（', '(', ' ', '　':
		return pref, true
	}
	return "", false
}
