package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shouni/go-resort-importer/pkg/prefecture"
)

// boilerplateWords は施設名ではないナビゲーション用リンクに含まれる語です。
var boilerplateWords = []string{
	"投稿", "検索", "一覧", "ホームメイト", "トップ", "運営", "会社", "概要", "マップ", "地図",
}

// photoCountPattern は末尾の写真枚数表記 (例: " 5枚", "　１２枚 (new)") に一致します。
var photoCountPattern = regexp.MustCompile(`[\s\p{Zs}]*\p{Nd}+枚.*$`)

// IsBoilerplate は text がナビゲーション等の定型リンクであるかを返します。
func IsBoilerplate(text string) bool {
	for _, w := range boilerplateWords {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// StripPhotoCount は末尾の写真枚数表記と、それ以降のテキストを除去します。
func StripPhotoCount(text string) string {
	return strings.TrimSpace(photoCountPattern.ReplaceAllString(text, ""))
}

// CleanResortName はリンクのテキストを施設名に整形します。
// 定型リンク、2文字未満、整形後に空、都道府県名そのもの、の場合は false を返します。
func CleanResortName(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if IsBoilerplate(text) {
		return "", false
	}
	if utf8.RuneCountInString(text) < MinNameLength {
		return "", false
	}

	name := StripPhotoCount(text)
	if name == "" || prefecture.IsKnown(name) {
		return "", false
	}
	return name, true
}
