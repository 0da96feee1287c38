package prefecture

import "strings"

// entry は都道府県テーブルの1行です。
type entry struct {
	jp string
	en string
}

// prefectures は 47 都道府県の日本語名と英語名です。
// 並び順は北から南 (JIS X 0401 の順) で、Names() の戻り値の順序になります。
var prefectures = [...]entry{
	{"北海道", "Hokkaido"},
	{"青森県", "Aomori"}, {"岩手県", "Iwate"}, {"宮城県", "Miyagi"}, {"秋田県", "Akita"},
	{"山形県", "Yamagata"}, {"福島県", "Fukushima"},
	{"茨城県", "Ibaraki"}, {"栃木県", "Tochigi"}, {"群馬県", "Gunma"}, {"埼玉県", "Saitama"},
	{"千葉県", "Chiba"}, {"東京都", "Tokyo"}, {"神奈川県", "Kanagawa"},
	{"新潟県", "Niigata"}, {"富山県", "Toyama"}, {"石川県", "Ishikawa"}, {"福井県", "Fukui"},
	{"山梨県", "Yamanashi"}, {"長野県", "Nagano"}, {"岐阜県", "Gifu"}, {"静岡県", "Shizuoka"},
	{"愛知県", "Aichi"},
	{"三重県", "Mie"}, {"滋賀県", "Shiga"}, {"京都府", "Kyoto"}, {"大阪府", "Osaka"},
	{"兵庫県", "Hyogo"}, {"奈良県", "Nara"}, {"和歌山県", "Wakayama"},
	{"鳥取県", "Tottori"}, {"島根県", "Shimane"}, {"岡山県", "Okayama"}, {"広島県", "Hiroshima"},
	{"山口県", "Yamaguchi"},
	{"徳島県", "Tokushima"}, {"香川県", "Kagawa"}, {"愛媛県", "Ehime"}, {"高知県", "Kochi"},
	{"福岡県", "Fukuoka"}, {"佐賀県", "Saga"}, {"長崎県", "Nagasaki"}, {"熊本県", "Kumamoto"},
	{"大分県", "Oita"}, {"宮崎県", "Miyazaki"}, {"鹿児島県", "Kagoshima"}, {"沖縄県", "Okinawa"},
}

// regionMembers は地方ごとの英語の都道府県名です。沖縄は九州とは別の地方として扱います。
var regionMembers = map[string][]string{
	"Hokkaido": {"Hokkaido"},
	"Tohoku":   {"Aomori", "Iwate", "Miyagi", "Akita", "Yamagata", "Fukushima"},
	"Kanto":    {"Ibaraki", "Tochigi", "Gunma", "Saitama", "Chiba", "Tokyo", "Kanagawa"},
	"Chubu":    {"Niigata", "Toyama", "Ishikawa", "Fukui", "Yamanashi", "Nagano", "Gifu", "Shizuoka", "Aichi"},
	"Kansai":   {"Mie", "Shiga", "Kyoto", "Osaka", "Hyogo", "Nara", "Wakayama"},
	"Chugoku":  {"Tottori", "Shimane", "Okayama", "Hiroshima", "Yamaguchi"},
	"Shikoku":  {"Tokushima", "Kagawa", "Ehime", "Kochi"},
	"Kyushu":   {"Fukuoka", "Saga", "Nagasaki", "Kumamoto", "Oita", "Miyazaki", "Kagoshima"},
	"Okinawa":  {"Okinawa"},
}

// 起動時に一度だけ構築され、以後は読み取り専用です。
var (
	jpToEN     = make(map[string]string, len(prefectures))
	enToRegion = make(map[string]string, len(prefectures))
	names      = make([]string, 0, len(prefectures))
)

func init() {
	for _, p := range prefectures {
		jpToEN[p.jp] = p.en
		names = append(names, p.jp)
	}
	for region, members := range regionMembers {
		for _, en := range members {
			enToRegion[en] = region
		}
	}
}

// Names は 47 都道府県の日本語名をテーブル順で返します。戻り値はコピーです。
func Names() []string {
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// CutPrefix は text が都道府県名で始まる場合、その都道府県名と残りの文字列を返します。
// 都道府県名同士に前方一致の関係はないため、一致は高々1つです。
func CutPrefix(text string) (name, rest string, ok bool) {
	for _, n := range names {
		if rest, found := strings.CutPrefix(text, n); found {
			return n, rest, true
		}
	}
	return "", text, false
}

// IsKnown は name が既知の都道府県名 (日本語) であるかを返します。
func IsKnown(name string) bool {
	_, ok := jpToEN[name]
	return ok
}

// English は日本語の都道府県名を英語名に変換します。未知の場合は空文字列です。
func English(jp string) string {
	return jpToEN[jp]
}

// RegionOf は英語の都道府県名から地方名を返します。未知の場合は空文字列です。
func RegionOf(en string) string {
	return enToRegion[en]
}

// Resolve は日本語の都道府県名から (英語の都道府県名, 英語の地方名) を解決します。
// どちらかの検索に失敗した場合、対応する戻り値は空文字列になります。
func Resolve(jp string) (en, region string) {
	en = English(jp)
	region = RegionOf(en)
	return en, region
}
