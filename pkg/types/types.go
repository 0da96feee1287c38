package types

// ResortRaw は、一覧ページから抽出されたスキー場1件分の生データです。
// Extractor の出力、Geocoder の入力として利用されます。
type ResortRaw struct {
	Name       string // 施設名 (写真枚数などの注記を除去済み)
	Prefecture string // 日本語の都道府県名 (例: 長野県)
}

// GeocodeResult は、ジオコーディングの結果を保持します。
// 見つからなかった場合は Latitude, Longitude ともに空文字列です。
type GeocodeResult struct {
	Latitude  string
	Longitude string
}

// Found は、緯度・経度の両方が取得できているかを返します。
func (g GeocodeResult) Found() bool {
	return g.Latitude != "" && g.Longitude != ""
}

// EmptyDifficultyDist は difficulty_dist 列に出力する空オブジェクトです。
const EmptyDifficultyDist = "{}"

// ResortRecord は CSV / SQL に出力される最終的な1行です。
type ResortRecord struct {
	Name            string
	Area            string // 日本語の都道府県名
	Region          string // 英語の地方名 (Hokkaido, Tohoku, ...)
	Latitude        string
	Longitude       string
	OfficialSiteURL string
	PricingURL      string
	NightSki        bool
	DifficultyDist  string
	MapImageURL     string
}

// NewResortRecord は、抽出結果・ジオコーディング結果・地方名から出力行を組み立てます。
// 緯度・経度は片方だけが設定されることはありません。
func NewResortRecord(raw ResortRaw, geo GeocodeResult, region string) ResortRecord {
	if !geo.Found() {
		geo = GeocodeResult{}
	}
	return ResortRecord{
		Name:           raw.Name,
		Area:           raw.Prefecture,
		Region:         region,
		Latitude:       geo.Latitude,
		Longitude:      geo.Longitude,
		NightSki:       false,
		DifficultyDist: EmptyDifficultyDist,
	}
}
