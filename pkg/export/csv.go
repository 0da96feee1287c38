package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/shouni/go-resort-importer/pkg/types"
)

// Columns は CSV / SQL に出力する列の順序です。
var Columns = []string{
	"name",
	"area",
	"region",
	"latitude",
	"longitude",
	"official_site_url",
	"pricing_url",
	"night_ski",
	"difficulty_dist",
	"map_image_url",
}

// ErrHeaderMismatch は CSV のヘッダーが Columns と一致しない場合のエラーです。
var ErrHeaderMismatch = errors.New("CSVヘッダーが想定する列と一致しません")

func csvRow(r types.ResortRecord) []string {
	return []string{
		r.Name,
		r.Area,
		r.Region,
		r.Latitude,
		r.Longitude,
		r.OfficialSiteURL,
		r.PricingURL,
		strconv.FormatBool(r.NightSki),
		r.DifficultyDist,
		r.MapImageURL,
	}
}

// WriteCSV はヘッダー行と、入力順に1行ずつのレコードを書き込みます。
func WriteCSV(w io.Writer, rows []types.ResortRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("CSVヘッダーの書き込みに失敗しました: %w", err)
	}
	for i, r := range rows {
		if err := cw.Write(csvRow(r)); err != nil {
			return fmt.Errorf("CSVの書き込みに失敗しました (%d行目, %s): %w", i+1, r.Name, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("CSVのフラッシュに失敗しました: %w", err)
	}
	return nil
}

// ReadCSV は WriteCSV で出力された CSV を読み込みます。
func ReadCSV(r io.Reader) ([]types.ResortRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Columns)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("CSVヘッダーの読み込みに失敗しました: %w", err)
	}
	for i, col := range Columns {
		if header[i] != col {
			return nil, fmt.Errorf("%w: %d列目 %q (期待値 %q)", ErrHeaderMismatch, i+1, header[i], col)
		}
	}

	var rows []types.ResortRecord
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSVの読み込みに失敗しました (%d行目): %w", line, err)
		}

		nightSki, err := strconv.ParseBool(rec[7])
		if err != nil {
			return nil, fmt.Errorf("night_ski の値が不正です (%d行目): %q", line, rec[7])
		}

		rows = append(rows, types.ResortRecord{
			Name:            rec[0],
			Area:            rec[1],
			Region:          rec[2],
			Latitude:        rec[3],
			Longitude:       rec[4],
			OfficialSiteURL: rec[5],
			PricingURL:      rec[6],
			NightSki:        nightSki,
			DifficultyDist:  rec[8],
			MapImageURL:     rec[9],
		})
	}
	return rows, nil
}
