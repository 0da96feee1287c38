package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/shouni/go-resort-importer/pkg/types"
)

const (
	// TableName は INSERT 先のテーブル名です。
	TableName = "resorts"

	sqlHeaderComment = "-- Generated resorts insert from Homemate data"
	sqlNull          = "NULL"
)

// QuoteLiteral は s を SQL の文字列リテラルにします。空文字列は NULL になります。
// 埋め込まれたシングルクォートは2つ重ねてエスケープします。
func QuoteLiteral(s string) string {
	if s == "" {
		return sqlNull
	}
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// numericOrNull は緯度・経度をクォートせずに出力します。空の場合は NULL です。
func numericOrNull(s string) string {
	if s == "" {
		return sqlNull
	}
	return s
}

func boolLiteral(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// InsertStatement は1件分の INSERT 文を返します。created_at / updated_at はサーバー側の now() です。
func InsertStatement(r types.ResortRecord) string {
	values := []string{
		QuoteLiteral(r.Name),
		QuoteLiteral(r.Area),
		QuoteLiteral(r.Region),
		numericOrNull(r.Latitude),
		numericOrNull(r.Longitude),
		QuoteLiteral(r.OfficialSiteURL),
		QuoteLiteral(r.PricingURL),
		boolLiteral(r.NightSki),
		QuoteLiteral(r.DifficultyDist),
		QuoteLiteral(r.MapImageURL),
		"now()",
		"now()",
	}
	columns := append(append([]string{}, Columns...), "created_at", "updated_at")

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s);",
		TableName, strings.Join(columns, ", "), strings.Join(values, ", "))
}

// WriteSQL は先頭のコメント行と、入力順に1件ずつの INSERT 文を書き込みます。
func WriteSQL(w io.Writer, rows []types.ResortRecord) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, sqlHeaderComment); err != nil {
		return fmt.Errorf("SQLの書き込みに失敗しました: %w", err)
	}
	for _, r := range rows {
		if _, err := fmt.Fprintln(bw, InsertStatement(r)); err != nil {
			return fmt.Errorf("SQLの書き込みに失敗しました (%s): %w", r.Name, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("SQLのフラッシュに失敗しました: %w", err)
	}
	return nil
}
