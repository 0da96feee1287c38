package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/shouni/go-resort-importer/pkg/export"
	"github.com/shouni/go-resort-importer/pkg/types"
)

// Pool は LoadResorts が必要とする接続プールの操作です。*pgxpool.Pool と pgxmock が満たします。
type Pool interface {
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// Columns は COPY 対象の列です。出力列に created_at / updated_at を加えたものです。
func Columns() []string {
	return append(append([]string{}, export.Columns...), "created_at", "updated_at")
}

// CopyRows はレコードを COPY 用の行に変換します。空文字列は NULL、緯度・経度は float64 になります。
func CopyRows(records []types.ResortRecord, loadedAt time.Time) ([][]any, error) {
	rows := make([][]any, 0, len(records))
	for i, r := range records {
		lat, err := nullableFloat(r.Latitude)
		if err != nil {
			return nil, fmt.Errorf("緯度の値が不正です (%d件目, %s): %w", i+1, r.Name, err)
		}
		lon, err := nullableFloat(r.Longitude)
		if err != nil {
			return nil, fmt.Errorf("経度の値が不正です (%d件目, %s): %w", i+1, r.Name, err)
		}

		rows = append(rows, []any{
			nullableText(r.Name),
			nullableText(r.Area),
			nullableText(r.Region),
			lat,
			lon,
			nullableText(r.OfficialSiteURL),
			nullableText(r.PricingURL),
			r.NightSki,
			nullableText(r.DifficultyDist),
			nullableText(r.MapImageURL),
			loadedAt,
			loadedAt,
		})
	}
	return rows, nil
}

// LoadResorts は COPY プロトコルで resorts テーブルにレコードを投入し、投入件数を返します。
func LoadResorts(ctx context.Context, pool Pool, records []types.ResortRecord) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	rows, err := CopyRows(records, time.Now().UTC())
	if err != nil {
		return 0, err
	}

	n, err := pool.CopyFrom(ctx, pgx.Identifier{export.TableName}, Columns(), pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("%s テーブルへのCOPYに失敗しました: %w", export.TableName, err)
	}

	zap.L().Info("スキー場データを投入しました",
		zap.String("table", export.TableName),
		zap.Int64("rows", n),
	)
	return n, nil
}

func nullableText(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableFloat(s string) (any, error) {
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return f, nil
}
