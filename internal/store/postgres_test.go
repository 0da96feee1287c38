package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shouni/go-resort-importer/pkg/types"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func sampleRecords() []types.ResortRecord {
	return []types.ResortRecord{
		types.NewResortRecord(
			types.ResortRaw{Name: "ニセコグラン・ヒラフ", Prefecture: "北海道"},
			types.GeocodeResult{Latitude: "42.8625", Longitude: "140.6987"},
			"Hokkaido",
		),
		types.NewResortRecord(
			types.ResortRaw{Name: "白馬八方尾根スキー場", Prefecture: "長野県"},
			types.GeocodeResult{},
			"Chubu",
		),
	}
}

func TestColumns(t *testing.T) {
	cols := Columns()
	require.Len(t, cols, 12)
	assert.Equal(t, "name", cols[0])
	assert.Equal(t, "map_image_url", cols[9])
	assert.Equal(t, []string{"created_at", "updated_at"}, cols[10:])
}

func TestCopyRows(t *testing.T) {
	loadedAt := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

	rows, err := CopyRows(sampleRecords(), loadedAt)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []any{
		"ニセコグラン・ヒラフ", "北海道", "Hokkaido",
		42.8625, 140.6987,
		nil, nil,
		false, "{}", nil,
		loadedAt, loadedAt,
	}, rows[0])

	// 座標なしは NULL
	assert.Nil(t, rows[1][3])
	assert.Nil(t, rows[1][4])
}

func TestCopyRows_InvalidCoordinate(t *testing.T) {
	records := sampleRecords()
	records[1].Latitude = "north"

	rows, err := CopyRows(records, time.Now())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "白馬八方尾根スキー場")
	assert.Nil(t, rows)
}

func TestLoadResorts(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"resorts"}, Columns()).WillReturnResult(2)

	n, err := LoadResorts(context.Background(), mock, sampleRecords())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadResorts_Empty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	n, err := LoadResorts(context.Background(), mock, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadResorts_CopyError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	copyErr := errors.New("relation \"resorts\" does not exist")
	mock.ExpectCopyFrom(pgx.Identifier{"resorts"}, Columns()).WillReturnError(copyErr)

	n, err := LoadResorts(context.Background(), mock, sampleRecords())
	assert.ErrorIs(t, err, copyErr)
	assert.Equal(t, int64(0), n)
	require.NoError(t, mock.ExpectationsWereMet())
}
