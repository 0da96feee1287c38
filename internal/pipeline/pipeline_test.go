package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shouni/go-resort-importer/pkg/types"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

// ---- モック定義 ----

type stubSource struct {
	resorts []types.ResortRaw
	err     error
	calls   int
}

func (s *stubSource) FetchAndExtractResorts(ctx context.Context, url string) ([]types.ResortRaw, error) {
	s.calls++
	return s.resorts, s.err
}

// stubGeocoder は呼び出し順に results を返します。
type stubGeocoder struct {
	results []types.GeocodeResult
	names   []string
}

func (g *stubGeocoder) Geocode(ctx context.Context, name, pref string) types.GeocodeResult {
	i := len(g.names)
	g.names = append(g.names, name)
	if i < len(g.results) {
		return g.results[i]
	}
	return types.GeocodeResult{}
}

func threeResorts() []types.ResortRaw {
	return []types.ResortRaw{
		{Name: "苗場スキー場", Prefecture: "新潟県"},
		{Name: "蔵王温泉スキー場", Prefecture: "山形県"},
		{Name: "ルスツリゾート", Prefecture: "北海道"},
	}
}

// ---- テスト ----

func TestNew(t *testing.T) {
	_, err := New(nil, &stubGeocoder{}, nil)
	assert.Error(t, err)

	_, err = New(&stubSource{}, nil, nil)
	assert.Error(t, err)

	p, err := New(&stubSource{}, &stubGeocoder{}, nil)
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestRun(t *testing.T) {
	source := &stubSource{resorts: threeResorts()}
	geocoder := &stubGeocoder{results: []types.GeocodeResult{
		{Latitude: "35.0", Longitude: "139.0"},
		{},
		{Latitude: "36.5", Longitude: "140.2"},
	}}
	var out bytes.Buffer
	p, err := New(source, geocoder, &out)
	require.NoError(t, err)

	records, err := p.Run(context.Background(), "https://example.com/list")
	require.NoError(t, err)
	require.Len(t, records, 3)

	// 抽出順のまま、1件ずつ順番にジオコーディングされる
	assert.Equal(t, []string{"苗場スキー場", "蔵王温泉スキー場", "ルスツリゾート"}, geocoder.names)

	assert.Equal(t, types.ResortRecord{
		Name:           "苗場スキー場",
		Area:           "新潟県",
		Region:         "Chubu",
		Latitude:       "35.0",
		Longitude:      "139.0",
		DifficultyDist: types.EmptyDifficultyDist,
	}, records[0])

	assert.Equal(t, "蔵王温泉スキー場", records[1].Name)
	assert.Equal(t, "Tohoku", records[1].Region)
	assert.Empty(t, records[1].Latitude)
	assert.Empty(t, records[1].Longitude)

	assert.Equal(t, "Hokkaido", records[2].Region)

	progress := out.String()
	assert.Contains(t, progress, "Found 3 resorts")
	assert.Contains(t, progress, "[1/3] Processing: 苗場スキー場 (新潟県)")
	assert.Contains(t, progress, "[3/3] Processing: ルスツリゾート (北海道)")
	assert.Contains(t, progress, "Geocode failed for 蔵王温泉スキー場")
}

func TestRun_FetchError(t *testing.T) {
	fetchErr := errors.New("connection refused")
	geocoder := &stubGeocoder{}
	p, err := New(&stubSource{err: fetchErr}, geocoder, nil)
	require.NoError(t, err)

	records, err := p.Run(context.Background(), "https://example.com/list")
	assert.ErrorIs(t, err, fetchErr)
	assert.Contains(t, err.Error(), "https://example.com/list")
	assert.Nil(t, records)
	assert.Empty(t, geocoder.names)
}

func TestRun_NoResorts(t *testing.T) {
	geocoder := &stubGeocoder{}
	p, err := New(&stubSource{}, geocoder, nil)
	require.NoError(t, err)

	_, err = p.Run(context.Background(), "https://example.com/list")
	assert.ErrorIs(t, err, ErrNoResorts)
	assert.Empty(t, geocoder.names)
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "japan_resorts.csv")
	sqlPath := filepath.Join(dir, "japan_resorts_insert.sql")

	source := &stubSource{resorts: threeResorts()}
	geocoder := &stubGeocoder{results: []types.GeocodeResult{
		{Latitude: "35.0", Longitude: "139.0"},
		{},
		{Latitude: "36.5", Longitude: "140.2"},
	}}
	p, err := New(source, geocoder, nil)
	require.NoError(t, err)

	records, err := p.Generate(context.Background(), "https://example.com/list", csvPath, sqlPath)
	require.NoError(t, err)
	assert.Len(t, records, 3)

	csvBytes, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	csvLines := strings.Split(strings.TrimRight(string(csvBytes), "\n"), "\n")
	require.Len(t, csvLines, 4)
	assert.True(t, strings.HasPrefix(csvLines[1], "苗場スキー場,新潟県,Chubu,35.0,139.0,"))
	assert.True(t, strings.HasPrefix(csvLines[2], "蔵王温泉スキー場,山形県,Tohoku,,,"))
	assert.True(t, strings.HasPrefix(csvLines[3], "ルスツリゾート,北海道,Hokkaido,36.5,140.2,"))

	sqlBytes, err := os.ReadFile(sqlPath)
	require.NoError(t, err)
	sqlLines := strings.Split(strings.TrimRight(string(sqlBytes), "\n"), "\n")
	require.Len(t, sqlLines, 4)
	assert.Contains(t, sqlLines[1], "'苗場スキー場', '新潟県', 'Chubu', 35.0, 139.0,")
	assert.Contains(t, sqlLines[2], "'蔵王温泉スキー場', '山形県', 'Tohoku', NULL, NULL,")
	assert.Contains(t, sqlLines[3], "'ルスツリゾート', '北海道', 'Hokkaido', 36.5, 140.2,")
}

func TestGenerate_NoFilesOnFailure(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "japan_resorts.csv")
	sqlPath := filepath.Join(dir, "japan_resorts_insert.sql")

	p, err := New(&stubSource{}, &stubGeocoder{}, nil)
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), "https://example.com/list", csvPath, sqlPath)
	assert.ErrorIs(t, err, ErrNoResorts)

	_, statErr := os.Stat(csvPath)
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(sqlPath)
	assert.True(t, os.IsNotExist(statErr))
}
