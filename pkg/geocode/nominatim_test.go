package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-resort-importer/pkg/httpclient"
)

func TestNominatimClient_Search(t *testing.T) {
	var gotQuery map[string]string
	var gotUA string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotQuery = map[string]string{
			"q":              r.URL.Query().Get("q"),
			"format":         r.URL.Query().Get("format"),
			"limit":          r.URL.Query().Get("limit"),
			"addressdetails": r.URL.Query().Get("addressdetails"),
		}
		switch r.URL.Query().Get("q") {
		case "白馬八方尾根, 長野県, Japan":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"place_id":123,"lat":"36.7009","lon":"137.8323","display_name":"白馬八方尾根スキー場, 白馬村, 長野県, 日本","category":"leisure","type":"sports_centre","address":{"state":"長野県","country":"日本"}}]`))
		case "broken, Japan":
			_, _ = w.Write([]byte(`{not json`))
		case "error, Japan":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			_, _ = w.Write([]byte(`[]`))
		}
	}))
	defer srv.Close()

	fetcher := httpclient.New(5*time.Second, "ResortImporterTest/1.0")
	client, err := NewNominatimClient(fetcher, srv.URL+"/search")
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("match", func(t *testing.T) {
		places, err := client.Search(ctx, PrimaryQuery("白馬八方尾根", "長野県"))
		require.NoError(t, err)
		require.Len(t, places, 1)
		assert.Equal(t, "36.7009", places[0].Lat)
		assert.Equal(t, "137.8323", places[0].Lon)
		assert.Equal(t, "長野県", places[0].Address["state"])

		assert.Equal(t, "ResortImporterTest/1.0", gotUA)
		assert.Equal(t, map[string]string{
			"q":              "白馬八方尾根, 長野県, Japan",
			"format":         "jsonv2",
			"limit":          "1",
			"addressdetails": "1",
		}, gotQuery)
	})

	t.Run("no match", func(t *testing.T) {
		places, err := client.Search(ctx, "存在しない, Japan")
		require.NoError(t, err)
		assert.Empty(t, places)
	})

	t.Run("malformed response", func(t *testing.T) {
		places, err := client.Search(ctx, "broken, Japan")
		assert.Error(t, err)
		assert.Nil(t, places)
		assert.Contains(t, err.Error(), "JSONデコードに失敗しました")
	})

	t.Run("server error", func(t *testing.T) {
		places, err := client.Search(ctx, "error, Japan")
		assert.Error(t, err)
		assert.Nil(t, places)
	})
}

type fetchFunc func(ctx context.Context, url string, v any) error

func (f fetchFunc) FetchAndDecodeJSON(ctx context.Context, url string, v any) error {
	return f(ctx, url, v)
}

func TestNewNominatimClient(t *testing.T) {
	t.Run("nil fetcher", func(t *testing.T) {
		client, err := NewNominatimClient(nil, "")
		assert.Error(t, err)
		assert.Nil(t, client)
	})

	t.Run("default search url", func(t *testing.T) {
		var requested string
		fetcher := fetchFunc(func(ctx context.Context, url string, v any) error {
			requested = url
			return errors.New("offline")
		})
		client, err := NewNominatimClient(fetcher, "")
		require.NoError(t, err)

		_, err = client.Search(context.Background(), "a b, Japan")
		assert.Error(t, err)
		assert.Equal(t, DefaultSearchURL+"?addressdetails=1&format=jsonv2&limit=1&q=a+b%2C+Japan", requested)
	})
}
