package catalog

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palavraria/palavraria-t/internal/logger"
	"github.com/palavraria/palavraria-t/pkg/models"
)

const duneResponse = `{
  "totalItems": 1,
  "items": [{
    "id": "B1hSG45JCX4C",
    "volumeInfo": {
      "title": "Dune",
      "authors": ["Frank Herbert"],
      "publishedDate": "1965-08-01",
      "pageCount": 412,
      "language": "en",
      "industryIdentifiers": [
        {"type": "ISBN_10", "identifier": "0441013597"},
        {"type": "ISBN_13", "identifier": "9780441013593"}
      ],
      "imageLinks": {"thumbnail": "http://books.google.com/books/content?id=B1hSG45JCX4C"}
    }
  }]
}`

func TestSearch(t *testing.T) {
	var gotQuery, gotMax string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/volumes", r.URL.Path)
		gotQuery = r.URL.Query().Get("q")
		gotMax = r.URL.Query().Get("maxResults")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(duneResponse))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", logger.Discard())
	vols, err := c.Search(context.Background(), "  duna herbert ")
	require.NoError(t, err)

	assert.Equal(t, "duna herbert", gotQuery)
	assert.Equal(t, "20", gotMax)
	require.Len(t, vols, 1)
	assert.Equal(t, "Dune", vols[0].VolumeInfo.Title)
	require.NotNil(t, vols[0].VolumeInfo.PageCount)
	assert.Equal(t, 412, *vols[0].VolumeInfo.PageCount)
	assert.Len(t, vols[0].VolumeInfo.IndustryIdentifiers, 2)
	assert.Equal(t, "https://books.google.com/books/content?id=B1hSG45JCX4C", Thumbnail(vols[0]))
}

func TestSearch_NoItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"kind":"books#volumes","totalItems":0}`))
	}))
	defer srv.Close()

	vols, err := NewClient(srv.URL, logger.Discard()).Search(context.Background(), "xyzzy")
	require.NoError(t, err)
	assert.NotNil(t, vols)
	assert.Empty(t, vols)
}

func TestSearch_EmptyQuery(t *testing.T) {
	c := NewClient("http://127.0.0.1:0", logger.Discard())
	_, err := c.Search(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestSearch_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":429}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, logger.Discard()).Search(context.Background(), "dune")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 429")
}

func TestSearch_Canceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(duneResponse))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(srv.URL, logger.Discard()).Search(ctx, "dune")
	require.Error(t, err)
}

func TestFetchCover(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		img := image.NewRGBA(image.Rect(0, 0, 4, 6))
		img.Set(1, 1, color.RGBA{R: 0x22, G: 0x33, B: 0x3b, A: 0xff})
		w.Header().Set("Content-Type", "image/png")
		_ = png.Encode(w, img)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, logger.Discard())
	img, err := c.FetchCover(context.Background(), srv.URL+"/cover.png")
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
	assert.Equal(t, 6, img.Bounds().Dy())

	_, err = c.FetchCover(context.Background(), "")
	assert.Error(t, err)
}

func TestThumbnail(t *testing.T) {
	assert.Empty(t, Thumbnail(models.CatalogVolume{}))

	vol := models.CatalogVolume{VolumeInfo: models.CatalogVolumeInfo{
		ImageLinks: &models.ImageLinks{SmallThumbnail: "http://x/small"},
	}}
	assert.Equal(t, "https://x/small", Thumbnail(vol))
}
