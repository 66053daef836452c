// Package catalog searches the third-party book catalog (Google Books) that
// feeds the "add to library" flow.
package catalog

import (
	"context"
	"image"
	_ "image/jpeg" // cover decoders
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
	_ "golang.org/x/image/webp"
	"golang.org/x/time/rate"

	"github.com/palavraria/palavraria-t/pkg/models"
)

// MaxResults is how many volumes one search returns
const MaxResults = 20

// maxCoverBytes bounds thumbnail downloads
const maxCoverBytes = 4 << 20

// ErrEmptyQuery is returned for blank searches. The text is shown to the user.
var ErrEmptyQuery = errors.New("Digite algo para buscar")

// Client is the HTTP client for the catalog API
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a catalog client. The public API is quota-limited, so
// requests are throttled to two per second with a small burst.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 3),
		logger:  logger,
	}
}

// Search returns up to MaxResults volumes matching a free-text query
func (c *Client) Search(ctx context.Context, query string) ([]models.CatalogVolume, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, ErrEmptyQuery
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("maxResults", strconv.Itoa(MaxResults))

	resp, err := c.get(ctx, c.baseURL+"/volumes?"+params.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("catalog search failed", "status", resp.StatusCode, "body", string(body))
		return nil, errors.Errorf("catalog search: HTTP %d", resp.StatusCode)
	}

	var result models.CatalogSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errors.Wrap(err, "decode catalog response")
	}

	c.logger.Debug("catalog search", "query", q, "results", len(result.Items))
	if result.Items == nil {
		return []models.CatalogVolume{}, nil
	}
	return result.Items, nil
}

// FetchCover downloads and decodes a cover thumbnail
func (c *Client) FetchCover(ctx context.Context, coverURL string) (image.Image, error) {
	if coverURL == "" {
		return nil, errors.New("no cover")
	}

	resp, err := c.get(ctx, coverURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("fetch cover: HTTP %d", resp.StatusCode)
	}

	img, _, err := image.Decode(io.LimitReader(resp.Body, maxCoverBytes))
	if err != nil {
		return nil, errors.Wrap(err, "decode cover")
	}
	return img, nil
}

func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.WithStack(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "catalog request")
	}
	return resp, nil
}

// Thumbnail returns the volume's thumbnail URL upgraded to https, or ""
func Thumbnail(vol models.CatalogVolume) string {
	links := vol.VolumeInfo.ImageLinks
	if links == nil {
		return ""
	}
	thumb := links.Thumbnail
	if thumb == "" {
		thumb = links.SmallThumbnail
	}
	return strings.Replace(thumb, "http://", "https://", 1)
}
