package geocode

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"strings"
	"time"

	_ "image/png" // flagcdn serves PNG
)

const defaultFlagCDNURL = "https://flagcdn.com/w2560"

// FlagClient fetches country flag images from the flag CDN. Beyond ISO
// alpha-2 codes the CDN also knows the "eu" and "un" sentinel flags.
type FlagClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewFlagClient(baseURL string, timeout time.Duration) *FlagClient {
	if baseURL == "" {
		baseURL = defaultFlagCDNURL
	}
	return &FlagClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Flag retrieves the flag for a 2-letter code and returns the decoded image
// together with its aspect ratio (height/width). An empty code falls back to
// the UN flag.
func (c *FlagClient) Flag(ctx context.Context, code string) (image.Image, float64, error) {
	if code == "" {
		code = "un"
	}
	url := fmt.Sprintf("%s/%s.png", c.baseURL, strings.ToLower(code))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("error creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("error fetching flag %q: %w", code, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("error decoding flag image: %w", err)
	}

	bounds := img.Bounds()
	ratio := float64(bounds.Dy()) / float64(bounds.Dx())
	return img, ratio, nil
}
