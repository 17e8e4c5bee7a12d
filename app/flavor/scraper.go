package flavor

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultURL     = "https://sweetcow.com/stanley-marketplace/"
	DefaultTimeout = 30 * time.Second
)

// Scraper fetches the shop page and returns the flavors currently listed on it.
type Scraper struct {
	client   *resty.Client
	url      string
	Denylist []string
}

func NewScraper(url string, timeout time.Duration, userAgent string) *Scraper {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent)

	return &Scraper{
		client:   client,
		url:      url,
		Denylist: DefaultDenylist,
	}
}

func (s *Scraper) URL() string {
	return s.url
}

// Fetch performs a single GET. There is no retry.
func (s *Scraper) Fetch(ctx context.Context) ([]string, error) {
	res, err := s.client.R().
		SetContext(ctx).
		Get(s.url)
	if err != nil {
		return nil, &FetchError{URL: s.url, Err: err}
	}

	if !res.IsSuccess() {
		return nil, &FetchError{URL: s.url, StatusCode: res.StatusCode(), Err: fmt.Errorf("unexpected status %s", res.Status())}
	}

	headings, err := Extract(bytes.NewReader(res.Body()))
	if err != nil {
		return nil, &FetchError{URL: s.url, StatusCode: res.StatusCode(), Err: err}
	}

	flavors := Filter(headings, s.Denylist)

	slog.Debug("Flavor page scraped",
		"url", s.url,
		"duration", res.Time(),
		"headings", len(headings),
		"flavors", len(flavors))

	return flavors, nil
}
