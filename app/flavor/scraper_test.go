package flavor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<head><title>Sweet Cow Stanley</title></head>
<body>
  <h3>#SWEETCOWICECREAM</h3>
  <h3>WELCOME!</h3>
  <div class="flavors">
    <h2>Today's Flavors</h2>
    <h3>Mint Chip</h3>
    <h3>  Vanilla <em>Bean</em> </h3>
    <h3></h3>
    <h3>   </h3>
    <h3>Salted
        Caramel</h3>
    <h3>Mint Chip</h3>
  </div>
</body>
</html>`

func TestFilterDenylist(t *testing.T) {
	headings := []string{"#SWEETCOWICECREAM", "WELCOME!", "Mint Chip", ""}

	flavors := Filter(headings, DefaultDenylist)

	assert.Equal(t, []string{"Mint Chip"}, flavors)
}

func TestFilterIsExactMatch(t *testing.T) {
	headings := []string{"Welcome!", "WELCOME! Mint", "WELCOME!"}

	flavors := Filter(headings, DefaultDenylist)

	assert.Equal(t, []string{"Welcome!", "WELCOME! Mint"}, flavors)
}

func TestFilterEmptyInput(t *testing.T) {
	flavors := Filter(nil, DefaultDenylist)

	assert.NotNil(t, flavors)
	assert.Empty(t, flavors)
}

func TestExtractHeadingsInDocumentOrder(t *testing.T) {
	headings, err := Extract(strings.NewReader(samplePage))
	require.NoError(t, err)

	expected := []string{
		"#SWEETCOWICECREAM",
		"WELCOME!",
		"Mint Chip",
		"Vanilla Bean",
		"",
		"",
		"Salted\n        Caramel",
		"Mint Chip",
	}
	assert.Equal(t, expected, headings)
}

func TestExtractNoHeadings(t *testing.T) {
	headings, err := Extract(strings.NewReader("<html><body><p>closed today</p></body></html>"))
	require.NoError(t, err)
	assert.Empty(t, headings)
}

func TestScraperFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/stanley-marketplace/", r.URL.Path)
		assert.Equal(t, "FlavorWatch/test", r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(samplePage))
	}))
	defer server.Close()

	scraper := NewScraper(server.URL+"/stanley-marketplace/", 5*time.Second, "FlavorWatch/test")

	flavors, err := scraper.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Mint Chip", "Vanilla Bean", "Salted\n        Caramel", "Mint Chip"}, flavors)
}

func TestScraperFetchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	scraper := NewScraper(server.URL, 5*time.Second, "FlavorWatch/test")

	flavors, err := scraper.Fetch(context.Background())
	require.Error(t, err)
	assert.Nil(t, flavors)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusServiceUnavailable, fetchErr.StatusCode)
	assert.Equal(t, server.URL, fetchErr.URL)
}

func TestScraperFetchSingleAttempt(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	scraper := NewScraper(server.URL, 5*time.Second, "FlavorWatch/test")

	_, err := scraper.Fetch(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), requests.Load())
}

func TestScraperFetchNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	scraper := NewScraper(url, time.Second, "FlavorWatch/test")

	_, err := scraper.Fetch(context.Background())

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Zero(t, fetchErr.StatusCode)
}

func TestScraperFetchTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Write([]byte(samplePage))
	}))
	defer server.Close()

	scraper := NewScraper(server.URL, 50*time.Millisecond, "FlavorWatch/test")

	_, err := scraper.Fetch(context.Background())

	var fetchErr *FetchError
	assert.True(t, errors.As(err, &fetchErr))
}

func TestNewScraperDefaultTimeout(t *testing.T) {
	scraper := NewScraper(DefaultURL, 0, "FlavorWatch/test")

	assert.Equal(t, DefaultTimeout, scraper.client.GetClient().Timeout)
	assert.Equal(t, DefaultURL, scraper.URL())
}

func TestExtractKeepsInnerWhitespace(t *testing.T) {
	headings, err := Extract(strings.NewReader("<h3>  Cookies  &amp;\tCream </h3><h3>Birthday\nCake</h3>"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Cookies  &\tCream", "Birthday\nCake"}, headings)
}
