package flavor

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultDenylist holds headings on the Sweet Cow page that are not flavors.
var DefaultDenylist = []string{"#SWEETCOWICECREAM", "WELCOME!"}

// Extract returns the trimmed text of every h3 element in document order.
// Inner whitespace is kept as it appears on the page.
func Extract(r io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var headings []string
	doc.Find("h3").Each(func(_ int, s *goquery.Selection) {
		headings = append(headings, strings.TrimSpace(s.Text()))
	})

	return headings, nil
}

// Filter drops empty headings and exact denylist matches. Order and duplicates are kept.
func Filter(headings []string, denylist []string) []string {
	flavors := make([]string, 0, len(headings))
	for _, heading := range headings {
		heading = strings.TrimSpace(heading)
		if heading == "" || slices.Contains(denylist, heading) {
			continue
		}
		flavors = append(flavors, heading)
	}
	return flavors
}
