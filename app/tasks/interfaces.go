package tasks

import "context"

// FlavorSource is the page the flavors are scraped from.
type FlavorSource interface {
	Fetch(ctx context.Context) ([]string, error)
	URL() string
}
