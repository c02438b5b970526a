package domain

import (
	"fmt"

	"github.com/samber/lo"
)

// DefaultBrowseLimit is the page size of the song browser.
const DefaultBrowseLimit = 6

// BrowseQuery selects one page of the song browser.
type BrowseQuery struct {
	Label  string // listening window; empty selects the first label present
	Limit  int    // 0 means DefaultBrowseLimit
	Search string // matched against title and artist
}

// Browse returns the first Limit rows of Label matching Search, in dataset order.
func Browse(rows []TrackRow, q BrowseQuery) ([]TrackRow, error) {
	if q.Limit < 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidQuery, q.Limit)
	}
	limit := q.Limit
	if limit == 0 {
		limit = DefaultBrowseLimit
	}

	label := q.Label
	if label == "" {
		labels := Labels(rows)
		if len(labels) == 0 {
			return []TrackRow{}, nil
		}
		label = labels[0]
	}

	matches := lo.Filter(rows, func(r TrackRow, _ int) bool {
		return r.Label == label && matchesSearch(r, q.Search)
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// Labels lists the distinct labels of rows in first-seen order.
func Labels(rows []TrackRow) []string {
	return lo.Uniq(lo.Map(rows, func(r TrackRow, _ int) string { return r.Label }))
}
