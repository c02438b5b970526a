package spotify

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/ewilliams-labs/wrapped/internal/core/domain"
)

// FetchTopTracks returns the raw paging body of GET /me/top/tracks.
func (c *Client) FetchTopTracks(ctx context.Context, limit, offset int, timeRange domain.TimeRange) (domain.RawBatch, error) {
	body, err := c.get(ctx, "top tracks", "/me/top/tracks", map[string]string{
		"limit":      strconv.Itoa(limit),
		"offset":     strconv.Itoa(offset),
		"time_range": string(timeRange),
	})
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: %w", err)
	}
	return domain.RawBatch(body), nil
}

// FetchPlaylistItems returns the raw paging body of GET /playlists/{id}/tracks.
func (c *Client) FetchPlaylistItems(ctx context.Context, playlistID string, limit, offset int) (domain.RawBatch, error) {
	if playlistID == "" {
		return nil, fmt.Errorf("spotify adapter: playlist id is required")
	}

	path := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
	body, err := c.get(ctx, "playlist items", path, map[string]string{
		"limit":  strconv.Itoa(limit),
		"offset": strconv.Itoa(offset),
	})
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: %w", err)
	}
	return domain.RawBatch(body), nil
}
