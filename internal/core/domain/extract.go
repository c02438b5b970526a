package domain

import (
	"github.com/tidwall/gjson"
)

// RawBatch is the undecoded JSON body of a paging object ({"items": [...]}).
type RawBatch []byte

// ExtractIDs returns the track ids of a batch in item order, duplicates kept.
// When nested is true each item wraps its track under "track", which is the
// shape of playlist items; top tracks are listed directly.
func ExtractIDs(batch RawBatch, nested bool) ([]string, error) {
	if !gjson.ValidBytes(batch) {
		return nil, &MalformedInputError{Index: -1, Field: "items", Reason: "invalid JSON"}
	}

	items := gjson.GetBytes(batch, "items")
	if !items.IsArray() {
		return nil, &MalformedInputError{Index: -1, Field: "items", Reason: "missing array"}
	}

	path := "id"
	if nested {
		path = "track.id"
	}

	entries := items.Array()
	ids := make([]string, 0, len(entries))
	for i, item := range entries {
		id := item.Get(path)
		if id.Type != gjson.String || id.Str == "" {
			return nil, &MalformedInputError{Index: i, Field: path}
		}
		ids = append(ids, id.Str)
	}

	return ids, nil
}
