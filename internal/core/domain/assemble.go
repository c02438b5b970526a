package domain

// Assemble zips metadata and features pairwise into rows carrying label.
// Group starts out equal to label; use Tag to regroup.
func Assemble(metadata []TrackMetadata, features []AudioFeatures, label string) ([]TrackRow, error) {
	if len(metadata) != len(features) {
		return nil, &LengthMismatchError{Metadata: len(metadata), Features: len(features)}
	}

	rows := make([]TrackRow, len(metadata))
	for i := range metadata {
		rows[i] = TrackRow{
			TrackMetadata: metadata[i],
			Features:      features[i],
			Label:         label,
			Group:         label,
		}
	}
	return rows, nil
}

// Tag returns copies of rows with Group set to group.
func Tag(rows []TrackRow, group string) []TrackRow {
	out := make([]TrackRow, len(rows))
	for i, r := range rows {
		r.Group = group
		out[i] = r
	}
	return out
}
