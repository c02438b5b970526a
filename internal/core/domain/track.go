package domain

// TrackMetadata is the flat descriptive record of one track.
type TrackMetadata struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Album      string `json:"album"`
	Artist     string `json:"artist"` // primary artist only
	URL        string `json:"url"`
	CoverURL   string `json:"cover_url,omitempty"`
	PreviewURL string `json:"preview_url,omitempty"`
}

// TrackRow is one track of a dataset: metadata, audio features and the
// label of the batch it was fetched in. Rows are values; pipeline stages
// return new rows instead of mutating their input.
type TrackRow struct {
	TrackMetadata
	Features AudioFeatures `json:"features"`
	Label    string        `json:"label"`
	Group    string        `json:"group"`
}

// Comparison groups used by the dashboard.
const (
	GroupUser        = "User"
	GroupGlobalTop50 = "Global Top 50"
)

// TimeRange is a listening window accepted by the top tracks endpoint.
type TimeRange string

const (
	ShortTerm  TimeRange = "short_term"
	MediumTerm TimeRange = "medium_term"
	LongTerm   TimeRange = "long_term"
)

// TimeRanges lists every window, shortest first.
var TimeRanges = []TimeRange{ShortTerm, MediumTerm, LongTerm}

// Label returns the human label shown in the window selector.
func (tr TimeRange) Label() string {
	switch tr {
	case ShortTerm:
		return "Past month"
	case MediumTerm:
		return "Past 6 months"
	case LongTerm:
		return "Past year"
	default:
		return string(tr)
	}
}

// Valid reports whether tr is one of the known windows.
func (tr TimeRange) Valid() bool {
	switch tr {
	case ShortTerm, MediumTerm, LongTerm:
		return true
	}
	return false
}
