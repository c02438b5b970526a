package domain

import "math"

// Normalize min-max rescales each named column to [0,1] using the minimum
// and maximum observed across all rows. A column whose values are all equal
// collapses to 0. The input rows are left untouched.
func Normalize(rows []TrackRow, features []Feature) ([]TrackRow, error) {
	if err := validateFeatures(features); err != nil {
		return nil, err
	}

	out := make([]TrackRow, len(rows))
	copy(out, rows)
	if len(rows) == 0 {
		return out, nil
	}

	for _, f := range features {
		low, high := math.Inf(1), math.Inf(-1)
		for _, r := range rows {
			v, _ := r.Features.Get(f)
			low = math.Min(low, v)
			high = math.Max(high, v)
		}

		span := high - low
		for i := range out {
			v, _ := out[i].Features.Get(f)
			scaled := 0.0
			if span > 0 {
				scaled = (v - low) / span
			}
			_ = out[i].Features.Set(f, scaled)
		}
	}

	return out, nil
}

// Dataset is the union of every source with Features normalized across it.
type Dataset struct {
	Rows     []TrackRow `json:"rows"`
	Features []Feature  `json:"features"`
}

// BuildDataset concatenates sources in order and normalizes features once
// over the union so that group means stay comparable.
func BuildDataset(features []Feature, sources ...[]TrackRow) (Dataset, error) {
	total := 0
	for _, s := range sources {
		total += len(s)
	}
	union := make([]TrackRow, 0, total)
	for _, s := range sources {
		union = append(union, s...)
	}

	rows, err := Normalize(union, features)
	if err != nil {
		return Dataset{}, err
	}

	return Dataset{
		Rows:     rows,
		Features: append([]Feature(nil), features...),
	}, nil
}
