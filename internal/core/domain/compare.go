package domain

import "github.com/samber/lo"

// ComparisonRow is one (feature, mean, group) entry of the comparison table.
type ComparisonRow struct {
	Feature Feature `json:"feature"`
	Value   float64 `json:"value"`
	Group   string  `json:"group"`
}

// Aggregate averages each feature over the rows of group, in features order.
func Aggregate(rows []TrackRow, features []Feature, group string) ([]ComparisonRow, error) {
	if err := validateFeatures(features); err != nil {
		return nil, err
	}

	members := lo.Filter(rows, func(r TrackRow, _ int) bool {
		return r.Group == group
	})
	if len(members) == 0 {
		return nil, &EmptyGroupError{Group: group}
	}

	out := make([]ComparisonRow, 0, len(features))
	for _, f := range features {
		sum := lo.SumBy(members, func(r TrackRow) float64 {
			v, _ := r.Features.Get(f)
			return v
		})
		out = append(out, ComparisonRow{
			Feature: f,
			Value:   sum / float64(len(members)),
			Group:   group,
		})
	}
	return out, nil
}

// Compare concatenates Aggregate for each group in the order given.
func Compare(rows []TrackRow, features []Feature, groups []string) ([]ComparisonRow, error) {
	out := make([]ComparisonRow, 0, len(features)*len(groups))
	for _, g := range groups {
		agg, err := Aggregate(rows, features, g)
		if err != nil {
			return nil, err
		}
		out = append(out, agg...)
	}
	return out, nil
}

// Groups lists the distinct groups of rows in first-seen order.
func Groups(rows []TrackRow) []string {
	return lo.Uniq(lo.Map(rows, func(r TrackRow, _ int) string { return r.Group }))
}
