package domain

import (
	"errors"
	"testing"
)

func TestAggregate(t *testing.T) {
	rows := []TrackRow{
		{Features: AudioFeatures{Danceability: 0.2, Energy: 1}, Group: GroupUser},
		{Features: AudioFeatures{Danceability: 0.8, Energy: 0}, Group: GroupUser},
		{Features: AudioFeatures{Danceability: 1.0, Energy: 1}, Group: GroupGlobalTop50},
	}

	tests := []struct {
		name     string
		features []Feature
		group    string
		want     []ComparisonRow
		wantErr  error
	}{
		{
			name:     "mean of one feature",
			features: []Feature{Danceability},
			group:    GroupUser,
			want:     []ComparisonRow{{Feature: Danceability, Value: 0.5, Group: GroupUser}},
		},
		{
			name:     "follows feature order",
			features: []Feature{Energy, Danceability},
			group:    GroupUser,
			want: []ComparisonRow{
				{Feature: Energy, Value: 0.5, Group: GroupUser},
				{Feature: Danceability, Value: 0.5, Group: GroupUser},
			},
		},
		{
			name:     "other group",
			features: []Feature{Danceability},
			group:    GroupGlobalTop50,
			want:     []ComparisonRow{{Feature: Danceability, Value: 1.0, Group: GroupGlobalTop50}},
		},
		{
			name:     "empty group",
			features: []Feature{Danceability},
			group:    "Past month",
			wantErr:  ErrEmptyGroup,
		},
		{
			name:     "unknown feature",
			features: []Feature{"popularity"},
			group:    GroupUser,
			wantErr:  ErrUnknownFeature,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Aggregate(rows, tt.features, tt.group)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertComparison(t, got, tt.want)
		})
	}
}

func TestAggregate_CoversEveryFeature(t *testing.T) {
	rows := rowsWith(GroupUser, AudioFeatures{Tempo: 1}, AudioFeatures{Tempo: 3})

	got, err := Aggregate(rows, ComparedFeatures, GroupUser)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != len(ComparedFeatures) {
		t.Fatalf("expected %d rows, got %d", len(ComparedFeatures), len(got))
	}
	for i, f := range ComparedFeatures {
		if got[i].Feature != f {
			t.Errorf("row %d: feature %q, want %q", i, got[i].Feature, f)
		}
	}
}

func TestCompare_EmptyGroupError(t *testing.T) {
	rows := rowsWith(GroupUser, AudioFeatures{})

	_, err := Compare(rows, ComparedFeatures, []string{GroupUser, GroupGlobalTop50})
	var empty *EmptyGroupError
	if !errors.As(err, &empty) {
		t.Fatalf("expected *EmptyGroupError, got %v", err)
	}
	if empty.Group != GroupGlobalTop50 {
		t.Fatalf("expected group %q, got %q", GroupGlobalTop50, empty.Group)
	}
}

// Concatenating A then B or B then A must yield identical comparison rows.
func TestPipeline_SourceOrderIndependent(t *testing.T) {
	userMeta := []TrackMetadata{{ID: "u1"}, {ID: "u2"}, {ID: "u3"}}
	userFeats := []AudioFeatures{
		{Danceability: 0.71, Energy: 0.52, Loudness: -7.1, Tempo: 96, Valence: 0.33},
		{Danceability: 0.44, Energy: 0.81, Loudness: -4.2, Tempo: 128, Valence: 0.61},
		{Danceability: 0.63, Energy: 0.35, Loudness: -11.9, Tempo: 72, Valence: 0.12},
	}
	globalMeta := []TrackMetadata{{ID: "g1"}, {ID: "g2"}, {ID: "g3"}}
	globalFeats := []AudioFeatures{
		{Danceability: 0.82, Energy: 0.74, Loudness: -5.0, Tempo: 118, Valence: 0.77},
		{Danceability: 0.58, Energy: 0.66, Loudness: -6.3, Tempo: 140, Valence: 0.48},
		{Danceability: 0.77, Energy: 0.91, Loudness: -3.1, Tempo: 104, Valence: 0.85},
	}

	user, err := Assemble(userMeta, userFeats, "Past month")
	if err != nil {
		t.Fatalf("assemble user: %v", err)
	}
	user = Tag(user, GroupUser)
	global, err := Assemble(globalMeta, globalFeats, GroupGlobalTop50)
	if err != nil {
		t.Fatalf("assemble global: %v", err)
	}

	groups := []string{GroupUser, GroupGlobalTop50}

	ab, err := BuildDataset(ComparedFeatures, user, global)
	if err != nil {
		t.Fatalf("build A+B: %v", err)
	}
	ba, err := BuildDataset(ComparedFeatures, global, user)
	if err != nil {
		t.Fatalf("build B+A: %v", err)
	}

	gotAB, err := Compare(ab.Rows, ComparedFeatures, groups)
	if err != nil {
		t.Fatalf("compare A+B: %v", err)
	}
	gotBA, err := Compare(ba.Rows, ComparedFeatures, groups)
	if err != nil {
		t.Fatalf("compare B+A: %v", err)
	}

	assertComparison(t, gotAB, gotBA)
}

func assertComparison(t *testing.T, got, want []ComparisonRow) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d rows, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i].Feature != want[i].Feature || got[i].Group != want[i].Group {
			t.Errorf("row %d: got (%s, %s), want (%s, %s)", i, got[i].Feature, got[i].Group, want[i].Feature, want[i].Group)
		}
		if !floatEquals(got[i].Value, want[i].Value, 1e-9) {
			t.Errorf("row %d %s: got %v, want %v", i, want[i].Feature, got[i].Value, want[i].Value)
		}
	}
}
