package domain

import (
	"errors"
	"reflect"
	"testing"
)

func TestExtractIDs(t *testing.T) {
	tests := []struct {
		name      string
		batch     string
		nested    bool
		want      []string
		wantErr   error
		wantIndex int
	}{
		{
			name:   "top tracks keep order",
			batch:  `{"items":[{"id":"b"},{"id":"a"},{"id":"c"}]}`,
			nested: false,
			want:   []string{"b", "a", "c"},
		},
		{
			name:   "playlist items unwrap track",
			batch:  `{"items":[{"added_at":"x","track":{"id":"p1"}},{"track":{"id":"p2"}}]}`,
			nested: true,
			want:   []string{"p1", "p2"},
		},
		{
			name:   "duplicates are kept",
			batch:  `{"items":[{"id":"a"},{"id":"a"}]}`,
			nested: false,
			want:   []string{"a", "a"},
		},
		{
			name:   "empty batch",
			batch:  `{"items":[]}`,
			nested: true,
			want:   []string{},
		},
		{
			name:      "missing id",
			batch:     `{"items":[{"id":"a"},{"name":"no id"}]}`,
			nested:    false,
			wantErr:   ErrMalformedInput,
			wantIndex: 1,
		},
		{
			name:      "null track in playlist",
			batch:     `{"items":[{"track":null}]}`,
			nested:    true,
			wantErr:   ErrMalformedInput,
			wantIndex: 0,
		},
		{
			name:      "nested flag on flat batch",
			batch:     `{"items":[{"id":"a"}]}`,
			nested:    true,
			wantErr:   ErrMalformedInput,
			wantIndex: 0,
		},
		{
			name:      "numeric id",
			batch:     `{"items":[{"id":42}]}`,
			nested:    false,
			wantErr:   ErrMalformedInput,
			wantIndex: 0,
		},
		{
			name:      "no items array",
			batch:     `{"tracks":[]}`,
			wantErr:   ErrMalformedInput,
			wantIndex: -1,
		},
		{
			name:      "invalid json",
			batch:     `{"items":[`,
			wantErr:   ErrMalformedInput,
			wantIndex: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractIDs(RawBatch(tt.batch), tt.nested)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				var malformed *MalformedInputError
				if !errors.As(err, &malformed) {
					t.Fatalf("expected *MalformedInputError, got %T", err)
				}
				if malformed.Index != tt.wantIndex {
					t.Fatalf("expected index %d, got %d", tt.wantIndex, malformed.Index)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}
