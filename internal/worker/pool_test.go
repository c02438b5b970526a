package worker

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/ewilliams-labs/wrapped/internal/core/ports"
)

func pcm(samples ...int16) []byte {
	var buf bytes.Buffer
	for _, s := range samples {
		_ = binary.Write(&buf, binary.LittleEndian, s)
	}
	return buf.Bytes()
}

func TestMeasurePCM(t *testing.T) {
	tests := []struct {
		name         string
		input        []byte
		wantEnergy   float64
		wantLoudness float64
		wantErr      bool
	}{
		{name: "half scale", input: pcm(16384, -16384, 16384, -16384), wantEnergy: 0.5, wantLoudness: 20 * math.Log10(0.5)},
		{name: "silence hits floor", input: pcm(0, 0, 0), wantEnergy: 0, wantLoudness: silenceFloor},
		{name: "empty is an error", input: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := measurePCM(bytes.NewReader(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got.Energy-tt.wantEnergy) > 1e-9 {
				t.Fatalf("energy: got %v, want %v", got.Energy, tt.wantEnergy)
			}
			if math.Abs(got.Loudness-tt.wantLoudness) > 1e-9 {
				t.Fatalf("loudness: got %v, want %v", got.Loudness, tt.wantLoudness)
			}
		})
	}
}

func TestDeterministicFeatures(t *testing.T) {
	a := deterministicFeatures("track-1")
	b := deterministicFeatures("track-1")
	c := deterministicFeatures("track-2")

	if a != b {
		t.Fatalf("same id produced different features: %+v vs %+v", a, b)
	}
	if a == c {
		t.Fatalf("different ids produced identical features")
	}
	if !a.Estimated {
		t.Fatalf("expected Estimated to be set")
	}
	if a.Tempo < 60 || a.Tempo > 180 || a.Loudness > 0 {
		t.Fatalf("features out of range: %+v", a)
	}
}

func TestPool_Estimate(t *testing.T) {
	original := AnalyzePreviewFunc
	t.Cleanup(func() { AnalyzePreviewFunc = original })

	AnalyzePreviewFunc = func(ctx context.Context, url string) (PreviewAnalysis, error) {
		switch url {
		case "http://preview/ok.mp3":
			return PreviewAnalysis{Energy: 0.77, Loudness: -4}, nil
		default:
			return PreviewAnalysis{}, errors.New("decode failed")
		}
	}

	pool := NewPool(1)
	pool.Start(3)
	defer pool.Stop()

	reqs := []ports.EstimateRequest{
		{TrackID: "a", PreviewURL: "http://preview/ok.mp3"},
		{TrackID: "b"},
		{TrackID: "c", PreviewURL: "http://preview/broken.mp3"},
	}
	got, err := pool.Estimate(context.Background(), reqs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(got))
	}

	if got[0].Energy != 0.77 || got[0].Loudness != -4 {
		t.Fatalf("analysis not applied: %+v", got[0])
	}
	if got[1] != deterministicFeatures("b") {
		t.Fatalf("expected seeded estimate for b, got %+v", got[1])
	}
	if got[2] != deterministicFeatures("c") {
		t.Fatalf("expected seeded estimate for c after failed analysis, got %+v", got[2])
	}
	for i, f := range got {
		if !f.Estimated {
			t.Fatalf("result %d not marked estimated", i)
		}
	}
}

func TestPool_StoppedAndCancelled(t *testing.T) {
	pool := NewPool(1)
	pool.Start(1)
	pool.Stop()
	pool.Stop()

	_, err := pool.Estimate(context.Background(), []ports.EstimateRequest{{TrackID: "a"}})
	if !errors.Is(err, ErrPoolStopped) {
		t.Fatalf("expected ErrPoolStopped, got %v", err)
	}

	// Not started: the queue fills and the cancelled context wins.
	idle := NewPool(1)
	defer idle.Stop()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = idle.Estimate(ctx, []ports.EstimateRequest{{TrackID: "a"}, {TrackID: "b"}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
