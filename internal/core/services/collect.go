package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/ewilliams-labs/wrapped/internal/core/domain"
	"github.com/ewilliams-labs/wrapped/internal/core/ports"
)

// collect runs one source through extract, fetch and assemble.
func (o *Orchestrator) collect(ctx context.Context, sp ports.SpotifyProvider, src Source) ([]domain.TrackRow, error) {
	// 1. Raw batch -> ids
	batch, err := src.Fetch(ctx, sp)
	if err != nil {
		return nil, fmt.Errorf("service: fetch %q: %w", src.Label, err)
	}
	ids, err := domain.ExtractIDs(batch, src.Nested)
	if err != nil {
		return nil, fmt.Errorf("service: extract %q: %w", src.Label, err)
	}

	// 2. Metadata and features are independent batch calls
	var (
		wg       sync.WaitGroup
		metadata []domain.TrackMetadata
		features []*domain.AudioFeatures
		metaErr  error
		featErr  error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		metadata, metaErr = sp.FetchTrackMetadata(ctx, ids)
	}()
	go func() {
		defer wg.Done()
		features, featErr = sp.FetchAudioFeatures(ctx, ids)
	}()
	wg.Wait()

	if metaErr != nil {
		return nil, fmt.Errorf("service: metadata %q: %w", src.Label, metaErr)
	}
	if featErr != nil {
		return nil, fmt.Errorf("service: audio features %q: %w", src.Label, featErr)
	}

	// 3. Fill gaps, then zip
	resolved, err := o.resolveFeatures(ctx, metadata, features)
	if err != nil {
		return nil, fmt.Errorf("service: audio features %q: %w", src.Label, err)
	}

	rows, err := domain.Assemble(metadata, resolved, src.Label)
	if err != nil {
		return nil, fmt.Errorf("service: assemble %q: %w", src.Label, err)
	}
	return domain.Tag(rows, src.Group), nil
}

// resolveFeatures dereferences features, estimating missing entries when an
// estimator is configured. Without one a missing entry is malformed input.
func (o *Orchestrator) resolveFeatures(ctx context.Context, metadata []domain.TrackMetadata, features []*domain.AudioFeatures) ([]domain.AudioFeatures, error) {
	out := make([]domain.AudioFeatures, len(features))
	var missing []int
	for i, f := range features {
		if f == nil {
			missing = append(missing, i)
			continue
		}
		out[i] = *f
	}
	if len(missing) == 0 {
		return out, nil
	}

	if o.estimator == nil {
		return nil, &domain.MalformedInputError{Index: missing[0], Field: "audio_features", Reason: "no features for track"}
	}
	if len(metadata) != len(features) {
		return nil, &domain.LengthMismatchError{Metadata: len(metadata), Features: len(features)}
	}

	reqs := make([]ports.EstimateRequest, len(missing))
	for j, i := range missing {
		reqs[j] = ports.EstimateRequest{TrackID: metadata[i].ID, PreviewURL: metadata[i].PreviewURL}
	}

	log.Printf("WARN service: estimating audio features for %d of %d tracks", len(missing), len(features))
	estimated, err := o.estimator.Estimate(ctx, reqs)
	if err != nil {
		return nil, err
	}
	if len(estimated) != len(reqs) {
		return nil, &domain.LengthMismatchError{Metadata: len(reqs), Features: len(estimated)}
	}
	for j, i := range missing {
		out[i] = estimated[j]
	}
	return out, nil
}
