package ports

import (
	"context"

	"github.com/ewilliams-labs/wrapped/internal/core/domain"
)

// DatasetRepository holds the normalized dataset of each session.
type DatasetRepository interface {
	Save(ctx context.Context, sessionID string, ds domain.Dataset) error
	Load(ctx context.Context, sessionID string) (domain.Dataset, error)
	Delete(ctx context.Context, sessionID string) error
}
