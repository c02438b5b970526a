package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ewilliams-labs/wrapped/internal/core/domain"
	"github.com/ewilliams-labs/wrapped/internal/core/ports"
)

// ErrNoSession is returned when no user has logged in yet.
var ErrNoSession = errors.New("service: no active session")

// GroupsBoth selects every comparison group.
const GroupsBoth = "both"

// Session is the single logged-in user and the dataset built for them.
type Session struct {
	ID        string         `json:"id"`
	User      string         `json:"user"`
	StartedAt time.Time      `json:"started_at"`
	Labels    []string       `json:"labels"`
	Groups    map[string]int `json:"groups"`

	spotify ports.SpotifyProvider
}

// CompareQuery selects the radar chart data.
type CompareQuery struct {
	Features []domain.Feature // empty selects every normalized feature
	Groups   string           // a group name or GroupsBoth; empty means GroupUser
}

// Orchestrator runs the track pipeline and owns the active session.
type Orchestrator struct {
	repo      ports.DatasetRepository
	estimator ports.FeatureEstimator
	plan      Plan
	now       func() time.Time

	mu     sync.RWMutex
	active *Session
}

// NewOrchestrator constructs an Orchestrator. estimator may be nil.
func NewOrchestrator(repo ports.DatasetRepository, estimator ports.FeatureEstimator, plan Plan) *Orchestrator {
	return &Orchestrator{
		repo:      repo,
		estimator: estimator,
		plan:      plan,
		now:       time.Now,
	}
}

// StartSession builds the dataset for user and makes it the active session,
// discarding any previous one.
func (o *Orchestrator) StartSession(ctx context.Context, user string, sp ports.SpotifyProvider) (Session, error) {
	if sp == nil {
		return Session{}, errors.New("service: spotify provider is required")
	}

	ds, err := o.BuildDataset(ctx, sp)
	if err != nil {
		return Session{}, err
	}

	s := &Session{
		ID:        uuid.NewString(),
		User:      user,
		StartedAt: o.now(),
		spotify:   sp,
	}
	s.describe(ds)

	if err := o.repo.Save(ctx, s.ID, ds); err != nil {
		return Session{}, fmt.Errorf("service: failed to store dataset: %w", err)
	}

	o.mu.Lock()
	previous := o.active
	o.active = s
	o.mu.Unlock()

	if previous != nil {
		o.discard(ctx, previous.ID)
	}

	log.Printf("service: session %s started for %q with %d tracks", s.ID, user, len(ds.Rows))
	return *s, nil
}

// Refresh rebuilds the active session's dataset with the same credentials.
func (o *Orchestrator) Refresh(ctx context.Context) (Session, error) {
	s, err := o.current()
	if err != nil {
		return Session{}, err
	}

	ds, err := o.BuildDataset(ctx, s.spotify)
	if err != nil {
		return Session{}, err
	}
	if err := o.repo.Save(ctx, s.ID, ds); err != nil {
		return Session{}, fmt.Errorf("service: failed to store dataset: %w", err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.active == nil || o.active.ID != s.ID {
		return Session{}, ErrNoSession
	}
	o.active.describe(ds)
	return *o.active, nil
}

// EndSession drops the active session and its dataset.
func (o *Orchestrator) EndSession(ctx context.Context) error {
	o.mu.Lock()
	s := o.active
	o.active = nil
	o.mu.Unlock()

	if s == nil {
		return ErrNoSession
	}
	if err := o.repo.Delete(ctx, s.ID); err != nil {
		return fmt.Errorf("service: failed to delete dataset: %w", err)
	}
	return nil
}

// CurrentSession returns a snapshot of the active session.
func (o *Orchestrator) CurrentSession() (Session, error) {
	return o.current()
}

// BuildDataset fetches every planned source and normalizes their union.
func (o *Orchestrator) BuildDataset(ctx context.Context, sp ports.SpotifyProvider) (domain.Dataset, error) {
	if err := o.plan.validate(); err != nil {
		return domain.Dataset{}, err
	}

	sources := o.plan.Sources()
	batches := make([][]domain.TrackRow, 0, len(sources))
	for _, src := range sources {
		rows, err := o.collect(ctx, sp, src)
		if err != nil {
			return domain.Dataset{}, err
		}
		batches = append(batches, rows)
	}

	ds, err := domain.BuildDataset(o.plan.Features, batches...)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("service: normalize: %w", err)
	}
	return ds, nil
}

// Browse returns one page of the song browser.
func (o *Orchestrator) Browse(ctx context.Context, q domain.BrowseQuery) ([]domain.TrackRow, error) {
	ds, err := o.dataset(ctx)
	if err != nil {
		return nil, err
	}
	return domain.Browse(ds.Rows, q)
}

// Compare returns the comparison table for the selected features and groups.
func (o *Orchestrator) Compare(ctx context.Context, q CompareQuery) ([]domain.ComparisonRow, error) {
	ds, err := o.dataset(ctx)
	if err != nil {
		return nil, err
	}

	features := q.Features
	if len(features) == 0 {
		features = ds.Features
	}
	for _, f := range features {
		if !containsFeature(ds.Features, f) {
			return nil, fmt.Errorf("%w: %q is not normalized", domain.ErrUnknownFeature, f)
		}
	}

	var groups []string
	switch q.Groups {
	case "":
		groups = []string{domain.GroupUser}
	case GroupsBoth:
		groups = []string{domain.GroupUser, domain.GroupGlobalTop50}
	default:
		groups = []string{q.Groups}
	}

	return domain.Compare(ds.Rows, features, groups)
}

func (o *Orchestrator) dataset(ctx context.Context) (domain.Dataset, error) {
	s, err := o.current()
	if err != nil {
		return domain.Dataset{}, err
	}
	ds, err := o.repo.Load(ctx, s.ID)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("service: failed to load dataset: %w", err)
	}
	return ds, nil
}

func (o *Orchestrator) current() (Session, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.active == nil {
		return Session{}, ErrNoSession
	}
	return *o.active, nil
}

func (o *Orchestrator) discard(ctx context.Context, id string) {
	if err := o.repo.Delete(ctx, id); err != nil {
		log.Printf("WARN service: failed to discard session %s: %v", id, err)
	}
}

func (s *Session) describe(ds domain.Dataset) {
	s.Labels = domain.Labels(ds.Rows)
	s.Groups = make(map[string]int)
	for _, r := range ds.Rows {
		s.Groups[r.Group]++
	}
}

func containsFeature(features []domain.Feature, f domain.Feature) bool {
	for _, x := range features {
		if x == f {
			return true
		}
	}
	return false
}
