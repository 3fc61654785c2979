package media

import (
	"context"
	"errors"
	"time"
)

// Service turns API requests into engine calls. It is safe for concurrent use.
type Service struct {
	extractor Extractor
	store     *ArtifactStore

	downloadTimeout time.Duration
	infoTimeout     time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithDownloadTimeout bounds each engine download. Zero disables the bound.
func WithDownloadTimeout(d time.Duration) Option {
	return func(s *Service) { s.downloadTimeout = d }
}

// WithInfoTimeout bounds each metadata lookup. Zero disables the bound.
func WithInfoTimeout(d time.Duration) Option {
	return func(s *Service) { s.infoTimeout = d }
}

// NewService returns a Service that downloads through extractor into store.
func NewService(extractor Extractor, store *ArtifactStore, opts ...Option) (*Service, error) {
	if extractor == nil {
		return nil, errors.New("media: extractor is required")
	}
	if store == nil {
		return nil, errors.New("media: artifact store is required")
	}
	s := &Service{extractor: extractor, store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Store returns the artifact store downloads are written to.
func (s *Service) Store() *ArtifactStore {
	return s.store
}

func withOptionalTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
