// Package services holds the volunteer workflows shared by the JSON API and the
// HTML pages: listing with membership, and the register/apply mutations.
package services

import (
	"context"
	"log/slog"

	"volunteerhub/models"
)

// Purger drops cached API responses after a write.
type Purger interface {
	Purge(ctx context.Context, resource, id string)
}

type Deps struct {
	Users         models.UserRepository
	Events        models.EventRepository
	Opportunities models.OpportunityRepository
	Registrations models.RegistrationRepository
	Applications  models.ApplicationRepository
	Cache         Purger
	InFlight      *InFlight
	Logger        *slog.Logger
}

type Service struct {
	users    models.UserRepository
	events   models.EventRepository
	opps     models.OpportunityRepository
	regs     models.RegistrationRepository
	apps     models.ApplicationRepository
	cache    Purger
	inflight *InFlight
	logger   *slog.Logger
}

func New(d Deps) *Service {
	if d.InFlight == nil {
		d.InFlight = NewInFlight()
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return &Service{
		users:    d.Users,
		events:   d.Events,
		opps:     d.Opportunities,
		regs:     d.Registrations,
		apps:     d.Applications,
		cache:    d.Cache,
		inflight: d.InFlight,
		logger:   d.Logger,
	}
}

// Pending reports whether viewer has a mutation of kind in flight for itemID.
func (s *Service) Pending(kind string, viewer *models.Viewer, itemID string) bool {
	if viewer == nil {
		return false
	}
	return s.inflight.Pending(Key{Kind: kind, ViewerID: viewer.ID, ItemID: itemID})
}

func (s *Service) purge(ctx context.Context, resource, id string) {
	if s.cache != nil {
		s.cache.Purge(ctx, resource, id)
	}
}

// begin claims the in-flight slot for a mutation or fails with ErrInFlight.
func (s *Service) begin(kind string, viewer *models.Viewer, itemID string) (func(), error) {
	release, ok := s.inflight.Begin(Key{Kind: kind, ViewerID: viewer.ID, ItemID: itemID})
	if !ok {
		return nil, models.ErrInFlight
	}
	return release, nil
}
