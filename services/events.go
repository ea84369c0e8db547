package services

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"volunteerhub/models"
)

const eventsResource = "events"

// ListEvents returns every event with its registrant list filled in.
func (s *Service) ListEvents(ctx context.Context) ([]models.Event, error) {
	events, err := s.events.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	byEvent, err := s.regs.RegistrantsByEvent(ctx)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	for i := range events {
		events[i].RegisteredUsers = registrantsOrEmpty(byEvent[events[i].ID])
	}
	return events, nil
}

func (s *Service) GetEvent(ctx context.Context, id string) (models.Event, error) {
	e, err := s.events.GetByID(ctx, id)
	if err != nil {
		return models.Event{}, err
	}
	users, err := s.regs.Registrants(ctx, id)
	if err != nil {
		return models.Event{}, fmt.Errorf("list registrants of %s: %w", id, err)
	}
	e.RegisteredUsers = registrantsOrEmpty(users)
	return e, nil
}

// RegisteredEvents lists the events viewer has signed up for. Registrations
// pointing at deleted events are skipped.
func (s *Service) RegisteredEvents(ctx context.Context, viewer *models.Viewer) ([]models.Event, error) {
	if viewer == nil {
		return []models.Event{}, nil
	}
	ids, err := s.regs.EventIDsByUser(ctx, viewer.ID)
	if err != nil {
		return nil, fmt.Errorf("list registrations of %s: %w", viewer.ID, err)
	}
	out := make([]models.Event, 0, len(ids))
	for _, id := range ids {
		e, err := s.GetEvent(ctx, id)
		if errors.Is(err, models.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *Service) CreateEvent(ctx context.Context, viewer *models.Viewer, e *models.Event) error {
	if !viewer.IsOrganization() {
		return models.ErrForbidden
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.OrganizerID = viewer.ID
	e.RegisteredUsers = nil

	if err := s.events.Create(ctx, e); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	s.purge(ctx, eventsResource, e.ID)
	return nil
}

func (s *Service) UpdateEvent(ctx context.Context, viewer *models.Viewer, id string, incoming *models.Event) error {
	old, err := s.ownedEvent(ctx, viewer, id)
	if err != nil {
		return err
	}
	incoming.ID = id
	incoming.OrganizerID = old.OrganizerID

	if err := s.events.Update(ctx, incoming); err != nil {
		return fmt.Errorf("update event %s: %w", id, err)
	}
	s.purge(ctx, eventsResource, id)
	return nil
}

func (s *Service) DeleteEvent(ctx context.Context, viewer *models.Viewer, id string) error {
	if _, err := s.ownedEvent(ctx, viewer, id); err != nil {
		return err
	}
	if err := s.events.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete event %s: %w", id, err)
	}
	s.purge(ctx, eventsResource, id)
	return nil
}

func (s *Service) ownedEvent(ctx context.Context, viewer *models.Viewer, id string) (models.Event, error) {
	if viewer == nil {
		return models.Event{}, models.ErrUnauthenticated
	}
	e, err := s.events.GetByID(ctx, id)
	if err != nil {
		return models.Event{}, err
	}
	if e.OrganizerID != viewer.ID {
		return models.Event{}, models.ErrForbidden
	}
	return e, nil
}

// RegisterForEvent signs viewer up for eventID and returns the event as re-read
// after the write. It fails with ErrAlreadyRegistered when viewer is already a
// registrant and with ErrInFlight while an identical request is unresolved.
func (s *Service) RegisterForEvent(ctx context.Context, viewer *models.Viewer, eventID string) (models.Event, error) {
	if viewer == nil {
		return models.Event{}, models.ErrUnauthenticated
	}
	e, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return models.Event{}, err
	}
	if e.HasRegistrant(viewer.ID) {
		return e, models.ErrAlreadyRegistered
	}

	release, err := s.begin(KindRegister, viewer, eventID)
	if err != nil {
		return e, err
	}
	defer release()

	if err := s.regs.Register(ctx, viewer.ID, eventID); err != nil {
		if errors.Is(err, models.ErrAlreadyRegistered) {
			return e, err
		}
		return e, fmt.Errorf("register %s for event %s: %w", viewer.ID, eventID, err)
	}
	s.purge(ctx, eventsResource, eventID)
	s.logger.Info("event registration", "event", eventID, "user", viewer.ID)

	fresh, err := s.GetEvent(ctx, eventID)
	if err != nil {
		// the registration is stored; report it from what we read before
		s.logger.Warn("re-read after registration failed", "event", eventID, "error", err)
		e.RegisteredUsers = append(slices.Clone(e.RegisteredUsers), viewer.ID)
		return e, nil
	}
	return fresh, nil
}

func (s *Service) CancelRegistration(ctx context.Context, viewer *models.Viewer, eventID string) error {
	if viewer == nil {
		return models.ErrUnauthenticated
	}
	if err := s.regs.Cancel(ctx, viewer.ID, eventID); err != nil {
		return err
	}
	s.purge(ctx, eventsResource, eventID)
	return nil
}

func registrantsOrEmpty(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
