package pages

import (
	"slices"

	"github.com/dustin/go-humanize"

	"volunteerhub/models"
)

type EventCard struct {
	ID              string
	Title           string
	Date            string
	Time            string
	Location        string
	Description     string
	RegisteredCount int
	RegisteredLabel string
	Registered      bool
	Button          Button
}

type EventsPage struct {
	Viewer  *models.Viewer
	Loading bool
	Error   string
	Flash   *Flash
	Cards   []EventCard
}

// IsRegistered reports whether viewer is signed up for e, either as a listed
// registrant or through the viewer's own registered-events list.
func IsRegistered(viewer *models.Viewer, e models.Event, registered []models.Event) bool {
	id := viewerID(viewer)
	if id == "" {
		return false
	}
	if e.HasRegistrant(id) {
		return true
	}
	return slices.ContainsFunc(registered, func(r models.Event) bool { return r.ID == e.ID })
}

// EventButton: disabled once registered or while a registration is in flight.
func EventButton(viewer *models.Viewer, registered, pending bool) Button {
	switch {
	case viewer == nil:
		return Button{Label: "Log in to Register", Disabled: true, Variant: VariantOutline}
	case registered:
		return Button{Label: "Registered", Disabled: true, Busy: pending, Variant: VariantSuccess}
	default:
		return Button{Label: "Register", Disabled: pending, Busy: pending, Variant: VariantPrimary}
	}
}

// BuildEventsPage renders one card per event in upstream order.
func BuildEventsPage(viewer *models.Viewer, events, registered []models.Event, pending PendingFunc) EventsPage {
	if pending == nil {
		pending = noPending
	}
	page := EventsPage{Viewer: viewer, Cards: make([]EventCard, 0, len(events))}
	for _, e := range events {
		isReg := IsRegistered(viewer, e, registered)
		n := len(e.RegisteredUsers)
		page.Cards = append(page.Cards, EventCard{
			ID:              e.ID,
			Title:           e.Title,
			Date:            e.Date,
			Time:            e.Time,
			Location:        e.Location,
			Description:     e.Description,
			RegisteredCount: n,
			RegisteredLabel: humanize.Comma(int64(n)) + " registered",
			Registered:      isReg,
			Button:          EventButton(viewer, isReg, viewer != nil && pending(e.ID)),
		})
	}
	return page
}

// EventCardFor finds the card of one event, used by the register action to
// decide whether a click may dispatch at all.
func (p EventsPage) EventCardFor(id string) (EventCard, bool) {
	for _, c := range p.Cards {
		if c.ID == id {
			return c, true
		}
	}
	return EventCard{}, false
}
