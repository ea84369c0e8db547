package routes

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"volunteerhub/middlewares"
	"volunteerhub/models"
	"volunteerhub/pages"
	"volunteerhub/services"
)

const (
	flashCookie      = "flash"
	opportunitiesKey = "opportunities"
)

// GET /events
func (d *deps) eventsPage(c *gin.Context) {
	viewer := middlewares.CurrentViewer(c)
	res := d.eventsQuery.Load(c.Request.Context(), eventsKey(viewer), d.budget,
		func(ctx context.Context) (eventsData, error) {
			events, err := d.svc.ListEvents(ctx)
			if err != nil {
				return eventsData{}, err
			}
			registered, err := d.svc.RegisteredEvents(ctx, viewer)
			if err != nil {
				return eventsData{}, err
			}
			return eventsData{Events: events, Registered: registered}, nil
		})

	var page pages.EventsPage
	switch {
	case res.Loading:
		page = pages.EventsPage{Viewer: viewer, Loading: true}
	case res.Err != nil:
		d.logger.Error("events page fetch failed", "error", res.Err)
		page = pages.EventsPage{Viewer: viewer, Error: "Could not fetch events. Try again later."}
	default:
		page = pages.BuildEventsPage(viewer, res.Data.Events, res.Data.Registered, d.pending(services.KindRegister, viewer))
	}
	if !page.Loading {
		page.Flash = d.takeFlash(c)
	}
	c.HTML(http.StatusOK, pages.EventsTemplate, page)
}

// POST /events/:id/register
func (d *deps) registerAction(c *gin.Context) {
	ctx := c.Request.Context()
	viewer := middlewares.CurrentViewer(c)
	eventID := c.Param("id")
	defer c.Redirect(http.StatusSeeOther, "/events")

	if viewer == nil {
		d.setFlash(c, pages.RegisterFlash("", models.ErrUnauthenticated))
		return
	}
	event, err := d.svc.GetEvent(ctx, eventID)
	if err != nil {
		d.logActionError("register", err)
		d.setFlash(c, pages.RegisterFlash("", err))
		return
	}

	registered := pages.IsRegistered(viewer, event, nil)
	pending := d.svc.Pending(services.KindRegister, viewer, eventID)
	if pages.EventButton(viewer, registered, pending).Disabled {
		// the button is disabled: nothing is dispatched
		if registered {
			err = models.ErrAlreadyRegistered
		} else {
			err = models.ErrInFlight
		}
		d.setFlash(c, pages.RegisterFlash(event.Title, err))
		return
	}

	_, err = d.svc.RegisterForEvent(ctx, viewer, eventID)
	if err == nil {
		d.eventsQuery.Forget(eventsKey(viewer))
	}
	d.logActionError("register", err)
	d.setFlash(c, pages.RegisterFlash(event.Title, err))
}

// GET /opportunities
func (d *deps) opportunitiesPage(c *gin.Context) {
	viewer := middlewares.CurrentViewer(c)
	res := d.opportunities.Load(c.Request.Context(), opportunitiesKey, d.budget, d.svc.ListOpportunities)

	var page pages.OpportunitiesPage
	switch {
	case res.Loading:
		page = pages.OpportunitiesPage{Viewer: viewer, Loading: true}
	case res.Err != nil:
		d.logger.Error("opportunities page fetch failed", "error", res.Err)
		page = pages.OpportunitiesPage{Viewer: viewer, Error: "Could not fetch opportunities. Try again later."}
	default:
		page = pages.BuildOpportunitiesPage(viewer, res.Data, d.pending(services.KindApply, viewer))
	}
	if !page.Loading {
		page.Flash = d.takeFlash(c)
	}
	c.HTML(http.StatusOK, pages.OpportunitiesTemplate, page)
}

// POST /opportunities/:id/apply
func (d *deps) applyAction(c *gin.Context) {
	ctx := c.Request.Context()
	viewer := middlewares.CurrentViewer(c)
	oppID := c.Param("id")
	defer c.Redirect(http.StatusSeeOther, "/opportunities")

	if !viewer.IsIndividual() {
		d.setFlash(c, pages.ApplyFlash("", models.ErrNotEligible))
		return
	}
	opp, err := d.svc.GetOpportunity(ctx, oppID)
	if err != nil {
		d.logActionError("apply", err)
		d.setFlash(c, pages.ApplyFlash("", err))
		return
	}

	action := pages.OpportunityAction(viewer, opp, d.svc.Pending(services.KindApply, viewer, oppID))
	if action.Disabled {
		if action.Kind == pages.ActionAlreadyApplied {
			err = models.ErrAlreadyApplied
		} else {
			err = models.ErrInFlight
		}
		d.setFlash(c, pages.ApplyFlash(opp.Title, err))
		return
	}

	_, err = d.svc.ApplyToOpportunity(ctx, viewer, oppID)
	if err == nil {
		d.opportunities.Forget(opportunitiesKey)
	}
	d.logActionError("apply", err)
	d.setFlash(c, pages.ApplyFlash(opp.Title, err))
}

func (d *deps) pending(kind string, viewer *models.Viewer) pages.PendingFunc {
	return func(itemID string) bool { return d.svc.Pending(kind, viewer, itemID) }
}

// logActionError records failures that are not an expected user outcome.
func (d *deps) logActionError(action string, err error) {
	if err == nil || statusFor(err) != http.StatusInternalServerError {
		return
	}
	d.logger.Error("page action failed", "action", action, "error", err)
}

func (d *deps) setFlash(c *gin.Context, f pages.Flash) {
	b, err := json.Marshal(f)
	if err != nil {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, base64.RawURLEncoding.EncodeToString(b), 60, "/", "", d.secure, true)
}

// takeFlash reads and clears the pending toast.
func (d *deps) takeFlash(c *gin.Context) *pages.Flash {
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return nil
	}
	c.SetCookie(flashCookie, "", -1, "/", "", d.secure, true)

	b, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	var f pages.Flash
	if err := json.Unmarshal(b, &f); err != nil {
		return nil
	}
	return &f
}

// eventsKey scopes the shared events fetch to the viewer, whose registrations
// it carries.
func eventsKey(v *models.Viewer) string {
	if v == nil {
		return "events:"
	}
	return "events:" + v.ID
}
