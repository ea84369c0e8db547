package routes

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
	_ "time/tzdata" // Metadata["timezone"] must resolve without system zoneinfo

	"github.com/emersion/go-ical"
	"github.com/gin-gonic/gin"

	"volunteerhub/models"
)

const defaultEventDuration = 2 * time.Hour

// GET /api/events/:id/calendar.ics
func (d *deps) eventCalendar(c *gin.Context) {
	event, err := d.svc.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		d.fail(c, err, "Could not fetch event. Try again later.")
		return
	}

	cal, err := eventToICal(event, time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Event has no valid date or time."})
		return
	}

	c.Header("Content-Type", "text/calendar; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="event-%s.ics"`, event.ID))
	c.Status(http.StatusOK)
	if err := ical.NewEncoder(c.Writer).Encode(cal); err != nil {
		d.logger.Error("encode calendar", "event", event.ID, "error", err)
	}
}

// eventToICal builds a one-event calendar. Date and time are read in the zone
// named by Metadata["timezone"] (UTC when absent); Metadata["durationMinutes"]
// overrides the default two-hour length.
func eventToICal(e models.Event, now time.Time) (*ical.Calendar, error) {
	loc := time.UTC
	if tz := e.Metadata["timezone"]; tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("timezone %q: %w", tz, err)
		}
		loc = l
	}
	start, err := time.ParseInLocation("2006-01-02 15:04", e.Date+" "+e.Time, loc)
	if err != nil {
		return nil, fmt.Errorf("event %s start: %w", e.ID, err)
	}
	duration := defaultEventDuration
	if raw := e.Metadata["durationMinutes"]; raw != "" {
		if m, err := strconv.Atoi(raw); err == nil && m > 0 {
			duration = time.Duration(m) * time.Minute
		}
	}

	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, e.ID+"@volunteerhub")
	ve.Props.SetText(ical.PropSummary, e.Title)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, now)
	ve.Props.SetDateTime(ical.PropDateTimeStart, start.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeEnd, start.Add(duration).UTC())
	if e.Description != "" {
		ve.Props.SetText(ical.PropDescription, e.Description)
	}
	if e.Location != "" {
		ve.Props.SetText(ical.PropLocation, e.Location)
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//volunteerhub//events//EN")
	cal.Children = append(cal.Children, ve)
	return cal, nil
}
