package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"volunteerhub/middlewares"
	"volunteerhub/models"
)

// GET /api/events
func (d *deps) getEvents(c *gin.Context) {
	events, err := d.svc.ListEvents(c.Request.Context())
	if err != nil {
		d.fail(c, err, "Could not fetch events. Try again later.")
		return
	}
	c.JSON(http.StatusOK, events)
}

// GET /api/events/:id
func (d *deps) getEvent(c *gin.Context) {
	event, err := d.svc.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		d.fail(c, err, "Could not fetch event. Try again later.")
		return
	}
	c.JSON(http.StatusOK, event)
}

// GET /api/events/registered
func (d *deps) registeredEvents(c *gin.Context) {
	events, err := d.svc.RegisteredEvents(c.Request.Context(), middlewares.CurrentViewer(c))
	if err != nil {
		d.fail(c, err, "Could not fetch registered events. Try again later.")
		return
	}
	c.JSON(http.StatusOK, events)
}

// POST /api/events
func (d *deps) createEvent(c *gin.Context) {
	var event models.Event
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse request data."})
		return
	}
	event.ID = ""

	if err := d.svc.CreateEvent(c.Request.Context(), middlewares.CurrentViewer(c), &event); err != nil {
		d.fail(c, err, "Could not create event. Try again later.")
		return
	}
	d.eventsQuery.Reset()
	c.JSON(http.StatusCreated, gin.H{"message": "event created!", "event": event})
}

// PUT /api/events/:id
func (d *deps) updateEvent(c *gin.Context) {
	var incoming models.Event
	if err := c.ShouldBindJSON(&incoming); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse request data."})
		return
	}

	err := d.svc.UpdateEvent(c.Request.Context(), middlewares.CurrentViewer(c), c.Param("id"), &incoming)
	if err != nil {
		d.fail(c, err, "Could not update event. Try again later.")
		return
	}
	d.eventsQuery.Reset()
	c.JSON(http.StatusOK, gin.H{"message": "Event updated successfully!"})
}

// DELETE /api/events/:id
func (d *deps) deleteEvent(c *gin.Context) {
	if err := d.svc.DeleteEvent(c.Request.Context(), middlewares.CurrentViewer(c), c.Param("id")); err != nil {
		d.fail(c, err, "Could not delete the event.")
		return
	}
	d.eventsQuery.Reset()
	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully!"})
}

// POST /api/events/:id/register
func (d *deps) registerForEvent(c *gin.Context) {
	event, err := d.svc.RegisterForEvent(c.Request.Context(), middlewares.CurrentViewer(c), c.Param("id"))
	if err != nil {
		d.fail(c, err, "Registration failed. Try again later.")
		return
	}
	d.eventsQuery.Forget(eventsKey(middlewares.CurrentViewer(c)))
	c.JSON(http.StatusCreated, gin.H{"message": "Registered!", "event": event})
}

// DELETE /api/events/:id/register
func (d *deps) cancelRegistration(c *gin.Context) {
	if err := d.svc.CancelRegistration(c.Request.Context(), middlewares.CurrentViewer(c), c.Param("id")); err != nil {
		d.fail(c, err, "Could not cancel registration.")
		return
	}
	d.eventsQuery.Forget(eventsKey(middlewares.CurrentViewer(c)))
	c.JSON(http.StatusOK, gin.H{"message": "Cancelled!"})
}
