package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"volunteerhub/middlewares"
	"volunteerhub/models"
)

// GET /api/opportunities
func (d *deps) getOpportunities(c *gin.Context) {
	opps, err := d.svc.ListOpportunities(c.Request.Context())
	if err != nil {
		d.fail(c, err, "Could not fetch opportunities. Try again later.")
		return
	}
	c.JSON(http.StatusOK, opps)
}

// GET /api/opportunities/:id
func (d *deps) getOpportunity(c *gin.Context) {
	o, err := d.svc.GetOpportunity(c.Request.Context(), c.Param("id"))
	if err != nil {
		d.fail(c, err, "Could not fetch opportunity. Try again later.")
		return
	}
	c.JSON(http.StatusOK, o)
}

// POST /api/opportunities
func (d *deps) createOpportunity(c *gin.Context) {
	var o models.Opportunity
	if err := c.ShouldBindJSON(&o); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse request data."})
		return
	}
	o.ID = ""

	if err := d.svc.CreateOpportunity(c.Request.Context(), middlewares.CurrentViewer(c), &o); err != nil {
		d.fail(c, err, "Could not create opportunity. Try again later.")
		return
	}
	d.opportunities.Forget(opportunitiesKey)
	c.JSON(http.StatusCreated, gin.H{"message": "opportunity created!", "opportunity": o})
}

// GET /api/applications
func (d *deps) listApplications(c *gin.Context) {
	apps, err := d.svc.Applications(c.Request.Context(), middlewares.CurrentViewer(c))
	if err != nil {
		d.fail(c, err, "Could not fetch applications. Try again later.")
		return
	}
	c.JSON(http.StatusOK, apps)
}

// POST /api/applications
func (d *deps) createApplication(c *gin.Context) {
	var req struct {
		OpportunityID string `json:"opportunityId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse request data."})
		return
	}

	o, err := d.svc.ApplyToOpportunity(c.Request.Context(), middlewares.CurrentViewer(c), req.OpportunityID)
	if err != nil {
		d.fail(c, err, "Application failed. Try again later.")
		return
	}
	d.opportunities.Forget(opportunitiesKey)
	c.JSON(http.StatusCreated, gin.H{"message": "Application submitted!", "opportunity": o})
}
