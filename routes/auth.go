package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"volunteerhub/middlewares"
	"volunteerhub/models"
	"volunteerhub/utils"
)

const sessionMaxAge = 2 * 60 * 60

// POST /api/signup
func (d *deps) signup(c *gin.Context) {
	var req struct {
		Email            string `json:"email" binding:"required"`
		Password         string `json:"password" binding:"required"`
		UserType         string `json:"userType" binding:"required"`
		Name             string `json:"name"`
		OrganizationName string `json:"organizationName"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse request data."})
		return
	}
	if !models.ValidUserType(req.UserType) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "userType must be individual or organization."})
		return
	}
	if req.UserType == models.UserTypeOrganization && req.OrganizationName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "organizationName is required for organizations."})
		return
	}

	u := models.User{
		Email:            req.Email,
		Password:         req.Password,
		UserType:         req.UserType,
		Name:             req.Name,
		OrganizationName: req.OrganizationName,
	}
	if err := d.users.Create(c.Request.Context(), &u); err != nil {
		d.fail(c, err, "Could not save user.")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "user created successfully", "user": u})
}

// POST /api/login
func (d *deps) login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse request data."})
		return
	}

	user, err := d.users.ValidateCredentials(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if !errors.Is(err, models.ErrInvalidCredentials) {
			d.logger.Error("login failed", "error", err)
		}
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Could not authenticate user."})
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.UserType)
	if err != nil {
		d.fail(c, err, "Could not authenticate user.")
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middlewares.TokenCookie, token, sessionMaxAge, "/", "", d.secure, true)
	c.JSON(http.StatusOK, gin.H{"message": "Login successful!", "token": token, "user": user})
}

// POST /api/logout
func (d *deps) logout(c *gin.Context) {
	c.SetCookie(middlewares.TokenCookie, "", -1, "/", "", d.secure, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out."})
}

// GET /api/user
func (d *deps) currentUser(c *gin.Context) {
	viewer := middlewares.CurrentViewer(c)
	u, err := d.users.GetByID(c.Request.Context(), viewer.ID)
	if err != nil {
		d.fail(c, err, "Could not fetch user.")
		return
	}
	c.JSON(http.StatusOK, u)
}
