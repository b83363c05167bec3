package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"isrs-auth/internal/domain"
	"isrs-auth/internal/repository"
	"isrs-auth/internal/service"
)

// Client-visible messages. Internal error detail never reaches a response body.
const (
	msgRegistered         = "User registered successfully"
	msgRegisterMissing    = "All fields are required"
	msgPasswordTooLong    = "Password must be at most 72 bytes"
	msgRegisterConflict   = "User already exists with this email"
	msgRegisterFailed     = "Internal server error during registration"
	msgLoginSucceeded     = "Login successful"
	msgLoginMissing       = "Email and password are required"
	msgInvalidCredentials = "Invalid email or password"
	msgLoginFailed        = "Internal server error during login"
	msgUserNotFound       = "User not found"
	msgDashboardFailed    = "Internal server error while loading dashboard"
	msgActivityLogged     = "Activity logged"
	msgActivityMissing    = "Action is required"
	msgActivityFailed     = "Internal server error while logging activity"
	msgExported           = "Activity exported"
	msgExportDisabled     = "Activity export is not available"
	msgExportFailed       = "Internal server error while exporting activity"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users      service.UserService
	activities service.ActivityService
	tokens     TokenVerifier
	logger     logrus.FieldLogger
}

func NewHandler(users service.UserService, activities service.ActivityService, tokens TokenVerifier, logger logrus.FieldLogger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		users:      users,
		activities: activities,
		tokens:     tokens,
		logger:     logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestLogger(h.logger), corsMiddleware())

	api := router.Group("/api")
	{
		api.POST("/register", h.register)
		api.POST("/login", h.login)
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})
	}

	user := api.Group("/user", h.requireAuth())
	{
		user.GET("/dashboard", h.dashboard)
		user.POST("/activity", h.logActivity)
		user.POST("/activity/export", h.exportActivity)
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type activityRequest struct {
	Action string `json:"action"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgRegisterMissing})
		return
	}

	id, err := h.users.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, gin.H{"message": msgRegistered, "userId": id})
	case errors.Is(err, service.ErrPasswordTooLong):
		c.JSON(http.StatusBadRequest, gin.H{"error": msgPasswordTooLong})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": msgRegisterMissing})
	case errors.Is(err, service.ErrUserAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": msgRegisterConflict})
	default:
		h.requestLogger(c).WithError(err).Error("registration failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgRegisterFailed})
	}
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgLoginMissing})
		return
	}

	res, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, LoginResponse{
			Message: msgLoginSucceeded,
			Token:   res.Token,
			User:    profileToResponse(res.User),
		})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": msgLoginMissing})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": msgInvalidCredentials})
	default:
		h.requestLogger(c).WithError(err).Error("login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgLoginFailed})
	}
}

func (h *Handler) dashboard(c *gin.Context) {
	claims := claimsFrom(c)

	dash, err := h.activities.Dashboard(c.Request.Context(), claims.UserID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, dashboardToResponse(*dash))
	case errors.Is(err, repository.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": msgUserNotFound})
	default:
		h.requestLogger(c).WithError(err).Error("dashboard failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgDashboardFailed})
	}
}

func (h *Handler) logActivity(c *gin.Context) {
	var req activityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgActivityMissing})
		return
	}

	claims := claimsFrom(c)
	_, err := h.activities.LogActivity(c.Request.Context(), claims.UserID, req.Action)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, gin.H{"message": msgActivityLogged})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": msgActivityMissing})
	case errors.Is(err, repository.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": msgUserNotFound})
	default:
		h.requestLogger(c).WithError(err).Error("log activity failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgActivityFailed})
	}
}

func (h *Handler) exportActivity(c *gin.Context) {
	claims := claimsFrom(c)

	res, err := h.activities.ExportActivity(c.Request.Context(), claims.UserID)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, gin.H{
			"message":  msgExported,
			"location": res.Location,
			"url":      res.URL,
			"count":    res.Count,
		})
	case errors.Is(err, service.ErrArchiveDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": msgExportDisabled})
	case errors.Is(err, repository.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": msgUserNotFound})
	default:
		h.requestLogger(c).WithError(err).Error("export activity failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgExportFailed})
	}
}

type ProfileResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

type ActivityResponse struct {
	ID        int64  `json:"id"`
	Action    string `json:"action"`
	Timestamp string `json:"timestamp"`
}

type LoginResponse struct {
	Message string          `json:"message"`
	Token   string          `json:"token"`
	User    ProfileResponse `json:"user"`
}

type DashboardResponse struct {
	User       ProfileResponse    `json:"user"`
	Activities []ActivityResponse `json:"activities"`
}

func profileToResponse(p domain.Profile) ProfileResponse {
	return ProfileResponse{
		ID:        p.ID,
		Name:      p.Name,
		Email:     p.Email,
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func dashboardToResponse(d domain.Dashboard) DashboardResponse {
	resp := DashboardResponse{
		User:       profileToResponse(d.User),
		Activities: make([]ActivityResponse, len(d.Activities)),
	}
	for i := range d.Activities {
		resp.Activities[i] = ActivityResponse{
			ID:        d.Activities[i].ID,
			Action:    d.Activities[i].Action,
			Timestamp: d.Activities[i].Timestamp.UTC().Format(time.RFC3339Nano),
		}
	}
	return resp
}
