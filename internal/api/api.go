// Package api exposes the record store over HTTP.
package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/advocase-dev/advocase-store/internal/auth"
	"github.com/advocase-dev/advocase-store/internal/metrics"
	"github.com/advocase-dev/advocase-store/internal/records"
	"github.com/advocase-dev/advocase-store/pkg/schema"
)

const actorKey = "advocase.actor"

type Handler struct {
	Records   *records.Service
	JWTSecret string
	JWTIssuer string
	TokenTTL  time.Duration
}

// NewRouter wires every endpoint. Auth endpoints and health/metrics are
// open; everything else requires a bearer token.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.Default()

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	r.POST("/auth/signin", h.SignIn)
	r.POST("/auth/signup", h.SignUp)

	v1 := r.Group("/v1", h.Authenticate)
	{
		v1.GET("/users", h.ListUsers)
		v1.GET("/users/:id", h.GetUser)
		v1.POST("/users/:id/approve", h.ApproveUser)

		v1.GET("/children", h.ListChildren)
		v1.POST("/children", h.AddChild)
		v1.GET("/children/:id", h.GetChild)
		v1.GET("/children/:id/ieps", h.ListChildIEPs)

		v1.GET("/ieps", h.ListIEPs)
		v1.POST("/ieps", h.UploadIEP)
		v1.GET("/ieps/:id", h.GetIEP)
		v1.POST("/ieps/:id/analyze", h.AnalyzeIEP)
		v1.GET("/ieps/:id/questions", h.CoachingQuestions)

		v1.GET("/cases", h.ListCases)
		v1.POST("/cases", h.CreateCase)
		v1.GET("/cases/:id", h.GetCase)
		v1.PATCH("/cases/:id/status", h.UpdateCaseStatus)
		v1.PATCH("/cases/:id/advocate", h.AssignAdvocate)

		v1.GET("/messages/conversations", h.ListConversations)
		v1.GET("/messages/unread", h.UnreadCount)
		v1.GET("/messages/with/:user", h.GetConversation)
		v1.POST("/messages", h.SendMessage)
		v1.POST("/messages/with/:user/read", h.MarkRead)

		v1.GET("/advocates", h.ListAdvocates)
		v1.GET("/advocates/:id", h.GetAdvocate)
		v1.GET("/advocates/:id/slots", h.ListSlots)

		v1.GET("/appointments", h.ListAppointments)
		v1.GET("/appointments/upcoming", h.ListUpcoming)
		v1.POST("/appointments", h.Schedule)
		v1.POST("/appointments/:id/confirm", h.ConfirmAppointment)
		v1.POST("/appointments/:id/cancel", h.CancelAppointment)

		v1.GET("/matches", h.ListMatches)
		v1.GET("/matches/advocate", h.GetMatchedAdvocate)
		v1.POST("/matches/request", h.RequestMatch)
		v1.POST("/matches/accept/:waitlist", h.AcceptMatch)
		v1.GET("/matches/waitlist/position", h.WaitlistPosition)

		v1.GET("/audit", h.ListAudit)
		v1.GET("/audit/stats", h.SecurityStats)

		v1.POST("/feedback", h.SubmitFeedback)
		v1.GET("/feedback/mine", h.MyFeedback)
		v1.GET("/feedback/status/:status", h.FeedbackByStatus)
		v1.PATCH("/feedback/:id/status", h.UpdateFeedbackStatus)
	}
	return r
}

// Authenticate resolves the bearer token into a full user record for
// downstream handlers.
func (h *Handler) Authenticate(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}
	claims, err := auth.ParseToken(h.JWTSecret, token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	actor, ok := h.Records.Actor(claims.UserID)
	if !ok || !actor.IsApproved {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown or unapproved account"})
		return
	}
	c.Set(actorKey, actor)
	c.Next()
}

func (h *Handler) actor(c *gin.Context) schema.User {
	return c.MustGet(actorKey).(schema.User)
}

// fail maps service errors onto HTTP statuses with the standard error
// payload.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, records.ErrPermission):
		status = http.StatusForbidden
	case errors.Is(err, records.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, records.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, records.ErrNotApproved):
		status = http.StatusForbidden
	case errors.Is(err, records.ErrEmailInUse), errors.Is(err, records.ErrSlotTaken):
		status = http.StatusConflict
	case errors.Is(err, records.ErrInvalidRole):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (h *Handler) SignIn(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Records.SignIn(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		fail(c, err)
		return
	}
	token, err := auth.NewAccessToken(h.JWTSecret, h.JWTIssuer, h.TokenTTL, user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

func (h *Handler) SignUp(c *gin.Context) {
	var input struct {
		Email string      `json:"email" binding:"required"`
		Name  string      `json:"name" binding:"required"`
		Role  schema.Role `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.Records.SignUp(c.Request.Context(), input.Email, input.Name, input.Role)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}
