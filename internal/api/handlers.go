package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/advocase-dev/advocase-store/internal/records"
	"github.com/advocase-dev/advocase-store/pkg/schema"
)

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.Records.Users(h.actor(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) GetUser(c *gin.Context) {
	user, ok := h.Records.User(h.actor(c), c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) ApproveUser(c *gin.Context) {
	user, err := h.Records.ApproveUser(c.Request.Context(), h.actor(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) ListChildren(c *gin.Context) {
	c.JSON(http.StatusOK, h.Records.Children(h.actor(c)))
}

func (h *Handler) AddChild(c *gin.Context) {
	var input records.NewChild
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	child, err := h.Records.AddChild(c.Request.Context(), h.actor(c), input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, child)
}

func (h *Handler) GetChild(c *gin.Context) {
	child, ok := h.Records.Child(h.actor(c), c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "child not found"})
		return
	}
	c.JSON(http.StatusOK, child)
}

func (h *Handler) ListChildIEPs(c *gin.Context) {
	c.JSON(http.StatusOK, h.Records.ChildIEPs(h.actor(c), c.Param("id")))
}

func (h *Handler) ListIEPs(c *gin.Context) {
	c.JSON(http.StatusOK, h.Records.IEPs(h.actor(c)))
}

func (h *Handler) UploadIEP(c *gin.Context) {
	var input struct {
		ChildID      string `json:"child_id" binding:"required"`
		FileName     string `json:"file_name" binding:"required"`
		FileURL      string `json:"file_url"`
		DocumentText string `json:"document_text"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	iep, err := h.Records.UploadIEP(c.Request.Context(), h.actor(c), input.ChildID, input.FileName, input.FileURL, input.DocumentText)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, iep)
}

func (h *Handler) GetIEP(c *gin.Context) {
	iep, ok := h.Records.IEP(h.actor(c), c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "IEP not found"})
		return
	}
	c.JSON(http.StatusOK, iep)
}

func (h *Handler) AnalyzeIEP(c *gin.Context) {
	var input struct {
		DocumentText string `json:"document_text"`
	}
	// Body is optional; analysis can re-read the stored document.
	_ = c.ShouldBindJSON(&input)

	summary, err := h.Records.AnalyzeIEP(c.Request.Context(), c.Param("id"), input.DocumentText)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) CoachingQuestions(c *gin.Context) {
	questions, err := h.Records.CoachingQuestions(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

func (h *Handler) ListCases(c *gin.Context) {
	c.JSON(http.StatusOK, h.Records.Cases(h.actor(c)))
}

func (h *Handler) CreateCase(c *gin.Context) {
	var input struct {
		ChildID  string `json:"child_id" binding:"required"`
		IEPID    string `json:"iep_id"`
		HelpType string `json:"help_type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := h.Records.CreateCase(c.Request.Context(), h.actor(c), input.ChildID, input.IEPID, input.HelpType)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetCase(c *gin.Context) {
	found, ok := h.Records.Case(h.actor(c), c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "case not found"})
		return
	}
	c.JSON(http.StatusOK, found)
}

func (h *Handler) UpdateCaseStatus(c *gin.Context) {
	var input struct {
		Status schema.CaseStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updated, changed, err := h.Records.UpdateCaseStatus(c.Request.Context(), h.actor(c), c.Param("id"), input.Status)
	if err != nil {
		fail(c, err)
		return
	}
	if !changed {
		c.JSON(http.StatusOK, gin.H{"updated": false})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) AssignAdvocate(c *gin.Context) {
	var input struct {
		AdvocateID string `json:"advocate_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updated, changed, err := h.Records.AssignAdvocate(c.Request.Context(), h.actor(c), c.Param("id"), input.AdvocateID)
	if err != nil {
		fail(c, err)
		return
	}
	if !changed {
		c.JSON(http.StatusNotFound, gin.H{"error": "case not found"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) ListConversations(c *gin.Context) {
	c.JSON(http.StatusOK, h.Records.Conversations(h.actor(c)))
}

func (h *Handler) UnreadCount(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"unread": h.Records.UnreadCount(h.actor(c))})
}

func (h *Handler) GetConversation(c *gin.Context) {
	c.JSON(http.StatusOK, h.Records.Conversation(h.actor(c), c.Param("user")))
}

func (h *Handler) SendMessage(c *gin.Context) {
	var input struct {
		ReceiverID  string              `json:"receiver_id" binding:"required"`
		Content     string              `json:"content" binding:"required"`
		Attachments []schema.Attachment `json:"attachments"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	msg, err := h.Records.SendMessage(c.Request.Context(), h.actor(c), input.ReceiverID, input.Content, input.Attachments)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *Handler) MarkRead(c *gin.Context) {
	if err := h.Records.MarkRead(c.Request.Context(), h.actor(c), c.Param("user")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *Handler) ListAdvocates(c *gin.Context) {
	if specialty := c.Query("specialty"); specialty != "" {
		c.JSON(http.StatusOK, h.Records.AdvocatesBySpecialty(specialty))
		return
	}
	if top := c.Query("top"); top != "" {
		n, err := strconv.Atoi(top)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "top must be a number"})
			return
		}
		c.JSON(http.StatusOK, h.Records.TopRatedAdvocates(n))
		return
	}
	c.JSON(http.StatusOK, h.Records.AdvocateDirectory())
}

func (h *Handler) GetAdvocate(c *gin.Context) {
	profile, ok := h.Records.Advocate(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "advocate not found"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handler) ListSlots(c *gin.Context) {
	c.JSON(http.StatusOK, h.Records.AvailableSlots(c.Param("id")))
}

func (h *Handler) ListAppointments(c *gin.Context) {
	c.JSON(http.StatusOK, h.Records.Appointments(h.actor(c)))
}

func (h *Handler) ListUpcoming(c *gin.Context) {
	c.JSON(http.StatusOK, h.Records.UpcomingAppointments(h.actor(c)))
}

func (h *Handler) Schedule(c *gin.Context) {
	var input struct {
		SlotID string                 `json:"slot_id" binding:"required"`
		Type   schema.AppointmentType `json:"type" binding:"required"`
		Notes  string                 `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	appt, err := h.Records.Schedule(c.Request.Context(), h.actor(c), input.SlotID, input.Type, input.Notes)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, appt)
}

func (h *Handler) ConfirmAppointment(c *gin.Context) {
	appt, changed, err := h.Records.ConfirmAppointment(c.Request.Context(), h.actor(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if !changed {
		c.JSON(http.StatusNotFound, gin.H{"error": "appointment not found"})
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	appt, changed, err := h.Records.CancelAppointment(c.Request.Context(), h.actor(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if !changed {
		c.JSON(http.StatusNotFound, gin.H{"error": "appointment not found"})
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (h *Handler) ListMatches(c *gin.Context) {
	c.JSON(http.StatusOK, h.Records.Matches(h.actor(c)))
}

func (h *Handler) GetMatchedAdvocate(c *gin.Context) {
	profile, ok := h.Records.MatchedAdvocate(h.actor(c).ID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active match"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handler) RequestMatch(c *gin.Context) {
	var input struct {
		ChildID  string `json:"child_id" binding:"required"`
		HelpType string `json:"help_type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entry, err := h.Records.RequestMatch(c.Request.Context(), h.actor(c), input.ChildID, input.HelpType)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *Handler) AcceptMatch(c *gin.Context) {
	match, err := h.Records.AcceptMatch(c.Request.Context(), h.actor(c), c.Param("waitlist"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, match)
}

func (h *Handler) WaitlistPosition(c *gin.Context) {
	pos, ok := h.Records.WaitlistPosition(h.actor(c).ID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not on the waitlist"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"position": pos})
}

func (h *Handler) ListAudit(c *gin.Context) {
	actor := h.actor(c)
	var (
		entries []schema.AuditEntry
		err     error
	)
	switch {
	case c.Query("user") != "":
		entries, err = h.Records.AuditByUser(actor, c.Query("user"))
	case c.Query("resource") != "":
		entries, err = h.Records.AuditByResource(actor, c.Query("resource"))
	case c.Query("severity") != "":
		entries, err = h.Records.AuditBySeverity(actor, schema.Severity(c.Query("severity")))
	case c.Query("recent") != "":
		n, convErr := strconv.Atoi(c.Query("recent"))
		if convErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "recent must be a number"})
			return
		}
		entries, err = h.Records.RecentAudit(actor, n)
	default:
		entries, err = h.Records.AuditLog(actor)
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *Handler) SecurityStats(c *gin.Context) {
	stats, err := h.Records.SecurityStats(h.actor(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) SubmitFeedback(c *gin.Context) {
	var input struct {
		Type        schema.FeedbackType `json:"type" binding:"required"`
		Title       string              `json:"title" binding:"required"`
		Description string              `json:"description" binding:"required"`
		Rating      int                 `json:"rating"`
		Device      schema.DeviceInfo   `json:"device"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fb, err := h.Records.SubmitFeedback(c.Request.Context(), h.actor(c), input.Type, input.Title, input.Description, input.Rating, input.Device)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, fb)
}

func (h *Handler) MyFeedback(c *gin.Context) {
	c.JSON(http.StatusOK, h.Records.MyFeedback(h.actor(c)))
}

func (h *Handler) FeedbackByStatus(c *gin.Context) {
	items, err := h.Records.FeedbackByStatus(h.actor(c), schema.FeedbackStatus(c.Param("status")))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) UpdateFeedbackStatus(c *gin.Context) {
	var input struct {
		Status schema.FeedbackStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fb, changed, err := h.Records.UpdateFeedbackStatus(c.Request.Context(), h.actor(c), c.Param("id"), input.Status)
	if err != nil {
		fail(c, err)
		return
	}
	if !changed {
		c.JSON(http.StatusNotFound, gin.H{"error": "feedback not found"})
		return
	}
	c.JSON(http.StatusOK, fb)
}
