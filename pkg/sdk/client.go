// Package sdk is the client-side library for the AdvoCase store API. It
// wraps the REST surface with typed methods and carries the bearer token
// obtained at sign-in.
package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/advocase-dev/advocase-store/pkg/schema"
)

// Client talks to a running daemon. Construct with New, then SignIn to
// obtain a token for the authenticated endpoints.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New builds a client for the daemon at baseURL, e.g. "http://localhost:8080".
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken installs a previously obtained bearer token.
func (c *Client) SetToken(token string) { c.token = token }

// Token returns the current bearer token, empty before sign-in.
func (c *Client) Token() string { return c.token }

type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var payload struct {
			Error string `json:"error"`
		}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(data, &payload) != nil || payload.Error == "" {
			payload.Error = string(bytes.TrimSpace(data))
		}
		return &apiError{Status: resp.StatusCode, Message: payload.Error}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// SignIn authenticates and stores the returned token on the client.
func (c *Client) SignIn(ctx context.Context, email, password string) (schema.User, error) {
	var resp struct {
		Token string      `json:"token"`
		User  schema.User `json:"user"`
	}
	err := c.do(ctx, http.MethodPost, "/auth/signin", map[string]string{"email": email, "password": password}, &resp)
	if err != nil {
		return schema.User{}, err
	}
	c.token = resp.Token
	return resp.User, nil
}

// SignUp registers an account; the account needs admin approval before it
// can sign in.
func (c *Client) SignUp(ctx context.Context, email, name string, role schema.Role) (schema.User, error) {
	var user schema.User
	err := c.do(ctx, http.MethodPost, "/auth/signup", map[string]any{"email": email, "name": name, "role": role}, &user)
	return user, err
}

func (c *Client) ApproveUser(ctx context.Context, userID string) (schema.User, error) {
	var user schema.User
	err := c.do(ctx, http.MethodPost, "/v1/users/"+url.PathEscape(userID)+"/approve", nil, &user)
	return user, err
}

func (c *Client) Users(ctx context.Context) ([]schema.User, error) {
	var users []schema.User
	err := c.do(ctx, http.MethodGet, "/v1/users", nil, &users)
	return users, err
}

func (c *Client) Children(ctx context.Context) ([]schema.Child, error) {
	var children []schema.Child
	err := c.do(ctx, http.MethodGet, "/v1/children", nil, &children)
	return children, err
}

func (c *Client) AddChild(ctx context.Context, name, dateOfBirth, grade, school, notes string) (schema.Child, error) {
	var child schema.Child
	err := c.do(ctx, http.MethodPost, "/v1/children", map[string]string{
		"name": name, "date_of_birth": dateOfBirth, "grade": grade, "school": school, "notes": notes,
	}, &child)
	return child, err
}

func (c *Client) IEPs(ctx context.Context) ([]schema.IEP, error) {
	var ieps []schema.IEP
	err := c.do(ctx, http.MethodGet, "/v1/ieps", nil, &ieps)
	return ieps, err
}

// UploadIEP registers a document; analysis starts in the background on the
// daemon.
func (c *Client) UploadIEP(ctx context.Context, childID, fileName, fileURL, documentText string) (schema.IEP, error) {
	var iep schema.IEP
	err := c.do(ctx, http.MethodPost, "/v1/ieps", map[string]string{
		"child_id": childID, "file_name": fileName, "file_url": fileURL, "document_text": documentText,
	}, &iep)
	return iep, err
}

// AnalyzeIEP re-runs analysis, e.g. after a previous attempt failed.
func (c *Client) AnalyzeIEP(ctx context.Context, iepID string) (schema.IEPSummary, error) {
	var summary schema.IEPSummary
	err := c.do(ctx, http.MethodPost, "/v1/ieps/"+url.PathEscape(iepID)+"/analyze", nil, &summary)
	return summary, err
}

func (c *Client) CoachingQuestions(ctx context.Context, iepID string) ([]string, error) {
	var resp struct {
		Questions []string `json:"questions"`
	}
	err := c.do(ctx, http.MethodGet, "/v1/ieps/"+url.PathEscape(iepID)+"/questions", nil, &resp)
	return resp.Questions, err
}

func (c *Client) Cases(ctx context.Context) ([]schema.Case, error) {
	var cases []schema.Case
	err := c.do(ctx, http.MethodGet, "/v1/cases", nil, &cases)
	return cases, err
}

func (c *Client) CreateCase(ctx context.Context, childID, iepID, helpType string) (schema.Case, error) {
	var created schema.Case
	err := c.do(ctx, http.MethodPost, "/v1/cases", map[string]string{
		"child_id": childID, "iep_id": iepID, "help_type": helpType,
	}, &created)
	return created, err
}

func (c *Client) UpdateCaseStatus(ctx context.Context, caseID string, status schema.CaseStatus) error {
	return c.do(ctx, http.MethodPatch, "/v1/cases/"+url.PathEscape(caseID)+"/status", map[string]any{"status": status}, nil)
}

func (c *Client) Conversations(ctx context.Context) ([]schema.Conversation, error) {
	var convs []schema.Conversation
	err := c.do(ctx, http.MethodGet, "/v1/messages/conversations", nil, &convs)
	return convs, err
}

func (c *Client) Conversation(ctx context.Context, otherUserID string) ([]schema.Message, error) {
	var msgs []schema.Message
	err := c.do(ctx, http.MethodGet, "/v1/messages/with/"+url.PathEscape(otherUserID), nil, &msgs)
	return msgs, err
}

func (c *Client) SendMessage(ctx context.Context, receiverID, content string) (schema.Message, error) {
	var msg schema.Message
	err := c.do(ctx, http.MethodPost, "/v1/messages", map[string]string{
		"receiver_id": receiverID, "content": content,
	}, &msg)
	return msg, err
}

func (c *Client) MarkRead(ctx context.Context, otherUserID string) error {
	return c.do(ctx, http.MethodPost, "/v1/messages/with/"+url.PathEscape(otherUserID)+"/read", nil, nil)
}

func (c *Client) Advocates(ctx context.Context) ([]schema.AdvocateProfile, error) {
	var advocates []schema.AdvocateProfile
	err := c.do(ctx, http.MethodGet, "/v1/advocates", nil, &advocates)
	return advocates, err
}

func (c *Client) AvailableSlots(ctx context.Context, advocateID string) ([]schema.TimeSlot, error) {
	var slots []schema.TimeSlot
	err := c.do(ctx, http.MethodGet, "/v1/advocates/"+url.PathEscape(advocateID)+"/slots", nil, &slots)
	return slots, err
}

func (c *Client) Schedule(ctx context.Context, slotID string, apptType schema.AppointmentType, notes string) (schema.Appointment, error) {
	var appt schema.Appointment
	err := c.do(ctx, http.MethodPost, "/v1/appointments", map[string]any{
		"slot_id": slotID, "type": apptType, "notes": notes,
	}, &appt)
	return appt, err
}

func (c *Client) Appointments(ctx context.Context) ([]schema.Appointment, error) {
	var appts []schema.Appointment
	err := c.do(ctx, http.MethodGet, "/v1/appointments", nil, &appts)
	return appts, err
}

func (c *Client) CancelAppointment(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/v1/appointments/"+url.PathEscape(id)+"/cancel", nil, nil)
}

func (c *Client) RequestMatch(ctx context.Context, childID, helpType string) (schema.WaitlistEntry, error) {
	var entry schema.WaitlistEntry
	err := c.do(ctx, http.MethodPost, "/v1/matches/request", map[string]string{
		"child_id": childID, "help_type": helpType,
	}, &entry)
	return entry, err
}

func (c *Client) AuditLog(ctx context.Context) ([]schema.AuditEntry, error) {
	var entries []schema.AuditEntry
	err := c.do(ctx, http.MethodGet, "/v1/audit", nil, &entries)
	return entries, err
}

func (c *Client) RecentAudit(ctx context.Context, n int) ([]schema.AuditEntry, error) {
	var entries []schema.AuditEntry
	err := c.do(ctx, http.MethodGet, "/v1/audit?recent="+strconv.Itoa(n), nil, &entries)
	return entries, err
}

func (c *Client) SecurityStats(ctx context.Context) (schema.SecurityStats, error) {
	var stats schema.SecurityStats
	err := c.do(ctx, http.MethodGet, "/v1/audit/stats", nil, &stats)
	return stats, err
}

func (c *Client) SubmitFeedback(ctx context.Context, ftype schema.FeedbackType, title, description string, rating int) (schema.Feedback, error) {
	var fb schema.Feedback
	err := c.do(ctx, http.MethodPost, "/v1/feedback", map[string]any{
		"type": ftype, "title": title, "description": description, "rating": rating,
	}, &fb)
	return fb, err
}
