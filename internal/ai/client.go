// Package ai talks to a text-completion endpoint to turn raw IEP document
// text into structured summaries and parent coaching questions.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/advocase-dev/advocase-store/pkg/schema"
)

// DefaultEndpoint is the hosted completion endpoint used when none is
// configured.
const DefaultEndpoint = "https://toolkit.rork.com/text/llm/"

const analysisPrompt = `You are an expert special education advocate analyzing an IEP document. Extract and structure the following information from the provided text:

GOALS:
- List all academic goals (reading, writing, math, etc.)
- List all behavioral goals (social skills, attention, etc.)
- List all functional goals (daily living, communication, etc.)
- Include measurable objectives and criteria

SERVICES:
- Special education services (resource room, specialized instruction)
- Related services (speech therapy, occupational therapy, physical therapy)
- Include frequency, duration, and location
- Support staff and paraprofessional services

ACCOMMODATIONS:
- Classroom accommodations (seating, materials, environment)
- Testing accommodations (extended time, alternative formats)
- Assignment modifications
- Assistive technology

Format your response EXACTLY like this:

GOALS:
• [Goal 1 with specific details]
• [Goal 2 with specific details]
• [etc.]

SERVICES:
• [Service 1 with frequency and duration]
• [Service 2 with frequency and duration]
• [etc.]

ACCOMMODATIONS:
• [Accommodation 1 with specific details]
• [Accommodation 2 with specific details]
• [etc.]

NOTES:
This is an AI-generated summary. Please consult with your advocate for legal interpretation and to ensure all important details are captured.`

const coachingPrompt = `Based on this IEP summary, generate 5-7 coaching questions that will help parents:
1. Better understand their child's needs
2. Prepare for IEP meetings
3. Advocate effectively for their child
4. Monitor progress at home

Make questions specific, actionable, and empowering.`

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Messages []message `json:"messages"`
	// Data stays false so submitted documents are not retained for training.
	Data bool `json:"data"`
}

type completionResponse struct {
	Completion string `json:"completion"`
}

// Client calls the completion endpoint. The zero value is not usable; use
// NewClient.
type Client struct {
	endpoint string
	http     *http.Client
	now      func() time.Time
}

// Option adjusts a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client, mainly for tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithClock overrides the timestamp source for generated summaries.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient builds a client for the given endpoint; an empty endpoint falls
// back to DefaultEndpoint.
func NewClient(endpoint string, opts ...Option) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 60 * time.Second},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) complete(ctx context.Context, messages []message) (string, error) {
	body, err := json.Marshal(completionRequest{Messages: messages})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errText, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("completion request failed: %d - %s", resp.StatusCode, bytes.TrimSpace(errText))
	}

	var result completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode completion: %w", err)
	}
	return result.Completion, nil
}

// AnalyzeDocument summarizes IEP document text into goals, services and
// accommodations. Request failures are returned to the caller; a response
// that cannot be parsed into sections still yields a summary with
// placeholder items.
func (c *Client) AnalyzeDocument(ctx context.Context, documentText string) (schema.IEPSummary, error) {
	completion, err := c.complete(ctx, []message{
		{Role: "system", Content: analysisPrompt},
		{Role: "user", Content: "Please analyze this IEP document and provide a structured summary:\n\n" + documentText},
	})
	if err != nil {
		return schema.IEPSummary{}, err
	}

	summary := parseSummary(completion, c.now().UTC())
	log.Printf("IEP analysis completed: input=%d output=%d goals=%d services=%d accommodations=%d",
		len(documentText), len(completion), len(summary.Goals), len(summary.Services), len(summary.Accommodations))
	return summary, nil
}

// CoachingQuestions turns a summary into questions a parent can bring to an
// IEP meeting. Request failures propagate; an unparseable response falls
// back to a standard question set.
func (c *Client) CoachingQuestions(ctx context.Context, summary schema.IEPSummary) ([]string, error) {
	summaryText := fmt.Sprintf("\nGoals: %s\nServices: %s\nAccommodations: %s\nNotes: %s",
		joinItems(summary.Goals), joinItems(summary.Services), joinItems(summary.Accommodations), summary.Notes)

	completion, err := c.complete(ctx, []message{
		{Role: "system", Content: coachingPrompt},
		{Role: "user", Content: "Based on this IEP summary, generate coaching questions: " + summaryText},
	})
	if err != nil {
		return nil, err
	}
	return parseQuestions(completion), nil
}

// ExtractText pulls text out of an uploaded document. Real OCR/PDF parsing
// is not wired up yet, so this synthesizes a representative document after a
// short processing delay.
// TODO: replace with a real PDF text extractor once document uploads carry
// the file bytes instead of a URL.
func (c *Client) ExtractText(ctx context.Context, fileName string) (string, error) {
	select {
	case <-time.After(time.Second):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return sampleDocument(fileName), nil
}
