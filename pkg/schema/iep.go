package schema

import "time"

// AnalysisStatus tracks the enrichment lifecycle of an uploaded IEP document.
type AnalysisStatus string

const (
	AnalysisUploaded AnalysisStatus = "uploaded"
	AnalysisDone     AnalysisStatus = "analyzed"
	AnalysisFailed   AnalysisStatus = "analysis_failed"
)

// IEP is an uploaded Individualized Education Program document. The summary
// is attached asynchronously once AI analysis succeeds; a failed analysis
// leaves the record at analysis_failed and can be retried.
type IEP struct {
	ID             string         `json:"id"`
	ParentID       string         `json:"parent_id"`
	ChildID        string         `json:"child_id"`
	FileName       string         `json:"file_name"`
	FileURL        string         `json:"file_url"`
	UploadDate     time.Time      `json:"upload_date"`
	Summary        *IEPSummary    `json:"summary,omitempty"`
	AdvocateID     string         `json:"advocate_id,omitempty"`
	AnalysisStatus AnalysisStatus `json:"analysis_status"`
}

func (i IEP) RecordID() string { return i.ID }

// IEPSummary is the structured extraction produced by document analysis.
type IEPSummary struct {
	Goals          []string  `json:"goals"`
	Services       []string  `json:"services"`
	Accommodations []string  `json:"accommodations"`
	Notes          string    `json:"notes"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// CaseStatus is the lifecycle state of an advocacy case.
type CaseStatus string

const (
	CasePending   CaseStatus = "pending"
	CaseActive    CaseStatus = "active"
	CaseCompleted CaseStatus = "completed"
)

// Case tracks an engagement between a parent and an advocate over one child/IEP.
type Case struct {
	ID         string     `json:"id"`
	ParentID   string     `json:"parent_id"`
	AdvocateID string     `json:"advocate_id"`
	ChildID    string     `json:"child_id"`
	IEPID      string     `json:"iep_id"`
	Status     CaseStatus `json:"status"`
	HelpType   string     `json:"help_type"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (c Case) RecordID() string { return c.ID }
