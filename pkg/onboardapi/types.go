// Package onboardapi holds the wire types shared between the onboarding
// service handlers and its API clients, plus a small HTTP client for
// integrating services.
package onboardapi

import "encoding/json"

// ErrorResponse is the standard error envelope returned by every endpoint.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// HealthResponse is returned by the /livez and /readyz endpoints.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`

	// Checks is only populated by /readyz.
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the status of critical service dependencies.
type HealthChecks struct {
	Database string `json:"database"`
}

// LoginRequest authenticates an admin.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the admin session token.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	Name        string `json:"name,omitempty"`
}

// LinkRequest asks for an onboarding link to be issued to a candidate.
type LinkRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// LinkResponse describes an issued onboarding link. Reissued reports whether
// an already-active link for the same email was returned instead of a new one.
// DraftID is empty until the candidate's first personal save pins the draft,
// so it only shows up on reissues of links with work in progress.
type LinkResponse struct {
	Token         string `json:"token"`
	Email         string `json:"email"`
	DraftID       string `json:"draft_id,omitempty"`
	OnboardingURL string `json:"onboarding_url"`
	Reissued      bool   `json:"reissued"`
	ExpiresAt     int64  `json:"expires_at,omitempty"`
}

// LinkSummary is a row in the admin link listing.
type LinkSummary struct {
	Token          string `json:"token"`
	Email          string `json:"email"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Expired        bool   `json:"expired"`
	CreatedAt      int64  `json:"created_at"`
	Percentage     int    `json:"percentage"`
	CurrentSection string `json:"current_section,omitempty"`
}

// LinkListResponse is the paginated link listing.
type LinkListResponse struct {
	Links   []LinkSummary `json:"links"`
	Total   int           `json:"total"`
	Page    int           `json:"page"`
	PerPage int           `json:"per_page"`
}

// ProgressResponse summarises a candidate's progress through the sections.
type ProgressResponse struct {
	DraftID        string          `json:"draft_id,omitempty"`
	Percentage     int             `json:"percentage"`
	NextSection    string          `json:"next_section,omitempty"`
	Completed      map[string]bool `json:"completed"`
	FullyCompleted bool            `json:"fully_completed"`
}

// ValidateResponse is returned when a candidate opens their onboarding link.
type ValidateResponse struct {
	Valid     bool             `json:"valid"`
	Email     string           `json:"email"`
	FirstName string           `json:"first_name,omitempty"`
	LastName  string           `json:"last_name,omitempty"`
	Progress  ProgressResponse `json:"progress"`
}

// SectionSaveResponse acknowledges a section save with updated progress.
type SectionSaveResponse struct {
	Section  string           `json:"section"`
	DraftID  string           `json:"draft_id"`
	Progress ProgressResponse `json:"progress"`
}

// SectionDataResponse returns previously saved section data for prefill.
type SectionDataResponse struct {
	Section string `json:"section"`
	Data    any    `json:"data"`
}

// DeclarationResponse acknowledges the final declaration submission.
type DeclarationResponse struct {
	DraftID     string           `json:"draft_id"`
	LinkExpired bool             `json:"link_expired"`
	Progress    ProgressResponse `json:"progress"`
}

// SalaryRequest asks for a salary breakdown of an annual CTC.
type SalaryRequest struct {
	AnnualCTC float64 `json:"annual_ctc"`
}

// SalaryRow is one component of a salary breakdown. Amounts are whole rupees.
type SalaryRow struct {
	Component string `json:"component"`
	Monthly   int64  `json:"monthly"`
	Annual    int64  `json:"annual"`
}

// SalaryResponse is the full breakdown including the trailing Fixed CTC row.
type SalaryResponse struct {
	AnnualCTC float64     `json:"annual_ctc"`
	Rows      []SalaryRow `json:"rows"`
}

// EmployeeSummary is a row in the admin employee listing.
type EmployeeSummary struct {
	DraftID   string `json:"draft_id"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	Status    string `json:"status"`
	UpdatedAt int64  `json:"updated_at"`
}

// EmployeeListResponse is the paginated employee listing.
type EmployeeListResponse struct {
	Employees []EmployeeSummary `json:"employees"`
	Total     int               `json:"total"`
	Page      int               `json:"page"`
	PerPage   int               `json:"per_page"`
}

// EmployeeDetail is the full decrypted master record for one employee.
// Sections is keyed by section name; list sections hold arrays.
type EmployeeDetail struct {
	DraftID     string         `json:"draft_id"`
	Status      string         `json:"status"`
	ApprovedBy  string         `json:"approved_by,omitempty"`
	ApprovedAt  int64          `json:"approved_at,omitempty"`
	SubmittedAt int64          `json:"submitted_at,omitempty"`
	Sections    map[string]any `json:"sections"`
}

// StatusUpdateRequest advances an employee record's workflow status.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}

// SectionPayload is a raw section body; alias resolution happens server-side.
type SectionPayload = json.RawMessage
