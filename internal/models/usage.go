package models

import (
	"time"
)

// Operations that consume AI tokens.
const (
	OperationEnhance   = "enhance"
	OperationSummarize = "summarize"
)

// UsageRecord represents the token usage of a single AI call.
type UsageRecord struct {
	// ID is the unique identifier for the record.
	ID string `json:"id"`

	// RunID is the generation run this usage belongs to (optional).
	RunID string `json:"run_id,omitempty"`

	// Model is the model used (e.g. "gpt-4o-mini").
	Model string `json:"model"`

	// Operation is what the tokens were spent on.
	Operation string `json:"operation"`

	// InputTokens is the number of input tokens used.
	InputTokens int64 `json:"input_tokens"`

	// OutputTokens is the number of output tokens generated.
	OutputTokens int64 `json:"output_tokens"`

	// TotalTokens is the total tokens (input + output).
	TotalTokens int64 `json:"total_tokens"`

	// CostCents is the estimated cost in cents (USD).
	CostCents int64 `json:"cost_cents"`

	// RequestCount is the number of API requests in this record.
	RequestCount int64 `json:"request_count"`

	// RecordedAt is when this usage was recorded.
	RecordedAt time.Time `json:"recorded_at"`

	// Metadata contains additional context.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// UsageSummary represents aggregated usage data.
type UsageSummary struct {
	// Model is the model this summary is for, if grouped by model.
	Model string `json:"model,omitempty"`

	// Period is the time period (e.g., "day", "week", "month", "all").
	Period string `json:"period"`

	// PeriodStart is the start of the period.
	PeriodStart time.Time `json:"period_start,omitempty"`

	// PeriodEnd is the end of the period.
	PeriodEnd time.Time `json:"period_end,omitempty"`

	// InputTokens is the total input tokens in this period.
	InputTokens int64 `json:"input_tokens"`

	// OutputTokens is the total output tokens in this period.
	OutputTokens int64 `json:"output_tokens"`

	// TotalTokens is the total tokens in this period.
	TotalTokens int64 `json:"total_tokens"`

	// TotalCostCents is the total estimated cost in cents.
	TotalCostCents int64 `json:"total_cost_cents"`

	// RequestCount is the total API requests in this period.
	RequestCount int64 `json:"request_count"`

	// RecordCount is the number of usage records in this summary.
	RecordCount int64 `json:"record_count"`
}

// DailyUsage represents usage for a specific day.
type DailyUsage struct {
	// Date is the day (YYYY-MM-DD).
	Date string `json:"date"`

	// Model is the model the usage belongs to.
	Model string `json:"model"`

	// InputTokens for the day.
	InputTokens int64 `json:"input_tokens"`

	// OutputTokens for the day.
	OutputTokens int64 `json:"output_tokens"`

	// TotalTokens for the day.
	TotalTokens int64 `json:"total_tokens"`

	// CostCents for the day.
	CostCents int64 `json:"cost_cents"`

	// RequestCount for the day.
	RequestCount int64 `json:"request_count"`
}

// UsageQuery defines filters for querying usage.
type UsageQuery struct {
	// RunID filters by generation run.
	RunID *string

	// Model filters by model.
	Model *string

	// Operation filters by operation.
	Operation *string

	// Since filters to records after this time (inclusive).
	Since *time.Time

	// Until filters to records before this time (exclusive).
	Until *time.Time

	// Limit is the maximum records to return.
	Limit int
}

// Validate checks if the usage record is valid.
func (r *UsageRecord) Validate() error {
	validation := &ValidationErrors{}
	if r.Model == "" {
		validation.AddMessage("model", "model is required")
	}
	if r.Operation == "" {
		validation.AddMessage("operation", "operation is required")
	}
	if r.InputTokens < 0 {
		validation.AddMessage("input_tokens", "input_tokens must be non-negative")
	}
	if r.OutputTokens < 0 {
		validation.AddMessage("output_tokens", "output_tokens must be non-negative")
	}
	if r.TotalTokens < 0 {
		validation.AddMessage("total_tokens", "total_tokens must be non-negative")
	}
	if r.CostCents < 0 {
		validation.AddMessage("cost_cents", "cost_cents must be non-negative")
	}
	return validation.Err()
}

// CalculateTotalTokens calculates total from input and output.
func (r *UsageRecord) CalculateTotalTokens() {
	r.TotalTokens = r.InputTokens + r.OutputTokens
}
