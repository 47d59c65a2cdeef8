package reconcile

import "encoding/json"

// Record is one candidate legislative proposal from an ingestion batch.
// Optional text fields are nil when the source did not supply them.
type Record struct {
	// LegislativeTerm is the legislative term and session the proposal belongs to.
	LegislativeTerm *string

	// CaseNumber is the business key. It is unique across the store and never changes.
	CaseNumber string

	// Date is the submission date as published by the source.
	Date *string

	// Proposer is the member of parliament or institution that submitted the proposal.
	Proposer *string

	// Summary is the short description of the proposal.
	Summary *string

	// Status is the only field that is updated after creation.
	Status *string

	// Links is the serialized list of link entries. Empty means "[]".
	Links json.RawMessage
}

// LinksOrEmpty returns the serialized link list, defaulting to an empty JSON array.
func (r Record) LinksOrEmpty() json.RawMessage {
	if len(r.Links) == 0 {
		return json.RawMessage("[]")
	}
	return r.Links
}

// ActionType is the classification a record received during a batch.
type ActionType string

const (
	// ActionNew means the record was inserted as a new row.
	ActionNew ActionType = "new"
	// ActionExisting means the record matched a known case number and its status was conditionally updated.
	ActionExisting ActionType = "existing"
	// ActionSkipped means the record had no case number and was ignored.
	ActionSkipped ActionType = "skipped"
)

// Outcome describes what happened to a single record of a batch.
type Outcome struct {
	// Position is the zero-based index of the record in the batch.
	Position int `json:"position"`

	// CaseNumber is the record's business key (empty for skipped records).
	CaseNumber string `json:"case_number"`

	// Action is the classification applied to the record.
	Action ActionType `json:"action"`

	// Changed reports whether a conditional status update modified a row.
	// Always true for ActionNew and false for ActionSkipped.
	Changed bool `json:"changed"`
}

// BatchResult aggregates the outcome of a reconciled batch.
type BatchResult struct {
	// NewCount is the number of records inserted as new rows.
	NewCount int `json:"new_count"`

	// UpdatedCount is the number of records classified as existing,
	// whether or not the conditional update changed the stored status.
	UpdatedCount int `json:"updated_count"`

	// Skipped is the number of records ignored for lacking a case number.
	Skipped int `json:"skipped"`

	// Changed is the number of existing rows whose status actually changed.
	Changed int `json:"changed"`

	// DryRun is true when the batch was rolled back on purpose.
	DryRun bool `json:"dry_run"`

	// Outcomes lists per-record results in input order.
	Outcomes []Outcome `json:"outcomes"`
}

// Options controls how a batch is applied.
type Options struct {
	// DryRun classifies and writes every record, then rolls the transaction back.
	DryRun bool
}

// Config holds ingestion limits for the HTTP and CLI entry points.
type Config struct {
	// MaxConcurrentBatches bounds the number of batch transactions open at the same time.
	MaxConcurrentBatches int `mapstructure:"max_concurrent_batches" default:"4"`
	// BatchTimeoutSeconds cancels (and rolls back) a batch that runs longer than this.
	BatchTimeoutSeconds int `mapstructure:"batch_timeout_seconds" default:"60"`
}
