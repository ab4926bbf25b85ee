package constants

// WorkflowKind selects which batch workflow a run executes.
type WorkflowKind string

const (
	// WorkflowReviewPending verifies already-attached dashboard documents:
	// download, validate, confirm.
	WorkflowReviewPending WorkflowKind = "review_pending"
	// WorkflowOpen uploads the local proof document to an open complaint
	// and confirms it.
	WorkflowOpen WorkflowKind = "open"
)

// DocState is the per-document state machine position.
type DocState string

const (
	DocDiscovered       DocState = "DISCOVERED"
	DocExtracted        DocState = "EXTRACTED"
	DocMatched          DocState = "MATCHED"
	DocValidated        DocState = "VALIDATED"
	DocConfirmed        DocState = "CONFIRMED"
	DocExtractionEmpty  DocState = "EXTRACTION_EMPTY"
	DocNoMatch          DocState = "NO_MATCH"
	DocValidationFailed DocState = "VALIDATION_FAILED"
	DocRejected         DocState = "REJECTED"
)

// RecordStatus is the complaint status as displayed by the dashboard.
type RecordStatus string

const (
	StatusOpen          RecordStatus = "open"
	StatusReviewPending RecordStatus = "review pending"
	StatusUnknown       RecordStatus = "unknown"
)
