package constants

// Bucket is a terminal filesystem location for a processed document.
type Bucket string

// Stable values (these double as default directory names).
const (
	BucketProcessed       Bucket = "processed"        // accepted: confirmed against the dashboard
	BucketProcessedReview Bucket = "processed_review" // rejected during the review_pending workflow
	BucketNotVerified     Bucket = "not_verified"     // rejected: no match or failed validation
)

// RejectBucketFor picks the rejection bucket for a workflow kind. The
// review_pending workflow files rejects separately so operators can
// re-queue them after fixing the dashboard side.
func RejectBucketFor(kind WorkflowKind) Bucket {
	if kind == WorkflowReviewPending {
		return BucketProcessedReview
	}
	return BucketNotVerified
}
