package approval

// BulkFailure records why one commission in a bulk request could not be
// approved.
type BulkFailure struct {
	CommissionID uint   `json:"commission_id"`
	Error        string `json:"error"`
}

// BulkResult aggregates per-id outcomes of a bulk approval. A failed id never
// aborts the rest of the batch.
type BulkResult struct {
	ApprovedCount int           `json:"approved_count"`
	FailedCount   int           `json:"failed_count"`
	Failures      []BulkFailure `json:"failures,omitempty"`
}
