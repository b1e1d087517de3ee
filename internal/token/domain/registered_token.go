package domain

// RegisteredToken is a device push address registered by a client. The token
// string is the primary key of the registry; a mirrored copy lives under the
// owning user's document.
type RegisteredToken struct {
	Token  string `firestore:"-"`
	UserID string `firestore:"userId"`
}

// SweepResult is the settled outcome of one token-sweep invocation.
type SweepResult struct {
	Success       bool `json:"success"`
	Checked       int  `json:"checked"`
	Deleted       int  `json:"deleted"`
	Batches       int  `json:"batches"`
	FailedBatches int  `json:"failedBatches"`
}
