package registry

// AccountDTO is the wire representation of a trust registry record.
// Timestamps cross the API as unix seconds.
type AccountDTO struct {
	Address           string `json:"address"`
	TrustScore        int64  `json:"trust_score"`
	LoansCompleted    int64  `json:"loans_completed"`
	LoansDefaulted    int64  `json:"loans_defaulted"`
	TotalStakedOnUser int64  `json:"total_staked_on_user"`
	IsRegistered      bool   `json:"is_registered"`
	RegisteredAt      int64  `json:"registered_at"`
}

// LedgerEntryDTO is one audit entry in a user's value-movement history.
type LedgerEntryDTO struct {
	EntryID   string `json:"entry_id"`
	LoanID    string `json:"loan_id,omitempty"`
	Type      string `json:"type"`
	Amount    int64  `json:"amount"`
	CreatedAt int64  `json:"created_at"`
}
