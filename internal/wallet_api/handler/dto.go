package handler

// RegisterAccountRequest represents a request to register a new wallet account
type RegisterAccountRequest struct {
	Username       string `json:"username" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	DisplayName    string `json:"display_name" binding:"required"`
	InitialBalance string `json:"initial_balance,omitempty"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	WalletAddress string `json:"wallet_address"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	DisplayName   string `json:"display_name"`
	Balance       string `json:"balance"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// CreateTransferRequest represents a request to initiate a transfer. Amount
// and fee are decimal strings; the fee must match the quoted fee for the
// amount.
type CreateTransferRequest struct {
	SenderWallet   string `json:"sender_wallet" binding:"required"`
	RecipientToken string `json:"recipient_token" binding:"required"`
	TokenIsUser    bool   `json:"token_is_username"`
	Amount         string `json:"amount" binding:"required"`
	Fee            string `json:"fee" binding:"required"`
	Note           string `json:"note,omitempty"`
}

// TransferResponse represents a transfer record in API responses
type TransferResponse struct {
	TransferID        string `json:"transfer_id"`
	Type              string `json:"type"`
	Amount            string `json:"amount"`
	Fee               string `json:"fee"`
	SenderWallet      string `json:"sender_wallet"`
	RecipientWallet   string `json:"recipient_wallet"`
	Note              string `json:"note,omitempty"`
	Status            string `json:"status"`
	StatusReason      string `json:"status_reason,omitempty"`
	RelatedTransferID string `json:"related_transfer_id,omitempty"`
	CreatedAt         string `json:"created_at"`
	FinalizedAt       string `json:"finalized_at,omitempty"`
}

// FeeQuoteResponse represents a fee quote in API responses
type FeeQuoteResponse struct {
	Amount      string `json:"amount"`
	Fee         string `json:"fee"`
	Total       string `json:"total"`
	Description string `json:"description"`
}

// LimitQuoteResponse represents the per-transfer limit in API responses
type LimitQuoteResponse struct {
	DailyLimit string `json:"daily_limit"`
}

// StakingQuoteResponse represents a staking reward quote in API responses
type StakingQuoteResponse struct {
	Principal              string `json:"principal"`
	DurationDays           int    `json:"duration_days"`
	Reward                 string `json:"reward"`
	EarlyWithdrawalPenalty string `json:"early_withdrawal_penalty"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}
