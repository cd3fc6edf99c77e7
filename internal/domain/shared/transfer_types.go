package shared

// TransferType distinguishes the sender-side record from the recipient-side mirror
type TransferType string

const (
	TransferTypeSend    TransferType = "send"
	TransferTypeReceive TransferType = "receive"
)

// TransferStatus defines transfer lifecycle states. Pending is the only
// non-terminal state; every other status is final.
type TransferStatus string

const (
	TransferStatusPending   TransferStatus = "pending"
	TransferStatusCompleted TransferStatus = "completed"
	TransferStatusFailed    TransferStatus = "failed"
	TransferStatusRefunded  TransferStatus = "refunded"
)

// IsTerminal reports whether the status permits no further transitions
func (s TransferStatus) IsTerminal() bool {
	return s == TransferStatusCompleted || s == TransferStatusFailed || s == TransferStatusRefunded
}

// StatusReason categorizes why a transfer reached a terminal state
type StatusReason string

const (
	ReasonRecipientNotFound   StatusReason = "RECIPIENT_NOT_FOUND"
	ReasonProvisioningFailed  StatusReason = "PROVISIONING_FAILED"
	ReasonInsufficientBalance StatusReason = "INSUFFICIENT_BALANCE"
	ReasonDebitFailed         StatusReason = "DEBIT_FAILED"
	ReasonCreditFailed        StatusReason = "CREDIT_FAILED"
	ReasonMirrorRecordFailed  StatusReason = "MIRROR_RECORD_FAILED"
	ReasonPublishFailed       StatusReason = "PUBLISH_FAILED"
	ReasonValidationFailed    StatusReason = "VALIDATION_FAILED"
	ReasonUnknownError        StatusReason = "UNKNOWN_ERROR"
)

// OutboxStatus defines event publishing states for the transfer outbox
type OutboxStatus string

const (
	OutboxStatusPending         OutboxStatus = "PENDING"
	OutboxStatusProcessed       OutboxStatus = "PROCESSED"
	OutboxStatusFailedToPublish OutboxStatus = "FAILED_TO_PUBLISH"
)
