package services

import "fmt"

// Kind classifies where in the pipeline an operation failed.
type Kind int

const (
	// KindValidation: malformed input, rejected before any lock.
	KindValidation Kind = iota
	// KindPrecondition: checked inside the lock, no state change.
	KindPrecondition
	// KindConflict: lost a race to a concurrent winner, no partial credit.
	KindConflict
	// KindNotFound: the referenced entity does not exist.
	KindNotFound
	// KindStorage: persistence failure; the whole mutation rolled back.
	KindStorage
)

// Error is the typed failure every operation returns. Code is a stable
// upper-snake string surfaced verbatim to callers; Retryable marks
// failures the caller may safely repeat (storage faults, lock timeouts).
type Error struct {
	Kind      Kind
	Code      string
	Message   string
	Retryable bool
	cause     error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

func validationErr(code, msg string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: msg}
}

func preconditionErr(code, msg string) *Error {
	return &Error{Kind: KindPrecondition, Code: code, Message: msg}
}

func conflictErr(code, msg string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: msg}
}

func notFoundErr(code, msg string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: msg}
}

func storageErr(msg string, cause error) *Error {
	return &Error{Kind: KindStorage, Code: "STORAGE_ERROR", Message: msg, Retryable: true, cause: cause}
}

// Failure codes. Controllers map these straight into the response envelope.
var (
	ErrBanned            = preconditionErr("BANNED", "identity, device or IP is banned")
	ErrRateLimited       = preconditionErr("RATE_LIMITED", "too many requests in the last hour")
	ErrInsufficientFunds = preconditionErr("INSUFFICIENT_FUNDS", "balance too low for this operation")
	ErrInsufficientToken = preconditionErr("INSUFFICIENT_TOKENS", "not enough vault tokens")
	ErrDailyLimit        = preconditionErr("DAILY_LIMIT_REACHED", "daily limit for this operation reached")
	ErrAlreadyClaimed    = preconditionErr("ALREADY_CLAIMED", "daily reward already claimed today")
	ErrTrialCap          = preconditionErr("TRIAL_CAP_REACHED", "free-tier lifetime earn cap reached")
	ErrInvalidCode       = notFoundErr("INVALID_CODE", "code does not exist or is no longer active")
	ErrAlreadyRedeemed   = conflictErr("ALREADY_REDEEMED", "code was already redeemed")
	ErrCampaignLimit     = preconditionErr("CAMPAIGN_LIMIT_REACHED", "campaign already redeemed by this identity")
	ErrSelfReferral      = preconditionErr("SELF_REFERRAL", "cannot link to your own referral code")
	ErrAlreadyLinked     = preconditionErr("ALREADY_LINKED", "identity is already linked to a referrer")
	ErrAccountNotFound   = notFoundErr("ACCOUNT_NOT_FOUND", "no wallet for this identity")
	ErrNegativeBalance   = preconditionErr("NEGATIVE_BALANCE", "operation would drive a balance below zero")
	ErrLockTimeout       = &Error{Kind: KindStorage, Code: "LOCK_TIMEOUT", Message: "timed out waiting for identity lock", Retryable: true}
)
