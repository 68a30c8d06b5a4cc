package entity

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindValidation          ErrorKind = "validation"
	KindState               ErrorKind = "state"
	KindNotFound            ErrorKind = "not_found"
	KindInsufficientBalance ErrorKind = "insufficient_balance"
	KindAuthorization       ErrorKind = "authorization"
	KindWindowExpired       ErrorKind = "window_expired"
	KindConflict            ErrorKind = "conflict"
)

// Error is a business rejection. Two errors match under errors.Is when their codes match,
// so a detailed copy made by With still matches its sentinel.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// With returns a copy of e whose message carries extra detail.
func (e *Error) With(format string, args ...interface{}) *Error {
	return &Error{
		Kind:    e.Kind,
		Code:    e.Code,
		Message: e.Message + ": " + fmt.Sprintf(format, args...),
	}
}

// KindOf reports the kind of the first *Error in err's chain, or "" for infrastructure errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func newError(kind ErrorKind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

var (
	ErrInvalidAmount    = newError(KindValidation, "invalid_amount", "amount must be greater than zero")
	ErrInvalidSelection = newError(KindValidation, "invalid_selection", "invalid number selection")
	ErrInvalidLotto     = newError(KindValidation, "invalid_lotto", "invalid lotto definition")
	ErrInvalidDraw      = newError(KindValidation, "invalid_draw", "invalid draw")
	ErrInvalidDirection = newError(KindValidation, "invalid_direction", "unknown transfer direction")
	ErrSelfTransfer     = newError(KindValidation, "self_transfer", "cannot transfer to yourself")
	ErrInvalidWallet    = newError(KindValidation, "invalid_wallet_kind", "unknown wallet kind")
	ErrInvalidDecision  = newError(KindValidation, "invalid_decision", "decision must be approve or reject")
	ErrInvalidSetting   = newError(KindValidation, "invalid_setting", "invalid setting value")
	ErrInvalidComment   = newError(KindValidation, "invalid_comment", "comment must not be empty")

	ErrNotEditable             = newError(KindState, "not_editable", "lotto can only be changed while pending")
	ErrHasParticipations       = newError(KindState, "has_participations", "lotto has participations")
	ErrLottoDisabled           = newError(KindState, "lotto_disabled", "lotto is disabled")
	ErrLottoNotStarted         = newError(KindState, "lotto_not_started", "lotto has not started")
	ErrLottoEnded              = newError(KindState, "lotto_ended", "lotto has ended")
	ErrAlreadyCancelled        = newError(KindState, "already_cancelled", "participation is already cancelled")
	ErrAlreadyPaid             = newError(KindState, "already_paid", "participation is already paid")
	ErrNotWinner               = newError(KindState, "not_winner", "participation has no prize to pay")
	ErrAlreadyProcessed        = newError(KindState, "already_processed", "approval request is already processed")
	ErrNotApproved             = newError(KindState, "not_approved", "approval request is not approved")
	ErrPrizesAlreadyCalculated = newError(KindState, "prizes_already_calculated", "prizes are already calculated")
	ErrDrawNotEnded            = newError(KindState, "draw_not_ended", "lotto has not reached its end date")
	ErrPendingRequestExists    = newError(KindState, "pending_request_exists", "a pending approval request already exists for this lotto")

	ErrWalletNotFound        = newError(KindNotFound, "wallet_not_found", "wallet not found")
	ErrLottoNotFound         = newError(KindNotFound, "lotto_not_found", "lotto not found")
	ErrParticipationNotFound = newError(KindNotFound, "participation_not_found", "participation not found")
	ErrRecipientNotFound     = newError(KindNotFound, "recipient_not_found", "recipient not found")
	ErrRequestNotFound       = newError(KindNotFound, "request_not_found", "approval request not found")
	ErrResultNotFound        = newError(KindNotFound, "result_not_found", "prize result not found")
	ErrUserNotFound          = newError(KindNotFound, "user_not_found", "user not found")

	ErrInsufficientBalance = newError(KindInsufficientBalance, "insufficient_balance", "insufficient balance")

	ErrUnauthorized = newError(KindAuthorization, "unauthorized", "not permitted for this role")

	ErrCancellationWindowExpired = newError(KindWindowExpired, "cancellation_window_expired", "cancellation window has expired")

	ErrConflict = newError(KindConflict, "conflict", "concurrent modification, retry")
)
