package service

import (
	"errors"

	"github.com/Codebywali/Banking-Mangement-System/internal/ledger"
)

// Failure codes consumed by the presentation layer.
const (
	CodeNotFound           = "not_found"
	CodeDuplicateAccount   = "duplicate_account"
	CodeInvalidAmount      = "invalid_amount"
	CodeInsufficientFunds  = "insufficient_funds"
	CodeSameAccount        = "same_account"
	CodeNonZeroBalance     = "non_zero_balance"
	CodeAuthentication     = "authentication_failed"
	CodeInvalidInput       = "invalid_input"
	CodeStorageUnavailable = "storage_unavailable"
)

// Failure is the uniform operation result the service returns instead of
// letting raw store errors escape. It implements error.
type Failure struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (f *Failure) Error() string { return f.Message }

func fail(code, message string) *Failure {
	return &Failure{Code: code, Message: message}
}

// asFailure maps a store error onto a (code, message) result. Anything
// unrecognized is treated as a storage failure.
func asFailure(err error) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}

	code := CodeStorageUnavailable
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		code = CodeNotFound
	case errors.Is(err, ledger.ErrDuplicateAccount):
		code = CodeDuplicateAccount
	case errors.Is(err, ledger.ErrInvalidAmount):
		code = CodeInvalidAmount
	case errors.Is(err, ledger.ErrInsufficientFunds):
		code = CodeInsufficientFunds
	case errors.Is(err, ledger.ErrSameAccount):
		code = CodeSameAccount
	case errors.Is(err, ledger.ErrNonZeroBalance):
		code = CodeNonZeroBalance
	case errors.Is(err, ledger.ErrAuthentication):
		code = CodeAuthentication
	}
	return fail(code, err.Error())
}
