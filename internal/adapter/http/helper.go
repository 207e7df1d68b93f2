package http

import (
	"errors"
	"net/http"

	"github.com/okonpatrick/DefiTrust-Vault/internal/domain/account"
	"github.com/okonpatrick/DefiTrust-Vault/internal/domain/endorsement"
	"github.com/okonpatrick/DefiTrust-Vault/internal/domain/loan"
	"github.com/okonpatrick/DefiTrust-Vault/internal/domain/pool"

	"github.com/labstack/echo/v4"
)

// statusFor maps domain sentinel errors to HTTP status codes. Anything
// unmapped is an internal error; the domain never leaks partial state on
// those, so callers may retry.
func statusFor(err error) int {
	switch {
	case errors.Is(err, account.ErrNotRegistered),
		errors.Is(err, loan.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, account.ErrAlreadyRegistered),
		errors.Is(err, loan.ErrNotActive),
		errors.Is(err, loan.ErrDeadlineNotReached),
		errors.Is(err, pool.ErrInsufficientLiquidity):
		return http.StatusConflict
	case errors.Is(err, endorsement.ErrSelfEndorsement),
		errors.Is(err, endorsement.ErrInvalidStake),
		errors.Is(err, loan.ErrTrustScoreTooLow),
		errors.Is(err, loan.ErrCollateralMismatch),
		errors.Is(err, loan.ErrWrongRepaymentAmount),
		errors.Is(err, loan.ErrInvalidAmount),
		errors.Is(err, pool.ErrInvalidAmount):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func jsonError(c echo.Context, err error) error {
	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = "internal error"
	}
	return c.JSON(code, ErrorResponse{Error: msg})
}
