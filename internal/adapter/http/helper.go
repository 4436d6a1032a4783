package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	borrowerDomain "p2ploans-backend/internal/domain/borrower"
	custodyDomain "p2ploans-backend/internal/domain/custody"
	loanDomain "p2ploans-backend/internal/domain/loan"
	poolDomain "p2ploans-backend/internal/domain/pool"
	loanUC "p2ploans-backend/internal/usecase/loan"
	"p2ploans-backend/pkg/money"
)

// CallerHeader identifies the caller on every write operation.
const CallerHeader = "Ax-Caller-Id"

var errBadCaller = errors.New("missing or invalid " + CallerHeader)

func callerAddr(c echo.Context) (string, error) {
	addr := strings.ToLower(strings.TrimSpace(c.Request().Header.Get(CallerHeader)))
	if !reHex40.MatchString(addr) {
		return "", errBadCaller
	}
	return addr, nil
}

func paramUint(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// statusFor maps the ledger error taxonomy onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, borrowerDomain.ErrNotRegistered),
		errors.Is(err, poolDomain.ErrNotAllowlisted),
		errors.Is(err, loanDomain.ErrNotBorrower),
		errors.Is(err, loanUC.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, poolDomain.ErrNotFound),
		errors.Is(err, loanDomain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, poolDomain.ErrInsufficientLiquidity),
		errors.Is(err, poolDomain.ErrNothingToClaim),
		errors.Is(err, loanDomain.ErrFeeExceedsMax),
		errors.Is(err, loanDomain.ErrAlreadySettled),
		errors.Is(err, loanDomain.ErrNotExpired),
		errors.Is(err, loanDomain.ErrOpenLoanExists):
		return http.StatusConflict
	case errors.Is(err, custodyDomain.ErrInsufficientFunds),
		errors.Is(err, custodyDomain.ErrCollateralTransferFailed):
		return http.StatusPaymentRequired
	case errors.Is(err, money.ErrInvalidAmount),
		errors.Is(err, loanDomain.ErrInvalidDuration),
		errors.Is(err, errBadCaller):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func fail(c echo.Context, err error) error {
	return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
}
