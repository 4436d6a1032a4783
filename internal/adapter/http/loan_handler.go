package http

import (
	"net/http"

	"p2ploans-backend/internal/usecase/loan"

	"github.com/labstack/echo/v4"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type borrowReq struct {
	PoolID           uint64 `json:"pool_id" validate:"required"`
	BorrowAmount     uint64 `json:"borrow_amount" validate:"required,gt=0"`
	CollateralAmount uint64 `json:"collateral_amount" validate:"required,gt=0"`
	DurationDays     uint64 `json:"duration_days" validate:"required,gt=0"`
	// a ceiling on the accepted fee rate, not a rate itself, so unbounded
	MaxFeeRate uint64 `json:"max_fee_rate"`
}

func (h *LoanHandler) MakeBorrow(c echo.Context) error {
	caller, err := callerAddr(c)
	if err != nil {
		return fail(c, err)
	}
	var req borrowReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	dto, err := h.uc.Borrow(c.Request().Context(), loan.BorrowInput{
		Caller:           caller,
		PoolID:           req.PoolID,
		BorrowAmount:     req.BorrowAmount,
		CollateralAmount: req.CollateralAmount,
		DurationDays:     req.DurationDays,
		MaxFeeRate:       req.MaxFeeRate,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) RepayLoan(c echo.Context) error {
	caller, err := callerAddr(c)
	if err != nil {
		return fail(c, err)
	}
	loanID, err := paramUint(c, "loan_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan id"})
	}
	var req amountReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	dto, err := h.uc.Repay(c.Request().Context(), caller, loanID, req.Amount)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) SettleLoan(c echo.Context) error {
	caller, err := callerAddr(c)
	if err != nil {
		return fail(c, err)
	}
	loanID, err := paramUint(c, "loan_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan id"})
	}
	dto, err := h.uc.Settle(c.Request().Context(), caller, loanID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	id, err := paramUint(c, "loan_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan id"})
	}
	dto, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) BorrowerLoans(c echo.Context) error {
	addr := c.Param("address")
	if !reHex40.MatchString(addr) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid address"})
	}
	ids, err := h.uc.BorrowerLoans(c.Request().Context(), addr)
	if err != nil {
		return fail(c, err)
	}
	if ids == nil {
		ids = []uint64{}
	}
	return c.JSON(http.StatusOK, map[string][]uint64{"loan_ids": ids})
}
