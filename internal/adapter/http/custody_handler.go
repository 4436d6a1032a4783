package http

import (
	"net/http"

	custodyDomain "p2ploans-backend/internal/domain/custody"
	"p2ploans-backend/internal/usecase/custody"

	"github.com/labstack/echo/v4"
)

type CustodyHandler struct{ uc *custody.Usecase }

func NewCustodyHandler(uc *custody.Usecase) *CustodyHandler { return &CustodyHandler{uc: uc} }

type custodyReq struct {
	Asset  string `json:"asset" validate:"required,oneof=native collateral"`
	Amount uint64 `json:"amount" validate:"required,gt=0"`
}

func (h *CustodyHandler) Deposit(c echo.Context) error {
	caller, err := callerAddr(c)
	if err != nil {
		return fail(c, err)
	}
	var req custodyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	if err := h.uc.Deposit(c.Request().Context(), caller, custodyDomain.Asset(req.Asset), req.Amount); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *CustodyHandler) Withdraw(c echo.Context) error {
	caller, err := callerAddr(c)
	if err != nil {
		return fail(c, err)
	}
	var req custodyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	if err := h.uc.Withdraw(c.Request().Context(), caller, custodyDomain.Asset(req.Asset), req.Amount); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *CustodyHandler) Balances(c echo.Context) error {
	addr := c.Param("address")
	if !reHex40.MatchString(addr) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid address"})
	}
	bals, err := h.uc.Balances(c.Request().Context(), addr)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"address": addr, "balances": bals})
}
