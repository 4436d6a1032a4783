package http

import (
	"net/http"

	"p2ploans-backend/internal/usecase/pool"

	"github.com/labstack/echo/v4"
)

type PoolHandler struct{ uc *pool.Usecase }

func NewPoolHandler(uc *pool.Usecase) *PoolHandler { return &PoolHandler{uc: uc} }

type createPoolReq struct {
	FeeRate        uint64   `json:"fee_rate" validate:"lt=100"`
	Allowlist      []string `json:"allowlist" validate:"omitempty,unique,dive,hex40"`
	InitialDeposit uint64   `json:"initial_deposit"`
}

func (h *PoolHandler) CreatePool(c echo.Context) error {
	caller, err := callerAddr(c)
	if err != nil {
		return fail(c, err)
	}
	var req createPoolReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	dto, err := h.uc.Create(c.Request().Context(), pool.CreatePoolInput{
		Caller:         caller,
		FeeRate:        req.FeeRate,
		Allowlist:      req.Allowlist,
		InitialDeposit: req.InitialDeposit,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

type amountReq struct {
	Amount uint64 `json:"amount" validate:"required,gt=0"`
}

func (h *PoolHandler) Contribute(c echo.Context) error {
	caller, err := callerAddr(c)
	if err != nil {
		return fail(c, err)
	}
	poolID, err := paramUint(c, "pool_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid pool id"})
	}
	var req amountReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	dto, err := h.uc.Contribute(c.Request().Context(), caller, poolID, req.Amount)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *PoolHandler) Withdraw(c echo.Context) error {
	caller, err := callerAddr(c)
	if err != nil {
		return fail(c, err)
	}
	poolID, err := paramUint(c, "pool_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid pool id"})
	}
	var req amountReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	dto, err := h.uc.Withdraw(c.Request().Context(), caller, poolID, req.Amount)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *PoolHandler) GetPool(c echo.Context) error {
	id, err := paramUint(c, "pool_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid pool id"})
	}
	dto, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *PoolHandler) PoolsAmount(c echo.Context) error {
	n, err := h.uc.Count(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"count": n})
}

func (h *PoolHandler) LenderPosition(c echo.Context) error {
	poolID, err := paramUint(c, "pool_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid pool id"})
	}
	addr := c.Param("address")
	if !reHex40.MatchString(addr) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid address"})
	}
	amount, err := h.uc.LenderPosition(c.Request().Context(), poolID, addr)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]uint64{"amount": amount})
}
