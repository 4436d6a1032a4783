package http

import (
	"net/http"

	"p2ploans-backend/internal/usecase/registry"

	"github.com/labstack/echo/v4"
)

type BorrowerHandler struct{ uc *registry.Usecase }

func NewBorrowerHandler(uc *registry.Usecase) *BorrowerHandler { return &BorrowerHandler{uc: uc} }

func (h *BorrowerHandler) BecomeBorrower(c echo.Context) error {
	caller, err := callerAddr(c)
	if err != nil {
		return fail(c, err)
	}
	dto, err := h.uc.BecomeBorrower(c.Request().Context(), caller)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *BorrowerHandler) GetBorrower(c echo.Context) error {
	addr := c.Param("address")
	if !reHex40.MatchString(addr) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid address"})
	}
	dto, err := h.uc.Get(c.Request().Context(), addr)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
