package http

import (
	"net/http"

	"p2ploans-backend/internal/usecase/reward"

	"github.com/labstack/echo/v4"
)

type RewardHandler struct{ uc *reward.Usecase }

func NewRewardHandler(uc *reward.Usecase) *RewardHandler { return &RewardHandler{uc: uc} }

func (h *RewardHandler) ClaimReward(c echo.Context) error {
	caller, err := callerAddr(c)
	if err != nil {
		return fail(c, err)
	}
	poolID, err := paramUint(c, "pool_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid pool id"})
	}
	dto, err := h.uc.Claim(c.Request().Context(), caller, poolID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
