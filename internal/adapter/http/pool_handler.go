package http

import (
	"net/http"

	ucPool "github.com/okonpatrick/DefiTrust-Vault/internal/usecase/pool"

	"github.com/labstack/echo/v4"
)

type PoolHandler struct{ uc *ucPool.Usecase }

func NewPoolHandler(uc *ucPool.Usecase) *PoolHandler { return &PoolHandler{uc: uc} }

type depositReq struct {
	Depositor string `json:"depositor" validate:"required,ethaddr"`
	Amount    int64  `json:"amount"    validate:"required,gt=0"`
}

func (h *PoolHandler) Deposit(c echo.Context) error {
	var req depositReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Deposit(c.Request().Context(), ucPool.DepositInput(req))
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *PoolHandler) Snapshot(c echo.Context) error {
	dto, err := h.uc.Snapshot(c.Request().Context())
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
