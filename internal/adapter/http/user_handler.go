package http

import (
	"net/http"

	"github.com/okonpatrick/DefiTrust-Vault/internal/usecase/registry"

	"github.com/labstack/echo/v4"
)

type UserHandler struct{ uc *registry.Usecase }

func NewUserHandler(uc *registry.Usecase) *UserHandler { return &UserHandler{uc: uc} }

type registerReq struct {
	Address string `json:"address" validate:"required,ethaddr"`
}

func (h *UserHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Register(c.Request().Context(), req.Address)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *UserHandler) Get(c echo.Context) error {
	address := c.Param("address")
	if !reAddress.MatchString(address) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid address path param"})
	}
	dto, err := h.uc.Get(c.Request().Context(), address)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *UserHandler) Ledger(c echo.Context) error {
	address := c.Param("address")
	if !reAddress.MatchString(address) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid address path param"})
	}
	entries, err := h.uc.Ledger(c.Request().Context(), address)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"entries": entries})
}
