package http

import (
	"net/http"

	ucEndorsement "github.com/okonpatrick/DefiTrust-Vault/internal/usecase/endorsement"

	"github.com/labstack/echo/v4"
)

type EndorsementHandler struct{ uc *ucEndorsement.Usecase }

func NewEndorsementHandler(uc *ucEndorsement.Usecase) *EndorsementHandler {
	return &EndorsementHandler{uc: uc}
}

type endorseReq struct {
	Endorser string `json:"endorser" validate:"required,ethaddr"`
	Endorsee string `json:"endorsee" validate:"required,ethaddr"`
	Stake    int64  `json:"stake"    validate:"required,gt=0"`
}

func (h *EndorsementHandler) Endorse(c echo.Context) error {
	var req endorseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Endorse(c.Request().Context(), ucEndorsement.EndorseInput(req))
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}
