package http

import (
	"errors"
	"net/http"

	domainPool "github.com/okonpatrick/DefiTrust-Vault/internal/domain/pool"
	ucLoan "github.com/okonpatrick/DefiTrust-Vault/internal/usecase/loan"

	"github.com/labstack/echo/v4"
)

type LoanHandler struct{ uc *ucLoan.Usecase }

func NewLoanHandler(uc *ucLoan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type requestLoanReq struct {
	Borrower   string `json:"borrower"   validate:"required,ethaddr"`
	Amount     int64  `json:"amount"     validate:"required,gt=0"`
	Collateral int64  `json:"collateral" validate:"required,gt=0"`
}

func (h *LoanHandler) RequestLoan(c echo.Context) error {
	var req requestLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Request(c.Request().Context(), ucLoan.RequestInput(req))
	if err != nil {
		// Funding failure is a designed fallback: the loan exists in the
		// cancelled state and the collateral has been refunded, so the
		// response carries both the error and the audit row.
		if errors.Is(err, domainPool.ErrInsufficientLiquidity) && dto != nil {
			return c.JSON(http.StatusConflict, map[string]any{
				"error": err.Error(),
				"loan":  dto,
			})
		}
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

type repayReq struct {
	Payer  string `json:"payer"  validate:"required,ethaddr"`
	Amount int64  `json:"amount" validate:"required,gt=0"`
}

func (h *LoanHandler) Repay(c echo.Context) error {
	loanID := c.Param("loan_id")
	if !reHex32.MatchString(loanID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id path param"})
	}
	var req repayReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Repay(c.Request().Context(), ucLoan.RepayInput{
		LoanID: loanID,
		Payer:  req.Payer,
		Amount: req.Amount,
	})
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) DefaultSweep(c echo.Context) error {
	loanID := c.Param("loan_id")
	if !reHex32.MatchString(loanID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id path param"})
	}
	dto, err := h.uc.Sweep(c.Request().Context(), loanID)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	loanID := c.Param("loan_id")
	if !reHex32.MatchString(loanID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id path param"})
	}
	dto, err := h.uc.Get(c.Request().Context(), loanID)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Ledger(c echo.Context) error {
	loanID := c.Param("loan_id")
	if !reHex32.MatchString(loanID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id path param"})
	}
	entries, err := h.uc.Ledger(c.Request().Context(), loanID)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"entries": entries})
}

func (h *LoanHandler) ActiveForUser(c echo.Context) error {
	address := c.Param("address")
	if !reAddress.MatchString(address) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid address path param"})
	}
	ids, err := h.uc.ActiveForBorrower(c.Request().Context(), address)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"loan_ids": ids})
}
