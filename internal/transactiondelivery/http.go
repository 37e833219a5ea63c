// Package transactiondelivery manages delivery layer of ledger transactions.
package transactiondelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/tinyledger/tinyledger/internal/domain"
	"github.com/tinyledger/tinyledger/pkg/errorspkg"
	"github.com/tinyledger/tinyledger/pkg/jsonresponse"
)

// Service provides service layer interface needed by transaction delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package transactiondelivery
type Service interface {
	Withdraw(ctx context.Context, accountID int32, amount decimal.Decimal, description string) (domain.Entry, error)
	Deposit(ctx context.Context, accountID int32, amount decimal.Decimal, description string) (domain.Entry, error)
	ListByAccount(ctx context.Context, accountID int32) ([]domain.Entry, error)
}

// Handler facilitates transaction delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns transaction handler.
func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

func respondError(gctx *gin.Context, err error) {
	kind := errorspkg.KindOf(err)
	if kind == errorspkg.KindUnclassified {
		gctx.JSON(http.StatusInternalServerError, jsonresponse.Error(errorspkg.ErrInternal))
		return
	}

	gctx.JSON(kind.HTTPStatus(), jsonresponse.Error(err))
}

type uriRequest struct {
	AccountID int32 `uri:"id" binding:"required,min=1"`
}

type transactRequest struct {
	Amount      string `json:"amount" binding:"required,amount"`
	Description string `json:"description"`
}

type data struct {
	Entry domain.Entry `json:"entry"`
}

type response struct {
	Data data `json:"data,omitempty"`
}

func bindTransact(gctx *gin.Context) (int32, decimal.Decimal, string, bool) {
	l := zerolog.Ctx(gctx.Request.Context())

	var uri uriRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))

		return 0, decimal.Decimal{}, "", false
	}

	var req transactRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))

		return 0, decimal.Decimal{}, "", false
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(errorspkg.InvalidOperationf("invalid amount")))

		return 0, decimal.Decimal{}, "", false
	}

	return uri.AccountID, amount, req.Description, true
}

// Deposit handles http request to deposit money into an account.
func (h *Handler) Deposit(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	accountID, amount, description, ok := bindTransact(gctx)
	if !ok {
		return
	}

	entry, err := h.service.Deposit(ctx, accountID, amount, description)
	if err != nil {
		zerolog.Ctx(ctx).Info().Err(err).Send()
		respondError(gctx, err)

		return
	}

	gctx.JSON(http.StatusCreated, response{Data: data{entry}})
}

// Withdraw handles http request to withdraw money from an account.
func (h *Handler) Withdraw(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	accountID, amount, description, ok := bindTransact(gctx)
	if !ok {
		return
	}

	entry, err := h.service.Withdraw(ctx, accountID, amount, description)
	if err != nil {
		zerolog.Ctx(ctx).Info().Err(err).Send()
		respondError(gctx, err)

		return
	}

	gctx.JSON(http.StatusCreated, response{Data: data{entry}})
}

type listData struct {
	Entries []domain.Entry `json:"entries"`
}

type listResponse struct {
	Data listData `json:"data,omitempty"`
}

// List handles http request to list an account's ledger entries.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri uriRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))

		return
	}

	entries, err := h.service.ListByAccount(ctx, uri.AccountID)
	if err != nil {
		l.Info().Err(err).Send()
		respondError(gctx, err)

		return
	}

	gctx.JSON(http.StatusOK, listResponse{Data: listData{entries}})
}
