// Package transactiondelivery manages delivery layer of transactions.
package transactiondelivery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/vheckthor/bank-api/internal/domain"
	"github.com/vheckthor/bank-api/internal/middleware"
	"github.com/vheckthor/bank-api/internal/transactionservice"
	"github.com/vheckthor/bank-api/pkg/errorspkg"
	"github.com/vheckthor/bank-api/pkg/tokenpkg"
	"github.com/vheckthor/bank-api/pkg/web"
)

// Service provides service layer interface needed by transaction delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package transactiondelivery
type Service interface {
	Post(ctx context.Context, arg transactionservice.PostParams) (domain.PostTransactionResult, error)
	List(ctx context.Context, owner, accountNumber, search string, pageNumber, pageSize int32) (domain.TransactionPage, error)
}

// Handler facilitates transaction delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns transaction handler.
func NewHandler(ts Service) *Handler {
	return &Handler{service: ts}
}

// floatAmount renders a decimal the way the API reports amounts:
// integral values carry a trailing ".0" ("3000" reads as "3000.0").
func floatAmount(d decimal.Decimal) string {
	s := d.String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}

	return s
}

const transactionDateLayout = "2006/01/02, 15:04:05"

type accountURI struct {
	Number string `uri:"number" binding:"required,numeric,len=10"`
}

type postRequest struct {
	Kind        string      `json:"transaction_type" binding:"required,oneof=credit debit"`
	Amount      json.Number `json:"transaction_amount" binding:"required"`
	Description string      `json:"transaction_description" binding:"required"`
}

type postResponse struct {
	Success string `json:"success"`
	Balance string `json:"balance"`
}

// Post handles http request to credit or debit an account.
func (h *Handler) Post(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri accountURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()

		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			gctx.JSON(http.StatusBadRequest, web.Response{Error: web.GetErrorMsg(ve)})

			return
		}

		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	var req postRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()

		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			gctx.JSON(http.StatusBadRequest, web.Response{Error: web.GetErrorMsg(ve)})

			return
		}

		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	kind, err := domain.ParseTransactionKind(req.Kind)
	if err != nil {
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	amount, err := decimal.NewFromString(req.Amount.String())
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(domain.ErrInvalidAmount))

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	arg := transactionservice.PostParams{
		Owner:         authPayload.Username,
		AccountNumber: uri.Number,
		Kind:          kind,
		Amount:        amount.String(),
		Description:   req.Description,
		ClientIP:      gctx.ClientIP(),
	}

	result, err := h.service.Post(ctx, arg)
	if err != nil {
		switch err {
		case domain.ErrAccountNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		case domain.ErrInvalidAmount, domain.ErrInsufficientBalance, domain.ErrInvalidTransactionKind:
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	balance, err := decimal.NewFromString(result.Balance)
	if err != nil {
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := postResponse{
		Success: fmt.Sprintf("%s has been %sed", floatAmount(amount), kind),
		Balance: floatAmount(balance),
	}

	gctx.JSON(http.StatusCreated, res)
}

type listRequest struct {
	Search     string `form:"search"`
	PageNumber int32  `form:"page_number,default=1" binding:"omitempty,min=1"`
	Limit      int32  `form:"limit,default=50" binding:"omitempty"`
}

type transactionResponse struct {
	Date        string `json:"transaction_date"`
	Kind        string `json:"transaction_type"`
	Amount      string `json:"transaction_amount"`
	Description string `json:"transaction_description"`
}

type listResponse struct {
	TotalCount      int32                 `json:"total_count"`
	TotalPages      int32                 `json:"total_number_of_pages"`
	CurrentPage     int32                 `json:"current_page"`
	NextPage        int32                 `json:"next_page"`
	Limit           int32                 `json:"limit"`
	AllTransactions []transactionResponse `json:"all_transactions"`
}

func newListResponse(page domain.TransactionPage) (listResponse, error) {
	transactions := make([]transactionResponse, 0, len(page.Transactions))

	for _, tx := range page.Transactions {
		amount, err := decimal.NewFromString(tx.Amount)
		if err != nil {
			return listResponse{}, err
		}

		transactions = append(transactions, transactionResponse{
			Date:        tx.CreatedAt.Format(transactionDateLayout),
			Kind:        string(tx.Kind),
			Amount:      floatAmount(amount),
			Description: tx.Description,
		})
	}

	return listResponse{
		TotalCount:      page.TotalCount,
		TotalPages:      page.TotalPages,
		CurrentPage:     page.CurrentPage,
		NextPage:        page.NextPage,
		Limit:           page.PageSize,
		AllTransactions: transactions,
	}, nil
}

// List handles http request to search an account's transactions page by page.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri accountURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()

		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			gctx.JSON(http.StatusBadRequest, web.Response{Error: web.GetErrorMsg(ve)})

			return
		}

		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	var req listRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()

		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			gctx.JSON(http.StatusBadRequest, web.Response{Error: web.GetErrorMsg(ve)})

			return
		}

		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	page, err := h.service.List(ctx, authPayload.Username, uri.Number, req.Search, req.PageNumber, req.Limit)
	if err != nil {
		switch err {
		case domain.ErrAccountNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		case domain.ErrInvalidPageSize:
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res, err := newListResponse(page)
	if err != nil {
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, res)
}
