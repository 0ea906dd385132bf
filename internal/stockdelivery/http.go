// Package stockdelivery manages delivery layer of stocks.
package stockdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/portfolio-tracker/internal/domain"
	"github.com/go-petr/portfolio-tracker/pkg/errorspkg"
	"github.com/go-petr/portfolio-tracker/pkg/web"
)

// Service provides service layer interface needed by stock delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package stockdelivery
type Service interface {
	Add(ctx context.Context, ownerID int64, arg domain.CreateStockParams) (domain.Stock, error)
	Update(ctx context.Context, ownerID, id int64, arg domain.UpdateStockParams) (domain.Stock, error)
	Delete(ctx context.Context, ownerID, id int64) error
	List(ctx context.Context, ownerID int64) ([]domain.Stock, error)
	BookValue(ctx context.Context, ownerID int64) (decimal.Decimal, error)
	LiveValue(ctx context.Context, ownerID int64) (decimal.Decimal, error)
}

// Handler facilitates stock delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns stock handler.
func NewHandler(ss Service) Handler {
	return Handler{service: ss}
}

type ownerURI struct {
	UserID int64 `uri:"userId" binding:"required,min=1"`
}

type stockURI struct {
	UserID int64 `uri:"userId" binding:"required,min=1"`
	ID     int64 `uri:"id" binding:"required,min=1"`
}

// stockBody deliberately has no owner field: the owner always comes from
// the request path, never the body.
type stockBody struct {
	Ticker   string `json:"ticker" binding:"required"`
	Name     string `json:"name"`
	BuyPrice string `json:"buy_price" binding:"required"`
	Quantity string `json:"quantity" binding:"required"`
}

type data struct {
	Stock domain.Stock `json:"stock"`
}
type response struct {
	Data data `json:"data,omitempty"`
}

func bindErrorMsg(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		field := ve[0]
		return field.Field() + web.GetErrorMsg(field)
	}

	return err.Error()
}

// writeError translates domain errors to HTTP status codes. Ownership
// mismatches render exactly like missing records so that the existence of
// other users' stocks never leaks.
func writeError(gctx *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrStockNotFound), errors.Is(err, domain.ErrStockOwnerMismatch):
		gctx.JSON(http.StatusNotFound, web.Error(domain.ErrStockNotFound))
	case errors.Is(err, domain.ErrTickerRequired),
		errors.Is(err, domain.ErrInvalidDecimal),
		errors.Is(err, domain.ErrNegativeBuyPrice),
		errors.Is(err, domain.ErrNegativeQuantity):
		gctx.JSON(http.StatusBadRequest, web.Error(err))
	case errors.Is(err, domain.ErrUserNotFound):
		gctx.JSON(http.StatusBadRequest, web.Error(err))
	case errors.Is(err, domain.ErrQuoteUnavailable):
		gctx.JSON(http.StatusBadGateway, web.Error(err))
	default:
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
	}
}

// Add handles http request to create a stock.
func (h *Handler) Add(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri ownerURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	var req stockBody
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	arg := domain.CreateStockParams{
		Ticker:   req.Ticker,
		Name:     req.Name,
		BuyPrice: req.BuyPrice,
		Quantity: req.Quantity,
	}

	stock, err := h.service.Add(ctx, uri.UserID, arg)
	if err != nil {
		writeError(gctx, err)
		return
	}

	gctx.JSON(http.StatusCreated, response{Data: data{stock}})
}

// Update handles http request to update a stock.
func (h *Handler) Update(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri stockURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	var req stockBody
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	arg := domain.UpdateStockParams{
		Ticker:   req.Ticker,
		Name:     req.Name,
		BuyPrice: req.BuyPrice,
		Quantity: req.Quantity,
	}

	stock, err := h.service.Update(ctx, uri.UserID, uri.ID, arg)
	if err != nil {
		writeError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{stock}})
}

// Delete handles http request to delete a stock.
func (h *Handler) Delete(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri stockURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	if err := h.service.Delete(ctx, uri.UserID, uri.ID); err != nil {
		writeError(gctx, err)
		return
	}

	gctx.Status(http.StatusNoContent)
}

type dataStocks struct {
	Stocks []domain.Stock `json:"stocks"`
}
type responseStocks struct {
	Data dataStocks `json:"data,omitempty"`
}

// List handles http request to list the user's stocks.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri ownerURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	stocks, err := h.service.List(ctx, uri.UserID)
	if err != nil {
		writeError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, responseStocks{Data: dataStocks{stocks}})
}

type dataValue struct {
	Value string `json:"value"`
}
type responseValue struct {
	Data dataValue `json:"data,omitempty"`
}

// BookValue handles http request for the portfolio value at buy prices.
func (h *Handler) BookValue(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri ownerURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	value, err := h.service.BookValue(ctx, uri.UserID)
	if err != nil {
		writeError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, responseValue{Data: dataValue{value.String()}})
}

// LiveValue handles http request for the portfolio value at current
// market prices.
func (h *Handler) LiveValue(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri ownerURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	value, err := h.service.LiveValue(ctx, uri.UserID)
	if err != nil {
		writeError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, responseValue{Data: dataValue{value.String()}})
}
