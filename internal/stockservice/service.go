// Package stockservice manages business logic layer of stocks and
// portfolio valuation.
package stockservice

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/go-petr/portfolio-tracker/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Repo provides data access layer interface needed by stock service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package stockservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateStockParams) (domain.Stock, error)
	Get(ctx context.Context, id int64) (domain.Stock, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Stock, error)
	Update(ctx context.Context, id int64, arg domain.UpdateStockParams) (domain.Stock, error)
	Delete(ctx context.Context, id int64) error
}

// QuoteGetter provides current market prices for ticker symbols.
type QuoteGetter interface {
	GetPrice(ctx context.Context, ticker string) (decimal.Decimal, error)
}

// Service facilitates stock service layer logic.
type Service struct {
	repo   Repo
	quotes QuoteGetter

	// maxInFlight caps concurrent quote calls during LiveValue.
	maxInFlight int
	// partialOnQuoteError switches LiveValue from abort-on-first-failure
	// to counting failed tickers as zero.
	partialOnQuoteError bool
}

// Option configures the service.
type Option func(*Service)

// WithMaxInFlightQuotes caps the number of concurrent quote calls.
func WithMaxInFlightQuotes(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxInFlight = n
		}
	}
}

// WithPartialOnQuoteError makes LiveValue sum the holdings whose quotes
// succeeded instead of failing the whole computation on one bad ticker.
func WithPartialOnQuoteError(enabled bool) Option {
	return func(s *Service) {
		s.partialOnQuoteError = enabled
	}
}

// New returns stock service struct to manage stock business logic.
func New(sr Repo, qg QuoteGetter, opts ...Option) *Service {
	s := &Service{
		repo:        sr,
		quotes:      qg,
		maxInFlight: 4,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// validateFields checks the caller supplied stock fields and returns the
// normalized ticker.
func validateFields(ticker, buyPrice, quantity string) (string, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return "", domain.ErrTickerRequired
	}

	price, err := decimal.NewFromString(buyPrice)
	if err != nil {
		return "", domain.ErrInvalidDecimal
	}

	if price.IsNegative() {
		return "", domain.ErrNegativeBuyPrice
	}

	qty, err := decimal.NewFromString(quantity)
	if err != nil {
		return "", domain.ErrInvalidDecimal
	}

	if qty.IsNegative() {
		return "", domain.ErrNegativeQuantity
	}

	return ticker, nil
}

// Add creates a stock for the given owner and returns the stored record.
// The owner id always comes from the authenticated caller; any owner
// present in arg is overwritten.
func (s *Service) Add(ctx context.Context, ownerID int64, arg domain.CreateStockParams) (domain.Stock, error) {
	l := zerolog.Ctx(ctx)

	ticker, err := validateFields(arg.Ticker, arg.BuyPrice, arg.Quantity)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.Stock{}, err
	}

	arg.Ticker = ticker
	arg.OwnerID = ownerID

	stock, err := s.repo.Create(ctx, arg)
	if err != nil {
		return stock, err
	}

	return stock, nil
}

// getOwned loads the stock with the given id and verifies it belongs to
// the owner. Every by-id operation goes through this check.
func (s *Service) getOwned(ctx context.Context, ownerID, id int64) (domain.Stock, error) {
	l := zerolog.Ctx(ctx)

	stock, err := s.repo.Get(ctx, id)
	if err != nil {
		return stock, err
	}

	if stock.OwnerID != ownerID {
		l.Warn().
			Int64("stock_id", id).
			Int64("owner_id", stock.OwnerID).
			Int64("caller_id", ownerID).
			Msg("stock owner mismatch")

		return domain.Stock{}, domain.ErrStockOwnerMismatch
	}

	return stock, nil
}

// Update replaces the name, ticker, buy price and quantity of the owner's
// stock. Identity and ownership fields are never touched.
func (s *Service) Update(ctx context.Context, ownerID, id int64, arg domain.UpdateStockParams) (domain.Stock, error) {
	l := zerolog.Ctx(ctx)

	ticker, err := validateFields(arg.Ticker, arg.BuyPrice, arg.Quantity)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.Stock{}, err
	}

	arg.Ticker = ticker

	if _, err := s.getOwned(ctx, ownerID, id); err != nil {
		return domain.Stock{}, err
	}

	stock, err := s.repo.Update(ctx, id, arg)
	if err != nil {
		return stock, err
	}

	return stock, nil
}

// Delete permanently removes the owner's stock. A repeated delete of the
// same id fails with domain.ErrStockNotFound.
func (s *Service) Delete(ctx context.Context, ownerID, id int64) error {
	if _, err := s.getOwned(ctx, ownerID, id); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}

// List returns all stocks owned by the given user.
func (s *Service) List(ctx context.Context, ownerID int64) ([]domain.Stock, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// BookValue returns the portfolio value computed from stored buy prices:
// the sum of buy_price * quantity over the owner's stocks. It makes no
// external calls and returns zero for an empty portfolio.
func (s *Service) BookValue(ctx context.Context, ownerID int64) (decimal.Decimal, error) {
	l := zerolog.Ctx(ctx)

	stocks, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero

	for _, stock := range stocks {
		price, err := decimal.NewFromString(stock.BuyPrice)
		if err != nil {
			l.Error().Err(err).Int64("stock_id", stock.ID).Send()
			return decimal.Zero, domain.ErrInvalidDecimal
		}

		qty, err := decimal.NewFromString(stock.Quantity)
		if err != nil {
			l.Error().Err(err).Int64("stock_id", stock.ID).Send()
			return decimal.Zero, domain.ErrInvalidDecimal
		}

		total = total.Add(price.Mul(qty))
	}

	return total, nil
}

// LiveValue returns the portfolio value computed from current market
// prices: the sum of current price * quantity over the owner's stocks.
// Quotes are fetched concurrently, capped at maxInFlight in-flight calls.
//
// By default one failed quote fails the whole computation. With the
// partial option the failed holding contributes zero instead.
func (s *Service) LiveValue(ctx context.Context, ownerID int64) (decimal.Decimal, error) {
	l := zerolog.Ctx(ctx)

	stocks, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return decimal.Zero, err
	}

	quantities := make([]decimal.Decimal, len(stocks))

	for i, stock := range stocks {
		qty, err := decimal.NewFromString(stock.Quantity)
		if err != nil {
			l.Error().Err(err).Int64("stock_id", stock.ID).Send()
			return decimal.Zero, domain.ErrInvalidDecimal
		}

		quantities[i] = qty
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxInFlight)

	var (
		mu    sync.Mutex
		total = decimal.Zero
	)

	for i := range stocks {
		i := i

		g.Go(func() error {
			price, err := s.quotes.GetPrice(gctx, stocks[i].Ticker)
			if err != nil {
				if s.partialOnQuoteError && errors.Is(err, domain.ErrQuoteUnavailable) {
					l.Warn().Err(err).Str("ticker", stocks[i].Ticker).Msg("skipping holding in partial valuation")
					return nil
				}

				return err
			}

			mu.Lock()
			total = total.Add(price.Mul(quantities[i]))
			mu.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return decimal.Zero, err
	}

	return total, nil
}
