package stockrepo

import (
	"context"
	"database/sql"
	"log"
	"os"
	"testing"

	"github.com/go-petr/portfolio-tracker/internal/domain"
	"github.com/go-petr/portfolio-tracker/internal/userrepo"
	"github.com/go-petr/portfolio-tracker/pkg/configpkg"
	"github.com/go-petr/portfolio-tracker/pkg/randompkg"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	_ "github.com/lib/pq"
)

var (
	testRepo     *RepoPGS
	testUserRepo *userrepo.RepoPGS
)

func TestMain(m *testing.M) {
	config, err := configpkg.Load("../../configs")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	testDB, err := sql.Open(config.DBDriver, config.DBSource)
	if err != nil {
		log.Fatal("cannot connect to db:", err)
	}

	testRepo = NewRepoPGS(testDB)
	testUserRepo = userrepo.NewRepoPGS(testDB)

	os.Exit(m.Run())
}

func createRandomUser(t *testing.T) domain.User {
	t.Helper()

	user, err := testUserRepo.Create(context.Background(), randompkg.Owner())
	require.NoError(t, err)
	require.NotZero(t, user.ID)

	return user
}

func createRandomStock(t *testing.T, owner domain.User) domain.Stock {
	t.Helper()

	arg := domain.CreateStockParams{
		OwnerID:  owner.ID,
		Ticker:   randompkg.Ticker(),
		Name:     randompkg.String(10),
		BuyPrice: randompkg.DecimalBetween(1, 1_000),
		Quantity: randompkg.DecimalBetween(1, 100),
	}

	stock, err := testRepo.Create(context.Background(), arg)
	require.NoError(t, err)
	require.NotEmpty(t, stock)

	require.Equal(t, arg.OwnerID, stock.OwnerID)
	require.Equal(t, arg.Ticker, stock.Ticker)
	require.Equal(t, arg.Name, stock.Name)
	requireDecimalEqual(t, arg.BuyPrice, stock.BuyPrice)
	requireDecimalEqual(t, arg.Quantity, stock.Quantity)

	require.NotZero(t, stock.ID)
	require.NotZero(t, stock.CreatedAt)

	return stock
}

// requireDecimalEqual compares decimal strings by value since the numeric
// column may add trailing zeros.
func requireDecimalEqual(t *testing.T, want, got string) {
	t.Helper()

	wantDec, err := decimal.NewFromString(want)
	require.NoError(t, err)

	gotDec, err := decimal.NewFromString(got)
	require.NoError(t, err)

	require.True(t, wantDec.Equal(gotDec), "want %s, got %s", want, got)
}

func TestCreate(t *testing.T) {
	user := createRandomUser(t)
	createRandomStock(t, user)
}

func TestCreateChecksConstraints(t *testing.T) {
	user := createRandomUser(t)

	arg := domain.CreateStockParams{
		OwnerID:  user.ID,
		Ticker:   randompkg.Ticker(),
		BuyPrice: "-1",
		Quantity: "1",
	}

	_, err := testRepo.Create(context.Background(), arg)
	require.ErrorIs(t, err, domain.ErrNegativeBuyPrice)

	arg.BuyPrice = "1"
	arg.Quantity = "-1"

	_, err = testRepo.Create(context.Background(), arg)
	require.ErrorIs(t, err, domain.ErrNegativeQuantity)

	arg.Quantity = "1"
	arg.OwnerID = -1

	_, err = testRepo.Create(context.Background(), arg)
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestGet(t *testing.T) {
	user := createRandomUser(t)
	stock := createRandomStock(t, user)

	got, err := testRepo.Get(context.Background(), stock.ID)
	require.NoError(t, err)
	require.Equal(t, stock.ID, got.ID)
	require.Equal(t, stock.OwnerID, got.OwnerID)
	require.Equal(t, stock.Ticker, got.Ticker)

	_, err = testRepo.Get(context.Background(), -1)
	require.ErrorIs(t, err, domain.ErrStockNotFound)
}

func TestListByOwner(t *testing.T) {
	owner := createRandomUser(t)
	other := createRandomUser(t)

	for i := 0; i < 3; i++ {
		createRandomStock(t, owner)
	}

	otherStock := createRandomStock(t, other)

	stocks, err := testRepo.ListByOwner(context.Background(), owner.ID)
	require.NoError(t, err)
	require.Len(t, stocks, 3)

	for _, s := range stocks {
		require.Equal(t, owner.ID, s.OwnerID)
		require.NotEqual(t, otherStock.ID, s.ID)
	}

	empty, err := testRepo.ListByOwner(context.Background(), -1)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestUpdate(t *testing.T) {
	user := createRandomUser(t)
	stock := createRandomStock(t, user)

	arg := domain.UpdateStockParams{
		Ticker:   randompkg.Ticker(),
		Name:     randompkg.String(10),
		BuyPrice: randompkg.DecimalBetween(1, 1_000),
		Quantity: randompkg.DecimalBetween(1, 100),
	}

	updated, err := testRepo.Update(context.Background(), stock.ID, arg)
	require.NoError(t, err)

	require.Equal(t, stock.ID, updated.ID)
	require.Equal(t, stock.OwnerID, updated.OwnerID)
	require.Equal(t, arg.Ticker, updated.Ticker)
	require.Equal(t, arg.Name, updated.Name)
	requireDecimalEqual(t, arg.BuyPrice, updated.BuyPrice)
	requireDecimalEqual(t, arg.Quantity, updated.Quantity)

	_, err = testRepo.Update(context.Background(), -1, arg)
	require.ErrorIs(t, err, domain.ErrStockNotFound)
}

func TestDelete(t *testing.T) {
	user := createRandomUser(t)
	stock := createRandomStock(t, user)

	err := testRepo.Delete(context.Background(), stock.ID)
	require.NoError(t, err)

	_, err = testRepo.Get(context.Background(), stock.ID)
	require.ErrorIs(t, err, domain.ErrStockNotFound)

	err = testRepo.Delete(context.Background(), stock.ID)
	require.ErrorIs(t, err, domain.ErrStockNotFound)
}
