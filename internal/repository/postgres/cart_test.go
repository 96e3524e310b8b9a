package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TimohaSheff/uch-pract-parfum/pkg/database"
	apperrors "github.com/TimohaSheff/uch-pract-parfum/pkg/errors"
)

// --- Test Helpers ---

func newTestCartRepo(t *testing.T) (*CartRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewCartRepository(mock)
	return repo, mock
}

func cartItemColumns() []string {
	return []string{
		"id", "cart_id", "product_id", "quantity", "added_at",
		"p_id", "p_name", "p_slug", "p_brand_id", "p_gender", "p_concentration",
		"p_volume_ml", "p_price", "p_discount_percent", "p_in_stock", "p_image_url",
	}
}

// --- GetOrCreate Tests ---

func TestCartRepository_GetOrCreate_ExistingCartWithItems(t *testing.T) {
	repo, mock := newTestCartRepo(t)
	defer mock.ExpectationsWereMet()

	now := time.Now().UTC().Truncate(time.Microsecond)

	mock.ExpectExec("INSERT INTO carts").
		WithArgs(pgxmock.AnyArg(), "user-001", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	mock.ExpectQuery("SELECT .+ FROM carts").
		WithArgs("user-001").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "created_at", "updated_at"}).
			AddRow("cart-001", "user-001", now, now))

	name := "Bleu de Chanel"
	slug := "bleu-de-chanel"
	brandID := "brand-001"
	gender := "male"
	conc := "eau_de_parfum"
	volume := 100
	price := int64(150000)
	discount := 10
	inStock := true
	imageURL := "https://cdn.example.com/bleu.jpg"
	productID := "prod-001"

	itemRows := pgxmock.NewRows(cartItemColumns()).AddRow(
		"item-001", "cart-001", "prod-001", 2, now,
		&productID, &name, &slug, &brandID, &gender, &conc,
		&volume, &price, &discount, &inStock, &imageURL,
	)

	mock.ExpectQuery("SELECT .+ FROM cart_items").
		WithArgs("cart-001").
		WillReturnRows(itemRows)

	cart, err := repo.GetOrCreate(context.Background(), "user-001")
	require.NoError(t, err)
	require.NotNil(t, cart)

	assert.Equal(t, "cart-001", cart.ID)
	require.Len(t, cart.Items, 1)
	require.NotNil(t, cart.Items[0].Product)
	assert.Equal(t, "Bleu de Chanel", cart.Items[0].Product.Name)
	assert.Equal(t, int64(150000), cart.Items[0].Product.Price)
	assert.Equal(t, 10, cart.Items[0].Product.DiscountPercent)
	assert.Equal(t, 2, cart.Items[0].Quantity)

	// 150000 kopecks with a 10% discount is 135000 per unit.
	assert.Equal(t, int64(270000), cart.Total())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRepository_GetOrCreate_EmptyCart(t *testing.T) {
	repo, mock := newTestCartRepo(t)
	defer mock.ExpectationsWereMet()

	now := time.Now().UTC().Truncate(time.Microsecond)

	mock.ExpectExec("INSERT INTO carts").
		WithArgs(pgxmock.AnyArg(), "user-002", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	mock.ExpectQuery("SELECT .+ FROM carts").
		WithArgs("user-002").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "created_at", "updated_at"}).
			AddRow("cart-002", "user-002", now, now))

	mock.ExpectQuery("SELECT .+ FROM cart_items").
		WithArgs("cart-002").
		WillReturnRows(pgxmock.NewRows(cartItemColumns()))

	cart, err := repo.GetOrCreate(context.Background(), "user-002")
	require.NoError(t, err)

	assert.True(t, cart.IsEmpty())
	assert.NotNil(t, cart.Items)
	assert.Equal(t, int64(0), cart.Total())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRepository_GetOrCreate_DeletedProductKeepsLine(t *testing.T) {
	repo, mock := newTestCartRepo(t)
	defer mock.ExpectationsWereMet()

	now := time.Now().UTC().Truncate(time.Microsecond)

	mock.ExpectExec("INSERT INTO carts").
		WithArgs(pgxmock.AnyArg(), "user-003", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	mock.ExpectQuery("SELECT .+ FROM carts").
		WithArgs("user-003").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "created_at", "updated_at"}).
			AddRow("cart-003", "user-003", now, now))

	// LEFT JOIN miss: every product column comes back NULL.
	itemRows := pgxmock.NewRows(cartItemColumns()).AddRow(
		"item-010", "cart-003", "prod-gone", 3, now,
		nil, nil, nil, nil, nil, nil,
		nil, nil, nil, nil, nil,
	)

	mock.ExpectQuery("SELECT .+ FROM cart_items").
		WithArgs("cart-003").
		WillReturnRows(itemRows)

	cart, err := repo.GetOrCreate(context.Background(), "user-003")
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Nil(t, cart.Items[0].Product)
	assert.Equal(t, int64(0), cart.Total())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRepository_GetOrCreate_InsertError(t *testing.T) {
	repo, mock := newTestCartRepo(t)
	defer mock.ExpectationsWereMet()

	mock.ExpectExec("INSERT INTO carts").
		WithArgs(pgxmock.AnyArg(), "user-004", pgxmock.AnyArg()).
		WillReturnError(errors.New("connection reset"))

	cart, err := repo.GetOrCreate(context.Background(), "user-004")
	assert.Nil(t, cart)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ensure cart exists")

	assert.NoError(t, mock.ExpectationsWereMet())
}

// --- AddItem Tests ---

func TestCartRepository_AddItem_Success(t *testing.T) {
	repo, mock := newTestCartRepo(t)
	defer mock.ExpectationsWereMet()

	mock.ExpectExec("INSERT INTO cart_items").
		WithArgs(pgxmock.AnyArg(), "prod-001", "user-001", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.AddItem(context.Background(), "user-001", "prod-001")
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRepository_AddItem_NoCart(t *testing.T) {
	repo, mock := newTestCartRepo(t)
	defer mock.ExpectationsWereMet()

	// The CTE matches no cart row, so the insert affects nothing.
	mock.ExpectExec("INSERT INTO cart_items").
		WithArgs(pgxmock.AnyArg(), "prod-001", "user-unknown", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	err := repo.AddItem(context.Background(), "user-unknown", "prod-001")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRepository_AddItem_ExecError(t *testing.T) {
	repo, mock := newTestCartRepo(t)
	defer mock.ExpectationsWereMet()

	mock.ExpectExec("INSERT INTO cart_items").
		WithArgs(pgxmock.AnyArg(), "prod-001", "user-001", pgxmock.AnyArg()).
		WillReturnError(errors.New("foreign key violation"))

	err := repo.AddItem(context.Background(), "user-001", "prod-001")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "add cart item")

	assert.NoError(t, mock.ExpectationsWereMet())
}

// --- UpdateItemQuantity Tests ---

func TestCartRepository_UpdateItemQuantity_Success(t *testing.T) {
	repo, mock := newTestCartRepo(t)
	defer mock.ExpectationsWereMet()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE cart_items").
		WithArgs(5, "item-001", "user-001").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE carts").
		WithArgs(pgxmock.AnyArg(), "user-001").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	err := repo.UpdateItemQuantity(context.Background(), "user-001", "item-001", 5)
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRepository_UpdateItemQuantity_ForeignItem(t *testing.T) {
	repo, mock := newTestCartRepo(t)
	defer mock.ExpectationsWereMet()

	// The ownership join filters out another user's item.
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE cart_items").
		WithArgs(5, "item-foreign", "user-001").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	err := repo.UpdateItemQuantity(context.Background(), "user-001", "item-foreign", 5)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRepository_UpdateItemQuantity_ExecError(t *testing.T) {
	repo, mock := newTestCartRepo(t)
	defer mock.ExpectationsWereMet()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE cart_items").
		WithArgs(5, "item-001", "user-001").
		WillReturnError(errors.New("write conflict"))
	mock.ExpectRollback()

	err := repo.UpdateItemQuantity(context.Background(), "user-001", "item-001", 5)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "update cart item quantity")

	assert.NoError(t, mock.ExpectationsWereMet())
}

// --- RemoveItem Tests ---

func TestCartRepository_RemoveItem_Success(t *testing.T) {
	repo, mock := newTestCartRepo(t)
	defer mock.ExpectationsWereMet()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM cart_items").
		WithArgs("item-001", "user-001").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("UPDATE carts").
		WithArgs(pgxmock.AnyArg(), "user-001").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	err := repo.RemoveItem(context.Background(), "user-001", "item-001")
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRepository_RemoveItem_NotFound(t *testing.T) {
	repo, mock := newTestCartRepo(t)
	defer mock.ExpectationsWereMet()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM cart_items").
		WithArgs("item-missing", "user-001").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectRollback()

	err := repo.RemoveItem(context.Background(), "user-001", "item-missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
