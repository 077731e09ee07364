package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	domcart "example.com/shop-backend/internal/domain/cart"
	domproduct "example.com/shop-backend/internal/domain/product"
)

type mockCartRepository struct {
	nextCartID int64
	nextItemID int64
	carts      map[int64]*domcart.Cart // keyed by user id
}

func newMockCartRepository() *mockCartRepository {
	return &mockCartRepository{carts: make(map[int64]*domcart.Cart)}
}

func (m *mockCartRepository) GetOrCreate(ctx context.Context, userID int64) (*domcart.Cart, error) {
	c, ok := m.carts[userID]
	if !ok {
		m.nextCartID++
		c = &domcart.Cart{ID: m.nextCartID, UserID: userID}
		m.carts[userID] = c
	}
	cloned := *c
	cloned.Items = make([]domcart.Item, len(c.Items))
	copy(cloned.Items, c.Items)
	return &cloned, nil
}

func (m *mockCartRepository) cartByID(cartID int64) *domcart.Cart {
	for _, c := range m.carts {
		if c.ID == cartID {
			return c
		}
	}
	return nil
}

func (m *mockCartRepository) FindItemByProduct(ctx context.Context, cartID, productID int64) (*domcart.Item, error) {
	if c := m.cartByID(cartID); c != nil {
		for _, item := range c.Items {
			if item.ProductID == productID {
				cloned := item
				return &cloned, nil
			}
		}
	}
	return nil, domcart.ErrItemNotFound
}

func (m *mockCartRepository) GetItem(ctx context.Context, cartID, itemID int64) (*domcart.Item, error) {
	if c := m.cartByID(cartID); c != nil {
		for _, item := range c.Items {
			if item.ID == itemID {
				cloned := item
				return &cloned, nil
			}
		}
	}
	return nil, domcart.ErrItemNotFound
}

func (m *mockCartRepository) UpsertItem(ctx context.Context, cartID, productID, quantity int64, priceAtTime decimal.Decimal) (*domcart.Item, error) {
	c := m.cartByID(cartID)
	for i, item := range c.Items {
		if item.ProductID == productID {
			c.Items[i].Quantity = quantity
			cloned := c.Items[i]
			return &cloned, nil
		}
	}
	m.nextItemID++
	item := domcart.Item{
		ID:          m.nextItemID,
		CartID:      cartID,
		ProductID:   productID,
		Quantity:    quantity,
		PriceAtTime: priceAtTime,
	}
	c.Items = append(c.Items, item)
	return &item, nil
}

func (m *mockCartRepository) UpdateItemQuantity(ctx context.Context, cartID, itemID, quantity int64) (*domcart.Item, error) {
	if c := m.cartByID(cartID); c != nil {
		for i, item := range c.Items {
			if item.ID == itemID {
				c.Items[i].Quantity = quantity
				cloned := c.Items[i]
				return &cloned, nil
			}
		}
	}
	return nil, domcart.ErrItemNotFound
}

func (m *mockCartRepository) DeleteItem(ctx context.Context, cartID, itemID int64) error {
	if c := m.cartByID(cartID); c != nil {
		for i, item := range c.Items {
			if item.ID == itemID {
				c.Items = append(c.Items[:i], c.Items[i+1:]...)
				return nil
			}
		}
	}
	return domcart.ErrItemNotFound
}

func (m *mockCartRepository) Clear(ctx context.Context, cartID int64) error {
	if c := m.cartByID(cartID); c != nil {
		c.Items = nil
	}
	return nil
}

type mockProductRepository struct {
	products map[int64]*domproduct.Product
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[int64]*domproduct.Product)}
}

func (m *mockProductRepository) GetByID(ctx context.Context, id int64) (*domproduct.Product, error) {
	if p, ok := m.products[id]; ok {
		cloned := *p
		return &cloned, nil
	}
	return nil, domproduct.ErrProductNotFound
}

func newTestService() (*Service, *mockCartRepository, *mockProductRepository) {
	cartRepo := newMockCartRepository()
	productRepo := newMockProductRepository()
	return NewService(cartRepo, productRepo), cartRepo, productRepo
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestGetOrCreateCart_Idempotent(t *testing.T) {
	svc, _, _ := newTestService()

	first, err := svc.GetOrCreateCart(context.Background(), 100)
	require.NoError(t, err)
	second, err := svc.GetOrCreateCart(context.Background(), 100)
	require.NoError(t, err)

	require.Equal(t, first.ID, second.ID)
	require.Empty(t, second.Items)
}

func TestAddToCart_NewItemSnapshotsPrice(t *testing.T) {
	svc, _, productRepo := newTestService()
	productRepo.products[1] = &domproduct.Product{ID: 1, Name: "Laptop", Price: price("999.99"), Stock: 10}

	item, err := svc.AddToCart(context.Background(), 100, 1, 3)
	require.NoError(t, err)
	require.Equal(t, int64(3), item.Quantity)
	require.True(t, item.PriceAtTime.Equal(price("999.99")))
	require.NotNil(t, item.Product)

	// A later price change must not alter the stored snapshot.
	productRepo.products[1].Price = price("1099.99")

	view, err := svc.GetCart(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	require.True(t, view.Items[0].PriceAtTime.Equal(price("999.99")))
}

func TestAddToCart_MergeKeepsFirstPrice(t *testing.T) {
	svc, _, productRepo := newTestService()
	productRepo.products[1] = &domproduct.Product{ID: 1, Name: "Keyboard", Price: price("10.00"), Stock: 10}

	_, err := svc.AddToCart(context.Background(), 100, 1, 2)
	require.NoError(t, err)

	productRepo.products[1].Price = price("12.00")

	item, err := svc.AddToCart(context.Background(), 100, 1, 3)
	require.NoError(t, err)
	require.Equal(t, int64(5), item.Quantity)
	require.True(t, item.PriceAtTime.Equal(price("10.00")))

	view, err := svc.GetCart(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
}

func TestAddToCart_NonPositiveQuantity(t *testing.T) {
	svc, _, productRepo := newTestService()
	productRepo.products[1] = &domproduct.Product{ID: 1, Name: "Mouse", Price: price("25.00"), Stock: 10}

	for _, quantity := range []int64{0, -1} {
		_, err := svc.AddToCart(context.Background(), 100, 1, quantity)
		require.ErrorIs(t, err, domcart.ErrQuantityNotPositive)
	}

	view, err := svc.GetCart(context.Background(), 100)
	require.NoError(t, err)
	require.Empty(t, view.Items)
}

func TestAddToCart_ProductNotFound(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.AddToCart(context.Background(), 100, 999, 1)
	require.ErrorIs(t, err, domproduct.ErrProductNotFound)
}

func TestAddToCart_InsufficientStock(t *testing.T) {
	svc, _, productRepo := newTestService()
	productRepo.products[1] = &domproduct.Product{ID: 1, Name: "Monitor", Price: price("200.00"), Stock: 2}

	_, err := svc.AddToCart(context.Background(), 100, 1, 3)

	var stockErr *domcart.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	require.Equal(t, "Monitor", stockErr.ProductName)
	require.Equal(t, int64(2), stockErr.Available)
	require.Equal(t, int64(3), stockErr.Requested)

	view, err := svc.GetCart(context.Background(), 100)
	require.NoError(t, err)
	require.Empty(t, view.Items)
}

func TestAddToCart_MergedQuantityExceedsStock(t *testing.T) {
	svc, _, productRepo := newTestService()
	productRepo.products[1] = &domproduct.Product{ID: 1, Name: "Desk", Price: price("150.00"), Stock: 4}

	_, err := svc.AddToCart(context.Background(), 100, 1, 3)
	require.NoError(t, err)

	// 3 + 2 exceeds stock 4: the combined quantity is what gets validated.
	_, err = svc.AddToCart(context.Background(), 100, 1, 2)
	var stockErr *domcart.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	require.Equal(t, int64(5), stockErr.Requested)

	view, err := svc.GetCart(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	require.Equal(t, int64(3), view.Items[0].Quantity)
}

func TestUpdateItem_OverwritesQuantityKeepsPrice(t *testing.T) {
	svc, _, productRepo := newTestService()
	productRepo.products[1] = &domproduct.Product{ID: 1, Name: "Chair", Price: price("80.00"), Stock: 10}

	item, err := svc.AddToCart(context.Background(), 100, 1, 2)
	require.NoError(t, err)

	productRepo.products[1].Price = price("90.00")

	updated, err := svc.UpdateItem(context.Background(), 100, item.ID, 7)
	require.NoError(t, err)
	require.Equal(t, int64(7), updated.Quantity)
	require.True(t, updated.PriceAtTime.Equal(price("80.00")))
}

func TestUpdateItem_CrossUserIsNotFound(t *testing.T) {
	svc, _, productRepo := newTestService()
	productRepo.products[1] = &domproduct.Product{ID: 1, Name: "Lamp", Price: price("30.00"), Stock: 10}

	item, err := svc.AddToCart(context.Background(), 100, 1, 2)
	require.NoError(t, err)

	_, err = svc.UpdateItem(context.Background(), 200, item.ID, 1)
	require.ErrorIs(t, err, domcart.ErrItemNotFound)

	err = svc.RemoveItem(context.Background(), 200, item.ID)
	require.ErrorIs(t, err, domcart.ErrItemNotFound)
}

func TestUpdateItem_InsufficientStock(t *testing.T) {
	svc, _, productRepo := newTestService()
	productRepo.products[1] = &domproduct.Product{ID: 1, Name: "Shelf", Price: price("45.00"), Stock: 5}

	item, err := svc.AddToCart(context.Background(), 100, 1, 2)
	require.NoError(t, err)

	_, err = svc.UpdateItem(context.Background(), 100, item.ID, 6)
	var stockErr *domcart.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))

	view, err := svc.GetCart(context.Background(), 100)
	require.NoError(t, err)
	require.Equal(t, int64(2), view.Items[0].Quantity)
}

func TestRemoveItem(t *testing.T) {
	svc, _, productRepo := newTestService()
	productRepo.products[1] = &domproduct.Product{ID: 1, Name: "Cable", Price: price("5.00"), Stock: 10}

	item, err := svc.AddToCart(context.Background(), 100, 1, 2)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveItem(context.Background(), 100, item.ID))

	view, err := svc.GetCart(context.Background(), 100)
	require.NoError(t, err)
	require.Empty(t, view.Items)

	err = svc.RemoveItem(context.Background(), 100, item.ID)
	require.ErrorIs(t, err, domcart.ErrItemNotFound)
}

func TestClearCart_Idempotent(t *testing.T) {
	svc, _, productRepo := newTestService()
	productRepo.products[1] = &domproduct.Product{ID: 1, Name: "Stand", Price: price("15.00"), Stock: 10}

	_, err := svc.AddToCart(context.Background(), 100, 1, 2)
	require.NoError(t, err)

	require.NoError(t, svc.ClearCart(context.Background(), 100))
	require.NoError(t, svc.ClearCart(context.Background(), 100))

	view, err := svc.GetCart(context.Background(), 100)
	require.NoError(t, err)
	require.Empty(t, view.Items)
}

func TestCountAndTotal_MatchCartView(t *testing.T) {
	svc, _, productRepo := newTestService()
	productRepo.products[1] = &domproduct.Product{ID: 1, Name: "Pen", Price: price("2.50"), Stock: 100}
	productRepo.products[2] = &domproduct.Product{ID: 2, Name: "Notebook", Price: price("7.25"), Stock: 100}

	_, err := svc.AddToCart(context.Background(), 100, 1, 4)
	require.NoError(t, err)
	_, err = svc.AddToCart(context.Background(), 100, 2, 2)
	require.NoError(t, err)

	view, err := svc.GetCart(context.Background(), 100)
	require.NoError(t, err)

	count, err := svc.ItemCount(context.Background(), 100)
	require.NoError(t, err)
	total, err := svc.CartTotal(context.Background(), 100)
	require.NoError(t, err)

	require.Equal(t, view.TotalItems, count)
	require.True(t, view.TotalPrice.Equal(total))
	require.Equal(t, int64(6), count)
	require.True(t, total.Equal(price("24.50")))
}
