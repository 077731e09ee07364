package cart

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	domcart "example.com/shop-backend/internal/domain/cart"
	domproduct "example.com/shop-backend/internal/domain/product"
)

type CartRepository interface {
	domcart.Repository
}

type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*domproduct.Product, error)
}

type Service struct {
	cartRepo    CartRepository
	productRepo ProductRepository
}

func NewService(cartRepo CartRepository, productRepo ProductRepository) *Service {
	return &Service{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetOrCreateCart resolves the user's cart, creating an empty one on first
// access. Repeated calls return the same cart.
func (s *Service) GetOrCreateCart(ctx context.Context, userID int64) (*domcart.Cart, error) {
	return s.cartRepo.GetOrCreate(ctx, userID)
}

// GetCart returns the cart together with its derived totals.
func (s *Service) GetCart(ctx context.Context, userID int64) (*domcart.View, error) {
	c, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	count, total := domcart.Totals(c.Items)
	return &domcart.View{Cart: *c, TotalItems: count, TotalPrice: total}, nil
}

// AddToCart adds quantity of a product to the user's cart. If the cart
// already has a line for the product the quantities merge and the line keeps
// its original price snapshot; the combined quantity is re-validated against
// current stock.
func (s *Service) AddToCart(ctx context.Context, userID, productID, quantity int64) (*domcart.Item, error) {
	if quantity <= 0 {
		return nil, domcart.ErrQuantityNotPositive
	}

	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.Stock < quantity {
		return nil, &domcart.InsufficientStockError{
			ProductID:   p.ID,
			ProductName: p.Name,
			Available:   p.Stock,
			Requested:   quantity,
		}
	}

	c, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	newQuantity := quantity
	priceAtTime := p.Price

	existing, err := s.cartRepo.FindItemByProduct(ctx, c.ID, productID)
	switch {
	case err == nil:
		newQuantity = existing.Quantity + quantity
		if p.Stock < newQuantity {
			return nil, &domcart.InsufficientStockError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Available:   p.Stock,
				Requested:   newQuantity,
			}
		}
		// The snapshot from the first add is not refreshed on merge.
		priceAtTime = existing.PriceAtTime
	case !errors.Is(err, domcart.ErrItemNotFound):
		return nil, err
	}

	item, err := s.cartRepo.UpsertItem(ctx, c.ID, productID, newQuantity, priceAtTime)
	if err != nil {
		return nil, err
	}
	item.Product = p
	return item, nil
}

// UpdateItem overwrites a line's quantity. The item is looked up scoped to
// the caller's cart, so a guessed item id belonging to another user reads as
// not found.
func (s *Service) UpdateItem(ctx context.Context, userID, itemID, quantity int64) (*domcart.Item, error) {
	if quantity <= 0 {
		return nil, domcart.ErrQuantityNotPositive
	}

	c, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.cartRepo.GetItem(ctx, c.ID, itemID)
	if err != nil {
		return nil, err
	}

	p, err := s.productRepo.GetByID(ctx, item.ProductID)
	if err != nil {
		return nil, err
	}
	if p.Stock < quantity {
		return nil, &domcart.InsufficientStockError{
			ProductID:   p.ID,
			ProductName: p.Name,
			Available:   p.Stock,
			Requested:   quantity,
		}
	}

	updated, err := s.cartRepo.UpdateItemQuantity(ctx, c.ID, itemID, quantity)
	if err != nil {
		return nil, err
	}
	updated.Product = p
	return updated, nil
}

func (s *Service) RemoveItem(ctx context.Context, userID, itemID int64) error {
	c, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	return s.cartRepo.DeleteItem(ctx, c.ID, itemID)
}

// ClearCart deletes all items from the user's cart. Clearing an empty cart
// succeeds.
func (s *Service) ClearCart(ctx context.Context, userID int64) error {
	c, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	return s.cartRepo.Clear(ctx, c.ID)
}

func (s *Service) ItemCount(ctx context.Context, userID int64) (int64, error) {
	c, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return 0, err
	}
	count, _ := domcart.Totals(c.Items)
	return count, nil
}

func (s *Service) CartTotal(ctx context.Context, userID int64) (decimal.Decimal, error) {
	c, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	_, total := domcart.Totals(c.Items)
	return total, nil
}
