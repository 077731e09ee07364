package checkout

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	domcart "example.com/shop-backend/internal/domain/cart"
)

type CartRepository interface {
	GetOrCreate(ctx context.Context, userID int64) (*domcart.Cart, error)
}

// PurchaseRepository commits a cart's lines against product stock as one
// all-or-nothing unit: every line's stock is decremented conditionally and
// the cart is cleared, or nothing is.
type PurchaseRepository interface {
	Complete(ctx context.Context, cartID int64, items []domcart.Item) error
}

type EventPublisher interface {
	PublishPurchaseCompleted(ctx context.Context, ev PurchaseCompleted) error
}

// Summary reports a completed purchase. TotalItems counts distinct lines,
// not summed quantities; TotalPrice is the pre-checkout cart total.
type Summary struct {
	Success    bool
	Message    string
	Timestamp  time.Time
	TotalItems int
	TotalPrice decimal.Decimal
}

type PurchaseCompleted struct {
	UserID     int64           `json:"user_id"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
	OccurredAt time.Time       `json:"occurred_at"`
}

type Service struct {
	cartRepo     CartRepository
	purchaseRepo PurchaseRepository
	publisher    EventPublisher
	log          *slog.Logger
}

// NewService wires the checkout orchestrator. publisher may be nil when no
// broker is configured.
func NewService(cartRepo CartRepository, purchaseRepo PurchaseRepository, publisher EventPublisher, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		cartRepo:     cartRepo,
		purchaseRepo: purchaseRepo,
		publisher:    publisher,
		log:          log,
	}
}

// Checkout converts the user's cart into stock decrements and clears it.
// Validation and decrement failures surface with their originating error and
// leave cart and stock untouched.
func (s *Service) Checkout(ctx context.Context, userID int64) (*Summary, error) {
	c, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(c.Items) == 0 {
		return nil, domcart.ErrEmptyCart
	}

	_, total := domcart.Totals(c.Items)

	if err := s.purchaseRepo.Complete(ctx, c.ID, c.Items); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if s.publisher != nil {
		ev := PurchaseCompleted{
			UserID:     userID,
			TotalItems: len(c.Items),
			TotalPrice: total,
			OccurredAt: now,
		}
		// Best effort: the purchase already committed, so a publish failure
		// is logged rather than surfaced to the buyer.
		if err := s.publisher.PublishPurchaseCompleted(ctx, ev); err != nil {
			s.log.Error("publish purchase event", "user_id", userID, "err", err)
		}
	}

	return &Summary{
		Success:    true,
		Message:    "purchase completed successfully",
		Timestamp:  now,
		TotalItems: len(c.Items),
		TotalPrice: total,
	}, nil
}
