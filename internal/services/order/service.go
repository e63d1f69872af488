package order

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/davimluiz/copiacantinho-sub000/internal/catalog"
	"github.com/davimluiz/copiacantinho-sub000/internal/logger"
	"github.com/davimluiz/copiacantinho-sub000/internal/models"
	"github.com/davimluiz/copiacantinho-sub000/internal/storage"
	"github.com/davimluiz/copiacantinho-sub000/internal/validation"
)

var (
	ErrDraftNotFound           = errors.New("draft not found")
	ErrOrderNotFound           = errors.New("order not found")
	ErrEmptyCart               = errors.New("cart is empty")
	ErrInvalidTransition       = errors.New("invalid step transition")
	ErrItemNotFound            = errors.New("cart item not found")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrAlreadyFinalized        = errors.New("draft already finalized")

	errUnchanged = errors.New("draft unchanged")
)

// Store persists whole collections
type Store interface {
	Load(ctx context.Context, collection string, dst any) error
	Save(ctx context.Context, collection string, src any) error
}

// Publisher emits print events
type Publisher interface {
	Publish(ctx context.Context, topic string, msg interface{}) error
}

// Service owns the active drafts and the order history. Every mutation is
// saved before it becomes visible; a failed save leaves the previous state
// in place.
type Service struct {
	mu        sync.Mutex
	store     Store
	publisher Publisher
	catalog   *catalog.Catalog
	logger    *logger.Logger
	now       func() time.Time

	drafts []models.DraftOrder
	orders []models.Order
}

// NewService creates a new order service
func NewService(store Store, publisher Publisher, cat *catalog.Catalog, log *logger.Logger) *Service {
	return &Service{
		store:     store,
		publisher: publisher,
		catalog:   cat,
		logger:    log,
		now:       time.Now,
	}
}

// Load reads both collections from the store. It is called once at startup.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var drafts []models.DraftOrder
	if err := s.store.Load(ctx, storage.Drafts, &drafts); err != nil {
		return fmt.Errorf("failed to load drafts: %w", err)
	}

	var orders []models.Order
	if err := s.store.Load(ctx, storage.Orders, &orders); err != nil {
		return fmt.Errorf("failed to load orders: %w", err)
	}

	// A draft whose order was saved but whose removal was not is already
	// finalized; the order wins.
	drafts = slices.DeleteFunc(drafts, func(d models.DraftOrder) bool {
		if !slices.ContainsFunc(orders, func(o models.Order) bool { return o.ID == d.ID }) {
			return false
		}
		s.logger.Warn("stale_draft_dropped", "Draft already has an order", "", map[string]interface{}{
			"draft_id": d.ID,
		})
		return true
	})

	s.drafts = drafts
	s.orders = orders

	s.logger.Info("state_loaded", "Loaded drafts and orders", "", map[string]interface{}{
		"drafts": len(drafts),
		"orders": len(orders),
	})
	return nil
}

func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// CreateDraft opens a new, empty draft at the MENU step
func (s *Service) CreateDraft(ctx context.Context) (models.DraftOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft := models.DraftOrder{
		ID:        models.NewID(),
		Customer:  models.DefaultCustomerInfo(),
		Cart:      []models.CartItem{},
		Step:      models.StepMenu,
		UpdatedAt: s.now(),
	}

	next := append(cloneDrafts(s.drafts), draft)
	if err := s.store.Save(ctx, storage.Drafts, next); err != nil {
		return models.DraftOrder{}, fmt.Errorf("failed to save drafts: %w", err)
	}
	s.drafts = next

	return draft.Clone(), nil
}

// Drafts returns the active drafts, most recently touched first
func (s *Service) Drafts() []models.DraftOrder {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := cloneDrafts(s.drafts)
	slices.SortStableFunc(out, func(a, b models.DraftOrder) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	return out
}

func (s *Service) Draft(id string) (models.DraftOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.draftIndex(id)
	if i < 0 {
		return models.DraftOrder{}, ErrDraftNotFound
	}
	return s.drafts[i].Clone(), nil
}

// UpdateCustomer replaces the customer details of a draft
func (s *Service) UpdateCustomer(ctx context.Context, id string, customer models.CustomerInfo) (models.DraftOrder, error) {
	if err := validation.ValidateCustomer(customer); err != nil {
		return models.DraftOrder{}, err
	}

	return s.mutateDraft(ctx, id, func(d *models.DraftOrder) error {
		d.Customer = customer.Clone()
		return nil
	})
}

// SetStep moves a draft through the MENU, FORM and SUMMARY steps
func (s *Service) SetStep(ctx context.Context, id string, step models.Step) (models.DraftOrder, error) {
	if !step.Valid() {
		return models.DraftOrder{}, validation.ValidationError{
			Field:   "step",
			Message: "invalid step",
		}
	}

	return s.mutateDraft(ctx, id, func(d *models.DraftOrder) error {
		switch {
		case d.Step == step:
			return errUnchanged
		case d.Step == models.StepMenu && step == models.StepForm:
			if len(d.Cart) == 0 {
				return ErrEmptyCart
			}
		case d.Step == models.StepForm && step == models.StepSummary:
			if err := validation.ValidateForSummary(d.Customer); err != nil {
				return err
			}
		case d.Step == models.StepForm && step == models.StepMenu:
		case d.Step == models.StepSummary && step == models.StepForm:
		default:
			return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, d.Step, step)
		}
		d.Step = step
		return nil
	})
}

// AddItem appends one configured item to a draft's cart
func (s *Service) AddItem(ctx context.Context, id string, item models.CartItem) (models.DraftOrder, error) {
	return s.AddItems(ctx, id, []models.CartItem{item})
}

// AddItems appends items in order. Nothing is added if any item is invalid.
func (s *Service) AddItems(ctx context.Context, id string, items []models.CartItem) (models.DraftOrder, error) {
	if err := validation.ValidateCartItems(items); err != nil {
		return models.DraftOrder{}, err
	}

	return s.mutateDraft(ctx, id, func(d *models.DraftOrder) error {
		for _, item := range items {
			d.Cart = append(d.Cart, item.Clone())
		}
		return nil
	})
}

// SetItemQuantity changes the quantity of one cart line
func (s *Service) SetItemQuantity(ctx context.Context, id, cartID string, quantity int) (models.DraftOrder, error) {
	if err := validation.ValidateQuantity(quantity); err != nil {
		return models.DraftOrder{}, err
	}

	return s.mutateDraft(ctx, id, func(d *models.DraftOrder) error {
		i := itemIndex(d.Cart, cartID)
		if i < 0 {
			return ErrItemNotFound
		}
		d.Cart[i].Quantity = quantity
		return nil
	})
}

// RemoveItem deletes one cart line
func (s *Service) RemoveItem(ctx context.Context, id, cartID string) (models.DraftOrder, error) {
	return s.mutateDraft(ctx, id, func(d *models.DraftOrder) error {
		i := itemIndex(d.Cart, cartID)
		if i < 0 {
			return ErrItemNotFound
		}
		d.Cart = slices.Delete(d.Cart, i, i+1)
		return nil
	})
}

// DeleteDraft discards a draft without producing an order
func (s *Service) DeleteDraft(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.draftIndex(id)
	if i < 0 {
		return ErrDraftNotFound
	}

	next := slices.Delete(cloneDrafts(s.drafts), i, i+1)
	if err := s.store.Save(ctx, storage.Drafts, next); err != nil {
		return fmt.Errorf("failed to save drafts: %w", err)
	}
	s.drafts = next
	return nil
}

// Finalize turns a draft into an order, records it in the history and asks
// for a receipt. printQueued reports whether the print event was accepted;
// the order stands either way.
func (s *Service) Finalize(ctx context.Context, id, requestID string) (order models.Order, printQueued bool, err error) {
	order, err = s.finalize(ctx, id)
	if err != nil {
		return models.Order{}, false, err
	}

	s.logger.Info("order_finalized", fmt.Sprintf("Order %s finalized", order.ID), requestID, map[string]interface{}{
		"order_id":   order.ID,
		"order_type": order.Customer.OrderType,
		"items":      len(order.Items),
		"total":      order.Total.StringFixed(2),
	})

	return order, s.publishReceipt(ctx, order, false, requestID), nil
}

func (s *Service) finalize(ctx context.Context, id string) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.draftIndex(id)
	if i < 0 {
		return models.Order{}, ErrDraftNotFound
	}
	draft := s.drafts[i]
	if len(draft.Cart) == 0 {
		return models.Order{}, ErrEmptyCart
	}
	if s.orderIndex(draft.ID) >= 0 {
		return models.Order{}, ErrAlreadyFinalized
	}

	order := BuildOrder(draft, s.now())

	nextOrders := make([]models.Order, 0, len(s.orders)+1)
	nextOrders = append(nextOrders, order)
	nextOrders = append(nextOrders, cloneOrders(s.orders)...)
	nextDrafts := slices.Delete(cloneDrafts(s.drafts), i, i+1)

	if err := s.store.Save(ctx, storage.Orders, nextOrders); err != nil {
		return models.Order{}, fmt.Errorf("failed to save orders: %w", err)
	}
	if err := s.store.Save(ctx, storage.Drafts, nextDrafts); err != nil {
		if rerr := s.store.Save(ctx, storage.Orders, s.orders); rerr != nil {
			s.logger.Error("persistence_rollback_failed", "Failed to restore orders after drafts save failure", "", rerr, map[string]interface{}{
				"order_id": order.ID,
			})
		}
		return models.Order{}, fmt.Errorf("failed to save drafts: %w", err)
	}

	s.orders = nextOrders
	s.drafts = nextDrafts
	return order.Clone(), nil
}

// Orders returns the order history, newest first
func (s *Service) Orders() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneOrders(s.orders)
}

func (s *Service) Order(id string) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.orderIndex(id)
	if i < 0 {
		return models.Order{}, ErrOrderNotFound
	}
	return s.orders[i].Clone(), nil
}

// SetOrderStatus completes or cancels a pending order
func (s *Service) SetOrderStatus(ctx context.Context, id string, status models.OrderStatus) (models.Order, error) {
	if !status.Valid() {
		return models.Order{}, validation.ValidationError{
			Field:   "status",
			Message: "invalid order status",
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.orderIndex(id)
	if i < 0 {
		return models.Order{}, ErrOrderNotFound
	}

	current := s.orders[i].Status
	if current == status {
		return s.orders[i].Clone(), nil
	}
	if current != models.StatusPending {
		return models.Order{}, fmt.Errorf("%w: %s to %s", ErrInvalidStatusTransition, current, status)
	}

	next := cloneOrders(s.orders)
	next[i].Status = status
	if err := s.store.Save(ctx, storage.Orders, next); err != nil {
		return models.Order{}, fmt.Errorf("failed to save orders: %w", err)
	}
	s.orders = next
	return next[i].Clone(), nil
}

// Reprint emits the print event for an existing order again
func (s *Service) Reprint(ctx context.Context, id, requestID string) (models.Order, bool, error) {
	order, err := s.Order(id)
	if err != nil {
		return models.Order{}, false, err
	}
	return order, s.publishReceipt(ctx, order, true, requestID), nil
}

func (s *Service) publishReceipt(ctx context.Context, order models.Order, reprint bool, requestID string) bool {
	msg := models.NewReceiptMessage(order, reprint, requestID)
	if err := s.publisher.Publish(ctx, models.TopicReceipt, msg); err != nil {
		s.logger.Error("receipt_publish_failed", fmt.Sprintf("Failed to queue receipt for order %s", order.ID), requestID, err, map[string]interface{}{
			"order_id": order.ID,
			"reprint":  reprint,
		})
		return false
	}
	return true
}

// mutateDraft applies fn to a copy of the draft, saves the whole collection
// and only then swaps it in. fn returns errUnchanged to leave the draft, its
// UpdatedAt and the store untouched.
func (s *Service) mutateDraft(ctx context.Context, id string, fn func(*models.DraftOrder) error) (models.DraftOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.draftIndex(id)
	if i < 0 {
		return models.DraftOrder{}, ErrDraftNotFound
	}

	next := cloneDrafts(s.drafts)
	if err := fn(&next[i]); err != nil {
		if errors.Is(err, errUnchanged) {
			return s.drafts[i].Clone(), nil
		}
		return models.DraftOrder{}, err
	}
	next[i].UpdatedAt = s.now()

	if err := s.store.Save(ctx, storage.Drafts, next); err != nil {
		return models.DraftOrder{}, fmt.Errorf("failed to save drafts: %w", err)
	}
	s.drafts = next
	return next[i].Clone(), nil
}

func (s *Service) draftIndex(id string) int {
	return slices.IndexFunc(s.drafts, func(d models.DraftOrder) bool { return d.ID == id })
}

func (s *Service) orderIndex(id string) int {
	return slices.IndexFunc(s.orders, func(o models.Order) bool { return o.ID == id })
}

func itemIndex(items []models.CartItem, cartID string) int {
	return slices.IndexFunc(items, func(item models.CartItem) bool { return item.CartID == cartID })
}

func cloneDrafts(drafts []models.DraftOrder) []models.DraftOrder {
	out := make([]models.DraftOrder, len(drafts))
	for i, d := range drafts {
		out[i] = d.Clone()
	}
	return out
}

func cloneOrders(orders []models.Order) []models.Order {
	out := make([]models.Order, len(orders))
	for i, o := range orders {
		out[i] = o.Clone()
	}
	return out
}
