package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pkgerrors "github.com/angelmondragon/spa-storefront/pkg/errors"
	"github.com/angelmondragon/spa-storefront/pkg/logger"
	"github.com/angelmondragon/spa-storefront/pkg/storage"
)

const recordPrefix = "cart:"

const (
	opAdd         = "add"
	opSetQuantity = "set_quantity"
	opRemove      = "remove"
	opClear       = "clear"
)

// MutationRecorder receives cart mutation and storage failure counts.
type MutationRecorder interface {
	IncMutation(op, outcome string)
	IncStorageFailure(direction string)
}

// Store is the only component that reads and writes cart records. Every
// mutation takes the caller's current snapshot, applies the change to a copy
// and writes the full cart back before returning. There is no locking: when
// two callers mutate from stale snapshots, the later write wins.
type Store struct {
	kv      storage.KV
	logg    *logger.Logger
	metrics MutationRecorder
}

// NewStore builds a cart store backed by kv. logg and metrics may be nil.
func NewStore(kv storage.KV, logg *logger.Logger, metrics MutationRecorder) (*Store, error) {
	if kv == nil {
		return nil, fmt.Errorf("cart storage required")
	}
	return &Store{kv: kv, logg: logg, metrics: metrics}, nil
}

// Load returns the persisted cart for cartID. An absent record yields an
// empty cart. An unreadable or corrupt record also yields an empty cart,
// together with a STORAGE_READ_ERROR the caller may surface; the failure is
// already logged.
func (s *Store) Load(ctx context.Context, cartID string) (Cart, error) {
	if err := validateCartID(cartID); err != nil {
		return Cart{}, err
	}

	raw, err := s.kv.Get(ctx, recordKey(cartID))
	if errors.Is(err, storage.ErrNotFound) {
		return Cart{}, nil
	}
	if err != nil {
		return Cart{}, s.readFailure(ctx, cartID, err, "read cart record")
	}

	c, repaired, err := decode(raw)
	if err != nil {
		return Cart{}, s.readFailure(ctx, cartID, err, "cart record is malformed")
	}
	if repaired > 0 && s.logg != nil {
		logCtx := s.logg.WithFields(s.logg.WithCartID(ctx, cartID), map[string]any{"repaired_entries": repaired})
		s.logg.Warn(logCtx, "cart.load.repaired")
	}
	return c, nil
}

// AddItem merges qty units of p into c. An existing line item with p.ID has
// its quantity increased; otherwise a new line item carrying a snapshot of
// the product is appended. qty must be at least 1, and the merged quantity may
// not exceed MaxQuantity.
func (s *Store) AddItem(ctx context.Context, cartID string, c Cart, p Product, qty int) (Cart, error) {
	if err := validateCartID(cartID); err != nil {
		return c, err
	}
	if qty < 1 {
		return c, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1").
			WithDetails(map[string]any{"quantity": qty})
	}
	if p.ID <= 0 {
		return c, pkgerrors.New(pkgerrors.CodeValidation, "product id must be positive")
	}
	if p.Price.IsNegative() {
		return c, pkgerrors.New(pkgerrors.CodeValidation, "product price cannot be negative")
	}

	existing := 0
	if item, ok := c.Find(p.ID); ok {
		existing = item.Quantity
	}
	if qty > MaxQuantity-existing {
		return c, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("quantity cannot exceed %d", MaxQuantity)).
			WithDetails(map[string]any{"quantity": qty, "in_cart": existing})
	}

	next := c.clone()
	if i := next.indexOf(p.ID); i >= 0 {
		next.Items[i].Quantity += qty
	} else {
		next.Items = append(next.Items, LineItem{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Quantity: qty,
			Image:    p.Image,
		})
	}
	return s.commit(ctx, cartID, opAdd, c, next)
}

// SetQuantity sets the quantity of line item id to max(0, qty). A resulting
// quantity of 0 removes the line item. Quantities above MaxQuantity are
// rejected. Unknown ids leave c untouched and nothing is written.
func (s *Store) SetQuantity(ctx context.Context, cartID string, c Cart, id, qty int) (Cart, error) {
	if err := validateCartID(cartID); err != nil {
		return c, err
	}
	if qty > MaxQuantity {
		return c, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("quantity cannot exceed %d", MaxQuantity)).
			WithDetails(map[string]any{"quantity": qty})
	}
	i := c.indexOf(id)
	if i < 0 {
		return c, nil
	}
	if qty <= 0 {
		return s.commit(ctx, cartID, opSetQuantity, c, c.without(i))
	}
	next := c.clone()
	next.Items[i].Quantity = qty
	return s.commit(ctx, cartID, opSetQuantity, c, next)
}

// RemoveItem deletes line item id. Unknown ids leave c untouched.
func (s *Store) RemoveItem(ctx context.Context, cartID string, c Cart, id int) (Cart, error) {
	if err := validateCartID(cartID); err != nil {
		return c, err
	}
	i := c.indexOf(id)
	if i < 0 {
		return c, nil
	}
	return s.commit(ctx, cartID, opRemove, c, c.without(i))
}

// Clear erases the persisted record and returns an empty cart. On failure the
// returned cart is empty as well; callers keep their own snapshot.
func (s *Store) Clear(ctx context.Context, cartID string) (Cart, error) {
	if err := validateCartID(cartID); err != nil {
		return Cart{}, err
	}
	if err := s.kv.Del(ctx, recordKey(cartID)); err != nil {
		return Cart{}, s.writeFailure(ctx, cartID, opClear, err)
	}
	s.recordMutation(opClear, "ok")
	return Cart{}, nil
}

// Ping checks the underlying storage.
func (s *Store) Ping(ctx context.Context) error {
	return s.kv.Ping(ctx)
}

func (s *Store) commit(ctx context.Context, cartID, op string, prev, next Cart) (Cart, error) {
	raw, err := encode(next)
	if err != nil {
		return prev, s.writeFailure(ctx, cartID, op, err)
	}
	if err := s.kv.Set(ctx, recordKey(cartID), raw); err != nil {
		return prev, s.writeFailure(ctx, cartID, op, err)
	}
	s.recordMutation(op, "ok")
	return next, nil
}

func (s *Store) readFailure(ctx context.Context, cartID string, err error, msg string) error {
	if s.metrics != nil {
		s.metrics.IncStorageFailure("read")
	}
	if s.logg != nil {
		logCtx := s.logg.WithFields(s.logg.WithCartID(ctx, cartID), map[string]any{"error": err.Error()})
		s.logg.Warn(logCtx, "cart.load.failed")
	}
	return pkgerrors.Wrap(pkgerrors.CodeStorageRead, err, msg)
}

func (s *Store) writeFailure(ctx context.Context, cartID, op string, err error) error {
	if s.metrics != nil {
		s.metrics.IncStorageFailure("write")
	}
	s.recordMutation(op, "write_error")
	if s.logg != nil {
		logCtx := s.logg.WithFields(s.logg.WithCartID(ctx, cartID), map[string]any{"op": op})
		s.logg.Error(logCtx, "cart.write.failed", err)
	}
	msg := "persist cart"
	if errors.Is(err, storage.ErrQuotaExceeded) {
		msg = "cart storage quota exceeded"
	}
	return pkgerrors.Wrap(pkgerrors.CodeStorageWrite, err, msg)
}

func (s *Store) recordMutation(op, outcome string) {
	if s.metrics != nil {
		s.metrics.IncMutation(op, outcome)
	}
}

func (c Cart) without(i int) Cart {
	items := make([]LineItem, 0, len(c.Items)-1)
	items = append(items, c.Items[:i]...)
	items = append(items, c.Items[i+1:]...)
	if len(items) == 0 {
		return Cart{}
	}
	return Cart{Items: items}
}

func validateCartID(cartID string) error {
	if strings.TrimSpace(cartID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart id is required")
	}
	return nil
}

func recordKey(cartID string) string {
	return recordPrefix + strings.TrimSpace(cartID)
}
