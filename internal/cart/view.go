package cart

import (
	"context"

	"github.com/shopspring/decimal"
)

// View is one mounted UI surface's working copy of the cart: the navigation
// badge, the cart page, a product page. It loads once on Mount and afterwards
// only changes through its own mutations or an explicit Reload. Mutations made
// by other views are not pushed to it.
//
// A View is not safe for concurrent use.
type View struct {
	store    *Store
	cartID   string
	snapshot Cart
	loadErr  error
}

// Mount loads the persisted cart into a new view. A read failure leaves the
// view with an empty cart; the error is kept in LoadErr.
func Mount(ctx context.Context, store *Store, cartID string) *View {
	v := &View{store: store, cartID: cartID}
	v.snapshot, v.loadErr = store.Load(ctx, cartID)
	return v
}

// Reload re-reads the persisted cart, replacing the snapshot.
func (v *View) Reload(ctx context.Context) error {
	v.snapshot, v.loadErr = v.store.Load(ctx, v.cartID)
	return v.loadErr
}

// LoadErr returns the read error from the last Mount or Reload, if any.
func (v *View) LoadErr() error {
	return v.loadErr
}

func (v *View) CartID() string {
	return v.cartID
}

// Snapshot returns a copy of the view's cart.
func (v *View) Snapshot() Cart {
	return v.snapshot.clone()
}

func (v *View) Count() int {
	return v.snapshot.Count()
}

func (v *View) Total() decimal.Decimal {
	return v.snapshot.Total()
}

// Add merges qty units of p. On error the snapshot is unchanged.
func (v *View) Add(ctx context.Context, p Product, qty int) error {
	next, err := v.store.AddItem(ctx, v.cartID, v.snapshot, p, qty)
	if err != nil {
		return err
	}
	v.snapshot = next
	return nil
}

func (v *View) SetQuantity(ctx context.Context, id, qty int) error {
	next, err := v.store.SetQuantity(ctx, v.cartID, v.snapshot, id, qty)
	if err != nil {
		return err
	}
	v.snapshot = next
	return nil
}

func (v *View) Remove(ctx context.Context, id int) error {
	next, err := v.store.RemoveItem(ctx, v.cartID, v.snapshot, id)
	if err != nil {
		return err
	}
	v.snapshot = next
	return nil
}

func (v *View) Clear(ctx context.Context) error {
	next, err := v.store.Clear(ctx, v.cartID)
	if err != nil {
		return err
	}
	v.snapshot = next
	return nil
}
