// AngelaMos | 2026
// cart.go

package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/condoview/api/internal/core"
	"github.com/condoview/api/internal/role"
)

// PrefCart is the preference key the cart persists under, replacing the
// browser-local storage the web client used to rely on.
const PrefCart = "marketplace_cart"

type CartItem struct {
	ProductID  int    `json:"product_id" validate:"required,gt=0"`
	Title      string `json:"title"      validate:"required,max=300"`
	PriceCents int64  `json:"price_cents" validate:"required,gt=0"`
	Quantity   int    `json:"quantity"   validate:"required,gt=0,lte=99"`
	Thumbnail  string `json:"thumbnail"  validate:"omitempty,url"`
}

// CartStore keeps each user's cart in the preference port, so it follows the
// user across devices and sessions.
type CartStore struct {
	prefs role.Prefs
}

func NewCartStore(prefs role.Prefs) *CartStore {
	return &CartStore{prefs: prefs}
}

func (s *CartStore) Get(ctx context.Context, userID string) ([]CartItem, error) {
	raw, err := s.prefs.Get(ctx, userID, PrefCart)
	if errors.Is(err, core.ErrNotFound) {
		return []CartItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	var items []CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		// Unreadable stored cart is treated as empty rather than wedging the
		// user; the next save replaces it.
		return []CartItem{}, nil
	}

	return items, nil
}

// Put replaces the whole cart. The client sends its full state, matching the
// local-storage semantics the store inherits.
func (s *CartStore) Put(
	ctx context.Context,
	userID string,
	items []CartItem,
) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}

	if err := s.prefs.Set(ctx, userID, PrefCart, string(raw)); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}

	return nil
}

func (s *CartStore) Clear(ctx context.Context, userID string) error {
	if err := s.prefs.Delete(ctx, userID, PrefCart); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
