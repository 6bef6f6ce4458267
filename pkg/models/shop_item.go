package models

import "fmt"

// ItemKind tags the shop section an item was scraped from. It only affects
// how a change is rendered, never how it is diffed.
type ItemKind string

const (
	KindRegular       ItemKind = "regular"
	KindLimitedMarket ItemKind = "limited-market"
	KindRewardOnly    ItemKind = "reward-only"
)

// ShopItem is the canonical, post-merge catalog item. It is the unit of the
// snapshot file and of diffing; two items are the same item iff their IDs
// match, and unchanged iff Equal reports true.
type ShopItem struct {
	ID             int                `json:"id"`
	Title          string             `json:"title"`
	Description    string             `json:"description,omitempty"`
	ImageURL       string             `json:"imageUrl,omitempty"`
	ImageHash      string             `json:"imageHash,omitempty"`
	Prices         map[Region]float64 `json:"prices"`
	PurchaseURL    string             `json:"purchaseUrl,omitempty"`
	StockRemaining *int               `json:"stockRemaining,omitempty"`
	Kind           ItemKind           `json:"kind"`
}

// RegionRecord is a pre-merge observation of an item in a single region.
// Produced by a scraper, consumed only by the merger, never persisted.
type RegionRecord struct {
	ID             int
	Title          string
	Description    string
	ImageURL       string
	Price          float64
	PurchaseURL    string
	StockRemaining *int
	Region         Region
	Kind           ItemKind
}

// Validate rejects records that don't match the expected shape. A validation
// failure means the shop page markup changed, so callers treat it as
// structural, never as retryable.
func (r RegionRecord) Validate() error {
	if r.ID < 0 {
		return fmt.Errorf("item %q: negative id %d", r.Title, r.ID)
	}
	if r.Title == "" {
		return fmt.Errorf("item %d: empty title", r.ID)
	}
	if r.Price < 0 {
		return fmt.Errorf("item %d: negative price %v", r.ID, r.Price)
	}
	if !r.Region.Valid() {
		return fmt.Errorf("item %d: unknown region %q", r.ID, r.Region)
	}
	if r.StockRemaining != nil && *r.StockRemaining < 0 {
		return fmt.Errorf("item %d: negative stock %d", r.ID, *r.StockRemaining)
	}
	switch r.Kind {
	case KindRegular, KindLimitedMarket, KindRewardOnly:
	default:
		return fmt.Errorf("item %d: unknown kind %q", r.ID, r.Kind)
	}
	return nil
}

// Equal reports structural equality of every field. Price maps compare as
// entry sets, so region order never matters.
func (item ShopItem) Equal(other ShopItem) bool {
	if item.ID != other.ID ||
		item.Title != other.Title ||
		item.Description != other.Description ||
		item.ImageURL != other.ImageURL ||
		item.ImageHash != other.ImageHash ||
		item.PurchaseURL != other.PurchaseURL ||
		item.Kind != other.Kind {
		return false
	}
	if !equalStock(item.StockRemaining, other.StockRemaining) {
		return false
	}
	return PricesEqual(item.Prices, other.Prices)
}

// ItemSetsEqual compares two catalogs as ID-keyed sets, field-by-field via
// Equal. Slice order does not matter.
func ItemSetsEqual(a, b []ShopItem) bool {
	if len(a) != len(b) {
		return false
	}
	byID := make(map[int]ShopItem, len(a))
	for _, item := range a {
		byID[item.ID] = item
	}
	for _, item := range b {
		prior, ok := byID[item.ID]
		if !ok || !prior.Equal(item) {
			return false
		}
	}
	return true
}

// PricesEqual compares two price maps as sets of (region, price) entries.
func PricesEqual(a, b map[Region]float64) bool {
	if len(a) != len(b) {
		return false
	}
	for region, price := range a {
		otherPrice, ok := b[region]
		if !ok || otherPrice != price {
			return false
		}
	}
	return true
}

func equalStock(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// IsFree reports whether every offered price is zero. Free items (claimed
// rewards, expired stickers) churn out of the catalog constantly, so their
// disappearance is not worth a deletion notice.
func (item ShopItem) IsFree() bool {
	if len(item.Prices) == 0 {
		return false
	}
	for _, price := range item.Prices {
		if price != 0 {
			return false
		}
	}
	return true
}

// AnyPrice returns one price for display when a single number is needed.
// The lowest offered price wins so the headline is never inflated.
func (item ShopItem) AnyPrice() float64 {
	first := true
	var min float64
	for _, price := range item.Prices {
		if first || price < min {
			min = price
			first = false
		}
	}
	return min
}

// Clone returns a deep copy, so pipelines can rewrite image references
// without mutating the caller's slice.
func (item ShopItem) Clone() ShopItem {
	out := item
	if item.Prices != nil {
		out.Prices = make(map[Region]float64, len(item.Prices))
		for region, price := range item.Prices {
			out.Prices[region] = price
		}
	}
	if item.StockRemaining != nil {
		stock := *item.StockRemaining
		out.StockRemaining = &stock
	}
	return out
}
