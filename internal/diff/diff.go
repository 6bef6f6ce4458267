// Package diff classifies the differences between the last snapshot and a
// fresh catalog read.
package diff

import "shop-monitor/pkg/models"

// Kind is the classification of one change.
type Kind int

const (
	Created Kind = iota
	Updated
	Deleted
)

func (k Kind) String() string {
	switch k {
	case Created:
		return "created"
	case Updated:
		return "updated"
	case Deleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Change carries the old and/or new value of one classified difference.
// Old is set for Updated and Deleted; New for Created and Updated.
// Important marks changes worth a channel-level ping: every deletion, plus
// updates where something beyond cosmetics moved. New items are announced
// but do not ping on their own.
type Change struct {
	Kind      Kind
	Old       *models.ShopItem
	New       *models.ShopItem
	Important bool
}

// Item returns the value to render: the new one when present, else the old.
func (c Change) Item() models.ShopItem {
	if c.New != nil {
		return *c.New
	}
	return *c.Old
}

// Diff classifies current against old. Output order is created, then
// updated, then deleted, each in the iteration order of the slice it came
// from — deterministic for a given input pair regardless of how the scrape
// fan-out completed.
//
// Free items missing from current are dropped, not reported as deletions:
// claimed rewards churn out of the catalog all the time.
func Diff(old, current []models.ShopItem) []Change {
	oldByID := make(map[int]models.ShopItem, len(old))
	for _, item := range old {
		oldByID[item.ID] = item
	}
	currentIDs := make(map[int]struct{}, len(current))
	for _, item := range current {
		currentIDs[item.ID] = struct{}{}
	}

	var changes []Change

	for i := range current {
		item := current[i]
		if _, ok := oldByID[item.ID]; !ok {
			changes = append(changes, Change{Kind: Created, New: &current[i]})
		}
	}

	for i := range current {
		item := current[i]
		prior, ok := oldByID[item.ID]
		if !ok || prior.Equal(item) {
			continue
		}
		priorCopy := prior
		changes = append(changes, Change{
			Kind:      Updated,
			Old:       &priorCopy,
			New:       &current[i],
			Important: important(prior, item),
		})
	}

	for i := range old {
		item := old[i]
		if _, ok := currentIDs[item.ID]; ok {
			continue
		}
		if item.IsFree() {
			continue
		}
		changes = append(changes, Change{Kind: Deleted, Old: &old[i], Important: true})
	}

	return changes
}

// AnyImportant reports whether any change warrants a channel ping.
func AnyImportant(changes []Change) bool {
	for _, c := range changes {
		if c.Important {
			return true
		}
	}
	return false
}

// important decides whether an update is ping-worthy. Title and description
// edits are cosmetic. A stock drift of at most one unit is concurrent-
// purchase noise, not news.
func important(old, current models.ShopItem) bool {
	if old.ImageURL != current.ImageURL || old.ImageHash != current.ImageHash {
		return true
	}
	if old.PurchaseURL != current.PurchaseURL {
		return true
	}
	if old.Kind != current.Kind {
		return true
	}
	if !models.PricesEqual(old.Prices, current.Prices) {
		return true
	}
	return stockImportant(old.StockRemaining, current.StockRemaining)
}

func stockImportant(old, current *int) bool {
	if old == nil || current == nil {
		return old != current
	}
	delta := *old - *current
	if delta < 0 {
		delta = -delta
	}
	return delta > 1
}
