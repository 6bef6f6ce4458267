package scrape

import (
	"sort"

	"shop-monitor/pkg/models"
)

// Merge folds per-region records into one ShopItem per id. Region-invariant
// fields come from the first non-empty observation, so the fold is
// order-independent whenever the regions agree (they do; only prices vary by
// region). Output is sorted by id: that order is the snapshot's stored order
// and the order notifications iterate in.
func Merge(records []models.RegionRecord) ([]models.ShopItem, error) {
	byID := make(map[int]*models.ShopItem, len(records))

	for _, record := range records {
		if err := record.Validate(); err != nil {
			return nil, &models.StructuralError{Source: "merge", Reason: "invalid record", Err: err}
		}

		existing, ok := byID[record.ID]
		if !ok {
			item := models.ShopItem{
				ID:          record.ID,
				Title:       record.Title,
				Description: record.Description,
				ImageURL:    record.ImageURL,
				PurchaseURL: record.PurchaseURL,
				Kind:        record.Kind,
				Prices:      map[models.Region]float64{record.Region: record.Price},
			}
			if record.StockRemaining != nil {
				stock := *record.StockRemaining
				item.StockRemaining = &stock
			}
			byID[record.ID] = &item
			continue
		}

		existing.Prices[record.Region] = record.Price

		// Fill invariant fields a later region observed but an earlier one
		// didn't (e.g. an image that only renders for purchasable regions).
		if existing.Description == "" {
			existing.Description = record.Description
		}
		if existing.ImageURL == "" {
			existing.ImageURL = record.ImageURL
		}
		if existing.PurchaseURL == "" {
			existing.PurchaseURL = record.PurchaseURL
		}
		if existing.StockRemaining == nil && record.StockRemaining != nil {
			stock := *record.StockRemaining
			existing.StockRemaining = &stock
		}
	}

	ids := make([]int, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	items := make([]models.ShopItem, 0, len(ids))
	for _, id := range ids {
		items = append(items, *byID[id])
	}
	return items, nil
}
