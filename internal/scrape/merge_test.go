package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-monitor/pkg/models"
)

func record(id int, region models.Region, price float64) models.RegionRecord {
	return models.RegionRecord{
		ID:          id,
		Title:       "Item",
		Price:       price,
		PurchaseURL: "https://shop.example/order/7",
		Region:      region,
		Kind:        models.KindRegular,
	}
}

func TestMergeCombinesRegionPrices(t *testing.T) {
	items, err := Merge([]models.RegionRecord{
		record(7, models.RegionUS, 10),
		record(7, models.RegionEU, 12),
	})
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, 7, items[0].ID)
	assert.Equal(t, map[models.Region]float64{
		models.RegionUS: 10,
		models.RegionEU: 12,
	}, items[0].Prices)
}

func TestMergeCommutative(t *testing.T) {
	a := record(1, models.RegionUS, 5)
	b := record(1, models.RegionEU, 6)
	c := record(2, models.RegionUS, 9)

	permutations := [][]models.RegionRecord{
		{a, b, c}, {a, c, b}, {b, a, c}, {b, c, a}, {c, a, b}, {c, b, a},
	}

	baseline, err := Merge(permutations[0])
	require.NoError(t, err)
	for _, perm := range permutations[1:] {
		items, err := Merge(perm)
		require.NoError(t, err)
		require.Len(t, items, len(baseline))
		for i := range items {
			assert.True(t, items[i].Equal(baseline[i]), "merge differs for permutation %v", perm)
		}
	}
}

func TestMergeCompleteness(t *testing.T) {
	records := []models.RegionRecord{
		record(1, models.RegionUS, 1),
		record(1, models.RegionCA, 2),
		record(1, models.RegionAU, 3),
		record(2, models.RegionUS, 4),
		record(3, models.RegionXX, 5),
	}
	items, err := Merge(records)
	require.NoError(t, err)
	require.Len(t, items, 3)

	// Output is sorted by id, and every contributing region has an entry.
	assert.Equal(t, 1, items[0].ID)
	assert.Len(t, items[0].Prices, 3)
	assert.Equal(t, 2, items[1].ID)
	assert.Len(t, items[1].Prices, 1)
	assert.Equal(t, 3, items[2].ID)
	assert.Len(t, items[2].Prices, 1)
}

func TestMergeFillsInvariantFieldsFromLaterRegions(t *testing.T) {
	first := record(1, models.RegionUS, 5)
	second := record(1, models.RegionEU, 6)
	second.Description = "only the EU page rendered this"
	second.ImageURL = "https://shop.example/img.png"

	items, err := Merge([]models.RegionRecord{first, second})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "only the EU page rendered this", items[0].Description)
	assert.Equal(t, "https://shop.example/img.png", items[0].ImageURL)
}

func TestMergeRejectsInvalidRecord(t *testing.T) {
	bad := record(1, models.RegionUS, 5)
	bad.Title = ""

	_, err := Merge([]models.RegionRecord{bad})
	var structural *models.StructuralError
	require.ErrorAs(t, err, &structural)
}
