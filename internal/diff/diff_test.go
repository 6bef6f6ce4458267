package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-monitor/pkg/models"
)

func intPtr(n int) *int { return &n }

func item(id int, title string, price float64) models.ShopItem {
	return models.ShopItem{
		ID:          id,
		Title:       title,
		Prices:      map[models.Region]float64{models.RegionUS: price},
		PurchaseURL: "https://shop.example/order",
		Kind:        models.KindRegular,
	}
}

func TestDiffIdempotent(t *testing.T) {
	snapshot := []models.ShopItem{item(1, "A", 5), item(2, "B", 7)}
	assert.Empty(t, Diff(snapshot, snapshot))
}

func TestDiffClassifiesExclusively(t *testing.T) {
	old := []models.ShopItem{item(1, "A", 5), item(2, "B", 7), item(3, "C", 9)}
	current := []models.ShopItem{item(2, "B", 7), item(3, "C", 10), item(4, "D", 1)}

	changes := Diff(old, current)
	require.Len(t, changes, 3)

	// created then updated then deleted, in source iteration order
	assert.Equal(t, Created, changes[0].Kind)
	assert.Equal(t, 4, changes[0].New.ID)
	assert.Equal(t, Updated, changes[1].Kind)
	assert.Equal(t, 3, changes[1].New.ID)
	assert.Equal(t, Deleted, changes[2].Kind)
	assert.Equal(t, 1, changes[2].Old.ID)

	// every current id shows up exactly once across created/updated/unchanged
	seen := map[int]int{}
	for _, c := range changes {
		if c.New != nil {
			seen[c.New.ID]++
		}
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "id %d classified more than once", id)
	}
}

func TestDiffFirstItemOrderIsDeterministic(t *testing.T) {
	old := []models.ShopItem{item(1, "A", 5)}
	current := []models.ShopItem{item(2, "B", 1), item(3, "C", 2), item(1, "A", 5)}

	first := Diff(old, current)
	second := Diff(old, current)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Kind, second[i].Kind)
		assert.Equal(t, first[i].Item().ID, second[i].Item().ID)
	}
}

func TestFreeItemDeletionSuppressed(t *testing.T) {
	free := item(5, "Sticker", 0)
	free.Prices = map[models.Region]float64{models.RegionUS: 0, models.RegionXX: 0}
	old := []models.ShopItem{free, item(6, "Paid", 3)}

	changes := Diff(old, []models.ShopItem{})
	require.Len(t, changes, 1)
	assert.Equal(t, Deleted, changes[0].Kind)
	assert.Equal(t, 6, changes[0].Old.ID)
}

func TestStockDriftOfOneIsNotImportant(t *testing.T) {
	before := item(1, "A", 5)
	before.StockRemaining = intPtr(10)
	after := item(1, "A", 5)
	after.StockRemaining = intPtr(9)

	changes := Diff([]models.ShopItem{before}, []models.ShopItem{after})
	require.Len(t, changes, 1)
	assert.Equal(t, Updated, changes[0].Kind)
	assert.False(t, changes[0].Important)
	assert.False(t, AnyImportant(changes))
}

func TestLargerStockChangeIsImportant(t *testing.T) {
	before := item(1, "A", 5)
	before.StockRemaining = intPtr(10)
	after := item(1, "A", 5)
	after.StockRemaining = intPtr(2)

	changes := Diff([]models.ShopItem{before}, []models.ShopItem{after})
	require.Len(t, changes, 1)
	assert.True(t, changes[0].Important)
}

func TestTitleAndDescriptionChangesAreCosmetic(t *testing.T) {
	before := item(1, "Old name", 5)
	before.Description = "old words"
	after := item(1, "New name", 5)
	after.Description = "new words"

	changes := Diff([]models.ShopItem{before}, []models.ShopItem{after})
	require.Len(t, changes, 1)
	assert.Equal(t, Updated, changes[0].Kind)
	assert.False(t, changes[0].Important)
}

func TestPriceMapChangesAreImportant(t *testing.T) {
	before := item(1, "A", 5)
	after := item(1, "A", 5)
	after.Prices = map[models.Region]float64{models.RegionUS: 5, models.RegionEU: 6}

	changes := Diff([]models.ShopItem{before}, []models.ShopItem{after})
	require.Len(t, changes, 1)
	assert.True(t, changes[0].Important, "a new region entry is a price change")
}

func TestOnlyDeletionsPingAmongSetChanges(t *testing.T) {
	changes := Diff([]models.ShopItem{item(1, "Gone", 2)}, []models.ShopItem{item(2, "Fresh", 3)})
	require.Len(t, changes, 2)

	assert.Equal(t, Created, changes[0].Kind)
	assert.False(t, changes[0].Important, "new items are announced without a ping")
	assert.Equal(t, Deleted, changes[1].Kind)
	assert.True(t, changes[1].Important, "deletions always ping")
}

func TestCreationAloneDoesNotPing(t *testing.T) {
	changes := Diff(nil, []models.ShopItem{item(2, "Fresh", 3)})
	require.Len(t, changes, 1)
	assert.False(t, AnyImportant(changes))
}
