// Package scrape reads the shop's catalog pages and turns them into the
// canonical item set. Each shop section has its own Source; the Catalog fans
// them out concurrently and merges whatever they observed per region.
package scrape

import (
	"context"
	"errors"
	"log"
	"sync"

	"shop-monitor/pkg/models"
)

// Source is one scraping strategy over a shop section. Implementations are a
// closed set (regular shop, black market, stickerlode); the merger never
// cares which one a record came from.
type Source interface {
	Name() string
	Records(ctx context.Context) ([]models.RegionRecord, error)
}

// Result is the outcome of one full catalog read. FailedSources counts
// sections that errored while at least one other succeeded; the caller
// decides whether partial coverage is acceptable.
type Result struct {
	Items         []models.ShopItem
	FailedSources int
}

// Catalog owns the full set of sources for one shop.
type Catalog struct {
	sources []Source
}

// NewCatalog wires the standard three sources onto a shared client.
func NewCatalog(client *Client) *Catalog {
	return &Catalog{sources: []Source{
		&RegularSource{Client: client},
		&BlackMarketSource{Client: client},
		&StickerlodeSource{Client: client},
	}}
}

// NewCatalogWithSources exists for tests and partial deployments.
func NewCatalogWithSources(sources ...Source) *Catalog {
	return &Catalog{sources: sources}
}

// Scrape fans all sources out concurrently, joins their results in whatever
// order they finish, and merges the records. It fails only when every source
// failed; partial failures are counted on the Result and logged.
func (c *Catalog) Scrape(ctx context.Context) (*Result, error) {
	type outcome struct {
		name    string
		records []models.RegionRecord
		err     error
	}

	results := make(chan outcome, len(c.sources))
	var wg sync.WaitGroup
	for _, source := range c.sources {
		wg.Add(1)
		go func(s Source) {
			defer wg.Done()
			records, err := s.Records(ctx)
			results <- outcome{name: s.Name(), records: records, err: err}
		}(source)
	}
	wg.Wait()
	close(results)

	var records []models.RegionRecord
	var errs []error
	failed := 0
	for res := range results {
		if res.err != nil {
			log.Printf("[%s] source failed: %v", res.name, res.err)
			errs = append(errs, res.err)
			failed++
			continue
		}
		records = append(records, res.records...)
	}

	if failed == len(c.sources) {
		return nil, &models.StructuralError{
			Source: "catalog",
			Reason: "all sources failed",
			Err:    errors.Join(errs...),
		}
	}

	items, err := Merge(records)
	if err != nil {
		return nil, err
	}
	log.Printf("Found %d items with %d sources and %d regions.", len(items), len(c.sources)-failed, len(models.Regions))
	return &Result{Items: items, FailedSources: failed}, nil
}
