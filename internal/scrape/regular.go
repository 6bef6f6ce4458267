package scrape

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/net/html"

	"shop-monitor/pkg/models"
)

// RegularSource scrapes the main shop grid. The shop renders one page per
// pricing region, so this source fetches every region in parallel and emits
// one record per (item, region).
type RegularSource struct {
	Client *Client
}

func (s *RegularSource) Name() string { return "regular" }

func (s *RegularSource) Records(ctx context.Context) ([]models.RegionRecord, error) {
	type outcome struct {
		records []models.RegionRecord
		err     error
	}

	results := make(chan outcome, len(models.Regions))
	var wg sync.WaitGroup
	for _, region := range models.Regions {
		wg.Add(1)
		go func(region models.Region) {
			defer wg.Done()
			records, err := s.scrapeRegion(ctx, region)
			results <- outcome{records: records, err: err}
		}(region)
	}
	wg.Wait()
	close(results)

	// Every region must parse; a missing region here would silently drop
	// prices from merged items, so one failure fails the source.
	var all []models.RegionRecord
	for res := range results {
		if res.err != nil {
			return nil, res.err
		}
		all = append(all, res.records...)
	}
	return all, nil
}

func (s *RegularSource) scrapeRegion(ctx context.Context, region models.Region) ([]models.RegionRecord, error) {
	doc, err := s.Client.GetDoc(ctx, s.Client.Root()+"/shop?region="+string(region))
	if err != nil {
		return nil, err
	}

	grids := findAll(doc, func(n *html.Node) bool { return hasClass(n, "sm:grid") })
	if len(grids) == 0 {
		return nil, models.NewStructuralError("regular", "grid elements not found whilst looking at items for "+string(region))
	}

	var records []models.RegionRecord
	for _, grid := range grids {
		for _, card := range elementChildren(grid) {
			record, ok, err := s.parseCard(card, region)
			if err != nil {
				return nil, err
			}
			if ok {
				records = append(records, record)
			}
		}
	}
	return records, nil
}

// parseCard extracts one item card. Cards without a title or purchase form
// are decorative and skipped; a card without a price badge means the page
// markup changed and the whole scrape is untrustworthy.
func (s *RegularSource) parseCard(card *html.Node, region models.Region) (models.RegionRecord, bool, error) {
	var record models.RegionRecord

	titleNode := findFirst(card, func(n *html.Node) bool { return isTag(n, "h3") })
	if titleNode == nil {
		return record, false, nil
	}
	title := text(titleNode)
	if title == "" {
		return record, false, nil
	}

	var imageURL string
	if img := findFirst(card, func(n *html.Node) bool { return isTag(n, "img") && hasClass(n, "rounded-lg") }); img != nil {
		imageURL = strings.TrimSpace(attr(img, "src"))
	}

	var description string
	if p := findFirst(card, func(n *html.Node) bool { return isTag(n, "p") && hasClass(n, "text-gray-700") }); p != nil {
		description = text(p)
	}

	priceNode := findFirst(card, func(n *html.Node) bool {
		return isTag(n, "div") && hasClass(n, "font-bold") && hasClass(n, "whitespace-nowrap")
	})
	if priceNode == nil {
		return record, false, models.NewStructuralError("regular",
			"price element not found for region "+string(region)+". Has the shop page code updated?")
	}
	priceText := strings.ReplaceAll(text(priceNode), ",", "")
	price, err := strconv.ParseFloat(strings.TrimSpace(priceText), 64)
	if err != nil {
		price = 0
	}

	form := findFirst(card, func(n *html.Node) bool { return isTag(n, "form") })
	if form == nil {
		return record, false, nil
	}
	purchaseURL := strings.TrimSpace(attr(form, "action"))
	if purchaseURL == "" {
		return record, false, nil
	}
	id, err := strconv.Atoi(digits(purchaseURL))
	if err != nil {
		return record, false, models.NewStructuralError("regular", "no item id in purchase URL "+purchaseURL)
	}

	var stock *int
	if findFirst(card, func(n *html.Node) bool { return isTag(n, "p") && hasClass(n, "text-red-600") }) != nil {
		zero := 0
		stock = &zero
	} else if p := findFirst(card, func(n *html.Node) bool { return isTag(n, "p") && hasClass(n, "text-orange-600") }); p != nil {
		if remaining := digits(text(p)); remaining != "" {
			if n, err := strconv.Atoi(remaining); err == nil {
				stock = &n
			}
		}
	}

	return models.RegionRecord{
		ID:             id,
		Title:          title,
		Description:    description,
		ImageURL:       imageURL,
		Price:          price,
		PurchaseURL:    purchaseURL,
		StockRemaining: stock,
		Region:         region,
		Kind:           models.KindRegular,
	}, true, nil
}
