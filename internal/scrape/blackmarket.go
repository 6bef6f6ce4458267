package scrape

import (
	"context"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"shop-monitor/pkg/models"
)

// BlackMarketSource scrapes the back-room shop page. Black-market items are
// priced once for the whole world, so records always carry the catch-all
// region.
type BlackMarketSource struct {
	Client *Client
}

func (s *BlackMarketSource) Name() string { return "black-market" }

func (s *BlackMarketSource) Records(ctx context.Context) ([]models.RegionRecord, error) {
	doc, err := s.Client.GetDoc(ctx, s.Client.Root()+"/shop/black_market")
	if err != nil {
		return nil, err
	}

	mainNode := findFirst(doc, func(n *html.Node) bool { return isTag(n, "main") })
	if mainNode == nil {
		return nil, models.NewStructuralError("black-market", "list element not found")
	}
	var list *html.Node
	for _, child := range elementChildren(mainNode) {
		if isTag(child, "div") {
			list = child
			break
		}
	}
	if list == nil {
		return nil, models.NewStructuralError("black-market", "list element not found")
	}

	var records []models.RegionRecord
	for _, row := range elementChildren(list) {
		record, err := s.parseRow(row)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *BlackMarketSource) parseRow(row *html.Node) (models.RegionRecord, error) {
	var record models.RegionRecord

	titleNode := findFirst(row, func(n *html.Node) bool { return hasClass(n, "shop-item-title") })
	if titleNode == nil {
		return record, models.NewStructuralError("black-market", "title element not found")
	}

	// The row's description is loose text between its child elements.
	description := ownText(row)

	var stock *int
	if remaining := findFirst(row, func(n *html.Node) bool { return hasClass(n, "shop-item-remaining") }); remaining != nil {
		stockText := strings.TrimSuffix(text(remaining), " left")
		if n, err := strconv.Atoi(digits(stockText)); err == nil {
			stock = &n
		}
	}

	imageWrap := findFirst(row, func(n *html.Node) bool { return hasClass(n, "shop-item-image") })
	var imageURL string
	if imageWrap != nil {
		if img := findFirst(imageWrap, func(n *html.Node) bool { return isTag(n, "img") }); img != nil {
			imageURL = strings.TrimSpace(attr(img, "src"))
		}
	}
	if imageURL == "" {
		return record, models.NewStructuralError("black-market", "image element not found")
	}

	form := findFirst(row, func(n *html.Node) bool { return isTag(n, "form") })
	if form == nil {
		return record, models.NewStructuralError("black-market", "purchase URL element not found")
	}
	purchaseURL := strings.TrimSpace(attr(form, "action"))
	id, err := strconv.Atoi(digits(purchaseURL))
	if err != nil {
		return record, models.NewStructuralError("black-market", "no item id in purchase URL "+purchaseURL)
	}

	priceAttr := attr(row, "data-item-price")
	if priceAttr == "" {
		return record, models.NewStructuralError("black-market", "price attribute not found")
	}
	price, err := strconv.ParseFloat(priceAttr, 64)
	if err != nil {
		return record, models.NewStructuralError("black-market", "unparsable price "+priceAttr)
	}

	return models.RegionRecord{
		ID:             id,
		Title:          text(titleNode),
		Description:    description,
		ImageURL:       imageURL,
		Price:          price,
		PurchaseURL:    purchaseURL,
		StockRemaining: stock,
		Region:         models.RegionXX,
		Kind:           models.KindLimitedMarket,
	}, nil
}
