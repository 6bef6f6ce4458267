package scrape

import (
	"context"
	"strings"

	"golang.org/x/net/html"

	"shop-monitor/pkg/models"
)

// stickerlodeIDOffset keeps sticker ids clear of real shop item ids.
// Stickers aren't purchasable and have no id of their own, so their grid
// position is offset into a range no purchase URL will ever produce.
const stickerlodeIDOffset = 0xdeadbeef

// StickerlodeSource scrapes the campfire sticker wall. Stickers are
// reward-only: free in every region, never purchasable, and expected to
// disappear once claimed.
type StickerlodeSource struct {
	Client *Client
}

func (s *StickerlodeSource) Name() string { return "stickerlode" }

func (s *StickerlodeSource) Records(ctx context.Context) ([]models.RegionRecord, error) {
	doc, err := s.Client.GetDoc(ctx, s.Client.Root()+"/campfire?show_all_old_stickers=true")
	if err != nil {
		return nil, err
	}

	grid := findFirst(doc, func(n *html.Node) bool { return hasClass(n, "stickerlode-grid") })
	if grid == nil {
		return nil, models.NewStructuralError("stickerlode", "grid element not found")
	}

	var records []models.RegionRecord
	for index, card := range elementChildren(grid) {
		var imageURL string
		if front := findFirst(card, func(n *html.Node) bool { return hasClass(n, "advent-card-front") }); front != nil {
			if img := findFirst(front, func(n *html.Node) bool { return isTag(n, "img") }); img != nil {
				imageURL = strings.TrimSpace(attr(img, "src"))
			}
		}
		if imageURL == "" {
			return nil, models.NewStructuralError("stickerlode", "image element not found")
		}

		back := findFirst(card, func(n *html.Node) bool { return hasClass(n, "advent-card-back") })
		if back == nil {
			return nil, models.NewStructuralError("stickerlode", "card back not found")
		}
		titleNode := findFirst(back, func(n *html.Node) bool { return isTag(n, "h3") })
		if titleNode == nil || text(titleNode) == "" {
			return nil, models.NewStructuralError("stickerlode", "title element not found")
		}
		descNode := findFirst(back, func(n *html.Node) bool { return isTag(n, "p") })
		if descNode == nil || text(descNode) == "" {
			return nil, models.NewStructuralError("stickerlode", "description element not found")
		}

		// One zero-price record per region, so the merged item offers the
		// sticker everywhere for free.
		for _, region := range models.Regions {
			records = append(records, models.RegionRecord{
				ID:          stickerlodeIDOffset + index,
				Title:       text(titleNode),
				Description: text(descNode),
				ImageURL:    imageURL,
				Price:       0,
				Region:      region,
				Kind:        models.KindRewardOnly,
			})
		}
	}
	return records, nil
}
