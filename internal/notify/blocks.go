// Package notify renders classified changes into Slack Block Kit blocks,
// batches them under the platform's per-message block limit, and posts them.
package notify

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/slack-go/slack"

	"shop-monitor/internal/diff"
	"shop-monitor/pkg/models"
)

// pingUsergroupID is the usergroup mentioned by the channel ping block.
const pingUsergroupID = "S091HANUAR1"

// Group is the run of blocks rendered for one change. A group is never
// split across two posts.
type Group []slack.Block

// Render turns one classified change into its block group.
func Render(change diff.Change) Group {
	switch change.Kind {
	case diff.Created:
		return newItemBlocks(*change.New)
	case diff.Deleted:
		return deletedItemBlocks(*change.Old)
	default:
		return updatedItemBlocks(*change.Old, *change.New)
	}
}

// ChannelPing is the trailing block group appended when a run contains at
// least one important change.
func ChannelPing() Group {
	return Group{
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, "pinging <!subteam^"+pingUsergroupID+">", false, false),
			nil, nil,
		),
	}
}

// Summary builds the fallback text line carried by every batch post.
func Summary(changes []diff.Change) string {
	var created, updated, deleted []string
	for _, change := range changes {
		switch change.Kind {
		case diff.Created:
			created = append(created, change.New.Title)
		case diff.Updated:
			updated = append(updated, change.Old.Title)
		case diff.Deleted:
			deleted = append(deleted, change.Old.Title)
		}
	}

	var parts []string
	if len(created) > 0 {
		parts = append(parts, "*new items:* "+strings.Join(created, ", "))
	}
	if len(deleted) > 0 {
		parts = append(parts, "*deleted items:* "+strings.Join(deleted, ", "))
	}
	if len(updated) > 0 {
		parts = append(parts, "*updated items:* "+strings.Join(updated, ", "))
	}
	return "✨ " + strings.Join(parts, " · ")
}

func newItemBlocks(item models.ShopItem) Group {
	group := Group{
		headerBlock(fmt.Sprintf(":new: %s (:shells: %s)", item.Title, formatPrice(item.AnyPrice()))),
	}

	var section []string
	if item.Description != "" {
		section = append(section, "_"+item.Description+"_")
	}
	if line := regionalPriceLine(item.Prices); line != "" {
		section = append(section, line)
	}
	if item.PurchaseURL != "" {
		section = append(section, buyLink(item.PurchaseURL))
	}
	if len(section) > 0 {
		group = append(group, markdownBlock(strings.Join(section, "\n")))
	}

	if item.ImageURL != "" {
		group = append(group, imageBlock(item))
	}
	return group
}

func deletedItemBlocks(item models.ShopItem) Group {
	group := Group{
		headerBlock(fmt.Sprintf(":win10-trash: %s (:shells: %s)", item.Title, formatPrice(item.AnyPrice()))),
	}
	if item.Description != "" {
		group = append(group, markdownBlock("_"+item.Description+"_"))
	}
	if item.ImageURL != "" {
		group = append(group, imageBlock(item))
	}
	return group
}

func updatedItemBlocks(old, current models.ShopItem) Group {
	title := current.Title
	if old.Title != current.Title {
		title = old.Title + " → " + current.Title
	}
	price := formatPrice(current.AnyPrice())
	if !models.PricesEqual(old.Prices, current.Prices) {
		price = formatPrice(old.AnyPrice()) + " → " + formatPrice(current.AnyPrice())
	}

	group := Group{
		headerBlock(fmt.Sprintf("%s (:shells: %s)", title, price)),
	}

	var section []string
	if old.Description != current.Description {
		section = append(section, orNoDescription(old.Description)+" → "+orNoDescription(current.Description))
	} else if current.Description != "" {
		section = append(section, current.Description)
	}
	if current.PurchaseURL != "" {
		section = append(section, buyLink(current.PurchaseURL))
	}
	if len(section) > 0 {
		group = append(group, markdownBlock(strings.Join(section, " ")))
	}
	return group
}

func headerBlock(text string) slack.Block {
	return slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, text, true, false))
}

func markdownBlock(text string) slack.Block {
	return slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, text, false, false), nil, nil)
}

func imageBlock(item models.ShopItem) slack.Block {
	return slack.NewImageBlock(item.ImageURL, "Image for "+item.Title, "", nil)
}

func buyLink(purchaseURL string) string {
	return fmt.Sprintf("*<%s|:tw_shopping_trolley: Buy>*", purchaseURL)
}

// regionalPriceLine lists per-region prices when they diverge. A single
// uniform price is already carried by the header.
func regionalPriceLine(prices map[models.Region]float64) string {
	var parts []string
	uniform := true
	var first float64
	for _, region := range models.Regions {
		price, ok := prices[region]
		if !ok {
			continue
		}
		if len(parts) == 0 {
			first = price
		} else if price != first {
			uniform = false
		}
		parts = append(parts, region.Flag()+" "+formatPrice(price))
	}
	if uniform || len(parts) < 2 {
		return ""
	}
	return strings.Join(parts, " · ")
}

func orNoDescription(description string) string {
	if description == "" {
		return "_no description_"
	}
	return description
}

func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}
