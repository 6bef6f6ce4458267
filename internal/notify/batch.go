package notify

import (
	"fmt"

	"github.com/slack-go/slack"
)

const (
	// BlockLimit is the most blocks Slack accepts in one chat.postMessage.
	BlockLimit = 50

	// SanityThreshold caps how many distinct changes a run may notify
	// about. More than this means a classification bug, not a shop sale.
	SanityThreshold = 30
)

// SanityError aborts a run whose change count blew past the failsafe.
// Never retried: the condition indicates a logic bug.
type SanityError struct {
	Changes int
}

func (e *SanityError) Error() string {
	return fmt.Sprintf("refusing to notify about %d changes (failsafe threshold %d): this looks like a classification bug", e.Changes, SanityThreshold)
}

// CheckSanity enforces the failsafe before anything is sent.
func CheckSanity(changeCount int) error {
	if changeCount > SanityThreshold {
		return &SanityError{Changes: changeCount}
	}
	return nil
}

// Batch splits block groups into message-sized chunks of at most limit
// blocks, keeping every group whole. A chunk boundary always lands between
// items, never inside one. A single group longer than limit is emitted as
// its own oversized chunk rather than split; renderers keep groups to a
// handful of blocks, far under the platform limit.
func Batch(groups []Group, limit int) [][]slack.Block {
	var chunks [][]slack.Block
	var current []slack.Block

	for _, group := range groups {
		if len(group) == 0 {
			continue
		}
		if len(current) > 0 && len(current)+len(group) > limit {
			chunks = append(chunks, current)
			current = nil
		}
		current = append(current, group...)
	}
	if len(current) > 0 {
		chunks = append(chunks, current)
	}
	return chunks
}
