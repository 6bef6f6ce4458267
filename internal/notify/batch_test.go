package notify

import (
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func groupOf(blocks int) Group {
	group := make(Group, blocks)
	for i := range group {
		group[i] = markdownBlock("block")
	}
	return group
}

func TestBatchSplitsAtLimit(t *testing.T) {
	groups := make([]Group, 120)
	for i := range groups {
		groups[i] = groupOf(1)
	}

	chunks := Batch(groups, BlockLimit)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 50)
	assert.Len(t, chunks[1], 50)
	assert.Len(t, chunks[2], 20)
}

func TestBatchNeverSplitsAGroup(t *testing.T) {
	// 17 three-block groups: 51 blocks total. A flat slice would cut the
	// 17th group in half; group-aligned batching moves it whole.
	groups := make([]Group, 17)
	for i := range groups {
		groups[i] = groupOf(3)
	}

	chunks := Batch(groups, BlockLimit)
	require.Len(t, chunks, 2)
	assert.Len(t, chunks[0], 48)
	assert.Len(t, chunks[1], 3)
}

func TestBatchEmitsOversizedGroupAlone(t *testing.T) {
	groups := []Group{groupOf(2), groupOf(BlockLimit + 5), groupOf(2)}

	chunks := Batch(groups, BlockLimit)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 2)
	assert.Len(t, chunks[1], BlockLimit+5, "an oversized group is never split")
	assert.Len(t, chunks[2], 2)
}

func TestBatchKeepsOrder(t *testing.T) {
	first := Group{slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, "first", false, false), nil, nil)}
	second := Group{slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, "second", false, false), nil, nil)}

	chunks := Batch([]Group{first, second}, BlockLimit)
	require.Len(t, chunks, 1)
	require.Len(t, chunks[0], 2)

	section, ok := chunks[0][0].(*slack.SectionBlock)
	require.True(t, ok)
	assert.Equal(t, "first", section.Text.Text)
}

func TestBatchSkipsEmptyGroups(t *testing.T) {
	chunks := Batch([]Group{{}, groupOf(2), {}}, BlockLimit)
	require.Len(t, chunks, 1)
	assert.Len(t, chunks[0], 2)
}

func TestCheckSanity(t *testing.T) {
	assert.NoError(t, CheckSanity(SanityThreshold))

	err := CheckSanity(SanityThreshold + 1)
	require.Error(t, err)
	var sanity *SanityError
	require.ErrorAs(t, err, &sanity)
	assert.Equal(t, SanityThreshold+1, sanity.Changes)
}
