package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shotflow/pkg/models"
)

func TestDetectEarlyStage_UncertaintyVocabulary(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    bool
	}{
		{"fuzzy", "things are still fuzzy, not sure about locations", true},
		{"not sure", "I'm not sure where to start", true},
		{"not sure mid-sentence", "honestly not sure yet about the format", true},
		{"early stage with space", "we're early stage on this one", true},
		{"early stage with hyphen", "this is an early-stage concept", true},
		{"just starting", "Just starting to think about a brand film", true},
		{"figuring it out", "still figuring it out as we go", true},
		{"figuring out", "figuring out what the client wants", true},
		{"mixed case", "Still FUZZY on the concept", true},
		{"resolved", "I need a call sheet for Friday at 9am", false},
		{"concrete ask", "add a drone operator to the crew list", false},
		{"empty", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			history := []models.Message{
				{Role: models.RoleUser, Content: tc.content},
			}
			assert.Equal(t, tc.want, DetectEarlyStage(history))
		})
	}
}

func TestDetectEarlyStage_OnlyLatestUserMessageCounts(t *testing.T) {
	// An earlier uncertain message is irrelevant once the latest user turn
	// is resolved
	history := []models.Message{
		{Role: models.RoleUser, Content: "I'm not sure where to start"},
		{Role: models.RoleAssistant, Content: "Is this client work or personal?"},
		{Role: models.RoleUser, Content: "Client work. Let's draft the budget."},
	}
	assert.False(t, DetectEarlyStage(history))

	// And the reverse: certainty earlier doesn't mask current ambiguity
	history = []models.Message{
		{Role: models.RoleUser, Content: "Draft a budget for the shoot"},
		{Role: models.RoleAssistant, Content: "Here's a structure."},
		{Role: models.RoleUser, Content: "hmm, actually I'm still figuring out the scope"},
	}
	assert.True(t, DetectEarlyStage(history))
}

func TestDetectEarlyStage_IgnoresNonUserMessages(t *testing.T) {
	history := []models.Message{
		{Role: models.RoleSystem, Content: "not sure"},
		{Role: models.RoleAssistant, Content: "everything is fuzzy"},
	}
	assert.False(t, DetectEarlyStage(history), "no user message means resolved")

	assert.False(t, DetectEarlyStage(nil))
}
