package chat

import (
	"regexp"
	"strings"

	"github.com/shotflow/pkg/models"
)

// Vocabulary that signals the user is still orienting rather than asking for
// a concrete document. Matching is substring-based and case-insensitive: any
// occurrence anywhere in the latest user message triggers early-stage mode.
var earlyStagePatterns = []*regexp.Regexp{
	regexp.MustCompile(`fuzzy`),
	regexp.MustCompile(`not sure`),
	regexp.MustCompile(`early[-\s]stage`),
	regexp.MustCompile(`just starting`),
	regexp.MustCompile(`figuring (it )?out`),
}

// DetectEarlyStage reports whether the most recent user message signals an
// early-stage/ambiguous conversation. Only the latest message with role
// "user" is consulted; earlier turns and assistant/system messages are
// irrelevant to the decision. A history with no user message at all is
// treated as resolved.
func DetectEarlyStage(history []models.Message) bool {
	latest := latestUserMessage(history)
	if latest == "" {
		return false
	}

	lowered := strings.ToLower(latest)
	for _, p := range earlyStagePatterns {
		if p.MatchString(lowered) {
			return true
		}
	}
	return false
}

func latestUserMessage(history []models.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == models.RoleUser {
			return history[i].Content
		}
	}
	return ""
}
