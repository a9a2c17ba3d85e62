package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompose_CharterBeforeGuidanceForAllTools(t *testing.T) {
	for _, tool := range AllToolTypes {
		t.Run(string(tool), func(t *testing.T) {
			out, err := Compose(tool, TonePractical, false, nil)
			require.NoError(t, err)

			assert.Contains(t, out, charterBlock)
			assert.Contains(t, out, toolGuidance[tool])
			assert.Less(t, strings.Index(out, charterBlock), strings.Index(out, toolGuidance[tool]),
				"charter must appear before tool guidance")
		})
	}
}

func TestCompose_ToneSelection(t *testing.T) {
	out, err := Compose(ToolBrief, ToneCinematic, false, nil)
	require.NoError(t, err)
	assert.Contains(t, out, toneDirectives[ToneCinematic])

	// Unknown tone falls back to practical instead of failing
	out, err = Compose(ToolBrief, ToneMode("noir"), false, nil)
	require.NoError(t, err)
	assert.Contains(t, out, toneDirectives[TonePractical])

	// Unset tone also gets the default
	out, err = Compose(ToolBrief, "", false, nil)
	require.NoError(t, err)
	assert.Contains(t, out, toneDirectives[TonePractical])
}

func TestCompose_OrientationBlockOnlyWhenEarlyStage(t *testing.T) {
	early, err := Compose(ToolBrief, TonePractical, true, nil)
	require.NoError(t, err)
	assert.Contains(t, early, orientationBlock)
	assert.Contains(t, early, toolGuidance[ToolBrief],
		"guidance is never omitted, even during orientation")
	assert.Less(t, strings.Index(early, orientationBlock), strings.Index(early, toolGuidance[ToolBrief]),
		"orientation constraint precedes guidance")

	resolved, err := Compose(ToolBrief, TonePractical, false, nil)
	require.NoError(t, err)
	assert.NotContains(t, resolved, orientationBlock)
}

func TestCompose_ProjectContextWithheldDuringEarlyStage(t *testing.T) {
	ctx := ProjectContext{"documentType": "budget", "total": 5000}

	early, err := Compose(ToolBudget, TonePractical, true, ctx)
	require.NoError(t, err)
	assert.NotContains(t, early, "5000", "context must not leak while early-stage")
	assert.NotContains(t, early, "Current project context")

	resolved, err := Compose(ToolBudget, TonePractical, false, ctx)
	require.NoError(t, err)
	assert.Contains(t, resolved, "Current project context")
	assert.Contains(t, resolved, `"total": 5000`)
	assert.Contains(t, resolved, documentGuidance[ToolBudget])
	assert.Contains(t, resolved, "Never invent rates")
}

func TestCompose_DocumentGuidanceSelection(t *testing.T) {
	// documentType in context wins over the active tool
	out, err := Compose(ToolBrief, TonePractical, false, ProjectContext{"documentType": "callsheet"})
	require.NoError(t, err)
	assert.Contains(t, out, documentGuidance[ToolCallSheet])

	// Absent documentType falls back to the tool
	out, err = Compose(ToolBrief, TonePractical, false, ProjectContext{"client": "Acme"})
	require.NoError(t, err)
	assert.Contains(t, out, documentGuidance[ToolBrief])

	// Unknown family gets the default gap-and-risk guidance
	out, err = Compose(ToolShotList, TonePractical, false, ProjectContext{"documentType": "moodboard"})
	require.NoError(t, err)
	assert.Contains(t, out, defaultDocumentGuidance)
}

func TestCompose_UnknownToolTypeFails(t *testing.T) {
	out, err := Compose(ToolType("storyboard"), TonePractical, false, nil)
	assert.Empty(t, out, "no partial composition on failure")

	var invalid *InvalidToolTypeError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "storyboard", invalid.Value)
	assert.Contains(t, err.Error(), "storyboard")
}

func TestCompose_Idempotent(t *testing.T) {
	ctx := ProjectContext{
		"documentType": "budget",
		"total":        5000,
		"crew":         map[string]any{"dp": "confirmed", "gaffer": "open"},
	}

	first, err := Compose(ToolBudget, ToneTechnical, false, ctx)
	require.NoError(t, err)
	second, err := Compose(ToolBudget, ToneTechnical, false, ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical inputs must yield byte-identical output")
}

func TestParseToolType(t *testing.T) {
	for _, tool := range AllToolTypes {
		got, err := ParseToolType(string(tool))
		require.NoError(t, err)
		assert.Equal(t, tool, got)
	}

	_, err := ParseToolType("moodboard")
	var invalid *InvalidToolTypeError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "moodboard", invalid.Value)
}

func TestGuidanceTableCoversAllTools(t *testing.T) {
	assert.NotPanics(t, mustValidateGuidance)
	for _, tool := range AllToolTypes {
		assert.NotEmpty(t, toolGuidance[tool])
	}
}
