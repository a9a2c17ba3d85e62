package chat

import (
	"encoding/json"
	"fmt"
	"strings"
)

// InvalidToolTypeError is returned when a caller asks for a tool outside the
// recognized set. It carries the offending identifier for the error surface.
type InvalidToolTypeError struct {
	Value string
}

func (e *InvalidToolTypeError) Error() string {
	return fmt.Sprintf("unrecognized tool type %q", e.Value)
}

// ProjectContext is the opaque structured payload describing the current
// project or document. The assembler only serializes it; it never interprets
// any field except documentType (used to select the document sub-block).
type ProjectContext map[string]any

// Compose assembles the instruction block for a completion call.
//
// The layering order is fixed; downstream model behavior depends on it:
//
//  1. charter (invariant persona + prohibitions)
//  2. tone directive (unknown tone falls back to practical)
//  3. orientation constraint, only while early-stage
//  4. tool guidance, always
//  5. serialized project context + document sub-block, only when context was
//     supplied and the conversation is past the early stage
//
// Disclosing project context during ambiguity resolution is forbidden: the
// first response stays free of document and checklist framing.
//
// Compose is a pure function: identical inputs yield byte-identical output.
func Compose(tool ToolType, tone ToneMode, earlyStage bool, projectCtx ProjectContext) (string, error) {
	guidance, ok := toolGuidance[tool]
	if !ok {
		return "", &InvalidToolTypeError{Value: string(tool)}
	}

	directive, ok := toneDirectives[tone]
	if !ok {
		directive = toneDirectives[TonePractical]
	}

	blocks := []string{charterBlock, directive}

	if earlyStage {
		blocks = append(blocks, orientationBlock)
	}

	blocks = append(blocks, guidance)

	if projectCtx != nil && !earlyStage {
		serialized, err := serializeContext(projectCtx)
		if err != nil {
			return "", fmt.Errorf("serializing project context: %w", err)
		}
		blocks = append(blocks,
			"Current project context:\n"+serialized,
			documentGuidanceFor(projectCtx, tool))
	}

	return strings.Join(blocks, "\n\n"), nil
}

// serializeContext renders the context human-readably with stable key
// ordering. encoding/json sorts map keys, which gives the byte-identical
// output Compose promises.
func serializeContext(projectCtx ProjectContext) (string, error) {
	b, err := json.MarshalIndent(projectCtx, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// documentGuidanceFor picks the document-family sub-block. The effective
// document type is the context's documentType field when present, otherwise
// the active tool. Unknown families get the default gap-and-risk guidance.
func documentGuidanceFor(projectCtx ProjectContext, tool ToolType) string {
	effective := tool
	if dt, ok := projectCtx["documentType"].(string); ok && dt != "" {
		effective = ToolType(dt)
	}
	if g, ok := documentGuidance[effective]; ok {
		return g
	}
	return defaultDocumentGuidance
}
