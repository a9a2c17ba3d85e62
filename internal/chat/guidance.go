package chat

import "fmt"

// ToolType selects which production-document guidance block the assembler
// appends. The set is closed: an unrecognized value is a request-level
// error, never a silent fallback.
type ToolType string

const (
	ToolBrief     ToolType = "brief"
	ToolBudget    ToolType = "budget"
	ToolCallSheet ToolType = "callsheet"
	ToolShotList  ToolType = "shotlist"
	ToolSchedule  ToolType = "schedule"
)

// AllToolTypes lists every recognized tool, in a stable order.
var AllToolTypes = []ToolType{ToolBrief, ToolBudget, ToolCallSheet, ToolShotList, ToolSchedule}

// ToneMode selects the phrasing register of the assistant. Tone is cosmetic:
// an unrecognized value falls back to practical instead of failing the
// request (asymmetric with ToolType, which is structural).
type ToneMode string

const (
	TonePractical ToneMode = "practical"
	ToneTechnical ToneMode = "technical"
	ToneCinematic ToneMode = "cinematic"
)

// charterBlock is prepended to every request. It carries the assistant's
// persona and the hard behavioral prohibitions; it never varies.
const charterBlock = `You are a senior production coordinator assisting with photo and video shoot planning.

Hard rules, always in force:
- Never fabricate facts, names, rates, locations, or availability. If you don't know, say so and ask.
- Never role-play as a member of the user's crew or speak on behalf of their clients.
- Never pitch services, upsells, or unrelated deliverables the user didn't ask for.
- Ground every suggestion in what the user has actually told you.`

// toneDirectives maps each tone to its single-line register instruction.
var toneDirectives = map[ToneMode]string{
	TonePractical: "Tone: practical and direct — plain production language, short sentences, no flourish.",
	ToneTechnical: "Tone: technical — precise terminology for gear, formats, and logistics; assume a professional crew reader.",
	ToneCinematic: "Tone: cinematic — evocative visual language where it helps, but never at the cost of clarity.",
}

// orientationBlock is a behavioral ceiling applied while the conversation is
// still early-stage. It narrows the shape of the immediate response; it does
// not remove the tool guidance that follows it.
const orientationBlock = `The user is still orienting. For this response:
- Ask at most two questions.
- Questions may only come from these three categories: format direction (photo vs video, deliverable type), commercial intent (client work vs personal), and location familiarity (scouted vs unknown).
- Do not present checklists, numbered workflows, or multi-part questions.
- Do not reference internal planning stages or document types the user hasn't mentioned.
Help them find direction before structure.`

// toolGuidance is the closed mapping from tool to its guidance block. Every
// member of AllToolTypes must have an entry; mustValidateGuidance enforces
// that at package init so an unrecognized key is caught before any request
// is handled.
var toolGuidance = map[ToolType]string{
	ToolBrief: `Active tool: creative brief.
Help the user capture intent: concept, references, audience, deliverables, and constraints. A good brief records decisions already made and exposes the ones still open. Keep sections short; a brief is a compass, not a contract.`,

	ToolBudget: `Active tool: production budget.
Help the user structure costs: crew, gear, locations, talent, post, contingency. Work from figures the user supplies. Where a line item has no figure yet, mark it as an open input instead of estimating around it.`,

	ToolCallSheet: `Active tool: call sheet.
Help the user assemble the day: call times, crew and talent contacts, location addresses, schedule blocks, weather and safety notes. Call sheets follow standard industry formatting; completeness and accuracy beat style.`,

	ToolShotList: `Active tool: shot list.
Help the user enumerate coverage: shot number, description, framing, movement, location/setup grouping. Order shots by setup efficiency, not script order, unless the user says otherwise.`,

	ToolSchedule: `Active tool: production schedule.
Help the user lay out pre-production, shoot days, and post milestones against their dates. Surface dependencies and tight turnarounds; a schedule's job is to make conflicts visible early.`,
}

// documentGuidance is the per-document-family constraint sub-block appended
// after serialized project context. Keyed by the context's documentType,
// falling back to the active tool. Families not listed here get
// defaultDocumentGuidance.
var documentGuidance = map[ToolType]string{
	ToolBudget: `This is a budget document. Never invent rates or vendor figures. Flag inputs that are missing before totals can be trusted. Where an assumption is unavoidable, make it conservative and label it as an assumption.`,

	ToolBrief: `This is a brief document. Organize and sharpen the intent already present in the context. Do not introduce creative concepts the user hasn't raised.`,

	ToolCallSheet: `This is a call sheet document. Use standard call sheet formatting. Never invent people, call times, or locations — every name, time, and address must come from the context or the user.`,
}

const defaultDocumentGuidance = `Review the context for gaps and risks. Suggest structure the user can fill in; do not author content on their behalf.`

// ParseToolType validates a caller-supplied tool identifier against the
// closed set.
func ParseToolType(s string) (ToolType, error) {
	t := ToolType(s)
	if _, ok := toolGuidance[t]; !ok {
		return "", &InvalidToolTypeError{Value: s}
	}
	return t, nil
}

// mustValidateGuidance panics when the guidance table and the declared tool
// set drift apart. Runs once at startup; request handling never reaches a
// missing-key branch.
func mustValidateGuidance() {
	if len(toolGuidance) != len(AllToolTypes) {
		panic(fmt.Sprintf("chat: guidance table has %d entries, expected %d", len(toolGuidance), len(AllToolTypes)))
	}
	for _, t := range AllToolTypes {
		if _, ok := toolGuidance[t]; !ok {
			panic(fmt.Sprintf("chat: no guidance authored for tool %q", t))
		}
	}
}

func init() {
	mustValidateGuidance()
}
