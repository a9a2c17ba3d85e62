package templates

import (
	"fmt"
	"sort"

	"github.com/shotflow/internal/chat"
)

// StarterDocument names one document a template seeds into a new project.
type StarterDocument struct {
	DocType chat.ToolType `json:"doc_type"`
	Title   string        `json:"title"`
}

// Template is a project starting point: which documents a new project of
// this kind begins with. Templates are static data, not user-editable.
type Template struct {
	Key         string            `json:"key"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Documents   []StarterDocument `json:"documents"`
}

var registry = map[string]Template{
	"commercial": {
		Key:         "commercial",
		Name:        "Commercial",
		Description: "Client-facing ad or brand spot",
		Documents: []StarterDocument{
			{DocType: chat.ToolBrief, Title: "Creative brief"},
			{DocType: chat.ToolBudget, Title: "Production budget"},
			{DocType: chat.ToolShotList, Title: "Shot list"},
			{DocType: chat.ToolSchedule, Title: "Production schedule"},
			{DocType: chat.ToolCallSheet, Title: "Shoot day call sheet"},
		},
	},
	"music_video": {
		Key:         "music_video",
		Name:        "Music Video",
		Description: "Artist performance and narrative coverage",
		Documents: []StarterDocument{
			{DocType: chat.ToolBrief, Title: "Treatment brief"},
			{DocType: chat.ToolShotList, Title: "Shot list"},
			{DocType: chat.ToolSchedule, Title: "Shoot schedule"},
			{DocType: chat.ToolCallSheet, Title: "Call sheet"},
		},
	},
	"documentary": {
		Key:         "documentary",
		Name:        "Documentary",
		Description: "Interview and verité coverage over multiple days",
		Documents: []StarterDocument{
			{DocType: chat.ToolBrief, Title: "Story brief"},
			{DocType: chat.ToolSchedule, Title: "Production schedule"},
			{DocType: chat.ToolBudget, Title: "Budget"},
		},
	},
	"editorial": {
		Key:         "editorial",
		Name:        "Editorial",
		Description: "Magazine or lookbook photo shoot",
		Documents: []StarterDocument{
			{DocType: chat.ToolBrief, Title: "Concept brief"},
			{DocType: chat.ToolShotList, Title: "Shot list"},
			{DocType: chat.ToolCallSheet, Title: "Call sheet"},
		},
	},
	"wedding": {
		Key:         "wedding",
		Name:        "Wedding",
		Description: "Full-day event coverage",
		Documents: []StarterDocument{
			{DocType: chat.ToolShotList, Title: "Must-have shot list"},
			{DocType: chat.ToolSchedule, Title: "Day-of timeline"},
		},
	},
}

// Get looks up a template by key.
func Get(key string) (Template, error) {
	t, ok := registry[key]
	if !ok {
		return Template{}, fmt.Errorf("unknown project template %q", key)
	}
	return t, nil
}

// List returns all templates sorted by key.
func List() []Template {
	out := make([]Template, 0, len(registry))
	for _, t := range registry {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
