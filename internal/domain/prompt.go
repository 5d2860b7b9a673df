package domain

import (
	"time"

	"promptline/internal/promptline"
)

// DefaultPromptName is assigned to saved prompts created without a name.
const DefaultPromptName = "Untitled Prompt"

// Preset is a named prompt record users start new prompts from.
type Preset struct {
	ID        string
	Name      string
	Record    promptline.Record
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SavedPrompt is a named record persisted together with its compiled line.
type SavedPrompt struct {
	ID         string
	Name       string
	Record     promptline.Record
	PromptLine string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DisplayName returns the prompt name, falling back to DefaultPromptName.
func (p SavedPrompt) DisplayName() string {
	if p.Name == "" {
		return DefaultPromptName
	}
	return p.Name
}
