package domain

import "context"

// PresetRepository defines persistence for presets.
type PresetRepository interface {
	Create(ctx context.Context, preset *Preset) error
	GetByID(ctx context.Context, id string) (*Preset, error)
	List(ctx context.Context) ([]Preset, error)
	Update(ctx context.Context, preset *Preset) error
	Delete(ctx context.Context, id string) error
}

// PromptRepository defines persistence for saved prompts.
type PromptRepository interface {
	Create(ctx context.Context, prompt *SavedPrompt) error
	GetByID(ctx context.Context, id string) (*SavedPrompt, error)
	List(ctx context.Context) ([]SavedPrompt, error)
	Delete(ctx context.Context, id string) error
}
