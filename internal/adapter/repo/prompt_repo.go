package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"promptline/internal/domain"
	"promptline/internal/infra"
	"promptline/internal/sqlinline"
)

// PromptRepositoryPG implements domain.PromptRepository using PostgreSQL.
type PromptRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewPromptRepository creates a new saved prompt repo.
func NewPromptRepository(sql infra.SQLExecutor) *PromptRepositoryPG {
	return &PromptRepositoryPG{sql: sql}
}

// Create inserts prompt. An empty name is stored as domain.DefaultPromptName.
func (r *PromptRepositoryPG) Create(ctx context.Context, prompt *domain.SavedPrompt) error {
	if prompt == nil {
		return fmt.Errorf("%w: prompt is required", domain.ErrInvalidPrompt)
	}
	if strings.TrimSpace(prompt.PromptLine) == "" {
		return fmt.Errorf("%w: prompt line is empty", domain.ErrInvalidPrompt)
	}
	if prompt.ID == "" {
		prompt.ID = uuid.NewString()
	}
	payload, err := encodeRecord(prompt.Record)
	if err != nil {
		return err
	}
	row := r.sql.QueryRow(ctx, sqlinline.QInsertPrompt, prompt.ID, strings.TrimSpace(prompt.Name), payload, prompt.PromptLine)
	if err := row.Scan(&prompt.Name, &prompt.CreatedAt, &prompt.UpdatedAt); err != nil {
		return fmt.Errorf("insert prompt: %w", err)
	}
	return nil
}

// GetByID returns the saved prompt with id or domain.ErrNotFound.
func (r *PromptRepositoryPG) GetByID(ctx context.Context, id string) (*domain.SavedPrompt, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	prompt, err := scanPrompt(r.sql.QueryRow(ctx, sqlinline.QSelectPromptByID, id))
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("select prompt: %w", err)
	}
	return prompt, nil
}

// List returns saved prompts, most recently updated first.
func (r *PromptRepositoryPG) List(ctx context.Context) ([]domain.SavedPrompt, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListPrompts)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	defer rows.Close()

	items := []domain.SavedPrompt{}
	for rows.Next() {
		prompt, err := scanPrompt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan prompt: %w", err)
		}
		items = append(items, *prompt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Delete removes the saved prompt with id.
func (r *PromptRepositoryPG) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	tag, err := r.sql.Exec(ctx, sqlinline.QDeletePrompt, id)
	if err != nil {
		return fmt.Errorf("delete prompt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanPrompt(row scanner) (*domain.SavedPrompt, error) {
	var prompt domain.SavedPrompt
	var raw []byte
	if err := row.Scan(&prompt.ID, &prompt.Name, &raw, &prompt.PromptLine, &prompt.CreatedAt, &prompt.UpdatedAt); err != nil {
		return nil, err
	}
	record, err := decodeRecord(raw)
	if err != nil {
		return nil, err
	}
	prompt.Record = record
	return &prompt, nil
}

var _ domain.PromptRepository = (*PromptRepositoryPG)(nil)
