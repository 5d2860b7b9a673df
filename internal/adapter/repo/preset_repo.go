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

// PresetRepositoryPG implements domain.PresetRepository using PostgreSQL.
type PresetRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewPresetRepository creates a new preset repo.
func NewPresetRepository(sql infra.SQLExecutor) *PresetRepositoryPG {
	return &PresetRepositoryPG{sql: sql}
}

// Create inserts preset, assigning an id when it has none.
func (r *PresetRepositoryPG) Create(ctx context.Context, preset *domain.Preset) error {
	if err := validatePreset(preset); err != nil {
		return err
	}
	if preset.ID == "" {
		preset.ID = uuid.NewString()
	}
	payload, err := encodeRecord(preset.Record)
	if err != nil {
		return err
	}
	row := r.sql.QueryRow(ctx, sqlinline.QInsertPreset, preset.ID, preset.Name, payload)
	if err := row.Scan(&preset.CreatedAt, &preset.UpdatedAt); err != nil {
		if infra.IsUniqueViolation(err) {
			return fmt.Errorf("%w: preset %q", domain.ErrConflict, preset.Name)
		}
		return fmt.Errorf("insert preset: %w", err)
	}
	return nil
}

// Upsert inserts preset or replaces the prompt of the preset with the same name.
func (r *PresetRepositoryPG) Upsert(ctx context.Context, preset *domain.Preset) error {
	if err := validatePreset(preset); err != nil {
		return err
	}
	payload, err := encodeRecord(preset.Record)
	if err != nil {
		return err
	}
	row := r.sql.QueryRow(ctx, sqlinline.QUpsertPresetByName, uuid.NewString(), preset.Name, payload)
	if err := row.Scan(&preset.ID, &preset.CreatedAt, &preset.UpdatedAt); err != nil {
		return fmt.Errorf("upsert preset: %w", err)
	}
	return nil
}

// GetByID returns the preset with id or domain.ErrNotFound.
func (r *PresetRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Preset, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	row := r.sql.QueryRow(ctx, sqlinline.QSelectPresetByID, id)
	preset, err := scanPreset(row)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("select preset: %w", err)
	}
	return preset, nil
}

// List returns all presets ordered by name.
func (r *PresetRepositoryPG) List(ctx context.Context) ([]domain.Preset, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListPresets)
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	defer rows.Close()

	items := []domain.Preset{}
	for rows.Next() {
		preset, err := scanPreset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan preset: %w", err)
		}
		items = append(items, *preset)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Update replaces the name and prompt of an existing preset.
func (r *PresetRepositoryPG) Update(ctx context.Context, preset *domain.Preset) error {
	if err := checkID(preset.ID); err != nil {
		return err
	}
	if err := validatePreset(preset); err != nil {
		return err
	}
	payload, err := encodeRecord(preset.Record)
	if err != nil {
		return err
	}
	row := r.sql.QueryRow(ctx, sqlinline.QUpdatePreset, preset.ID, preset.Name, payload)
	if err := row.Scan(&preset.CreatedAt, &preset.UpdatedAt); err != nil {
		switch {
		case infra.IsNoRows(err):
			return domain.ErrNotFound
		case infra.IsUniqueViolation(err):
			return fmt.Errorf("%w: preset %q", domain.ErrConflict, preset.Name)
		}
		return fmt.Errorf("update preset: %w", err)
	}
	return nil
}

// Delete removes the preset with id.
func (r *PresetRepositoryPG) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	tag, err := r.sql.Exec(ctx, sqlinline.QDeletePreset, id)
	if err != nil {
		return fmt.Errorf("delete preset: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPreset(row scanner) (*domain.Preset, error) {
	var preset domain.Preset
	var raw []byte
	if err := row.Scan(&preset.ID, &preset.Name, &raw, &preset.CreatedAt, &preset.UpdatedAt); err != nil {
		return nil, err
	}
	record, err := decodeRecord(raw)
	if err != nil {
		return nil, err
	}
	preset.Record = record
	return &preset, nil
}

func validatePreset(preset *domain.Preset) error {
	if preset == nil {
		return fmt.Errorf("%w: preset is required", domain.ErrInvalidPreset)
	}
	preset.Name = strings.TrimSpace(preset.Name)
	if preset.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidPreset)
	}
	return nil
}

var _ domain.PresetRepository = (*PresetRepositoryPG)(nil)
