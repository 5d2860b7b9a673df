package repo

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"promptline/internal/domain"
	"promptline/internal/domain/jsoncfg"
	"promptline/internal/promptline"
)

func encodeRecord(r promptline.Record) ([]byte, error) {
	raw, err := json.Marshal(jsoncfg.FromRecord(r))
	if err != nil {
		return nil, fmt.Errorf("encode prompt: %w", err)
	}
	return raw, nil
}

func decodeRecord(raw []byte) (promptline.Record, error) {
	var p jsoncfg.PromptJSON
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &p); err != nil {
			return promptline.Record{}, fmt.Errorf("decode prompt: %w", err)
		}
	}
	p.Normalize()
	return p.ToRecord(), nil
}

// checkID rejects ids Postgres would refuse to cast to uuid; such ids can
// never exist, so they are reported as not found.
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotFound
	}
	return nil
}
