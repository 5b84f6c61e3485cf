package services

import (
	"autorag/internal/models"

	prose "github.com/jdkato/prose/v2"
)

// maxEntityTextLen caps how much text goes through NLP tagging; entity
// enrichment is best-effort and long documents dominate tagging time.
const maxEntityTextLen = 100_000

// ExtractEntities runs named-entity recognition over document text and
// returns deduplicated entities with their labels.
func ExtractEntities(text string) ([]models.Entity, error) {
	if text == "" {
		return nil, nil
	}
	if len(text) > maxEntityTextLen {
		text = text[:maxEntityTextLen]
	}

	doc, err := prose.NewDocument(text, prose.WithExtraction(true))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	entities := make([]models.Entity, 0)
	for _, ent := range doc.Entities() {
		key := ent.Label + "\x00" + ent.Text
		if seen[key] {
			continue
		}
		seen[key] = true
		entities = append(entities, models.Entity{
			Text:  ent.Text,
			Label: ent.Label,
		})
	}

	return entities, nil
}
