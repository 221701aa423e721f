package watchlist

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

// seedMinEntities is the threshold below which EnsureReady reseeds the store.
const seedMinEntities = 20

type seedFile struct {
	Entities []seedEntity `yaml:"entities"`
}

type seedEntity struct {
	FullName string `yaml:"full_name"`
	IDNumber string `yaml:"id_number"`
	Address  string `yaml:"address"`
	Email    string `yaml:"email"`
	Notes    string `yaml:"notes"`
}

func loadSeedEntities() ([]seedEntity, error) {
	var f seedFile
	if err := yaml.Unmarshal(seedYAML, &f); err != nil {
		return nil, fmt.Errorf("parsing embedded seed data: %w", err)
	}
	if len(f.Entities) < seedMinEntities {
		return nil, fmt.Errorf("embedded seed data has %d entities, need at least %d", len(f.Entities), seedMinEntities)
	}
	return f.Entities, nil
}

// CanonicalText is the concatenation embedded for an entity at seed time.
// The same field order is used for query embeddings so the two live in a
// comparable space.
func CanonicalText(fullName, idNumber, address, email string) string {
	return strings.Join([]string{fullName, idNumber, address, email}, " | ")
}

// QueryText joins the supplied non-empty query fields for embedding.
// Returns "" when nothing was supplied, in which case the vector strategy
// has no input and is skipped.
func QueryText(q Query) string {
	parts := make([]string, 0, 4)
	for _, s := range []string{q.Name, q.IDNumber, q.Address, q.Email} {
		if strings.TrimSpace(s) != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " | ")
}
