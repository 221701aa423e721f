package watchlist

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	"github.com/docugate-io/docugate/internal/embedding"
	docotel "github.com/docugate-io/docugate/internal/otel"
)

var tracer = docotel.Tracer("github.com/docugate-io/docugate/internal/watchlist")

const schema = `
CREATE TABLE IF NOT EXISTS watchlist_entity (
    entity_id   TEXT PRIMARY KEY,
    full_name   TEXT NOT NULL,
    id_number   TEXT,
    address     TEXT,
    email       TEXT,
    source      TEXT NOT NULL DEFAULT 'LOCAL',
    notes       TEXT,
    embedding   TEXT,
    created_at  TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_watchlist_created_at ON watchlist_entity(created_at);
`

// vectorScanCap bounds how many stored embeddings a single search will score.
const vectorScanCap = 5000

// queryLimit bounds rows returned by the text strategies.
const queryLimit = 10

// Store persists watchlist entities in SQLite. Entities are immutable once
// stored; there is no update path.
type Store struct {
	db *sql.DB
}

// NewStore opens (creating if needed) the watchlist database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening watchlist database: %w", err)
	}
	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		return nil, fmt.Errorf("creating watchlist schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Count returns the number of stored entities.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM watchlist_entity`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting watchlist entities: %w", err)
	}
	return n, nil
}

// EnsureReady idempotently seeds the store with the embedded demo entity set
// when it holds fewer than the seed threshold. Each seed row gets a fresh
// uuid and is upserted, so a concurrent first-use race produces extra rows
// rather than an error. Embedding failures during seeding are logged and the
// entity is stored without a vector (excluded from vector matching).
//
// embedder may be nil, in which case all seed rows are stored without
// embeddings and only the text strategies will match them.
func (s *Store) EnsureReady(ctx context.Context, embedder embedding.Provider) error {
	ctx, span := tracer.Start(ctx, "watchlist.ensure_ready")
	defer span.End()

	count, err := s.Count(ctx)
	if err != nil {
		return err
	}
	if count >= seedMinEntities {
		span.SetAttributes(attribute.Bool("watchlist.seeded", false))
		return nil
	}

	entities, err := loadSeedEntities()
	if err != nil {
		return err
	}

	for _, se := range entities {
		var vec []float64
		if embedder != nil {
			vec, err = embedder.Embed(ctx, CanonicalText(se.FullName, se.IDNumber, se.Address, se.Email))
			if err != nil {
				log.Warn().Err(err).
					Str("full_name", se.FullName).
					Msg("seeding: embedding failed, inserting without vector")
				vec = nil
			}
		}
		if err := s.Insert(ctx, Entity{
			EntityID:  uuid.New().String(),
			FullName:  se.FullName,
			IDNumber:  se.IDNumber,
			Address:   se.Address,
			Email:     se.Email,
			Source:    "SEED",
			Notes:     se.Notes,
			Embedding: vec,
		}); err != nil {
			return err
		}
	}

	span.SetAttributes(
		attribute.Bool("watchlist.seeded", true),
		attribute.Int("watchlist.seed_count", len(entities)),
	)
	log.Info().Int("entities", len(entities)).Msg("watchlist store seeded")
	return nil
}

// Insert upserts one entity keyed by entity_id.
func (s *Store) Insert(ctx context.Context, e Entity) error {
	var embJSON any
	if e.Embedding != nil {
		b, err := json.Marshal(e.Embedding)
		if err != nil {
			return fmt.Errorf("encoding embedding for %s: %w", e.EntityID, err)
		}
		embJSON = string(b)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO watchlist_entity
		 (entity_id, full_name, id_number, address, email, source, notes, embedding, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.EntityID, e.FullName, e.IDNumber, e.Address, e.Email, e.Source, e.Notes, embJSON,
		time.Now().UTC())
	if err != nil {
		return fmt.Errorf("inserting watchlist entity %s: %w", e.EntityID, err)
	}
	return nil
}

// FindByIDNumber returns entities whose id_number equals idNumber,
// case-insensitively.
func (s *Store) FindByIDNumber(ctx context.Context, idNumber string) ([]Entity, error) {
	return s.queryEntities(ctx,
		`SELECT entity_id, full_name, id_number, address, email, source, notes
		 FROM watchlist_entity WHERE LOWER(id_number) = LOWER(?) LIMIT ?`,
		idNumber, queryLimit)
}

// FindByName returns entities whose full_name equals name, case-insensitively.
func (s *Store) FindByName(ctx context.Context, name string) ([]Entity, error) {
	return s.queryEntities(ctx,
		`SELECT entity_id, full_name, id_number, address, email, source, notes
		 FROM watchlist_entity WHERE LOWER(full_name) = LOWER(?) LIMIT ?`,
		name, queryLimit)
}

// FindNameLike returns entities whose full_name contains name as a
// case-insensitive substring.
func (s *Store) FindNameLike(ctx context.Context, name string) ([]Entity, error) {
	return s.queryEntities(ctx,
		`SELECT entity_id, full_name, id_number, address, email, source, notes
		 FROM watchlist_entity WHERE LOWER(full_name) LIKE LOWER(?) LIMIT ?`,
		"%"+name+"%", queryLimit)
}

// AllWithEmbedding returns entities that carry an embedding, most recently
// stored first, capped to bound the cost of a vector scan. Rows whose stored
// vector fails to decode are skipped.
func (s *Store) AllWithEmbedding(ctx context.Context) ([]Entity, error) {
	ctx, span := tracer.Start(ctx, "watchlist.all_with_embedding")
	defer span.End()

	rows, err := s.db.QueryContext(ctx,
		`SELECT entity_id, full_name, id_number, address, email, source, notes, embedding
		 FROM watchlist_entity WHERE embedding IS NOT NULL
		 ORDER BY created_at DESC LIMIT ?`, vectorScanCap)
	if err != nil {
		return nil, fmt.Errorf("querying embedded entities: %w", err)
	}
	defer rows.Close()

	var results []Entity
	for rows.Next() {
		var e Entity
		var embJSON sql.NullString
		if err := rows.Scan(&e.EntityID, &e.FullName, &e.IDNumber, &e.Address, &e.Email,
			&e.Source, &e.Notes, &embJSON); err != nil {
			continue
		}
		if !embJSON.Valid {
			continue
		}
		if err := json.Unmarshal([]byte(embJSON.String), &e.Embedding); err != nil || len(e.Embedding) == 0 {
			continue
		}
		results = append(results, e)
	}
	span.SetAttributes(attribute.Int("watchlist.embedded_entities", len(results)))
	return results, rows.Err()
}

func (s *Store) queryEntities(ctx context.Context, query string, args ...any) ([]Entity, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying watchlist entities: %w", err)
	}
	defer rows.Close()

	var results []Entity
	for rows.Next() {
		var e Entity
		if err := rows.Scan(&e.EntityID, &e.FullName, &e.IDNumber, &e.Address, &e.Email,
			&e.Source, &e.Notes); err != nil {
			log.Debug().Err(err).Msg("skipping unscannable watchlist row")
			continue
		}
		results = append(results, e)
	}
	return results, rows.Err()
}
