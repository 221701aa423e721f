package policy

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"gopkg.in/yaml.v3"

	docotel "github.com/docugate-io/docugate/internal/otel"
)

var tracer = docotel.Tracer("github.com/docugate-io/docugate/internal/policy")

// ErrPolicyNotFound is returned when neither a source-specific policy nor the
// default policy exists.
var ErrPolicyNotFound = errors.New("no policy document found")

var unsafeSourceChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// sanitizeSourceID maps a raw source_id to a safe filename stem so a caller
// cannot escape the policy directory.
func sanitizeSourceID(sourceID string) string {
	safe := unsafeSourceChars.ReplaceAllString(sourceID, "_")
	if safe == "" || safe == "." || safe == ".." {
		return "default"
	}
	return safe
}

type cacheEntry struct {
	policy  *Policy
	path    string
	modTime time.Time
}

// Source loads named policy documents from a directory, one YAML file per
// source_id, with a single default.yaml fallback. Loaded policies are cached
// per source_id and transparently reloaded when the backing file's mtime or
// resolved path changes, so policy edits take effect without a restart.
//
// Policies are immutable snapshots: a reload swaps the whole cache entry, and
// concurrent reloads of the same source_id are safe to race (last writer
// wins).
type Source struct {
	dir         string
	defaultName string

	mu    sync.RWMutex
	cache map[string]*cacheEntry
}

// NewSource creates a policy source over dir. defaultName is the fallback
// document filename (e.g. "default.yaml").
func NewSource(dir, defaultName string) *Source {
	return &Source{
		dir:         dir,
		defaultName: defaultName,
		cache:       make(map[string]*cacheEntry),
	}
}

// Load returns the policy for sourceID, reading <dir>/<sourceID>.yaml and
// falling back to the default document. Returns ErrPolicyNotFound when
// neither exists.
func (s *Source) Load(ctx context.Context, sourceID string) (*Policy, error) {
	_, span := tracer.Start(ctx, "policy.load")
	defer span.End()
	span.SetAttributes(attribute.String("policy.source_id", sourceID))

	path, modTime, err := s.resolve(sourceID)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	cached, ok := s.cache[sourceID]
	s.mu.RUnlock()
	if ok && cached.path == path && cached.modTime.Equal(modTime) {
		span.SetAttributes(attribute.Bool("policy.cache_hit", true))
		return cached.policy, nil
	}

	pol, err := s.read(path, sourceID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[sourceID] = &cacheEntry{policy: pol, path: path, modTime: modTime}
	s.mu.Unlock()

	if ok {
		log.Debug().
			Str("source_id", sourceID).
			Str("path", path).
			Msg("policy reloaded after modification")
	}
	span.SetAttributes(
		attribute.Bool("policy.cache_hit", false),
		attribute.String("policy.path", path),
	)
	return pol, nil
}

// resolve picks the backing file for sourceID: the source-specific document
// when present, else the default. Stats the file so the caller can detect
// staleness.
func (s *Source) resolve(sourceID string) (path string, modTime time.Time, err error) {
	primary := filepath.Join(s.dir, sanitizeSourceID(sourceID)+".yaml")
	if info, err := os.Stat(primary); err == nil && !info.IsDir() {
		return primary, info.ModTime(), nil
	}

	fallback := filepath.Join(s.dir, s.defaultName)
	if info, err := os.Stat(fallback); err == nil && !info.IsDir() {
		return fallback, info.ModTime(), nil
	}

	return "", time.Time{}, fmt.Errorf("source_id %q: %w", sourceID, ErrPolicyNotFound)
}

// read parses one policy document into a fresh immutable snapshot.
func (s *Source) read(path, sourceID string) (*Policy, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to read policy file")
		return nil, fmt.Errorf("reading policy file %s: %w", path, err)
	}

	var pol Policy
	if err := yaml.Unmarshal(content, &pol); err != nil {
		return nil, fmt.Errorf("parsing policy YAML %s: %w", path, err)
	}
	pol.SourceID = sourceID
	pol.OriginPath = path
	return &pol, nil
}
