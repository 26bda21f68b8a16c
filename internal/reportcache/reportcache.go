// Package reportcache persists normalized findings parsed from external
// SAST reports, keyed by the report's content hash. Re-running over the
// same report skips the normalization pass entirely.
package reportcache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"remedy/internal/finding"
)

// Current schema version - increment when the payload format changes.
const cacheSchemaVersion uint16 = 1

// ErrMiss is returned when no valid cache entry exists for a digest.
var ErrMiss = errors.New("report cache miss")

// payload is the on-disk format.
type payload struct {
	Schema   uint16
	Digest   string
	Findings []cachedFinding
}

type cachedFinding struct {
	RuleID     string
	Path       string
	StartLine  int
	EndLine    int
	Column     int
	SourceTool string
}

// Cache stores normalized findings on disk. Thread-safe for concurrent use.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// New creates a cache rooted at dir. The directory is created on first put.
func New(dir string) *Cache {
	return &Cache{dir: dir}
}

// Digest returns the cache key for a raw report body. Extra parts take
// normalization inputs into the key: findings carry paths resolved against
// the target directory, so the same report normalized for a different
// directory must not share an entry.
func Digest(data []byte, parts ...string) string {
	h := sha256.New()
	h.Write(data)
	for _, part := range parts {
		h.Write([]byte{0})
		h.Write([]byte(part))
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (c *Cache) entryPath(digest string) string {
	return filepath.Join(c.dir, digest+".msgpack")
}

// Get loads the findings cached for the digest. Returns ErrMiss when the
// entry is absent, unreadable, or written by an older schema.
func (c *Cache) Get(digest string) ([]finding.Finding, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.entryPath(digest))
	if err != nil {
		return nil, ErrMiss
	}

	var p payload
	if err := msgpack.Unmarshal(data, &p); err != nil {
		return nil, ErrMiss
	}
	if p.Schema != cacheSchemaVersion || p.Digest != digest {
		return nil, ErrMiss
	}

	out := make([]finding.Finding, 0, len(p.Findings))
	for _, f := range p.Findings {
		out = append(out, finding.Finding{
			RuleID:     f.RuleID,
			Path:       f.Path,
			StartLine:  f.StartLine,
			EndLine:    f.EndLine,
			Column:     f.Column,
			SourceTool: f.SourceTool,
		})
	}
	return out, nil
}

// Put stores the findings for the digest, replacing any previous entry.
func (c *Cache) Put(digest string, findings []finding.Finding) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("reportcache: %w", err)
	}

	p := payload{
		Schema:   cacheSchemaVersion,
		Digest:   digest,
		Findings: make([]cachedFinding, 0, len(findings)),
	}
	for _, f := range findings {
		p.Findings = append(p.Findings, cachedFinding{
			RuleID:     f.RuleID,
			Path:       f.Path,
			StartLine:  f.StartLine,
			EndLine:    f.EndLine,
			Column:     f.Column,
			SourceTool: f.SourceTool,
		})
	}

	data, err := msgpack.Marshal(&p)
	if err != nil {
		return fmt.Errorf("reportcache: marshal: %w", err)
	}

	tmp := c.entryPath(digest) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("reportcache: %w", err)
	}
	if err := os.Rename(tmp, c.entryPath(digest)); err != nil {
		return fmt.Errorf("reportcache: %w", err)
	}
	return nil
}
