// Package archive resolves product names to archive file-system paths
// through the local SQLite path registry maintained alongside the archive.
package archive

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/nadc-tools/inquire/internal/catalog"
)

// ErrNotArchived is returned when a product name has no path registry entry.
var ErrNotArchived = errors.New("product not in path registry")

// DefaultRegistryPath is the conventional registry location for an
// instrument: /<INSTRUMENT>/share/db/sron_<db>.db.
func DefaultRegistryPath(p *catalog.Profile) string {
	return fmt.Sprintf("/%s/share/db/sron_%s.db", strings.ToUpper(p.Database), p.Database)
}

// Resolver answers path lookups against one instrument's registry.
type Resolver struct {
	db      *sql.DB
	profile *catalog.Profile
}

// Open opens the registry database read-only.
func Open(path string, p *catalog.Profile) (*Resolver, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open path registry %s: %w", path, err)
	}
	return &Resolver{db: db, profile: p}, nil
}

// Close releases the registry handle.
func (r *Resolver) Close() error { return r.db.Close() }

// PathFor returns the full archive path of a product, with the compression
// suffix appended when the stored copy is gzipped.
func (r *Resolver) PathFor(name string) (string, error) {
	level, err := r.profile.LevelForProduct(name)
	if err != nil {
		return "", err
	}
	meta, err := r.profile.MetaTable(level)
	if err != nil {
		return "", err
	}

	var (
		dir, stored string
		compression int
	)
	row := r.db.QueryRow("SELECT path,name,compression FROM "+meta+" WHERE name=?", name)
	if err := row.Scan(&dir, &stored, &compression); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: %s", ErrNotArchived, name)
		}
		return "", fmt.Errorf("path lookup for %s: %w", name, err)
	}

	path := dir + "/" + stored
	if compression != 0 {
		path += ".gz"
	}
	return path, nil
}
