// Package catalog describes the instrument families served by the archive
// database: their table layout, product-name conventions and version-string
// encoding. The query engine is parametrized over Profile; nothing outside
// this package hardcodes an instrument.
package catalog

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrUnknownProductLevel is returned when a product name does not match
	// any recognized level prefix of the instrument.
	ErrUnknownProductLevel = errors.New("unknown product level")

	// ErrUnknownTileKind is returned when a tile kind does not resolve
	// through the instrument's tile registry.
	ErrUnknownTileKind = errors.New("unknown tile kind")
)

// Level is a product processing level.
type Level int

const (
	Level0 Level = 0
	Level1 Level = 1
	Level2 Level = 2
)

// ObservationMode is a measurement category selecting a fixed set of state IDs.
type ObservationMode string

const (
	ModeNadir       ObservationMode = "nadir"
	ModeLimb        ObservationMode = "limb"
	ModeOccultation ObservationMode = "occultation"
	ModeMonitor     ObservationMode = "monitor"
)

// TimeColumn identifies how a table stores observation time.
type TimeColumn int

const (
	// TimeTimestamp means the table carries a dateTimeStart timestamp column.
	TimeTimestamp TimeColumn = iota
	// TimeJulianDay means the table carries a real-valued day count since
	// the profile epoch.
	TimeJulianDay
)

// TileTable describes one entry of the per-instrument tile registry.
type TileTable struct {
	// Table is the physical table holding the geophysical columns.
	Table string
	// MatchTable is the association table joining tile-info rows to Table.
	MatchTable string
	// ExtraColumns are the geophysical columns projected in addition to the
	// common tile-info columns.
	ExtraColumns []string
	// JulianKeyed marks registries whose variable table is keyed by
	// julianDay instead of the tile-info primary key.
	JulianKeyed bool
	// MetaTable overrides the profile meta table for this tile kind.
	MetaTable string
}

// namePrefix maps a product-name pattern to a level. Suffix patterns cover
// short historical names that encode the level in their last character.
type namePrefix struct {
	prefix string
	suffix string
	level  Level
}

// Profile is the static, read-only description of one instrument family.
type Profile struct {
	Name     string
	Database string

	metaTables map[Level]string
	namePrefix []namePrefix

	// StateTable is empty for instruments without per-state metadata.
	StateTable string
	// TileInfoTable carries per-pixel geolocation rows.
	TileInfoTable string
	// BridgeOwner is the table whose primary keys fill the bridge array
	// column (pk_stateinfo or pk_tileinfo).
	BridgeOwner string
	// TileInfoTime tells whether tile-info rows are keyed by timestamp or
	// by julian day.
	TileInfoTime TimeColumn

	// MinYear is the first year with archived data.
	MinYear int
	// Epoch is the reference date for julian day-count columns.
	Epoch time.Time

	stateIDsByMode map[ObservationMode][]int
	tiles          map[string]TileTable
	tileOrder      []string
}

// MetaTable returns the meta table for a level.
func (p *Profile) MetaTable(l Level) (string, error) {
	tbl, ok := p.metaTables[l]
	if !ok {
		return "", fmt.Errorf("%w: level %d not supported by %s", ErrUnknownProductLevel, l, p.Name)
	}
	return tbl, nil
}

// Levels returns the supported levels in ascending order.
func (p *Profile) Levels() []Level {
	out := make([]Level, 0, len(p.metaTables))
	for _, l := range []Level{Level0, Level1, Level2} {
		if _, ok := p.metaTables[l]; ok {
			out = append(out, l)
		}
	}
	return out
}

// LevelForProduct derives the processing level from a product name.
func (p *Profile) LevelForProduct(name string) (Level, error) {
	for _, np := range p.namePrefix {
		if np.prefix != "" && strings.HasPrefix(name, np.prefix) {
			return np.level, nil
		}
		if np.suffix != "" && strings.HasSuffix(name, np.suffix) {
			return np.level, nil
		}
	}
	return 0, fmt.Errorf("%w: product %q does not match any %s naming rule", ErrUnknownProductLevel, name, p.Name)
}

// HasStateTable reports whether the instrument records per-state metadata.
func (p *Profile) HasStateTable() bool { return p.StateTable != "" }

// BridgeTable returns the many-to-many association table linking the bridge
// owner to the given meta table.
func (p *Profile) BridgeTable(metaTable string) string {
	if p.HasStateTable() {
		return p.StateTable + "_" + metaTable
	}
	return p.TileInfoTable + "_" + metaTable
}

// StateIDs returns the state IDs selected by an observation mode.
func (p *Profile) StateIDs(mode ObservationMode) ([]int, bool) {
	ids, ok := p.stateIDsByMode[mode]
	return ids, ok
}

// Tile resolves a tile kind through the registry.
func (p *Profile) Tile(kind string) (TileTable, error) {
	t, ok := p.tiles[kind]
	if !ok {
		return TileTable{}, fmt.Errorf("%w: %q (valid: %s)", ErrUnknownTileKind, kind, strings.Join(p.tileOrder, ", "))
	}
	return t, nil
}

// TileKinds returns the registered tile kinds in declaration order.
func (p *Profile) TileKinds() []string { return p.tileOrder }

// ProcStagePos is the 1-based position of the processing-stage digit inside
// a stored software-version string for the given level.
func ProcStagePos(l Level) int { return int(l) + 1 }

// JulianDay converts an instant to the real-valued day count used by
// julian-keyed columns of this instrument.
func (p *Profile) JulianDay(t time.Time) float64 {
	return t.Sub(p.Epoch).Seconds() / 86400.0
}
