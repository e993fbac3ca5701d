package query

import (
	"github.com/nadc-tools/inquire/internal/catalog"
	"github.com/nadc-tools/inquire/internal/filter"
)

// Tables is the set of canonical tables participating in one inquiry.
type Tables struct {
	Level catalog.Level
	Meta  string
	// State is empty when the instrument has no state table.
	State string
	// TileInfo is set when geolocation rows participate, which is always
	// the case for instruments without a state table.
	TileInfo string
	// Tile is the resolved registry entry for tile output, nil otherwise.
	Tile *catalog.TileTable
}

// Bridge returns the association table linking the state or tile-info table
// to the resolved meta table.
func (t *Tables) Bridge(p *catalog.Profile) string {
	return p.BridgeTable(t.Meta)
}

// GeometryTable returns the table carrying geometry for the given output
// mode. The meta table never carries geometry.
func (t *Tables) GeometryTable(mode filter.OutputMode, p *catalog.Profile) string {
	if mode == filter.OutputTile || t.State == "" {
		return p.TileInfoTable
	}
	return t.State
}

// ResolveTables validates the spec against the profile and determines the
// participating tables.
func ResolveTables(spec *filter.Spec, p *catalog.Profile) (*Tables, error) {
	level, err := spec.Validate(p)
	if err != nil {
		return nil, err
	}

	t := &Tables{Level: level}

	if p.HasStateTable() {
		t.State = p.StateTable
	} else {
		t.TileInfo = p.TileInfoTable
	}

	if spec.OutputMode == filter.OutputTile {
		tile, err := p.Tile(spec.TileKind)
		if err != nil {
			return nil, err
		}
		t.Tile = &tile
		t.TileInfo = p.TileInfoTable
		if tile.MetaTable != "" {
			t.Meta = tile.MetaTable
			return t, nil
		}
	}

	meta, err := p.MetaTable(level)
	if err != nil {
		return nil, err
	}
	t.Meta = meta
	return t, nil
}
