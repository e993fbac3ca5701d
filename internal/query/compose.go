package query

import (
	"fmt"
	"strings"

	"github.com/nadc-tools/inquire/internal/catalog"
	"github.com/nadc-tools/inquire/internal/filter"
)

// stateColumns is the full projection of a state-output query.
var stateColumns = []string{
	"stateID", "absOrbit", "dateTimeStart", "muSecStart", "dateTimeStop",
	"muSecStop", "timeLine", "orbitPhase", "softVersion", "obmTemp",
	"detTemp", "pmdTemp", "ST_asText(tile)",
}

// Composer builds the query plan for one inquiry from the resolved tables
// and predicate set.
type Composer struct {
	Profile *catalog.Profile
	Tables  *Tables
	Preds   *PredicateSet
}

// Compose decides the relational shape from the output mode and assembles
// the plan.
func (c *Composer) Compose(spec *filter.Spec) (*Plan, error) {
	switch spec.OutputMode {
	case filter.OutputFilePath, filter.OutputFileName, filter.OutputProduct:
		return c.metaPlan([]string{"name", "softVersion"})
	case filter.OutputMeta:
		return c.metaPlan([]string{"*"})
	case filter.OutputState:
		return c.statePlan(spec)
	case filter.OutputTile:
		return c.tilePlan()
	default:
		return nil, fmt.Errorf("unsupported output mode %q", spec.OutputMode)
	}
}

// metaPlan selects from the meta table directly. Predicates on the state or
// tile-info side restrict the meta rows through the array-valued bridge.
func (c *Composer) metaPlan(projection []string) (*Plan, error) {
	t := c.Tables

	var where []string
	if sub := c.bridgeRestriction(); sub != "" {
		where = append(where, sub)
	}
	if w := c.Preds.Where(t.Meta); w != "" {
		where = append(where, w)
	}

	return &Plan{
		Projection: projection,
		From:       t.Meta,
		Where:      strings.Join(where, " AND "),
		OrderBy:    c.metaOrder(),
	}, nil
}

// bridgeRestriction returns the pk_meta membership clause produced by
// predicates on the bridged side, or "" when none exist.
func (c *Composer) bridgeRestriction() string {
	t := c.Tables
	bridge := t.Bridge(c.Profile)

	if t.State != "" {
		w := c.Preds.Where(t.State)
		if w == "" {
			return ""
		}
		return fmt.Sprintf(
			"pk_meta IN (SELECT DISTINCT fk_meta FROM %s WHERE fk_stateinfo && ARRAY(SELECT pk_stateinfo FROM %s WHERE %s))",
			bridge, t.State, w)
	}

	w := c.Preds.Where(c.Profile.TileInfoTable)
	if w == "" {
		return ""
	}
	return fmt.Sprintf(
		"pk_meta IN (SELECT DISTINCT fk_meta FROM %s WHERE fk_tileinfo && ARRAY(SELECT pk_tileinfo FROM %s WHERE %s))",
		bridge, c.Profile.TileInfoTable, w)
}

func (c *Composer) metaOrder() []string {
	if c.Tables.State != "" {
		return []string{"absOrbit", "procStage", "softVersion"}
	}
	return []string{"absOrbit", "softVersion"}
}

// statePlan selects from the state table. Meta predicates restrict the state
// rows by unnesting the bridge array; rows whose version substring marks
// them as not yet processed are rejected unless the caller filtered on
// version explicitly.
func (c *Composer) statePlan(spec *filter.Spec) (*Plan, error) {
	t := c.Tables
	if t.State == "" {
		return nil, fmt.Errorf("state output not supported for %s", c.Profile.Name)
	}

	var where []string
	if mw := c.Preds.Where(t.Meta); mw != "" {
		bridge := t.Bridge(c.Profile)
		where = append(where, fmt.Sprintf(
			"pk_stateinfo IN (SELECT unnest(fk_stateinfo) FROM %s LEFT JOIN %s ON %s.pk_meta=%s.fk_meta WHERE %s)",
			t.Meta, bridge, t.Meta, bridge, mw))
	}
	sw := c.Preds.Where(t.State)
	if sw != "" {
		where = append(where, sw)
	}
	if !strings.Contains(sw, "softVersion") {
		pos := catalog.ProcStagePos(t.Level)
		where = append(where, fmt.Sprintf("substr(%s.softVersion,%d,1) <> '0'", t.State, pos))
	}

	return &Plan{
		Projection: stateColumns,
		From:       t.State,
		Where:      strings.Join(where, " AND "),
		OrderBy:    []string{"dateTimeStart"},
	}, nil
}

// tilePlan composes filtered tile-info rows with the kind-specific variable
// table, through the match table when the registry defines one. Tile output
// always needs at least one restriction; an unbounded scan over tile rows is
// refused.
func (c *Composer) tilePlan() (*Plan, error) {
	if c.Preds.Empty() {
		return nil, fmt.Errorf("%w: tile output needs at least one selection", ErrNoQueryProduced)
	}
	t := c.Tables
	tile := t.Tile

	ti, err := c.tileInfoSubquery()
	if err != nil {
		return nil, err
	}

	projection := append(c.tileInfoColumns(), tile.ExtraColumns...)

	if tile.MatchTable != "" {
		varSub := "SELECT * FROM " + tile.Table
		if mw := c.Preds.Where(t.Meta); mw != "" {
			varSub += fmt.Sprintf(" WHERE fk_meta IN (SELECT pk_meta FROM %s WHERE %s)", t.Meta, mw)
		}
		return &Plan{
			Projection: projection,
			From:       fmt.Sprintf("(%s) ti, %s, (%s) var", ti, tile.MatchTable, varSub),
			Where:      "pk_tileinfo = fk_tileinfo AND pk_tile = fk_tile",
			OrderBy:    []string{"julianDay"},
		}, nil
	}

	return &Plan{
		Projection: projection,
		From:       fmt.Sprintf("(%s) ti, %s", ti, tile.Table),
		Where:      "pk_tileinfo = fk_tileinfo",
		OrderBy:    []string{"julianDay"},
	}, nil
}

// tileInfoSubquery restricts tile-info rows by the meta, state and tile-info
// predicates of the inquiry.
func (c *Composer) tileInfoSubquery() (string, error) {
	t := c.Tables
	info := c.Profile.TileInfoTable

	var where []string
	if mw := c.Preds.Where(t.Meta); mw != "" {
		where = append(where, c.tileMetaRestriction(mw))
	}
	if t.State != "" {
		if sw := c.Preds.Where(t.State); sw != "" {
			where = append(where, fmt.Sprintf(
				"fk_stateinfo IN (SELECT pk_stateinfo FROM %s WHERE %s)", t.State, sw))
		}
	}
	if tw := c.Preds.Where(info); tw != "" {
		where = append(where, tw)
	}

	if len(where) == 0 {
		return "", fmt.Errorf("%w: tile selection is unbounded", ErrNoQueryProduced)
	}
	return fmt.Sprintf("SELECT * FROM %s WHERE %s", info, strings.Join(where, " AND ")), nil
}

// tileMetaRestriction maps meta predicates onto tile-info rows through the
// bridge. Julian-keyed registries link by day count instead of primary key.
func (c *Composer) tileMetaRestriction(metaWhere string) string {
	t := c.Tables
	metaKeys := fmt.Sprintf("SELECT pk_meta FROM %s WHERE %s", t.Meta, metaWhere)

	if t.Tile != nil && t.Tile.JulianKeyed {
		return fmt.Sprintf("julianDay IN (SELECT DISTINCT julianDay FROM %s WHERE fk_meta IN (%s))",
			t.Tile.Table, metaKeys)
	}
	if t.State != "" {
		return fmt.Sprintf("fk_stateinfo IN (SELECT DISTINCT fk_stateinfo FROM %s WHERE fk_meta IN (%s))",
			t.Bridge(c.Profile), metaKeys)
	}
	return fmt.Sprintf("pk_tileinfo IN (SELECT DISTINCT fk_tileinfo FROM %s WHERE fk_meta IN (%s))",
		t.Bridge(c.Profile), metaKeys)
}

// tileInfoColumns is the common tile-info projection of the instrument.
func (c *Composer) tileInfoColumns() []string {
	if c.Tables.State != "" {
		return []string{
			"pk_tileinfo", "ti.julianDay", "fk_stateinfo", "ti.integrationTime",
			"pixelType", "positionESM", "satZenithAngle", "satAzimuthAngle",
			"sunZenithAngle", "sunAzimuthAngle", "ST_asText(tile)",
		}
	}
	return []string{
		"pk_tileinfo", "ti.julianDay", "release", "pixelNumber", "subsetCounter",
		"swathType", "satZenithAngle", "sunZenithAngle", "relAzimuthAngle",
		"ST_asText(tile)",
	}
}
