package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nadc-tools/inquire/internal/catalog"
	"github.com/nadc-tools/inquire/internal/filter"
	"github.com/nadc-tools/inquire/internal/window"
)

// Builder translates a filter spec into per-table predicate conjunctions.
// Each field binds to the table that physically owns the relevant column;
// fields that could bind to either side of the meta/state join follow the
// requested output mode.
type Builder struct {
	Profile *catalog.Profile
	Tables  *Tables

	// MirrorShared controls whether orbit and date predicates are emitted
	// on both sides of the eventual join during best-version resolution, so
	// both stages of the consolidation see a consistently filtered input.
	MirrorShared bool
}

// NewBuilder returns a Builder with mirroring enabled, the behaviour the
// consolidation queries were designed around.
func NewBuilder(p *catalog.Profile, t *Tables) *Builder {
	return &Builder{Profile: p, Tables: t, MirrorShared: true}
}

// Build produces the predicate set for a validated spec. Field order is
// fixed so rendered queries are reproducible.
func (b *Builder) Build(spec *filter.Spec) (*PredicateSet, error) {
	set := &PredicateSet{}

	if spec.ProductName != "" {
		set.Add(Predicate{
			Table: b.Tables.Meta,
			Kind:  KindEquality,
			SQL:   b.Tables.Meta + ".name=" + quote(spec.ProductName),
		})
	}

	if spec.ReceiveTimeCutoff != nil {
		set.Add(Predicate{
			Table: b.Tables.Meta,
			Kind:  KindRange,
			SQL:   b.Tables.Meta + ".receiveDate>=" + quote(spec.ReceiveTimeCutoff.UTC().Format("2006-01-02 15:04:05")),
		})
	}

	if spec.SoftVersionPrefix != "" {
		set.Add(Predicate{
			Table: b.Tables.Meta,
			Kind:  KindSubstringMatch,
			SQL:   b.Tables.Meta + ".softVersion LIKE " + quote(spec.SoftVersionPrefix+"%"),
		})
	}

	if len(spec.StateIDs) > 0 {
		set.Add(b.stateIDPredicate(spec.StateIDs))
	}

	if spec.ObservationMode != "" {
		ids, ok := b.Profile.StateIDs(spec.ObservationMode)
		if !ok {
			return nil, fmt.Errorf("unknown observation mode %q", spec.ObservationMode)
		}
		set.Add(b.stateIDPredicate(ids))
	}

	if sw := window.ResolveSpatial(spec.Lon, spec.Lat); sw != nil {
		geomTable := b.Tables.GeometryTable(spec.OutputMode, b.Profile)
		set.Add(Predicate{
			Table: geomTable,
			Kind:  KindSpatialIntersect,
			SQL:   fmt.Sprintf("%s.tile && ST_GeomFromText('%s',4326)", geomTable, sw.WKT()),
		})
	}

	if len(spec.ProcStages) > 0 {
		set.Add(b.procStagePredicate(spec))
	}

	if spec.Orbit != nil {
		table := b.sharedTable(spec, set, b.orbitTables())
		set.Add(orbitPredicate(table, *spec.Orbit))
		if spec.WantBestVersion && b.MirrorShared {
			if other := b.mirrorTable(table); other != "" {
				set.Add(orbitPredicate(other, *spec.Orbit))
			}
		}
	}

	if spec.Date != "" {
		tw, err := window.ResolveDate(spec.Date, b.Profile.MinYear)
		if err != nil {
			return nil, err
		}
		table := b.sharedTable(spec, set, b.dateTables())
		set.Add(b.datePredicate(table, tw))
		if spec.WantBestVersion && b.MirrorShared {
			if other := b.mirrorTable(table); other != "" {
				set.Add(b.datePredicate(other, tw))
			}
		}
	}

	return set, nil
}

func (b *Builder) stateIDPredicate(ids []int) Predicate {
	if len(ids) == 1 {
		return Predicate{
			Table: b.Tables.State,
			Kind:  KindEquality,
			SQL:   fmt.Sprintf("%s.stateID=%d", b.Tables.State, ids[0]),
		}
	}
	return Predicate{
		Table: b.Tables.State,
		Kind:  KindSetMembership,
		SQL:   fmt.Sprintf("%s.stateID IN (%s)", b.Tables.State, joinInts(ids)),
	}
}

// procStagePredicate binds to the meta table's procStage column, except for
// state output where the stage is the digit at a level-dependent position of
// the stored version string.
func (b *Builder) procStagePredicate(spec *filter.Spec) Predicate {
	onState := spec.OutputMode == filter.OutputState && b.Tables.State != ""
	if !onState {
		col := b.Tables.Meta + ".procStage"
		if len(spec.ProcStages) == 1 {
			return Predicate{Table: b.Tables.Meta, Kind: KindEquality, SQL: col + "=" + quote(spec.ProcStages[0])}
		}
		return Predicate{Table: b.Tables.Meta, Kind: KindSetMembership, SQL: col + " IN (" + joinQuoted(spec.ProcStages) + ")"}
	}

	pos := catalog.ProcStagePos(b.Tables.Level)
	expr := fmt.Sprintf("substr(%s.softVersion,%d,1)", b.Tables.State, pos)
	if len(spec.ProcStages) == 1 {
		return Predicate{Table: b.Tables.State, Kind: KindSubstringMatch, SQL: expr + "=" + quote(spec.ProcStages[0])}
	}
	return Predicate{Table: b.Tables.State, Kind: KindSubstringMatch, SQL: expr + " IN (" + joinQuoted(spec.ProcStages) + ")"}
}

// orbitTables lists the tables carrying an absOrbit column.
func (b *Builder) orbitTables() []string {
	if b.Tables.State != "" {
		return []string{b.Tables.Meta, b.Tables.State}
	}
	return []string{b.Tables.Meta}
}

// dateTables lists the tables carrying an observation-time column.
func (b *Builder) dateTables() []string {
	if b.Tables.State != "" {
		return []string{b.Tables.Meta, b.Tables.State}
	}
	return []string{b.Tables.Meta, b.Profile.TileInfoTable}
}

// sharedTable picks the binding table for a field present on both sides of
// the join: the non-meta side when the output mode targets it or when it
// already carries predicates, the meta side otherwise.
func (b *Builder) sharedTable(spec *filter.Spec, set *PredicateSet, candidates []string) string {
	if len(candidates) == 1 {
		return candidates[0]
	}
	other := candidates[1]
	switch {
	case spec.OutputMode == filter.OutputState && other == b.Tables.State:
		return other
	case spec.OutputMode == filter.OutputTile && other == b.Profile.TileInfoTable:
		return other
	case set.Has(other):
		return other
	default:
		return b.Tables.Meta
	}
}

// mirrorTable returns the opposite side of the meta/state join, or "" when
// the instrument has no state table and mirroring does not apply.
func (b *Builder) mirrorTable(table string) string {
	if b.Tables.State == "" {
		return ""
	}
	if table == b.Tables.Meta {
		return b.Tables.State
	}
	return b.Tables.Meta
}

func orbitPredicate(table string, o filter.OrbitRange) Predicate {
	if o.Single() {
		return Predicate{Table: table, Kind: KindEquality, SQL: fmt.Sprintf("%s.absOrbit=%d", table, o.Lo)}
	}
	return Predicate{Table: table, Kind: KindRange, SQL: fmt.Sprintf("%s.absOrbit BETWEEN %d AND %d", table, o.Lo, o.Hi)}
}

// datePredicate renders the time window against the binding table's time
// column: a timestamp BETWEEN for meta and state tables, a day-count BETWEEN
// for julian-keyed tile-info tables.
func (b *Builder) datePredicate(table string, tw *window.TimeWindow) Predicate {
	if table == b.Profile.TileInfoTable && b.Profile.TileInfoTime == catalog.TimeJulianDay {
		lo, hi := tw.JulianBounds(b.Profile)
		return Predicate{
			Table: table,
			Kind:  KindRange,
			SQL:   fmt.Sprintf("%s.julianDay BETWEEN %s AND %s", table, formatJulian(lo), formatJulian(hi)),
		}
	}
	start, end := tw.Timestamps()
	return Predicate{
		Table: table,
		Kind:  KindRange,
		SQL:   fmt.Sprintf("%s.dateTimeStart BETWEEN '%s' AND '%s'", table, start, end),
	}
}

func formatJulian(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func joinInts(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func joinQuoted(vals []string) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = quote(v)
	}
	return strings.Join(parts, ",")
}
