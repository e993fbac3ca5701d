package query

import (
	"fmt"

	"github.com/nadc-tools/inquire/internal/catalog"
)

// Consolidator builds the best-version plan: per orbit, only the product
// versions whose processing stage is corroborated by the linked state rows'
// version strings. Ties are not broken here; all qualifying rows are
// returned and callers wanting one row per orbit group by orbit and take the
// lexically largest version.
type Consolidator struct {
	Profile *catalog.Profile
	Tables  *Tables
	Preds   *PredicateSet
}

// Consolidate produces the version-consolidation plan. Instruments with a
// state table resolve the winning version through a two-stage relation over
// the bridge; instruments without one collapse to a grouped maximum and a
// per-row secondary name-resolution query.
func (c *Consolidator) Consolidate() (*Plan, error) {
	if c.Tables.State == "" {
		return c.groupedMax(), nil
	}
	if c.Preds.Empty() {
		// Nothing to corroborate against: take the lexical maximum per orbit.
		return &Plan{
			Projection: []string{"MAX(name)", "MAX(procStage)"},
			From:       c.Tables.Meta,
			GroupBy:    []string{"absOrbit"},
			OrderBy:    []string{"absOrbit"},
		}, nil
	}
	return c.twoStage()
}

// twoStage maps each filtered meta row to its processing stage and linked
// state keys (stage sm), filters state rows to (key, version) pairs
// (stage ss), and selects meta rows whose stage digit equals the version
// substring of at least one joined state row.
func (c *Consolidator) twoStage() (*Plan, error) {
	t := c.Tables
	bridge := t.Bridge(c.Profile)
	pos := catalog.ProcStagePos(t.Level)

	sm := fmt.Sprintf("SELECT fk_meta,procStage,unnest(fk_stateinfo) AS fk_stateinfo FROM %s", bridge)
	if mw := c.Preds.Where(t.Meta); mw != "" {
		sm += fmt.Sprintf(" WHERE fk_meta IN (SELECT pk_meta FROM %s WHERE %s)", t.Meta, mw)
	}

	ss := fmt.Sprintf("SELECT pk_stateinfo,softVersion FROM %s", t.State)
	housekeeping := fmt.Sprintf("substr(softVersion,%d,1) <> '0'", pos)
	if sw := c.Preds.Where(t.State); sw != "" {
		ss += " WHERE " + andJoin(sw, housekeeping)
	} else {
		ss += " WHERE " + housekeeping
	}

	where := fmt.Sprintf(
		"pk_meta IN (SELECT DISTINCT fk_meta FROM sm JOIN ss ON sm.fk_stateinfo=pk_stateinfo WHERE sm.procStage::text=substr(softVersion,%d,1))",
		pos)

	return &Plan{
		CTEs:       []CTE{{Name: "sm", Body: sm}, {Name: "ss", Body: ss}},
		Projection: []string{"name"},
		From:       t.Meta,
		Where:      where,
		OrderBy:    []string{"absOrbit"},
	}, nil
}

// groupedMax resolves the last version per orbit without state
// corroboration. The secondary query resolves each (orbit, version) row back
// to a product name.
func (c *Consolidator) groupedMax() *Plan {
	t := c.Tables
	return &Plan{
		Projection: []string{"absOrbit", "MAX(softVersion)"},
		From:       t.Meta,
		Where:      c.Preds.Where(t.Meta),
		GroupBy:    []string{"absOrbit"},
		OrderBy:    []string{"absOrbit"},
		Secondary:  fmt.Sprintf("SELECT name FROM %s WHERE absOrbit=%%d AND softVersion='%%s'", t.Meta),
	}
}
