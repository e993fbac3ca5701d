package query

import "strings"

// CTE is one named common-table-expression of a layered plan.
type CTE struct {
	Name string
	Body string
}

// Plan is the complete, renderable description of one query. Plans are
// assembled from non-empty fragments only, so the rendered text is never
// syntactically incomplete.
type Plan struct {
	CTEs       []CTE
	Projection []string
	// From holds the full FROM-clause content; composed shapes place their
	// subqueries and join sources here.
	From    string
	Where   string
	GroupBy []string
	OrderBy []string

	// Secondary is an optional follow-up query template, parameterized per
	// result row of the primary query. Used by version-consolidation flows
	// that need a second round-trip.
	Secondary string
}

// SQL renders the plan as PostgreSQL text.
func (p *Plan) SQL() string {
	var sb strings.Builder

	if len(p.CTEs) > 0 {
		sb.WriteString("WITH ")
		for i, cte := range p.CTEs {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(cte.Name)
			sb.WriteString(" AS (")
			sb.WriteString(cte.Body)
			sb.WriteString(")")
		}
		sb.WriteString(" ")
	}

	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(p.Projection, ","))
	sb.WriteString(" FROM ")
	sb.WriteString(p.From)

	if p.Where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(p.Where)
	}
	if len(p.GroupBy) > 0 {
		sb.WriteString(" GROUP BY ")
		sb.WriteString(strings.Join(p.GroupBy, ","))
	}
	if len(p.OrderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(p.OrderBy, ","))
	}

	return sb.String()
}

// andJoin combines non-empty fragments with AND.
func andJoin(fragments ...string) string {
	var parts []string
	for _, f := range fragments {
		if f != "" {
			parts = append(parts, f)
		}
	}
	return strings.Join(parts, " AND ")
}
