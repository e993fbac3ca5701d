package query

import (
	"github.com/nadc-tools/inquire/internal/catalog"
	"github.com/nadc-tools/inquire/internal/filter"
)

// Option adjusts engine behaviour.
type Option func(*Builder)

// WithMirrorShared controls whether orbit and date predicates are mirrored
// onto both sides of the meta/state join for best-version requests.
func WithMirrorShared(mirror bool) Option {
	return func(b *Builder) { b.MirrorShared = mirror }
}

// Build runs the full composition pipeline: validate the spec, resolve the
// participating tables, build the per-table predicates and compose the plan
// for the requested output mode.
func Build(spec *filter.Spec, p *catalog.Profile, opts ...Option) (*Plan, error) {
	tables, err := ResolveTables(spec, p)
	if err != nil {
		return nil, err
	}

	builder := NewBuilder(p, tables)
	for _, opt := range opts {
		opt(builder)
	}
	preds, err := builder.Build(spec)
	if err != nil {
		return nil, err
	}

	if spec.WantBestVersion {
		cons := &Consolidator{Profile: p, Tables: tables, Preds: preds}
		return cons.Consolidate()
	}

	comp := &Composer{Profile: p, Tables: tables, Preds: preds}
	return comp.Compose(spec)
}
