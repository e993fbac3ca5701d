// Package filter defines the canonical, instrument-agnostic representation
// of all selection criteria. A Spec is built once per invocation by the CLI
// layer, validated, and never mutated afterwards.
package filter

import (
	"errors"
	"fmt"
	"time"

	"github.com/nadc-tools/inquire/internal/catalog"
)

var (
	// ErrMissingSelector is returned when neither a product name nor a
	// product level is supplied.
	ErrMissingSelector = errors.New("select at least a product name or level")

	// ErrInvalidOrbitSpec is returned for malformed orbit selections.
	ErrInvalidOrbitSpec = errors.New("invalid orbit selection")

	// ErrInvalidStateID is returned for state IDs outside the measurement
	// state numbering.
	ErrInvalidStateID = errors.New("invalid state ID")

	// ErrInvalidSpatialRange is returned for out-of-range lon/lat windows.
	ErrInvalidSpatialRange = errors.New("invalid spatial range")
)

// OutputMode selects the relational shape of the generated query.
type OutputMode string

const (
	OutputFilePath OutputMode = "filePath"
	OutputFileName OutputMode = "fileName"
	OutputMeta     OutputMode = "meta"
	OutputState    OutputMode = "state"
	OutputTile     OutputMode = "tile"
	OutputProduct  OutputMode = "product"
)

// OrbitRange is an inclusive absolute-orbit range. Lo == Hi selects a single
// orbit. Ranges are normalized so that Lo <= Hi.
type OrbitRange struct {
	Lo, Hi int
}

// Single reports whether the range selects exactly one orbit.
func (o OrbitRange) Single() bool { return o.Lo == o.Hi }

// Range is a float window over one spatial axis. Min == Max marks a point
// selection, which the spatial resolver buffers by a fixed margin.
type Range struct {
	Min, Max float64
}

// Point reports whether the range is a single value.
func (r Range) Point() bool { return r.Min == r.Max }

// Spec carries every selection criterion of one inquiry.
type Spec struct {
	ProductName string
	Level       *catalog.Level

	Orbit             *OrbitRange
	ProcStages        []string
	SoftVersionPrefix string
	WantBestVersion   bool

	// Date is the raw partial date string, 4 to 12 decimal digits.
	Date string
	// ReceiveTimeCutoff selects products received at or after the instant.
	ReceiveTimeCutoff *time.Time

	StateIDs        []int
	ObservationMode catalog.ObservationMode

	Lon *Range
	Lat *Range

	OutputMode OutputMode
	TileKind   string
}

// Validate checks the spec invariants against the active profile. It returns
// the effective product level, derived from the product name when one is
// given.
func (s *Spec) Validate(p *catalog.Profile) (catalog.Level, error) {
	var level catalog.Level
	switch {
	case s.ProductName != "":
		derived, err := p.LevelForProduct(s.ProductName)
		if err != nil {
			return 0, err
		}
		if s.Level != nil && *s.Level != derived {
			return 0, fmt.Errorf("%w: product %q is level %d, not %d",
				catalog.ErrUnknownProductLevel, s.ProductName, derived, *s.Level)
		}
		level = derived
	case s.Level != nil:
		if _, err := p.MetaTable(*s.Level); err != nil {
			return 0, err
		}
		level = *s.Level
	case s.OutputMode == OutputTile && s.TileKind != "":
		// A julian-keyed tile kind carries its own meta table and needs no
		// level selector.
		t, err := p.Tile(s.TileKind)
		if err != nil {
			return 0, err
		}
		if t.MetaTable == "" {
			return 0, ErrMissingSelector
		}
	default:
		return 0, ErrMissingSelector
	}

	if s.Orbit != nil && (s.Orbit.Lo < 0 || s.Orbit.Hi < 0) {
		return 0, fmt.Errorf("%w: orbit numbers must be non-negative", ErrInvalidOrbitSpec)
	}

	for _, id := range s.StateIDs {
		if id < 1 || id > 70 {
			return 0, fmt.Errorf("%w: state ID %d outside [1,70]", ErrInvalidStateID, id)
		}
	}
	if (len(s.StateIDs) > 0 || s.ObservationMode != "") && !p.HasStateTable() {
		return 0, fmt.Errorf("state selection not supported for %s", p.Name)
	}
	if s.ObservationMode != "" {
		if _, ok := p.StateIDs(s.ObservationMode); !ok {
			return 0, fmt.Errorf("unknown observation mode %q (valid: nadir, limb, occultation, monitor)", s.ObservationMode)
		}
	}

	if s.Lat != nil {
		lo, hi := s.Lat.Min, s.Lat.Max
		if lo < -90 || lo > 90 || hi < -90 || hi > 90 {
			return 0, fmt.Errorf("%w: latitude outside [-90,90]", ErrInvalidSpatialRange)
		}
	}
	if s.Lon != nil {
		lo, hi := s.Lon.Min, s.Lon.Max
		// Values above 180 are legal and get normalized by 360-subtraction.
		if lo < -180 || lo > 360 || hi < -180 || hi > 360 {
			return 0, fmt.Errorf("%w: longitude outside [-180,360]", ErrInvalidSpatialRange)
		}
	}

	if s.OutputMode == OutputTile {
		if s.TileKind == "" {
			return 0, fmt.Errorf("%w: tile output needs a tile kind", catalog.ErrUnknownTileKind)
		}
		if _, err := p.Tile(s.TileKind); err != nil {
			return 0, err
		}
	}

	return level, nil
}

// NewOrbitRange builds a normalized orbit range from one or two values,
// swapping reversed bounds.
func NewOrbitRange(vals ...int) (*OrbitRange, error) {
	switch len(vals) {
	case 1:
		return &OrbitRange{Lo: vals[0], Hi: vals[0]}, nil
	case 2:
		lo, hi := vals[0], vals[1]
		if lo > hi {
			lo, hi = hi, lo
		}
		return &OrbitRange{Lo: lo, Hi: hi}, nil
	default:
		return nil, fmt.Errorf("%w: expected one or two orbit numbers, got %d", ErrInvalidOrbitSpec, len(vals))
	}
}
