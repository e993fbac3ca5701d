package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nadc-tools/inquire/internal/catalog"
	"github.com/nadc-tools/inquire/internal/config"
	"github.com/nadc-tools/inquire/internal/db"
	"github.com/nadc-tools/inquire/internal/filter"
	"github.com/nadc-tools/inquire/internal/logging"
	"github.com/nadc-tools/inquire/internal/query"
)

// options collects the raw flag values of one instrument subcommand. They
// are parsed into a filter.Spec before anything touches the database.
type options struct {
	level   string
	name    string
	orbit   string
	rtime   string
	proc    string
	soft    string
	last    bool
	date    string
	stateID string
	obsType string
	lat     string
	lon     string

	file   bool
	noPath bool
	header bool
	state  bool
	tile   string

	debug bool
}

func newInstrumentCmd(use, short string, profile func() *catalog.Profile) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, profile(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.level, "level", "", "product level (0, 1 or 2)")
	f.StringVar(&opts.name, "name", "", "exact product name")
	f.StringVar(&opts.orbit, "orbit", "", "absolute orbit number or inclusive range: N or N,M")
	f.StringVar(&opts.rtime, "rtime", "", "only products received within the given interval: Nh or Nd")
	f.StringVar(&opts.proc, "proc", "", "processing stage characters, for example NU")
	f.StringVar(&opts.soft, "soft", "", "software version prefix")
	f.BoolVar(&opts.last, "last", false, "only the consolidated best version per orbit")
	f.StringVar(&opts.date, "date", "", "observation date, 4 to 12 digits: YYYY[MM[DD[HH[MM]]]]")
	f.StringVar(&opts.stateID, "stateID", "", "comma-separated measurement state IDs")
	f.StringVar(&opts.obsType, "type", "", "observation mode: nadir, limb, occultation or monitor")
	f.StringVar(&opts.lat, "lat", "", "latitude or latitude range: V or MIN,MAX")
	f.StringVar(&opts.lon, "lon", "", "longitude or longitude range: V or MIN,MAX")
	f.BoolVar(&opts.file, "file", false, "print full archive paths (the default)")
	f.BoolVar(&opts.noPath, "noPath", false, "print product names without archive paths")
	f.BoolVar(&opts.header, "header", false, "print the full header rows")
	f.BoolVar(&opts.state, "state", false, "print measurement state rows")
	f.StringVar(&opts.tile, "tile", "", "print geophysical tile rows of the given product kind")
	f.BoolVar(&opts.debug, "debug", false, "print the generated query and exit")

	return cmd
}

// toSpec parses the raw flags into a validated selection.
func (o *options) toSpec(p *catalog.Profile) (*filter.Spec, error) {
	spec := &filter.Spec{
		ProductName:       o.name,
		SoftVersionPrefix: o.soft,
		WantBestVersion:   o.last,
		Date:              o.date,
		OutputMode:        o.outputMode(),
		TileKind:          o.tile,
	}

	if o.level != "" {
		n, err := strconv.Atoi(o.level)
		if err != nil {
			return nil, fmt.Errorf("invalid level %q: %w", o.level, err)
		}
		l := catalog.Level(n)
		spec.Level = &l
	}

	if o.orbit != "" {
		var vals []int
		for _, s := range strings.Split(o.orbit, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil {
				return nil, fmt.Errorf("%w: %q", filter.ErrInvalidOrbitSpec, o.orbit)
			}
			vals = append(vals, n)
		}
		r, err := filter.NewOrbitRange(vals...)
		if err != nil {
			return nil, err
		}
		spec.Orbit = r
	}

	if o.rtime != "" {
		cutoff, err := parseReceiveTime(o.rtime, time.Now().UTC())
		if err != nil {
			return nil, err
		}
		spec.ReceiveTimeCutoff = &cutoff
	}

	for _, ch := range o.proc {
		spec.ProcStages = append(spec.ProcStages, string(ch))
	}

	if o.stateID != "" {
		for _, s := range strings.Split(o.stateID, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil {
				return nil, fmt.Errorf("%w: %q", filter.ErrInvalidStateID, o.stateID)
			}
			spec.StateIDs = append(spec.StateIDs, n)
		}
	}
	spec.ObservationMode = catalog.ObservationMode(o.obsType)

	var err error
	if spec.Lat, err = parseAxis("lat", o.lat); err != nil {
		return nil, err
	}
	if spec.Lon, err = parseAxis("lon", o.lon); err != nil {
		return nil, err
	}

	if _, err := spec.Validate(p); err != nil {
		return nil, err
	}
	return spec, nil
}

// outputMode resolves the output flags; the most specific one wins.
// --file requests the default explicitly and carries no extra weight.
func (o *options) outputMode() filter.OutputMode {
	switch {
	case o.tile != "":
		return filter.OutputTile
	case o.state:
		return filter.OutputState
	case o.header:
		return filter.OutputMeta
	case o.noPath:
		return filter.OutputFileName
	default:
		return filter.OutputFilePath
	}
}

// parseReceiveTime turns an Nh or Nd interval into an absolute cutoff.
func parseReceiveTime(arg string, now time.Time) (time.Time, error) {
	if len(arg) < 2 {
		return time.Time{}, fmt.Errorf("invalid rtime %q: expected Nh or Nd", arg)
	}
	n, err := strconv.Atoi(arg[:len(arg)-1])
	if err != nil || n < 0 {
		return time.Time{}, fmt.Errorf("invalid rtime %q: expected Nh or Nd", arg)
	}
	switch arg[len(arg)-1] {
	case 'h':
		return now.Add(-time.Duration(n) * time.Hour), nil
	case 'd':
		return now.AddDate(0, 0, -n), nil
	default:
		return time.Time{}, fmt.Errorf("invalid rtime %q: expected Nh or Nd", arg)
	}
}

// parseAxis parses a single value or a MIN,MAX pair.
func parseAxis(name, arg string) (*filter.Range, error) {
	if arg == "" {
		return nil, nil
	}
	parts := strings.Split(arg, ",")
	switch len(parts) {
	case 1:
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", name, arg, err)
		}
		return &filter.Range{Min: v, Max: v}, nil
	case 2:
		lo, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", name, arg, err)
		}
		hi, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", name, arg, err)
		}
		return &filter.Range{Min: lo, Max: hi}, nil
	default:
		return nil, fmt.Errorf("invalid %s %q: expected V or MIN,MAX", name, arg)
	}
}

func run(cmd *cobra.Command, p *catalog.Profile, opts *options) error {
	spec, err := opts.toSpec(p)
	if err != nil {
		return err
	}

	plan, err := query.Build(spec, p)
	if err != nil {
		return err
	}

	if opts.debug {
		fmt.Fprintln(cmd.OutOrStdout(), plan.SQL())
		if plan.Secondary != "" {
			fmt.Fprintln(cmd.OutOrStdout(), plan.Secondary)
		}
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logging.New(cfg.Logging.Level, cfg.Logging.Console)

	ctx := cmd.Context()
	connectCtx, cancel := context.WithTimeout(ctx, cfg.DB.Timeout)
	defer cancel()
	pool, err := db.Connect(connectCtx, &cfg.DB, p.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	printer, err := newPrinter(cmd, p, cfg, spec.OutputMode)
	if err != nil {
		return err
	}
	defer printer.Close()

	exec := db.New(pool, log)
	return exec.Stream(ctx, plan, printer.Print)
}
