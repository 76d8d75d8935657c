// Package planner turns a run request into job descriptors: one per
// (sweep value, seed) pair, or one per batch of input artifacts.
package planner

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/geonmo/NMSSMPheno/internal/argvec"
	"github.com/geonmo/NMSSMPheno/internal/naming"
)

// Descriptor is everything the scheduler needs to run one job.
type Descriptor struct {
	ID                string   `yaml:"id"`
	Seed              int      `yaml:"seed,omitempty"`
	Args              []string `yaml:"args"`
	OutputFiles       []string `yaml:"output_files,omitempty"`
	MirrorDestination string   `yaml:"mirror_destination"`
}

// Point groups the jobs of one sweep value. Runs without a sweep have a
// single point with no Value.
type Point struct {
	Label             string       `yaml:"label"`
	Value             *float64     `yaml:"value,omitempty"`
	Subdir            string       `yaml:"subdir"`
	LogDir            string       `yaml:"log_dir"`
	MirrorDestination string       `yaml:"mirror_destination"`
	Jobs              []Descriptor `yaml:"jobs"`
}

// Plan is the ordered result of planning one request.
type Plan struct {
	ID      string  `yaml:"id"`
	Program string  `yaml:"program"`
	Channel string  `yaml:"channel"`
	Date    string  `yaml:"date"`
	Points  []Point `yaml:"points"`
}

// Descriptors returns every job in plan order.
func (p *Plan) Descriptors() []Descriptor {
	var out []Descriptor
	for _, pt := range p.Points {
		out = append(out, pt.Jobs...)
	}
	return out
}

// PlanJobs expands req over its sweep and seed range. Nothing is returned unless
// every descriptor could be built.
func PlanJobs(req *Request) (*Plan, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var values []*float64
	if req.Sweep == nil {
		values = []*float64{nil}
	} else {
		for _, v := range req.Sweep.Values() {
			values = append(values, &v)
		}
	}

	plan := &Plan{
		Program: req.Program,
		Channel: req.Channel,
		Date:    req.Date.Format(naming.DateLayout),
	}
	for _, v := range values {
		pt, err := planPoint(req, v, len(values) > 1)
		if err != nil {
			return nil, err
		}
		plan.Points = append(plan.Points, pt)
	}
	plan.ID = planID(plan).String()
	return plan, nil
}

func (r *Request) point(value *float64) naming.Point {
	p := naming.Point{Channel: r.Channel, Mass: r.Mass, Energy: r.Energy, Events: r.Events}
	if value != nil {
		p.Mass = *value
	}
	return p
}

// label names a point's subdirectory. Stem-mode runs have no physics point
// in their names and use the channel alone.
func (r *Request) label(value *float64) string {
	if r.RunStem != nil {
		return r.Channel
	}
	return r.point(value).Label()
}

func planPoint(req *Request, value *float64, multi bool) (Point, error) {
	label := req.label(value)
	subdir := naming.Subdir(label, req.Date)
	pt := Point{
		Label:  label,
		Value:  value,
		Subdir: subdir,
		LogDir: naming.LogDir(req.LogRoot, subdir),
	}

	// A user output root shared by several sweep points gets one directory
	// per point so filenames never collide across points.
	switch {
	case req.OutputDir == "":
		pt.MirrorDestination = naming.MirrorDir(req.StoreRoot, req.User, req.Program, subdir)
	case multi:
		pt.MirrorDestination = path.Join(req.OutputDir, label)
	default:
		pt.MirrorDestination = req.OutputDir
	}

	base := req.Base.Clone()
	if value != nil {
		if err := base.SetOrAppend(req.Sweep.Flag, naming.FormatNumber(*value)); err != nil {
			return Point{}, err
		}
	}

	for i := 0; i < req.Seeds.Len(); i++ {
		seed := req.Seeds.Start + i
		d, err := planJob(req, base, value, seed, pt.MirrorDestination)
		if err != nil {
			return Point{}, fmt.Errorf("job %d: %w", seed, err)
		}
		pt.Jobs = append(pt.Jobs, d)
	}
	return pt, nil
}

func planJob(req *Request, base *argvec.Vector, value *float64, seed int, mirror string) (Descriptor, error) {
	args := base.Clone()
	if err := args.SetOrAppend(req.SeedFlag, strconv.Itoa(seed)); err != nil {
		return Descriptor{}, err
	}

	compress := req.CompressSwitch != "" && args.Has(req.CompressSwitch)
	var outputs []string
	for _, o := range req.Outputs {
		if !args.Has(o.Flag) {
			continue
		}
		current, _, err := args.Get(o.Flag)
		if err != nil {
			return Descriptor{}, err
		}
		var name string
		if current == "" {
			name, err = naming.Filename(req.point(value), seed, o.Ext)
		} else {
			name, err = naming.WithSeed(current, seed, o.Ext)
		}
		if err != nil {
			return Descriptor{}, err
		}
		if err := args.Set(o.Flag, name); err != nil {
			return Descriptor{}, err
		}
		if compress {
			name += ".gz"
		}
		outputs = append(outputs, name)
	}

	if rs := req.RunStem; rs != nil {
		stem := naming.RunStem(req.Channel, req.Events, seed)
		if err := args.SetOrAppend(rs.Flag, stem); err != nil {
			return Descriptor{}, err
		}
		for _, f := range rs.Files {
			outputs = append(outputs, path.Join(rs.Dir, strings.ReplaceAll(f, StemPlaceholder, stem)))
		}
	}

	return Descriptor{
		ID:                fmt.Sprintf("%d_%s", seed, req.Channel),
		Seed:              seed,
		Args:              args.Tokens(),
		OutputFiles:       outputs,
		MirrorDestination: mirror,
	}, nil
}
