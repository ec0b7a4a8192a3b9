/*
 * cmd.go, part of molgrid.
 *
 * Copyright 2026 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/rmera/molgrid"
	"github.com/rmera/molgrid/gridio"
	"github.com/rmera/molgrid/gridplot"
	"github.com/rmera/molgrid/histo"
	"github.com/rmera/molgrid/mol"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gonum.org/v1/gonum/floats"
)

//option is a command line flag.
type option struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func addFlags(options []option) {
	for _, o := range options {
		for _, set := range o.flagsets {
			switch v := o.defaultVal.(type) {
			case string:
				set.StringP(o.name, o.shorthand, v, o.usage)
			case bool:
				set.BoolP(o.name, o.shorthand, v, o.usage)
			case int:
				set.IntP(o.name, o.shorthand, v, o.usage)
			case int64:
				set.Int64P(o.name, o.shorthand, v, o.usage)
			case float64:
				set.Float64P(o.name, o.shorthand, v, o.usage)
			case []string:
				set.StringSliceP(o.name, o.shorthand, v, o.usage)
			default:
				panic(fmt.Sprintf("molgrid: flag %s has unsupported type %T", o.name, v))
			}
		}
	}
}

//NewRoot returns the molgrid command tree.
func NewRoot() *cobra.Command {
	root := &cobra.Command{
		Use:   "molgrid",
		Short: "Voxel grids from molecular structures.",
		Long: `molgrid places a cubic box around a ligand, or at a given center, and
computes one density channel per group of atom types for the receptor
and the ligand. Grids can be written as raw float32 (optionally compressed),
AutoDock MAP files, OpenDX files or PNG slices.`,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}
	gridCmd := &cobra.Command{
		Use:   "grid receptor [ligand...]",
		Short: "Grid a receptor and each ligand in the given files.",
		Long: `grid reads the receptor once and grids it together with every
ligand model in the ligand files (PDB, XYZ or gninatypes, optionally
.gz or .zst compressed). With no ligands, the receptor alone is gridded.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runGrid,
	}
	checkCmd := &cobra.Command{
		Use:   "check receptor [ligand...]",
		Short: "Compare the device and host grids for each model.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCheck,
	}
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Print an example configuration file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := io.WriteString(cmd.OutOrStdout(), molgrid.ExampleConfigFile)
			return err
		},
	}
	mapsCmd := &cobra.Command{
		Use:   "maps",
		Short: "Print the receptor and ligand type maps in use.",
		Args:  cobra.NoArgs,
		RunE:  runMaps,
	}
	statsCmd := &cobra.Command{
		Use:   "stats receptor [ligand...]",
		Short: "Histograms of the voxel values of each channel, over all models.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runStats,
	}
	root.AddCommand(gridCmd, checkCmd, configCmd, mapsCmd, statsCmd)

	global := []*pflag.FlagSet{root.PersistentFlags()}
	addFlags([]option{
		{name: "config", usage: "configuration file, in git-config syntax. Flags override its values.", defaultVal: "", flagsets: global},
		{name: "verbose", shorthand: "v", usage: "log debugging information", defaultVal: false, flagsets: global},
		{name: "resolution", shorthand: "r", usage: "voxel side, in A", defaultVal: 0.5, flagsets: global},
		{name: "dimension", shorthand: "d", usage: "box side, in A", defaultVal: 24.0, flagsets: global},
		{name: "radius-multiple", usage: "extent of each atom's density, as a multiple of its radius", defaultVal: 1.5, flagsets: global},
		{name: "center", shorthand: "c", usage: `box center, as "x,y,z". By default, the box is centered on each ligand.`, defaultVal: "", flagsets: global},
		{name: "binary", usage: "occupancy instead of densities", defaultVal: false, flagsets: global},
		{name: "covalent", usage: "use covalent radii instead of the XS ones", defaultVal: false, flagsets: global},
		{name: "recmap", usage: "receptor type map file", defaultVal: "", flagsets: global},
		{name: "ligmap", usage: "ligand type map file", defaultVal: "", flagsets: global},
		{name: "usergrid", usage: "OpenDX grid added after the molecular channels (can be repeated)", defaultVal: []string{}, flagsets: global},
		{name: "rotate", usage: "random rotation around the box center", defaultVal: false, flagsets: global},
		{name: "translate", usage: "maximum random translation, in A", defaultVal: 0.0, flagsets: global},
		{name: "seed", usage: "seed for the random transforms", defaultVal: int64(1), flagsets: global},
		{name: "gpu", usage: "use the device path", defaultVal: false, flagsets: global},
		{name: "workers", usage: "device workers, 0 for one per CPU", defaultVal: 0, flagsets: global},
		{name: "subgrid", usage: "side of the subgrids, in A. 0 disables them.", defaultVal: 0.0, flagsets: global},
		{name: "overlap", usage: "voxels shared by neighboring subgrids", defaultVal: 1, flagsets: global},
		{name: "timeit", usage: "log the time taken by each model", defaultVal: false, flagsets: global},
	})
	addFlags([]option{
		{name: "out", shorthand: "o", usage: "base name of the output files", defaultVal: "grid", flagsets: []*pflag.FlagSet{gridCmd.Flags()}},
		{name: "format", shorthand: "f", usage: "output format: bin, map, dx or png", defaultVal: "bin", flagsets: []*pflag.FlagSet{gridCmd.Flags()}},
		{name: "compress", usage: `compress bin output: "", "zst" or "gz"`, defaultVal: "", flagsets: []*pflag.FlagSet{gridCmd.Flags()}},
		{name: "norec", usage: "leave the receptor (and user) channels out of bin output", defaultVal: false, flagsets: []*pflag.FlagSet{gridCmd.Flags()}},
		{name: "nolig", usage: "leave the ligand channels out of bin output", defaultVal: false, flagsets: []*pflag.FlagSet{gridCmd.Flags()}},
		{name: "axis", usage: "axis normal to the png slice (0, 1 or 2)", defaultVal: 2, flagsets: []*pflag.FlagSet{gridCmd.Flags()}},
		{name: "channel", usage: "channel plotted in png output", defaultVal: 0, flagsets: []*pflag.FlagSet{gridCmd.Flags()}},
		{name: "bins", usage: "number of histogram bins", defaultVal: 10, flagsets: []*pflag.FlagSet{statsCmd.Flags()}},
		{name: "max", usage: "upper limit of the last bin. Larger values are only counted in the total.", defaultVal: 1.0, flagsets: []*pflag.FlagSet{statsCmd.Flags()}},
		{name: "zeros", usage: "include empty voxels", defaultVal: false, flagsets: []*pflag.FlagSet{statsCmd.Flags()}},
		{name: "json", usage: "print the histograms as JSON", defaultVal: false, flagsets: []*pflag.FlagSet{statsCmd.Flags()}},
	})
	return root
}

//logger returns a logger writing to the command's error output.
func logger(cmd *cobra.Command) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(cmd.ErrOrStderr())
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
		DisableSorting:  true,
	})
	log.SetLevel(logrus.InfoLevel)
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

//options reads the configuration file, if given, and applies the flags
//that were set explicitly on top of it.
func options(cmd *cobra.Command) (molgrid.Options, error) {
	f := cmd.Flags()
	O := molgrid.DefaultOptions()
	if fname, _ := f.GetString("config"); fname != "" {
		var err error
		if O, err = molgrid.ReadConfig(fname); err != nil {
			return O, err
		}
	}
	var err error
	set := func(name string, apply func()) {
		if err == nil && f.Changed(name) {
			apply()
		}
	}
	set("resolution", func() { O.Resolution, err = f.GetFloat64("resolution") })
	set("dimension", func() { O.Dimension, err = f.GetFloat64("dimension") })
	set("radius-multiple", func() { O.RadiusMultiple, err = f.GetFloat64("radius-multiple") })
	set("center", func() {
		var s string
		if s, err = f.GetString("center"); err == nil {
			O.Center, err = molgrid.ParseCenter(s)
			O.HasCenter = err == nil
		}
	})
	set("binary", func() { O.Binary, err = f.GetBool("binary") })
	set("covalent", func() { O.UseCovalentRadius, err = f.GetBool("covalent") })
	set("recmap", func() { O.ReceptorMap, err = f.GetString("recmap") })
	set("ligmap", func() { O.LigandMap, err = f.GetString("ligmap") })
	set("usergrid", func() { O.UserGrids, err = f.GetStringSlice("usergrid") })
	set("rotate", func() { O.RandRotate, err = f.GetBool("rotate") })
	set("translate", func() { O.RandTranslate, err = f.GetFloat64("translate") })
	set("seed", func() { O.Seed, err = f.GetInt64("seed") })
	set("gpu", func() { O.GPU, err = f.GetBool("gpu") })
	set("workers", func() { O.Workers, err = f.GetInt("workers") })
	set("subgrid", func() { O.SubgridDim, err = f.GetFloat64("subgrid") })
	set("overlap", func() { O.SubgridOverlap, err = f.GetInt("overlap") })
	set("timeit", func() { O.Timeit, err = f.GetBool("timeit") })
	if err != nil {
		return O, err
	}
	return O, O.CheckInit()
}

//geometry logs a GeometryError and clears it. Other errors are returned.
func geometry(log logrus.FieldLogger, model int, err error) error {
	var geo *molgrid.GeometryError
	if errors.As(err, &geo) {
		log.WithFields(logrus.Fields{"model": model, "dropped": len(geo.Atoms)}).Warn(geo.Error())
		return nil
	}
	return err
}

func runGrid(cmd *cobra.Command, args []string) error {
	O, err := options(cmd)
	if err != nil {
		return err
	}
	f := cmd.Flags()
	out, _ := f.GetString("out")
	format, _ := f.GetString("format")
	compress, _ := f.GetString("compress")
	norec, _ := f.GetBool("norec")
	nolig, _ := f.GetBool("nolig")
	axis, _ := f.GetInt("axis")
	ch, _ := f.GetInt("channel")
	switch format {
	case "bin", "map", "dx", "png":
	default:
		return fmt.Errorf("molgrid: unknown output format %q", format)
	}
	switch compress {
	case "":
	case "zst", "gz":
		compress = "." + compress
	default:
		return fmt.Errorf("molgrid: unknown compression %q", compress)
	}
	log := logger(cmd)
	getter, err := mol.NewGetter(args[0], args[1:]...)
	if err != nil {
		return err
	}
	G, err := molgrid.NewMolsGridder(O, getter, log)
	if err != nil {
		return err
	}
	defer G.Close()
	if ch < 0 || ch >= G.NChannels() {
		return fmt.Errorf("molgrid: channel %d out of range, there are %d", ch, G.NChannels())
	}
	for {
		err := G.ReadMolecule()
		if errors.Is(err, io.EOF) {
			break
		}
		if err = geometry(log, G.Read(), err); err != nil {
			return err
		}
		base := out
		if len(args) > 1 {
			base = fmt.Sprintf("%s_%d", out, G.Read())
		}
		switch format {
		case "bin":
			err = writeBIN(G.Gridder, base, compress, !norec, !nolig)
		case "map":
			err = G.OutputMAP(base)
		case "dx":
			err = G.OutputDX(base)
		case "png":
			err = writePNG(G.Gridder, base, axis, ch)
		}
		if err != nil {
			return err
		}
		log.WithField("model", G.Read()).Debug("molgrid: written " + base)
	}
	log.WithField("models", G.Read()).Info("molgrid: done")
	return nil
}

func writeBIN(G *molgrid.Gridder, base, compress string, rec, lig bool) error {
	fname := fmt.Sprintf("%s.%s.bin%s", base, G.ParamString(rec, lig), compress)
	w, err := gridio.Create(fname)
	if err != nil {
		return err
	}
	if err := G.OutputBIN(w, rec, lig); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

//writePNG plots the middle slice of channel ch for every subgrid.
func writePNG(G *molgrid.Gridder, base string, axis, ch int) error {
	name := G.ChannelNames()[ch]
	for p := 0; p < G.NGrids(); p++ {
		D := G.PartDims(p)
		fname := fmt.Sprintf("%s_%s.png", base, name)
		if G.NGrids() > 1 {
			fname = fmt.Sprintf("%s_%d_%s.png", base, p, name)
		}
		title := fmt.Sprintf("%s %s", filepath.Base(base), name)
		if err := gridplot.SaveSlice(fname, D, G.Grid(p, ch), axis, D.N()/2, title); err != nil {
			return err
		}
	}
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	O, err := options(cmd)
	if err != nil {
		return err
	}
	O.GPU = true
	log := logger(cmd)
	getter, err := mol.NewGetter(args[0], args[1:]...)
	if err != nil {
		return err
	}
	G, err := molgrid.New(O, log)
	if err != nil {
		return err
	}
	defer G.Close()
	bad := 0
	for n := 1; ; n++ {
		m, err := getter.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		R, err := G.CPUSetModelCheck(m, true, n == 1)
		var mis *molgrid.ConsistencyMismatch
		if errors.As(err, &mis) {
			err = nil
		}
		if err = geometry(log, n, err); err != nil {
			return err
		}
		if R == nil {
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "model %d: %d voxels, %d mismatches, max |diff| %g, mean |diff| %g\n",
			n, R.Voxels, R.Mismatches, R.MaxAbsDiff, R.MeanAbsDiff)
		bad += R.Mismatches
	}
	if bad > 0 {
		return fmt.Errorf("molgrid: %d voxels differ between the device and host grids", bad)
	}
	return nil
}

func runMaps(cmd *cobra.Command, args []string) error {
	O, err := options(cmd)
	if err != nil {
		return err
	}
	G, err := molgrid.New(O, logger(cmd))
	if err != nil {
		return err
	}
	defer G.Close()
	for i, name := range G.ChannelNames() {
		fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", i, name)
	}
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	O, err := options(cmd)
	if err != nil {
		return err
	}
	f := cmd.Flags()
	bins, _ := f.GetInt("bins")
	top, _ := f.GetFloat64("max")
	zeros, _ := f.GetBool("zeros")
	asJSON, _ := f.GetBool("json")
	if bins < 1 || top <= 0 {
		return fmt.Errorf("molgrid: stats needs at least one bin and a positive maximum")
	}
	log := logger(cmd)
	getter, err := mol.NewGetter(args[0], args[1:]...)
	if err != nil {
		return err
	}
	G, err := molgrid.NewMolsGridder(O, getter, log)
	if err != nil {
		return err
	}
	defer G.Close()
	H := histo.NewMatrix(G.NGrids(), G.NChannels(), floats.Span(make([]float64, bins+1), 0, top), G.ChannelNames())
	for {
		err := G.ReadMolecule()
		if errors.Is(err, io.EOF) {
			break
		}
		if err = geometry(log, G.Read(), err); err != nil {
			return err
		}
		for p := 0; p < G.NGrids(); p++ {
			for c := 0; c < G.NChannels(); c++ {
				H.AddGrid(p, c, G.Grid(p, c), !zeros)
			}
		}
	}
	H.NormalizeAll()
	if asJSON {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(H)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), H.String())
	return err
}
