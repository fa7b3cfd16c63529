package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"time"

	osm "github.com/omniscale/go-osm"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"

	"github.com/fivh-bergen/fivhmap"
	"github.com/fivh-bergen/fivhmap/config"
	"github.com/fivh-bergen/fivhmap/database"
	_ "github.com/fivh-bergen/fivhmap/database/postgis"
	"github.com/fivh-bergen/fivhmap/designation"
	"github.com/fivh-bergen/fivhmap/edits"
	"github.com/fivh-bergen/fivhmap/feature"
	"github.com/fivh-bergen/fivhmap/log"
	"github.com/fivh-bergen/fivhmap/reader"
	"github.com/fivh-bergen/fivhmap/stats"
)

type command struct {
	name  string
	usage string
	run   func(args []string, stdout io.Writer) error
}

var commands = []command{
	{"classify", "classify venues from .geojson or .osm.pbf", classify},
	{"tags", "print the OSM tags of designations", tags},
	{"form", "print the edit form of a node", form},
	{"edit", "store a designation edit of a node in the outbox", edit},
	{"pending", "list or remove edits in the outbox", pending},
	{"export", "import the venues of a .osm.pbf into PostGIS", export},
	{"docs", "write the designation table as markdown", docs},
	{"version", "print the version", version},
}

func PrintCmds() {
	fmt.Fprintf(os.Stderr, "Usage: %s COMMAND [args]\n\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "Available commands:")
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "\t%-10s %s\n", c.name, c.usage)
	}
}

func Main(usage func()) {
	if len(os.Args) <= 1 {
		usage()
		os.Exit(1)
	}

	for _, c := range commands {
		if c.name != os.Args[1] {
			continue
		}
		if err := c.run(os.Args[2:], os.Stdout); err != nil {
			if err == flag.ErrHelp {
				os.Exit(2)
			}
			log.Fatalf("[fatal] %s: %s", c.name, err)
		}
		os.Exit(0)
	}
	usage()
	log.Fatalf("[fatal] invalid command: '%s'", os.Args[1])
}

func main() {
	Main(PrintCmds)
}

func parse(name string, o *config.Options, args []string, addFlags func(*flag.FlagSet)) (*flag.FlagSet, error) {
	flags := config.NewFlagSet(name, o)
	if addFlags != nil {
		addFlags(flags)
	}
	if err := config.Parse(flags, o, args); err != nil {
		return nil, err
	}
	log.SetQuiet(o.Quiet)
	return flags, nil
}

func loadCatalog(o *config.Options) (*designation.Catalog, error) {
	if o.CatalogFile == "" {
		return designation.Default(), nil
	}
	return designation.FromFile(o.CatalogFile)
}

func isPbf(fname string) bool {
	return strings.HasSuffix(fname, ".pbf")
}

// readVenues reads and classifies all nodes of a PBF file.
func readVenues(o *config.Options, c *designation.Catalog, fname string, metadata bool) ([]feature.Venue, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var progress *stats.Statistics
	if !o.Quiet {
		progress = stats.StatsReporter(time.Second)
	}
	var venues []feature.Venue
	_, err = reader.ReadPbf(ctx, f, c, reader.Config{
		Workers:         o.Workers,
		IncludeMetadata: metadata,
		Stats:           progress,
	}, func(v feature.Venue) error {
		venues = append(venues, v)
		return nil
	})
	if progress != nil {
		progress.Stop()
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", fname)
	}
	sort.Slice(venues, func(i, j int) bool { return venues[i].ID < venues[j].ID })
	return venues, nil
}

func classify(args []string, stdout io.Writer) error {
	o := &config.Options{}
	var output string
	var all bool
	flags, err := parse("classify", o, args, func(flags *flag.FlagSet) {
		flags.StringVar(&output, "o", "", "output file, defaults to stdout")
		flags.BoolVar(&all, "all", false, "keep features without designations (.geojson input only)")
	})
	if err != nil {
		return err
	}
	if flags.NArg() != 1 {
		return errors.New("expected one input file")
	}
	c, err := loadCatalog(o)
	if err != nil {
		return err
	}

	input := flags.Arg(0)
	var fc *geojson.FeatureCollection
	if isPbf(input) {
		venues, err := readVenues(o, c, input, true)
		if err != nil {
			return err
		}
		fc = geojson.NewFeatureCollection()
		for _, v := range venues {
			fc.Append(feature.FromVenue(v))
		}
	} else {
		f, err := os.Open(input)
		if err != nil {
			return err
		}
		src, err := feature.ReadCollection(f)
		f.Close()
		if err != nil {
			return errors.Wrapf(err, "reading %s", input)
		}
		fc = feature.Classify(c, src, all)
	}

	w := stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return feature.WriteCollection(w, fc)
}

// tags prints the tags of all designations in args.
func tags(args []string, stdout io.Writer) error {
	o := &config.Options{}
	flags, err := parse("tags", o, args, nil)
	if err != nil {
		return err
	}
	c, err := loadCatalog(o)
	if err != nil {
		return err
	}
	var names []string
	for _, arg := range flags.Args() {
		names = append(names, designation.SplitTagValues(arg)...)
	}
	if len(names) == 0 {
		return errors.New("expected one or more designations")
	}
	t, err := c.OsmTagsFromDesignations(names)
	if err != nil {
		return err
	}
	printTags(stdout, t)
	fmt.Fprintf(stdout, "category=%s\n", c.InferCategoryFromSelectedDesignations(names))
	return nil
}

func printTags(w io.Writer, t map[string]string) {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%s=%s\n", k, t[k])
	}
}

type nodeFlags struct {
	input string
	node  string
}

func (nf *nodeFlags) add(flags *flag.FlagSet) {
	flags.StringVar(&nf.input, "input", "", "classified .geojson with the node")
	flags.StringVar(&nf.node, "node", "", "node id (node/123)")
}

func (nf *nodeFlags) load() (*osm.Node, error) {
	if nf.input == "" || nf.node == "" {
		return nil, errors.New("-input and -node are required")
	}
	id, err := feature.ParseNodeID(nf.node)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(nf.input)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	fc, err := feature.ReadCollection(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", nf.input)
	}
	gf, ok := feature.FindFeature(fc, id)
	if !ok {
		return nil, errors.Errorf("%s not found in %s", nf.node, nf.input)
	}
	return feature.NodeFromFeature(gf)
}

// form prints the edit form of a node, selected options are marked with x.
func form(args []string, stdout io.Writer) error {
	o := &config.Options{}
	nf := nodeFlags{}
	if _, err := parse("form", o, args, nf.add); err != nil {
		return err
	}
	c, err := loadCatalog(o)
	if err != nil {
		return err
	}
	node, err := nf.load()
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "%s (%s)\n", node.Tags["name"], c.InferCategoryFromOsmTags(node.Tags))
	for _, g := range c.EditForm(node.Tags) {
		fmt.Fprintf(stdout, "\n%s\n", g.Label)
		for _, opt := range g.Options {
			mark := " "
			if opt.Selected {
				mark = "x"
			}
			if g.MultiValue {
				fmt.Fprintf(stdout, "  [%s] %s (%s)\n", mark, opt.Label, opt.Name)
			} else {
				fmt.Fprintf(stdout, "  (%s) %s (%s)\n", mark, opt.Label, opt.Name)
			}
		}
	}
	return nil
}

func edit(args []string, stdout io.Writer) error {
	o := &config.Options{}
	nf := nodeFlags{}
	f := edits.Form{Values: make(map[string]string)}
	var selected string
	_, err := parse("edit", o, args, func(flags *flag.FlagSet) {
		nf.add(flags)
		flags.StringVar(&f.Name, "name", "", "name of the venue (required)")
		flags.StringVar(&selected, "designations", "", "selected designations, separated by ;")
		for _, k := range edits.Fields {
			k := k
			flags.Func(k, "set "+k, func(v string) error {
				f.Values[k] = v
				return nil
			})
		}
	})
	if err != nil {
		return err
	}
	c, err := loadCatalog(o)
	if err != nil {
		return err
	}
	node, err := nf.load()
	if err != nil {
		return err
	}
	if f.Name == "" {
		f.Name = node.Tags["name"]
	}
	f.Selected = designation.SplitTagValues(selected)

	e, err := edits.NewEdit(c, node, f)
	if err != nil {
		return err
	}
	outbox, err := edits.Open(filepath.Join(o.CacheDir, "outbox"))
	if err != nil {
		return err
	}
	defer outbox.Close()
	if err := outbox.Put(e); err != nil {
		return err
	}

	fmt.Fprintln(stdout, e.Comment)
	fmt.Fprintf(stdout, "added: %s\nremoved: %s\n", designation.JoinTagValues(e.Added), designation.JoinTagValues(e.Removed))
	printTags(stdout, e.Tags)
	fmt.Fprintln(stdout, feature.EditorURL(e.ID))
	return nil
}

func pending(args []string, stdout io.Writer) error {
	o := &config.Options{}
	var remove string
	_, err := parse("pending", o, args, func(flags *flag.FlagSet) {
		flags.StringVar(&remove, "delete", "", "remove the edit of node (node/123)")
	})
	if err != nil {
		return err
	}
	outbox, err := edits.Open(filepath.Join(o.CacheDir, "outbox"))
	if err != nil {
		return err
	}
	defer outbox.Close()

	if remove != "" {
		id, err := feature.ParseNodeID(remove)
		if err != nil {
			return err
		}
		return outbox.Delete(id)
	}

	all, err := outbox.List()
	if err != nil {
		return err
	}
	for _, e := range all {
		fmt.Fprintf(stdout, "%s v%d %s %q +[%s] -[%s]\n",
			feature.NodeURL(e.ID), e.Version, e.Timestamp.Format(time.RFC3339), e.Comment,
			designation.JoinTagValues(e.Added), designation.JoinTagValues(e.Removed))
		printTags(stdout, e.ChangesetTags())
	}
	log.Printf("[info] %d pending edits", len(all))
	return nil
}

func export(args []string, stdout io.Writer) error {
	o := &config.Options{RequireConnection: true}
	var httpprofile string
	flags, err := parse("export", o, args, func(flags *flag.FlagSet) {
		flags.StringVar(&httpprofile, "httpprofile", "", "bind address for profile server")
	})
	if err != nil {
		return err
	}
	if flags.NArg() != 1 || !isPbf(flags.Arg(0)) {
		return errors.New("expected one .osm.pbf file")
	}
	if httpprofile != "" {
		stats.StartHttpPProf(httpprofile)
	}
	c, err := loadCatalog(o)
	if err != nil {
		return err
	}

	venues, err := readVenues(o, c, flags.Arg(0), true)
	if err != nil {
		return err
	}

	db, err := database.Open(database.Config{
		ConnectionParams: o.Connection,
		Schema:           o.Schema,
		Table:            o.Table,
	})
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Init(); err != nil {
		return err
	}
	return db.Import(venues)
}

func docs(args []string, stdout io.Writer) error {
	o := &config.Options{}
	var output string
	_, err := parse("docs", o, args, func(flags *flag.FlagSet) {
		flags.StringVar(&output, "o", "", "output file, defaults to stdout")
	})
	if err != nil {
		return err
	}
	c, err := loadCatalog(o)
	if err != nil {
		return err
	}
	w := stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return designation.WriteMarkdown(w, c)
}

func version(args []string, stdout io.Writer) error {
	fmt.Fprintln(stdout, fivhmap.Version)
	return nil
}
