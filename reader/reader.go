// Package reader classifies the nodes of OSM PBF files.
package reader

import (
	"context"
	"io"
	"runtime"
	"sync"

	osm "github.com/omniscale/go-osm"
	"github.com/omniscale/go-osm/parser/pbf"
	"github.com/pkg/errors"

	"github.com/fivh-bergen/fivhmap/designation"
	"github.com/fivh-bergen/fivhmap/feature"
	"github.com/fivh-bergen/fivhmap/log"
	"github.com/fivh-bergen/fivhmap/stats"
)

type Config struct {
	// Workers specifies how many goroutines parse and classify nodes.
	// Defaults to runtime.NumCPU if <= 0.
	Workers int
	// IncludeMetadata parses versions, required for editing nodes.
	IncludeMetadata bool
	// Stats receives the progress, optional.
	Stats *stats.Statistics
}

// Stats counts the parsed and classified nodes.
type Stats struct {
	Nodes      int64
	Venues     int64
	ByCategory map[string]int64
}

func (s *Stats) add(v feature.Venue) {
	s.Venues++
	s.ByCategory[v.Category]++
}

// ReadPbf parses all nodes from r, classifies them with c and calls handle
// for each node with at least one designation. handle is called from a
// single goroutine.
func ReadPbf(ctx context.Context, r io.Reader, c *designation.Catalog, conf Config, handle func(feature.Venue) error) (*Stats, error) {
	cpus := conf.Workers
	if cpus <= 0 {
		cpus = runtime.NumCPU()
	}
	parsers, workers := workersForCpus(cpus)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	nodes := make(chan []osm.Node, 4)
	venues := make(chan feature.Venue, 64)
	parser := pbf.New(r, pbf.Config{
		Nodes:           nodes,
		IncludeMetadata: conf.IncludeMetadata,
		Concurrency:     parsers,
	})

	result := &Stats{ByCategory: make(map[string]int64)}
	var nodeCount int64
	var countMu sync.Mutex

	// The parser does not close nodes if it fails to read a block.
	stop := make(chan struct{})

	wg := sync.WaitGroup{}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				var nds []osm.Node
				var ok bool
				select {
				case nds, ok = <-nodes:
				case <-stop:
					return
				}
				if !ok {
					return
				}
				countMu.Lock()
				nodeCount += int64(len(nds))
				countMu.Unlock()
				conf.Stats.AddNodes(len(nds))
				if ctx.Err() != nil {
					// drain until the parser closes nodes
					continue
				}
				classify(c, nds, venues)
			}
		}()
	}

	handleErr := make(chan error, 1)
	go func() {
		var err error
		for v := range venues {
			if err != nil {
				continue
			}
			if err = handle(v); err != nil {
				cancel()
				continue
			}
			result.add(v)
			conf.Stats.AddVenues(1)
		}
		handleErr <- err
	}()

	parseErr := parser.Parse(ctx)
	if parseErr != nil && parseErr != ctx.Err() {
		close(stop)
	}
	wg.Wait()
	close(venues)
	err := <-handleErr
	result.Nodes = nodeCount

	if err != nil {
		return result, err
	}
	if parseErr != nil {
		return result, errors.Wrap(parseErr, "parsing pbf")
	}
	log.Printf("[info] classified %d of %d nodes", result.Venues, result.Nodes)
	return result, nil
}

// workersForCpus splits cpus between PBF block parsers and classifiers.
// Decoding blocks is the expensive part.
func workersForCpus(cpus int) (parsers, classifiers int) {
	if cpus < 2 {
		return 1, 1
	}
	classifiers = cpus / 3
	if classifiers < 1 {
		classifiers = 1
	}
	return cpus - classifiers, classifiers
}

func classify(c *designation.Catalog, nds []osm.Node, venues chan<- feature.Venue) {
	for i := range nds {
		if len(nds[i].Tags) == 0 {
			continue
		}
		if v, ok := feature.NewVenue(c, &nds[i]); ok {
			venues <- v
		}
	}
}
