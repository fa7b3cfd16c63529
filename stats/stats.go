// Package stats reports the progress of long running reads.
package stats

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

type counter struct {
	nodes      int64
	venues     int64
	lastReport time.Time
	lastNodes  int64
	lastVenues int64
}

// Statistics counts parsed nodes and classified venues. A nil *Statistics
// counts nothing.
type Statistics struct {
	nodes  int64
	venues int64
	done   chan struct{}
	wg     sync.WaitGroup
	out    io.Writer
}

func (s *Statistics) AddNodes(n int) {
	if s != nil {
		atomic.AddInt64(&s.nodes, int64(n))
	}
}

func (s *Statistics) AddVenues(n int) {
	if s != nil {
		atomic.AddInt64(&s.venues, int64(n))
	}
}

func (s *Statistics) Nodes() int64  { return atomic.LoadInt64(&s.nodes) }
func (s *Statistics) Venues() int64 { return atomic.LoadInt64(&s.venues) }

// StatsReporter prints the progress every interval to stderr until Stop is
// called.
func StatsReporter(interval time.Duration) *Statistics {
	return newReporter(interval, os.Stderr)
}

func newReporter(interval time.Duration, out io.Writer) *Statistics {
	s := &Statistics{done: make(chan struct{}), out: out}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		c := counter{lastReport: time.Now()}
		tick := time.NewTicker(interval)
		defer tick.Stop()
		for {
			select {
			case <-tick.C:
				c.print(s)
			case <-s.done:
				c.print(s)
				fmt.Fprint(s.out, "\n")
				return
			}
		}
	}()
	return s
}

// Stop prints the final counts and stops the reporter.
func (s *Statistics) Stop() {
	close(s.done)
	s.wg.Wait()
}

func (c *counter) print(s *Statistics) {
	c.nodes = s.Nodes()
	c.venues = s.Venues()
	dur := time.Since(c.lastReport).Seconds()
	if dur <= 0 {
		dur = 1
	}
	nodesPS := int64(float64(c.nodes-c.lastNodes)/dur/100) * 100
	venuesPS := int64(float64(c.venues-c.lastVenues) / dur)

	fmt.Fprintf(s.out, "Nodes: %7d/s (%10d) Venues: %5d/s (%7d)",
		nodesPS, c.nodes, venuesPS, c.venues)
	if val := os.Getenv("GOGCTRACE"); val != "" {
		fmt.Fprint(s.out, "\n")
	} else {
		fmt.Fprint(s.out, "\r\b")
	}
	c.lastNodes = c.nodes
	c.lastVenues = c.venues
	c.lastReport = time.Now()
}
