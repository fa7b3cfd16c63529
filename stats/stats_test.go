package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestStatsReporter(t *testing.T) {
	buf := &bytes.Buffer{}
	s := newReporter(time.Hour, buf)
	s.AddNodes(8000)
	s.AddNodes(2000)
	s.AddVenues(12)
	s.Stop()

	if s.Nodes() != 10000 || s.Venues() != 12 {
		t.Error(s.Nodes(), s.Venues())
	}
	out := buf.String()
	if !strings.Contains(out, "(     10000)") || !strings.Contains(out, "(     12)") {
		t.Errorf("%q", out)
	}
}

func TestNilStatistics(t *testing.T) {
	var s *Statistics
	s.AddNodes(1)
	s.AddVenues(1)
}
