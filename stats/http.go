package stats

import (
	"net/http"
	_ "net/http/pprof"

	"github.com/fivh-bergen/fivhmap/log"
)

// StartHttpPProf serves net/http/pprof on bind.
func StartHttpPProf(bind string) {
	go func() {
		log.Println("[error]", http.ListenAndServe(bind, nil))
	}()
}
