package postgis

import (
	"database/sql"
	"os"
	"sort"
	"strings"

	"github.com/fivh-bergen/fivhmap/log"
)

func disableDefaultSslOnLocalhost(params string) string {
	parts := strings.Fields(params)
	isLocalHost := false
	for _, p := range parts {
		if strings.HasPrefix(p, "sslmode=") {
			return params
		}
		if p == "host=localhost" || p == "host=127.0.0.1" {
			isLocalHost = true
		}
	}

	if !isLocalHost {
		return params
	}

	if _, ok := os.LookupEnv("PGSSLMODE"); ok {
		return params
	}

	// found localhost but explicit no sslmode, disable sslmode
	return params + " sslmode=disable"
}

// stripParam removes key=value from params and returns value.
func stripParam(params, key string) (string, string) {
	parts := strings.Fields(params)
	var value string
	result := parts[:0]
	for _, p := range parts {
		if strings.HasPrefix(p, key+"=") {
			value = strings.TrimPrefix(p, key+"=")
			continue
		}
		result = append(result, p)
	}
	return strings.Join(result, " "), value
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// hstoreString formats tags as hstore literal with keys in sorted order.
func hstoreString(tags map[string]string) string {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b := strings.Builder{}
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(hstoreQuote(k))
		b.WriteString("=>")
		b.WriteString(hstoreQuote(tags[k]))
	}
	return b.String()
}

var hstoreEscape = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func hstoreQuote(s string) string {
	return `"` + hstoreEscape.Replace(s) + `"`
}

func rollbackIfTx(tx **sql.Tx) {
	if *tx != nil {
		if err := (*tx).Rollback(); err != nil {
			log.Println("[error] rollback failed:", err)
		}
	}
}
