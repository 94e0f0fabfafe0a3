// Package repro renders executed requests as copy-pasteable curl commands.
package repro

import (
	"fmt"
	"sort"
	"strings"
)

// Curl renders the exact request as a command line. Header order is sorted
// so renderings are stable across runs.
func Curl(method, url string, headers map[string]string, body string) string {
	var b strings.Builder
	b.WriteString("curl -X ")
	b.WriteString(strings.ToUpper(method))

	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " -H %s", quote(k+": "+headers[k]))
	}

	if body != "" {
		fmt.Fprintf(&b, " -d %s", quote(body))
	}

	b.WriteString(" ")
	b.WriteString(quote(url))
	return b.String()
}

// quote single-quotes a shell argument, escaping embedded single quotes.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
