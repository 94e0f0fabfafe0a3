package generator

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"

	"github.com/RamKarthikeya/ApiTestingG/internal/types"
)

// Fingerprint derives the cache key for a generation request from method,
// endpoint, and headers. Headers are sorted so equivalent requests hash
// identically regardless of map order.
func Fingerprint(spec types.EndpointSpec) string {
	var b strings.Builder
	b.WriteString(strings.ToUpper(spec.Method))
	b.WriteString("|")
	b.WriteString(spec.Endpoint)

	keys := make([]string, 0, len(spec.Headers))
	for k := range spec.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString("|")
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(spec.Headers[k])
	}

	sum := sha256.Sum256([]byte(b.String()))
	return fmt.Sprintf("%x", sum)
}
