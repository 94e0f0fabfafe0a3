package executor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sort"
	"strings"

	"github.com/RamKarthikeya/ApiTestingG/internal/schema"
	"github.com/RamKarthikeya/ApiTestingG/internal/types"
)

// hintKeys are the body fields whose presence usually carries the real
// failure reason.
var hintKeys = []string{"error", "errors", "message", "detail", "validation"}

const shortBodyLimit = 256

// classify decides PASSED or FAILED for a result that has an actual
// response. A status match can still be downgraded to FAILED by a response
// schema assertion.
func classify(result *types.RunResult) {
	if !result.Expected.Status.Contains(result.Actual.Status) {
		result.Status = types.RunFailed
		return
	}

	if result.Expected.Schema != nil {
		var doc any
		if result.Actual.Data != nil {
			doc = result.Actual.Data.Value()
		}
		if errs := schema.Validate(doc, result.Expected.Schema); len(errs) > 0 {
			result.Status = types.RunFailed
			result.SchemaErrors = errs
			return
		}
	}

	result.Status = types.RunPassed
}

// extractHint pulls a short diagnostic from the response body: error-ish
// object keys, or a short text body that smells like an upstream block.
func extractHint(data *types.Body) string {
	if data == nil {
		return ""
	}

	if data.Kind == types.BodyObject {
		var present []string
		for _, key := range hintKeys {
			if _, ok := data.Object[key]; ok {
				present = append(present, key)
			}
		}
		if len(present) > 0 {
			return "response contains error details in: " + strings.Join(present, ", ")
		}
		return ""
	}

	if data.Kind == types.BodyText && len(data.Text) < shortBodyLimit {
		lower := strings.ToLower(data.Text)
		if strings.Contains(lower, "forbidden") || strings.Contains(lower, "access denied") {
			return "response suggests the request was blocked upstream (proxy or WAF)"
		}
	}
	return ""
}

// Summarize recomputes the aggregate over results.
func Summarize(results []types.RunResult, target string) types.RunSummary {
	summary := types.RunSummary{Total: len(results), Target: target}
	for _, r := range results {
		switch r.Status {
		case types.RunPassed:
			summary.Passed++
		case types.RunFailed:
			summary.Failed++
		default:
			summary.Errors++
		}
	}
	return summary
}

// Suggest proposes widened expectations: one suggestion per non-passed
// result whose observed status was not already expected.
func Suggest(results []types.RunResult) []types.Suggestion {
	var suggestions []types.Suggestion
	for _, r := range results {
		if r.Status == types.RunPassed || r.Actual == nil {
			continue
		}
		if r.Expected.Status.Contains(r.Actual.Status) {
			continue
		}

		current := append([]int(nil), r.Expected.Status...)
		sort.Ints(current)

		suggestions = append(suggestions, types.Suggestion{
			ID:                  r.ID,
			CurrentExpected:     current,
			Observed:            r.Actual.Status,
			RecommendedExpected: r.Expected.Status.Union(r.Actual.Status),
			Hint:                r.Hint,
		})
	}
	return suggestions
}

// normalizeTransportError maps known transport failures onto short human
// strings; anything unrecognized passes through unchanged.
func normalizeTransportError(err error) string {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Sprintf("request timed out after %s", requestTimeout)
	case strings.Contains(err.Error(), "connection refused"):
		return "connection refused (target not reachable)"
	case strings.Contains(err.Error(), "no such host"):
		return "host not found"
	default:
		return err.Error()
	}
}

func truncateBody(s string) string {
	if len(s) <= maxStoredBody {
		return s
	}
	return s[:maxStoredBody] + "... [truncated]"
}
