package probe

import (
	"strings"

	"github.com/RamKarthikeya/ApiTestingG/internal/types"
)

// Keyword sets for body inspection. Matching is case-insensitive substring
// search over the stringified body; intentionally coarse. A false positive
// just pins an override, a false negative degrades to defaults.
var (
	authMissingKeywords = []string{"unauthorized", "auth required", "missing api", "missing token", "no api key"}
	authInvalidKeywords = []string{"invalid api", "invalid token", "unauthorized"}
	rateLimitKeywords   = []string{"rate", "too many requests", "limit exceeded"}
	conflictKeywords    = []string{"conflict", "duplicate", "already exists", "unsupported media", "content-type"}
)

// credentialed variants in detection priority order; the first 2xx wins
var detectionOrder = []string{VariantValidAuth, VariantValidAPIKey}

var variantHeaderName = map[string]string{
	VariantValidAuth:   "Authorization",
	VariantValidAPIKey: "X-API-Key",
}

// Infer derives status overrides and a detected credential style from raw
// probe outcomes. Missing or failed variants contribute nothing.
func Infer(outcomes types.ProbeResults, spec types.EndpointSpec) (types.InferredOverrides, *types.DetectedAuth) {
	var inferred types.InferredOverrides

	inferred.AuthErrorStatus = statusFromOutcome(outcomes[VariantNoAuth], authMissingKeywords)

	if s := statusFromOutcome(outcomes[VariantInvalidAuth], authInvalidKeywords); s != 0 {
		if inferred.AuthErrorStatus == 0 {
			inferred.AuthErrorStatus = s
		}
	}

	if rl, ok := outcomes[VariantRateLimit]; ok && rl.Error == "" {
		if rl.Status == 429 {
			inferred.RateLimitStatus = 429
		} else if matchesAny(rl.Body, rateLimitKeywords) {
			inferred.RateLimitStatus = rl.Status
		}
	}

	// Conflict and content-type-mismatch signals share one override; any
	// variant can carry them.
	for _, name := range orderedVariantNames(outcomes) {
		o := outcomes[name]
		if o.Error == "" && o.Status != 0 && matchesAny(o.Body, conflictKeywords) {
			inferred.ConflictStatus = o.Status
			break
		}
	}

	var detected *types.DetectedAuth
	for _, name := range detectionOrder {
		o, ok := outcomes[name]
		if !ok || o.Error != "" {
			continue
		}
		if o.Status >= 200 && o.Status < 300 {
			inferred.SuccessStatus = o.Status
			detected = &types.DetectedAuth{
				Header: variantHeaderName[name],
				Value:  credentialValue(name, spec),
			}
			break
		}
	}

	return inferred, detected
}

// statusFromOutcome adopts an explicit 401/403, else the outcome's status
// when the body carries one of the keywords.
func statusFromOutcome(o types.ProbeOutcome, keywords []string) int {
	if o.Error != "" || o.Status == 0 {
		return 0
	}
	if o.Status == 401 || o.Status == 403 {
		return o.Status
	}
	if matchesAny(o.Body, keywords) {
		return o.Status
	}
	return 0
}

func matchesAny(body string, keywords []string) bool {
	lower := strings.ToLower(body)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func credentialValue(variantName string, spec types.EndpointSpec) string {
	switch variantName {
	case VariantValidAuth:
		return "Bearer " + spec.SampleValidToken
	case VariantValidAPIKey:
		return spec.SampleValidAPIKey
	}
	return ""
}

// orderedVariantNames keeps the conflict scan deterministic: the fixed
// variants first, then anything else.
func orderedVariantNames(outcomes types.ProbeResults) []string {
	fixed := []string{
		VariantNoAuth, VariantInvalidAuth, VariantRateLimit,
		VariantAuthWrong, VariantAPIKeyWrong, VariantValidAuth, VariantValidAPIKey,
	}
	names := make([]string, 0, len(outcomes))
	seen := make(map[string]bool, len(outcomes))
	for _, n := range fixed {
		if _, ok := outcomes[n]; ok {
			names = append(names, n)
			seen[n] = true
		}
	}
	for n := range outcomes {
		if !seen[n] {
			names = append(names, n)
		}
	}
	return names
}
