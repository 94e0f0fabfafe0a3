package generator

import (
	"sort"
	"strings"

	"github.com/RamKarthikeya/ApiTestingG/internal/types"
)

// Default expected statuses used when the endpoint spec carries no overrides.
const (
	defaultAuthErrorStatus = 401
	defaultRateLimitStatus = 429
	defaultConflictStatus  = 409
	defaultInvalidStatus   = 400
)

const oversizedFieldLength = 2000

// Synthesize produces the deterministic fallback battery: a fixed set of
// BatterySize well-formed test cases derived from the endpoint spec alone. It
// is pure and total; it never fails and performs no I/O. This is the correctness
// backstop for every path where the model lets us down.
func Synthesize(spec types.EndpointSpec, detected *types.DetectedAuth) []types.TestCase {
	success := successStatus(spec)
	authErr := orDefault(spec.Overrides.AuthErrorStatus, defaultAuthErrorStatus)
	rateLimit := orDefault(spec.Overrides.RateLimitStatus, defaultRateLimitStatus)
	conflict := orDefault(spec.Overrides.ConflictStatus, defaultConflictStatus)
	invalid := orDefault(spec.Overrides.InvalidStatus, defaultInvalidStatus)

	baseHeaders := func() map[string]string {
		h := make(map[string]string, len(spec.Headers)+1)
		for k, v := range spec.Headers {
			h[k] = v
		}
		if detected != nil {
			h[detected.Header] = detected.Value
		}
		return h
	}

	mk := func(category types.Category, description string, req types.Request, status int) types.TestCase {
		if req.Method == "" {
			req.Method = spec.Method
		}
		if req.Endpoint == "" {
			req.Endpoint = spec.Endpoint
		}
		return types.TestCase{
			Category:    category,
			Description: description,
			Request:     req,
			Expected:    types.Expected{Status: types.StatusSet{status}},
		}
	}

	return []types.TestCase{
		mk(types.CategoryValid, "Baseline valid request",
			types.Request{Headers: baseHeaders(), Body: spec.Body}, success),

		mk(types.CategoryInvalid, "Request body missing a required field",
			types.Request{Headers: baseHeaders(), Body: withoutFirstField(spec.Body)}, invalid),

		mk(types.CategoryInvalid, "Empty request body",
			types.Request{Headers: baseHeaders(), Body: types.ObjectBody(map[string]any{})}, invalid),

		mk(types.CategorySecurity, "Request with missing credential",
			types.Request{Headers: withoutCredentials(spec.Headers), Body: spec.Body}, authErr),

		mk(types.CategorySecurity, "Request with invalid credential",
			types.Request{Headers: withHeader(spec.Headers, "Authorization", "Bearer invalid-token-000"), Body: spec.Body}, authErr),

		mk(types.CategorySecurity, "Request engineered to trigger rate limiting",
			types.Request{Headers: withHeader(baseHeaders(), "X-Probe-Rate-Limit", "exceeded"), Body: spec.Body}, rateLimit),

		mk(types.CategoryBoundary, "Oversized string field in request body",
			types.Request{Headers: baseHeaders(), Body: withOversizedField(spec.Body)}, invalid),

		mk(types.CategorySecurity, "SQL injection shaped payload",
			types.Request{Headers: baseHeaders(), Body: withInjectionPayload(spec.Body)}, invalid),

		mk(types.CategoryBoundary, "Duplicate payload to trigger a conflict",
			types.Request{Headers: baseHeaders(), Body: spec.Body}, conflict),

		mk(types.CategoryInvalid, "Request with wrong content type",
			types.Request{Headers: withHeader(baseHeaders(), "Content-Type", "text/plain"), Body: types.TextBody(spec.Body.String())}, invalid),

		mk(types.CategoryValid, "Valid request with query parameters",
			types.Request{Endpoint: withQuery(spec.Endpoint), Headers: baseHeaders(), Body: spec.Body}, success),

		mk(types.CategoryValid, "Valid request with optional debug header",
			types.Request{Headers: withHeader(baseHeaders(), "X-Debug", "true"), Body: spec.Body}, success),
	}
}

func successStatus(spec types.EndpointSpec) int {
	if s := spec.ExpectedStatus.Primary(); s != 0 {
		return s
	}
	if strings.EqualFold(spec.Method, "POST") {
		return 201
	}
	return 200
}

func orDefault(v, def int) int {
	if v != 0 {
		return v
	}
	return def
}

func withHeader(headers map[string]string, key, value string) map[string]string {
	h := make(map[string]string, len(headers)+1)
	for k, v := range headers {
		h[k] = v
	}
	h[key] = value
	return h
}

func withoutCredentials(headers map[string]string) map[string]string {
	h := make(map[string]string, len(headers))
	for k, v := range headers {
		lower := strings.ToLower(k)
		if lower == "authorization" || lower == "x-api-key" {
			continue
		}
		h[k] = v
	}
	return h
}

// withoutFirstField drops the first object key in sorted order, simulating
// a missing required field. Non-object bodies come back as an empty object.
func withoutFirstField(body *types.Body) *types.Body {
	if body.IsNull() || body.Kind != types.BodyObject || len(body.Object) == 0 {
		return types.ObjectBody(map[string]any{})
	}

	keys := make([]string, 0, len(body.Object))
	for k := range body.Object {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	trimmed := make(map[string]any, len(body.Object)-1)
	for _, k := range keys[1:] {
		trimmed[k] = body.Object[k]
	}
	return types.ObjectBody(trimmed)
}

func withOversizedField(body *types.Body) *types.Body {
	oversized := strings.Repeat("A", oversizedFieldLength)
	if body.IsNull() || body.Kind != types.BodyObject {
		return types.TextBody(oversized)
	}
	return replaceFirstStringField(body, oversized)
}

func withInjectionPayload(body *types.Body) *types.Body {
	payload := "' OR '1'='1'; DROP TABLE users; --"
	if body.IsNull() || body.Kind != types.BodyObject {
		return types.ObjectBody(map[string]any{"input": payload})
	}
	return replaceFirstStringField(body, payload)
}

// replaceFirstStringField substitutes value into the first string-valued
// key in sorted order, or adds an "input" key when none exists.
func replaceFirstStringField(body *types.Body, value string) *types.Body {
	keys := make([]string, 0, len(body.Object))
	for k := range body.Object {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	mutated := make(map[string]any, len(body.Object)+1)
	for k, v := range body.Object {
		mutated[k] = v
	}
	for _, k := range keys {
		if _, ok := mutated[k].(string); ok {
			mutated[k] = value
			return types.ObjectBody(mutated)
		}
	}
	mutated["input"] = value
	return types.ObjectBody(mutated)
}

func withQuery(endpoint string) string {
	if strings.Contains(endpoint, "?") {
		return endpoint + "&page=1&limit=10"
	}
	return endpoint + "?page=1&limit=10"
}
