package generator

import (
	"encoding/json"
	"fmt"

	"github.com/RamKarthikeya/ApiTestingG/internal/types"
)

// buildPrompt renders the generation prompt for one endpoint spec. The
// output contract is strict: a JSON array only, no prose, no fences. The
// model routinely violates it anyway, which is what internal/extract and
// the fallback battery are for.
func buildPrompt(spec types.EndpointSpec) string {
	headersJSON, _ := json.Marshal(spec.Headers)
	bodyJSON, _ := json.Marshal(spec.Body)
	overridesJSON, _ := json.Marshal(spec.Overrides)

	expected := "not specified"
	if len(spec.ExpectedStatus) > 0 {
		raw, _ := json.Marshal(spec.ExpectedStatus)
		expected = string(raw)
	}

	return fmt.Sprintf(`Generate exactly %d API test cases for the following endpoint:

Method: %s
Endpoint: %s
Headers: %s
Request Body Template: %s
Expected Success Status: %s
Status Overrides: %s

Cover these categories: "valid" (happy path variants), "boundary" (size and
format limits), "security" (missing/invalid credentials, injection, rate
limiting), "invalid" (malformed or incomplete requests).

Each test case must be an object with this exact shape:
{
  "id": "TC_001",
  "category": "valid",
  "description": "Brief description of what the case verifies",
  "request": {
    "method": "%s",
    "endpoint": "%s",
    "headers": {},
    "body": null
  },
  "expected_response": {
    "status": 200
  }
}

CRITICAL OUTPUT RULES:
1. Respond with a JSON array only. No markdown, no code fences, no prose.
2. Generate exactly %d test cases.
3. "status" is an integer or an array of integers, nothing else.
4. Every request must target the endpoint above.`,
		BatterySize,
		spec.Method, spec.Endpoint, headersJSON, bodyJSON, expected, overridesJSON,
		spec.Method, spec.Endpoint,
		BatterySize)
}
