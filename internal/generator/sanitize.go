package generator

import (
	"fmt"

	"github.com/RamKarthikeya/ApiTestingG/internal/types"
)

const dedupDescriptionPrefix = 120

// finishBattery applies the final sanitation pipeline: drop invalid-category
// cases, refill from the deduplicated fallback pool, pad with placeholder
// valid cases, then truncate, renumber, and coerce to exactly BatterySize.
//
// The shipped battery deliberately excludes invalid-category cases even
// though the fallback synthesizer defines them; refills come from the
// filtered pool only.
func finishBattery(cases []types.TestCase, spec types.EndpointSpec, detected *types.DetectedAuth) []types.TestCase {
	kept := make([]types.TestCase, 0, len(cases))
	seen := make(map[string]bool, len(cases))
	for _, tc := range cases {
		if tc.Category == types.CategoryInvalid {
			continue
		}
		kept = append(kept, tc)
		seen[dedupKey(tc)] = true
	}

	if len(kept) < BatterySize {
		for _, tc := range Synthesize(spec, detected) {
			if tc.Category == types.CategoryInvalid || seen[dedupKey(tc)] {
				continue
			}
			kept = append(kept, tc)
			seen[dedupKey(tc)] = true
			if len(kept) >= BatterySize {
				break
			}
		}
	}

	for n := 1; len(kept) < BatterySize; n++ {
		kept = append(kept, types.TestCase{
			Category:    types.CategoryValid,
			Description: fmt.Sprintf("Valid request variant %d with the original payload", n),
			Request: types.Request{
				Method:   spec.Method,
				Endpoint: spec.Endpoint,
				Headers:  spec.Headers,
				Body:     spec.Body,
			},
			Expected: types.Expected{Status: types.StatusSet{successStatus(spec)}},
		})
	}

	kept = kept[:BatterySize]
	for i := range kept {
		coerce(&kept[i], spec)
		kept[i].ID = fmt.Sprintf("TC_%03d", i+1)
	}
	return kept
}

// coerce fills request fields the model omitted from the original spec and
// normalizes the expected status to a usable set.
func coerce(tc *types.TestCase, spec types.EndpointSpec) {
	if tc.Request.Method == "" {
		tc.Request.Method = spec.Method
	}
	if tc.Request.Endpoint == "" {
		tc.Request.Endpoint = spec.Endpoint
	}
	if tc.Request.Headers == nil {
		tc.Request.Headers = spec.Headers
	}
	if tc.Request.Body.IsNull() {
		tc.Request.Body = spec.Body
	}
	if len(tc.Expected.Status) == 0 {
		tc.Expected.Status = types.StatusSet{successStatus(spec)}
	}
	switch tc.Category {
	case types.CategoryValid, types.CategoryBoundary, types.CategorySecurity, types.CategoryInvalid:
	default:
		tc.Category = types.CategoryValid
	}
	if tc.Description == "" {
		tc.Description = "Generated test case"
	}
}

func dedupKey(tc types.TestCase) string {
	desc := tc.Description
	if len(desc) > dedupDescriptionPrefix {
		desc = desc[:dedupDescriptionPrefix]
	}
	return string(tc.Category) + "|" + desc
}
