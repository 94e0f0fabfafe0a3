// Package generator synthesizes a test battery for one endpoint. The model
// is consulted as a noisy oracle; everything it returns is extracted,
// validated, padded, filtered, and renumbered, and the deterministic
// fallback battery guarantees a usable result when it fails.
package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/RamKarthikeya/ApiTestingG/internal/cache"
	"github.com/RamKarthikeya/ApiTestingG/internal/extract"
	"github.com/RamKarthikeya/ApiTestingG/internal/llm"
	"github.com/RamKarthikeya/ApiTestingG/internal/logger"
	"github.com/RamKarthikeya/ApiTestingG/internal/probe"
	"github.com/RamKarthikeya/ApiTestingG/internal/types"
)

const (
	// BatterySize is the exact number of test cases every generation returns.
	BatterySize = 12

	// CacheTTL bounds how long a generated battery is served verbatim.
	CacheTTL = 5 * time.Minute

	modelCallTimeout = 30 * time.Second
)

// Prober issues the calibration battery. Satisfied by *probe.Engine.
type Prober interface {
	Probe(ctx context.Context, spec types.EndpointSpec) types.ProbeResults
}

// Summary counts generated cases per category.
type Summary struct {
	Total      int                    `json:"total"`
	Categories map[types.Category]int `json:"categories"`
}

// Result is the full outcome of one generation request.
type Result struct {
	TestCases    []types.TestCase         `json:"testCases"`
	Summary      Summary                  `json:"summary"`
	ProbeResults types.ProbeResults       `json:"probeResults,omitempty"`
	Inferred     *types.InferredOverrides `json:"inferred,omitempty"`
	Detected     *types.DetectedAuth      `json:"detected,omitempty"`
	Cached       bool                     `json:"cached"`
	Note         string                   `json:"note,omitempty"`
}

// Generator orchestrates probing, the model call, extraction, fallback
// synthesis, and caching. All collaborators are constructor-injected.
type Generator struct {
	model  llm.Client
	prober Prober
	store  *cache.Store[Result]
	logger *logger.Logger
}

// New creates a generator. prober may be nil to disable probing entirely.
func New(model llm.Client, prober Prober, store *cache.Store[Result], log *logger.Logger) *Generator {
	return &Generator{
		model:  model,
		prober: prober,
		store:  store,
		logger: log,
	}
}

// Generate returns a sanitized battery of exactly BatterySize test cases.
// It never returns an error: any failure along the way degrades to the
// deterministic fallback battery, annotated in Note.
func (g *Generator) Generate(ctx context.Context, spec types.EndpointSpec) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = g.fallbackResult(spec, fmt.Sprintf("generation recovered: %v", r))
		}
	}()

	// A cache hit returns the stored entry verbatim. No probing and no
	// model call happen on this path, even when autoProbe is requested.
	key := Fingerprint(spec)
	if cached, ok := g.store.Get(key); ok {
		cached.Cached = true
		return cached
	}

	workSpec := spec
	var probeResults types.ProbeResults
	var inferred types.InferredOverrides
	var detected *types.DetectedAuth

	if spec.AutoProbe && g.prober != nil {
		probeResults = g.prober.Probe(ctx, spec)
		inferred, detected = probe.Infer(probeResults, spec)
		workSpec.Overrides = mergeOverrides(spec.Overrides, inferred)
	}

	cases, note := g.modelBattery(ctx, workSpec, detected)

	if len(cases) < BatterySize {
		cases = append(cases, Synthesize(workSpec, detected)...)
	}

	if spec.AutoProbe {
		applyInferred(cases, inferred, detected, workSpec.Overrides)
	}

	cases = finishBattery(cases, workSpec, detected)

	result = Result{
		TestCases:    cases,
		Summary:      summarize(cases),
		ProbeResults: redactProbeResults(probeResults, spec),
		Detected:     redactDetected(detected),
		Cached:       false,
		Note:         note,
	}
	if !inferred.Empty() {
		result.Inferred = &inferred
	}

	g.store.Put(key, result)
	return result
}

// modelBattery prompts the model and decodes its answer. Any failure swaps
// in the full fallback battery with a note; nothing propagates.
func (g *Generator) modelBattery(ctx context.Context, spec types.EndpointSpec, detected *types.DetectedAuth) ([]types.TestCase, string) {
	prompt := buildPrompt(spec)

	callCtx, cancel := context.WithTimeout(ctx, modelCallTimeout)
	defer cancel()

	raw, err := g.model.Complete(callCtx, prompt)
	if err != nil {
		return Synthesize(spec, detected), fmt.Sprintf("model call failed, using fallback battery: %v", err)
	}

	text, ok := extract.JSON(raw)
	if !ok {
		return Synthesize(spec, detected), "no JSON found in model response, using fallback battery"
	}

	var cases []types.TestCase
	if err := json.Unmarshal([]byte(text), &cases); err != nil || len(cases) == 0 {
		return Synthesize(spec, detected), "model response failed strict parse, using fallback battery"
	}

	return cases, ""
}

func (g *Generator) fallbackResult(spec types.EndpointSpec, note string) Result {
	cases := finishBattery(Synthesize(spec, nil), spec, nil)
	return Result{
		TestCases: cases,
		Summary:   summarize(cases),
		Cached:    false,
		Note:      note,
	}
}

// mergeOverrides fills unset fields from inference; explicit caller values
// always win.
func mergeOverrides(explicit types.Overrides, inferred types.InferredOverrides) types.Overrides {
	merged := explicit
	if merged.AuthErrorStatus == 0 {
		merged.AuthErrorStatus = inferred.AuthErrorStatus
	}
	if merged.RateLimitStatus == 0 {
		merged.RateLimitStatus = inferred.RateLimitStatus
	}
	if merged.ConflictStatus == 0 {
		merged.ConflictStatus = inferred.ConflictStatus
	}
	return merged
}

// Description keyword buckets for probe-derived status rewriting. Checked
// in order; the first matching bucket wins.
var statusBuckets = []struct {
	keywords []string
	pick     func(types.Overrides, types.InferredOverrides) int
}{
	{
		keywords: []string{"rate limit", "too many", "throttl"},
		pick:     func(o types.Overrides, _ types.InferredOverrides) int { return o.RateLimitStatus },
	},
	{
		keywords: []string{"conflict", "duplicate"},
		pick:     func(o types.Overrides, _ types.InferredOverrides) int { return o.ConflictStatus },
	},
	{
		keywords: []string{"invalid credential", "invalid token", "invalid api key", "wrong auth", "expired"},
		pick:     func(o types.Overrides, _ types.InferredOverrides) int { return o.AuthErrorStatus },
	},
	{
		keywords: []string{"missing credential", "missing token", "missing api key", "no auth", "without auth", "unauthenticated", "no api key"},
		pick:     func(o types.Overrides, _ types.InferredOverrides) int { return o.AuthErrorStatus },
	},
	{
		keywords: []string{"happy path", "baseline", "successful"},
		pick:     func(_ types.Overrides, inf types.InferredOverrides) int { return inf.SuccessStatus },
	},
}

// applyInferred rewrites each case's expected status by matching its
// description against fixed keyword buckets, and injects the detected
// credential header into happy-path cases.
func applyInferred(cases []types.TestCase, inferred types.InferredOverrides, detected *types.DetectedAuth, overrides types.Overrides) {
	for i := range cases {
		desc := strings.ToLower(cases[i].Description)

		for _, bucket := range statusBuckets {
			if !matchesAnyKeyword(desc, bucket.keywords) {
				continue
			}
			if status := bucket.pick(overrides, inferred); status != 0 {
				cases[i].Expected.Status = types.StatusSet{status}
			}
			break
		}

		if detected != nil && looksHappyPath(cases[i]) {
			if cases[i].Request.Headers == nil {
				cases[i].Request.Headers = make(map[string]string, 1)
			}
			cases[i].Request.Headers[detected.Header] = detected.Value
		}
	}
}

func matchesAnyKeyword(desc string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(desc, kw) {
			return true
		}
	}
	return false
}

func looksHappyPath(tc types.TestCase) bool {
	if tc.Category != types.CategoryValid {
		return false
	}
	desc := strings.ToLower(tc.Description)
	return strings.Contains(desc, "valid") ||
		strings.Contains(desc, "happy path") ||
		strings.Contains(desc, "baseline") ||
		strings.Contains(desc, "successful")
}

func summarize(cases []types.TestCase) Summary {
	s := Summary{
		Total:      len(cases),
		Categories: make(map[types.Category]int),
	}
	for _, tc := range cases {
		s.Categories[tc.Category]++
	}
	return s
}

func redactProbeResults(results types.ProbeResults, spec types.EndpointSpec) types.ProbeResults {
	if results == nil {
		return nil
	}
	secrets := []string{spec.SampleValidToken, spec.SampleValidAPIKey}
	scrub := func(s string) string {
		for _, secret := range secrets {
			if secret != "" {
				s = strings.ReplaceAll(s, secret, "[REDACTED]")
			}
		}
		return logger.Redact(s)
	}

	redacted := make(types.ProbeResults, len(results))
	for name, o := range results {
		o.Curl = scrub(o.Curl)
		o.Body = scrub(o.Body)
		headers := make(map[string]string, len(o.Headers))
		for k, v := range o.Headers {
			headers[k] = scrub(v)
		}
		o.Headers = headers
		redacted[name] = o
	}
	return redacted
}

func redactDetected(detected *types.DetectedAuth) *types.DetectedAuth {
	if detected == nil {
		return nil
	}
	return &types.DetectedAuth{Header: detected.Header, Value: "[REDACTED]"}
}
