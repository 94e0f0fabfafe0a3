// Package executor runs test cases against a live target under a bounded
// concurrency ceiling and classifies every outcome.
package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/RamKarthikeya/ApiTestingG/internal/logger"
	"github.com/RamKarthikeya/ApiTestingG/internal/repro"
	"github.com/RamKarthikeya/ApiTestingG/internal/resolver"
	"github.com/RamKarthikeya/ApiTestingG/internal/types"
)

const (
	// DefaultConcurrency is used when the caller passes 0.
	DefaultConcurrency = 5

	// MaxConcurrency caps the worker ceiling regardless of caller input.
	MaxConcurrency = 50

	requestTimeout = 10 * time.Second
	maxRedirects   = 5
	maxStoredBody  = 64 * 1024

	defaultUserAgent = "ApiTestingG/1.0"
)

// SuggestionSink persists suggestion artifacts. Writes are best-effort; a
// sink failure never fails the run.
type SuggestionSink interface {
	WriteSuggestions(suggestions []types.Suggestion) error
}

// RunOutput bundles everything one execution request produces.
type RunOutput struct {
	Results     []types.RunResult  `json:"results"`
	Summary     types.RunSummary   `json:"summary"`
	Suggestions []types.Suggestion `json:"suggestions"`
}

// Runner executes test case batteries.
type Runner struct {
	client *http.Client
	sink   SuggestionSink
	logger *logger.Logger
}

// NewRunner creates a runner. sink may be nil to skip suggestion artifacts.
func NewRunner(sink SuggestionSink, log *logger.Logger) *Runner {
	return &Runner{
		client: &http.Client{
			Timeout: requestTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		sink:   sink,
		logger: log,
	}
}

// Run executes every test case under the concurrency ceiling and returns
// results in input order, a recomputed summary, and expectation-update
// suggestions. Failures local to one case never abort siblings.
func (r *Runner) Run(ctx context.Context, cases []types.TestCase, targetURL string, concurrency int) RunOutput {
	concurrency = clampConcurrency(concurrency)

	results := make([]types.RunResult, len(cases))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, tc := range cases {
		wg.Add(1)
		go func(i int, tc types.TestCase) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[i] = r.runOne(ctx, tc, targetURL)
			if r.logger != nil {
				r.logger.LogRun(results[i].ID, string(results[i].Status), results[i].Error)
			}
		}(i, tc)
	}
	wg.Wait()

	suggestions := Suggest(results)
	if r.sink != nil && len(suggestions) > 0 {
		// Best effort: a failed write is logged and forgotten.
		if err := r.sink.WriteSuggestions(suggestions); err != nil && r.logger != nil {
			r.logger.Printf("suggestion write failed: %v\n", err)
		}
	}

	return RunOutput{
		Results:     results,
		Summary:     Summarize(results, targetURL),
		Suggestions: suggestions,
	}
}

func (r *Runner) runOne(ctx context.Context, tc types.TestCase, targetURL string) types.RunResult {
	result := types.RunResult{
		ID:          tc.ID,
		Category:    tc.Category,
		Description: tc.Description,
		Expected:    tc.Expected,
	}

	url, err := resolver.Resolve(tc.Request.Endpoint, targetURL)
	if err != nil {
		result.Status = types.RunError
		result.Error = err.Error()
		result.Diagnostics = types.Diagnostics{
			ResolvedURL: tc.Request.Endpoint,
			Curl:        repro.Curl(tc.Request.Method, tc.Request.Endpoint, tc.Request.Headers, tc.Request.Body.String()),
		}
		return result
	}

	headers, bodyText, hasBody := prepareRequest(tc.Request)
	result.Diagnostics = types.Diagnostics{
		ResolvedURL:    url,
		RequestHeaders: headers,
		RequestBody:    bodyText,
		Curl:           repro.Curl(tc.Request.Method, url, headers, bodyText),
	}

	var bodyReader io.Reader
	if hasBody {
		bodyReader = bytes.NewReader([]byte(bodyText))
	}

	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(tc.Request.Method), url, bodyReader)
	if err != nil {
		result.Status = types.RunError
		result.Error = err.Error()
		return result
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := r.client.Do(req)
	result.DurationMS = time.Since(start).Milliseconds()

	if err != nil {
		// Only transport-level failures are errors; any status code below
		// is a successful outcome to classify.
		result.Status = types.RunError
		result.Error = normalizeTransportError(err)
		return result
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		result.Status = types.RunError
		result.Error = "failed to read response body: " + err.Error()
		return result
	}

	result.Actual = buildActual(resp, raw)
	result.Hint = extractHint(result.Actual.Data)
	classify(&result)
	return result
}

// prepareRequest normalizes headers and determines the outgoing payload.
// Objects and arrays are sent as JSON; text payloads are opportunistically
// JSON-parsed to pick a content type; a null body sends nothing.
func prepareRequest(req types.Request) (headers map[string]string, bodyText string, hasBody bool) {
	headers = make(map[string]string, len(req.Headers)+2)
	for k, v := range req.Headers {
		headers[k] = v
	}
	if !hasHeader(headers, "User-Agent") {
		headers["User-Agent"] = defaultUserAgent
	}

	method := strings.ToUpper(req.Method)
	if method == http.MethodGet || method == http.MethodHead || req.Body.IsNull() {
		return headers, "", false
	}

	switch req.Body.Kind {
	case types.BodyObject, types.BodyArray:
		data, err := json.Marshal(req.Body.Value())
		if err != nil {
			return headers, "", false
		}
		bodyText = string(data)
		if !hasHeader(headers, "Content-Type") {
			headers["Content-Type"] = "application/json"
		}
	case types.BodyText:
		bodyText = req.Body.Text
		var probe any
		if json.Unmarshal([]byte(bodyText), &probe) == nil {
			if !hasHeader(headers, "Content-Type") {
				headers["Content-Type"] = "application/json"
			}
		} else if !hasHeader(headers, "Content-Type") {
			headers["Content-Type"] = "text/plain"
		}
	default:
		return headers, "", false
	}

	return headers, bodyText, true
}

func hasHeader(headers map[string]string, name string) bool {
	for k := range headers {
		if strings.EqualFold(k, name) {
			return true
		}
	}
	return false
}

func buildActual(resp *http.Response, raw []byte) *types.ActualResponse {
	headers := make(map[string]string, len(resp.Header))
	for k := range resp.Header {
		headers[k] = resp.Header.Get(k)
	}

	var data *types.Body
	var parsed any
	if len(raw) > 0 && json.Unmarshal(raw, &parsed) == nil {
		data = types.BodyFromAny(parsed)
	} else if len(raw) > 0 {
		data = types.TextBody(truncateBody(string(raw)))
	}

	return &types.ActualResponse{
		Status:     resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
		Data:       data,
		Headers:    headers,
	}
}

func clampConcurrency(n int) int {
	switch {
	case n <= 0:
		return DefaultConcurrency
	case n > MaxConcurrency:
		return MaxConcurrency
	default:
		return n
	}
}
