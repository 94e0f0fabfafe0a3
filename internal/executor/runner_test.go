package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RamKarthikeya/ApiTestingG/internal/types"
)

type recordingSink struct {
	suggestions []types.Suggestion
	err         error
	calls       int
}

func (s *recordingSink) WriteSuggestions(suggestions []types.Suggestion) error {
	s.calls++
	s.suggestions = suggestions
	return s.err
}

func testCase(id string, method, endpoint string, expected ...int) types.TestCase {
	return types.TestCase{
		ID:          id,
		Category:    types.CategoryValid,
		Description: "case " + id,
		Request:     types.Request{Method: method, Endpoint: endpoint},
		Expected:    types.Expected{Status: types.StatusSet(expected)},
	}
}

// staticTarget answers deterministically by path.
func staticTarget(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"fine"}`))
		case "/created":
			w.WriteHeader(http.StatusCreated)
		case "/bad":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"bad input","message":"name is required"}`))
		case "/forbidden":
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte("Access Denied by corporate proxy"))
		case "/echo-agent":
			_, _ = w.Write([]byte(r.Header.Get("User-Agent")))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestRunClassification(t *testing.T) {
	server := staticTarget(t)
	runner := NewRunner(nil, nil)

	cases := []types.TestCase{
		testCase("TC_001", "GET", "/ok", 200),
		testCase("TC_002", "GET", "/created", 200), // observed 201: FAILED
		testCase("TC_003", "GET", "/bad", 400),
		testCase("TC_004", "GET", "/missing", 200), // observed 404: FAILED
	}

	out := runner.Run(context.Background(), cases, server.URL, 2)
	require.Len(t, out.Results, 4)

	assert.Equal(t, types.RunPassed, out.Results[0].Status)
	assert.Equal(t, types.RunFailed, out.Results[1].Status)
	assert.Equal(t, types.RunPassed, out.Results[2].Status)
	assert.Equal(t, types.RunFailed, out.Results[3].Status)

	assert.Equal(t, types.RunSummary{Total: 4, Passed: 2, Failed: 2, Target: server.URL}, out.Summary)
}

func TestRunSuggestionsProposeUnion(t *testing.T) {
	server := staticTarget(t)
	sink := &recordingSink{}
	runner := NewRunner(sink, nil)

	out := runner.Run(context.Background(), []types.TestCase{
		testCase("TC_001", "GET", "/created", 200),
	}, server.URL, 1)

	require.Len(t, out.Suggestions, 1)
	s := out.Suggestions[0]
	assert.Equal(t, "TC_001", s.ID)
	assert.Equal(t, []int{200}, s.CurrentExpected)
	assert.Equal(t, 201, s.Observed)
	assert.Equal(t, []int{200, 201}, s.RecommendedExpected)

	assert.Equal(t, 1, sink.calls)
	assert.Equal(t, out.Suggestions, sink.suggestions)
}

func TestRunSinkFailureIgnored(t *testing.T) {
	server := staticTarget(t)
	sink := &recordingSink{err: fmt.Errorf("disk full")}
	runner := NewRunner(sink, nil)

	out := runner.Run(context.Background(), []types.TestCase{
		testCase("TC_001", "GET", "/created", 200),
	}, server.URL, 1)

	assert.Equal(t, 1, out.Summary.Failed)
	assert.Len(t, out.Suggestions, 1)
}

func TestRunConcurrencyInvariance(t *testing.T) {
	server := staticTarget(t)
	runner := NewRunner(nil, nil)

	var cases []types.TestCase
	for i := 1; i <= 12; i++ {
		path := "/ok"
		expected := 200
		if i%3 == 0 {
			path = "/created"
		}
		if i%4 == 0 {
			path = "/missing"
		}
		cases = append(cases, testCase(fmt.Sprintf("TC_%03d", i), "GET", path, expected))
	}

	serial := runner.Run(context.Background(), cases, server.URL, 1)
	parallel := runner.Run(context.Background(), cases, server.URL, 10)

	require.Len(t, parallel.Results, 12)
	assert.Equal(t, serial.Summary, parallel.Summary)

	for i := range cases {
		// output order matches input order regardless of completion order
		assert.Equal(t, cases[i].ID, serial.Results[i].ID)
		assert.Equal(t, cases[i].ID, parallel.Results[i].ID)
		assert.Equal(t, serial.Results[i].Status, parallel.Results[i].Status, "id %s", cases[i].ID)
	}
}

func TestRunResolutionErrorIsLocal(t *testing.T) {
	server := staticTarget(t)
	runner := NewRunner(nil, nil)

	out := runner.Run(context.Background(), []types.TestCase{
		testCase("TC_001", "GET", "/ok", 200),
		testCase("TC_002", "GET", "relative-without-base", 200),
	}, "", 2)

	// first case also fails resolution: relative endpoint, no target
	assert.Equal(t, types.RunError, out.Results[0].Status)
	assert.Equal(t, types.RunError, out.Results[1].Status)
	assert.Contains(t, out.Results[1].Error, "no base URL")
	assert.Equal(t, 2, out.Summary.Errors)

	// absolute endpoint still works without a target URL
	out = runner.Run(context.Background(), []types.TestCase{
		testCase("TC_003", "GET", server.URL+"/ok", 200),
	}, "", 1)
	assert.Equal(t, types.RunPassed, out.Results[0].Status)
}

func TestRunTransportErrorNormalized(t *testing.T) {
	runner := NewRunner(nil, nil)

	out := runner.Run(context.Background(), []types.TestCase{
		testCase("TC_001", "GET", "http://127.0.0.1:1/unreachable", 200),
	}, "", 1)

	require.Equal(t, types.RunError, out.Results[0].Status)
	assert.Contains(t, out.Results[0].Error, "connection refused")
	assert.Nil(t, out.Results[0].Actual)

	// transport errors produce no suggestion
	assert.Empty(t, out.Suggestions)
}

func TestRunHintExtraction(t *testing.T) {
	server := staticTarget(t)
	runner := NewRunner(nil, nil)

	out := runner.Run(context.Background(), []types.TestCase{
		testCase("TC_001", "GET", "/bad", 200),
		testCase("TC_002", "GET", "/forbidden", 200),
	}, server.URL, 1)

	assert.Contains(t, out.Results[0].Hint, "error")
	assert.Contains(t, out.Results[0].Hint, "message")
	assert.Contains(t, out.Results[1].Hint, "blocked upstream")
}

func TestRunDefaultsUserAgent(t *testing.T) {
	server := staticTarget(t)
	runner := NewRunner(nil, nil)

	out := runner.Run(context.Background(), []types.TestCase{
		testCase("TC_001", "GET", "/echo-agent", 200),
	}, server.URL, 1)

	require.NotNil(t, out.Results[0].Actual)
	assert.Equal(t, defaultUserAgent, out.Results[0].Actual.Data.Text)
}

func TestRunDiagnosticsAlwaysAttached(t *testing.T) {
	server := staticTarget(t)
	runner := NewRunner(nil, nil)

	tc := testCase("TC_001", "POST", "/ok", 200)
	tc.Request.Body = types.ObjectBody(map[string]any{"name": "a"})

	out := runner.Run(context.Background(), []types.TestCase{tc}, server.URL, 1)

	diag := out.Results[0].Diagnostics
	assert.Equal(t, server.URL+"/ok", diag.ResolvedURL)
	assert.Contains(t, diag.Curl, "curl -X POST")
	assert.Contains(t, diag.Curl, `{"name":"a"}`)
	assert.Equal(t, "application/json", diag.RequestHeaders["Content-Type"])
}

func TestPrepareRequestBodies(t *testing.T) {
	t.Run("object body gets json content type", func(t *testing.T) {
		headers, body, has := prepareRequest(types.Request{
			Method: "POST",
			Body:   types.ObjectBody(map[string]any{"a": float64(1)}),
		})
		require.True(t, has)
		assert.JSONEq(t, `{"a":1}`, body)
		assert.Equal(t, "application/json", headers["Content-Type"])
	})

	t.Run("text that parses as json", func(t *testing.T) {
		headers, body, has := prepareRequest(types.Request{
			Method: "POST",
			Body:   types.TextBody(`{"a":1}`),
		})
		require.True(t, has)
		assert.Equal(t, `{"a":1}`, body)
		assert.Equal(t, "application/json", headers["Content-Type"])
	})

	t.Run("opaque text", func(t *testing.T) {
		headers, _, has := prepareRequest(types.Request{
			Method: "POST",
			Body:   types.TextBody("hello there"),
		})
		require.True(t, has)
		assert.Equal(t, "text/plain", headers["Content-Type"])
	})

	t.Run("explicit content type preserved", func(t *testing.T) {
		headers, _, _ := prepareRequest(types.Request{
			Method:  "POST",
			Headers: map[string]string{"content-type": "application/xml"},
			Body:    types.TextBody("<a/>"),
		})
		assert.NotContains(t, headers, "Content-Type")
		assert.Equal(t, "application/xml", headers["content-type"])
	})

	t.Run("get sends no body", func(t *testing.T) {
		_, _, has := prepareRequest(types.Request{
			Method: "GET",
			Body:   types.ObjectBody(map[string]any{"a": float64(1)}),
		})
		assert.False(t, has)
	})

	t.Run("null body sends nothing", func(t *testing.T) {
		_, _, has := prepareRequest(types.Request{Method: "POST"})
		assert.False(t, has)
	})
}

func TestRunSchemaAssertion(t *testing.T) {
	server := staticTarget(t)
	runner := NewRunner(nil, nil)

	passing := testCase("TC_001", "GET", "/ok", 200)
	passing.Expected.Schema = map[string]any{
		"type":     "object",
		"required": []any{"status"},
	}

	failing := testCase("TC_002", "GET", "/ok", 200)
	failing.Expected.Schema = map[string]any{
		"type":     "object",
		"required": []any{"nonexistent"},
	}

	out := runner.Run(context.Background(), []types.TestCase{passing, failing}, server.URL, 1)

	assert.Equal(t, types.RunPassed, out.Results[0].Status)
	assert.Equal(t, types.RunFailed, out.Results[1].Status)
	assert.NotEmpty(t, out.Results[1].SchemaErrors)
}

func TestTruncateBody(t *testing.T) {
	small := strings.Repeat("x", 100)
	assert.Equal(t, small, truncateBody(small))

	big := strings.Repeat("x", maxStoredBody+10)
	got := truncateBody(big)
	assert.Len(t, got, maxStoredBody+len("... [truncated]"))
	assert.True(t, strings.HasSuffix(got, "... [truncated]"))
}

func TestClampConcurrency(t *testing.T) {
	assert.Equal(t, DefaultConcurrency, clampConcurrency(0))
	assert.Equal(t, DefaultConcurrency, clampConcurrency(-3))
	assert.Equal(t, 7, clampConcurrency(7))
	assert.Equal(t, MaxConcurrency, clampConcurrency(500))
}

func TestSuggestSkipsExpectedObservations(t *testing.T) {
	results := []types.RunResult{
		{
			ID:       "TC_001",
			Status:   types.RunFailed,
			Expected: types.Expected{Status: types.StatusSet{200, 201}},
			Actual:   &types.ActualResponse{Status: 201},
			// status was expected; failure came from a schema assertion
		},
		{
			ID:       "TC_002",
			Status:   types.RunFailed,
			Expected: types.Expected{Status: types.StatusSet{404, 200}},
			Actual:   &types.ActualResponse{Status: 500},
		},
	}

	suggestions := Suggest(results)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "TC_002", suggestions[0].ID)
	assert.Equal(t, []int{200, 404}, suggestions[0].CurrentExpected)
	assert.Equal(t, []int{200, 404, 500}, suggestions[0].RecommendedExpected)
}

func TestActualResponseParsesJSON(t *testing.T) {
	server := staticTarget(t)
	runner := NewRunner(nil, nil)

	out := runner.Run(context.Background(), []types.TestCase{
		testCase("TC_001", "GET", "/ok", 200),
	}, server.URL, 1)

	actual := out.Results[0].Actual
	require.NotNil(t, actual)
	assert.Equal(t, 200, actual.Status)
	assert.Equal(t, "OK", actual.StatusText)
	require.Equal(t, types.BodyObject, actual.Data.Kind)
	assert.Equal(t, "fine", actual.Data.Object["status"])

	data, err := json.Marshal(actual.Data)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"fine"}`, string(data))
}
