package generator

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RamKarthikeya/ApiTestingG/internal/cache"
	"github.com/RamKarthikeya/ApiTestingG/internal/logger"
	"github.com/RamKarthikeya/ApiTestingG/internal/types"
)

type stubModel struct {
	response string
	err      error
	calls    int
}

func (s *stubModel) Complete(ctx context.Context, prompt string) (string, error) {
	s.calls++
	return s.response, s.err
}

type stubProber struct {
	results types.ProbeResults
	calls   int
}

func (p *stubProber) Probe(ctx context.Context, spec types.EndpointSpec) types.ProbeResults {
	p.calls++
	return p.results
}

func newTestGenerator(t *testing.T, model *stubModel, prober Prober) *Generator {
	t.Helper()
	log, err := logger.NewLogger(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = log.Close() })
	return New(model, prober, cache.NewStore[Result](5*time.Minute), log)
}

func assertSaneBattery(t *testing.T, cases []types.TestCase) {
	t.Helper()
	require.Len(t, cases, BatterySize)
	for i, tc := range cases {
		assert.Equal(t, fmt.Sprintf("TC_%03d", i+1), tc.ID)
		assert.NotEqual(t, types.CategoryInvalid, tc.Category)
		assert.NotEmpty(t, tc.Expected.Status)
		assert.NotEmpty(t, tc.Request.Method)
		assert.NotEmpty(t, tc.Request.Endpoint)
	}
}

func TestGenerateFromModelResponse(t *testing.T) {
	model := &stubModel{response: "Sure, here you go:\n```json\n[" +
		`{"id":"TC_001","category":"valid","description":"Create a user with a well-formed payload","request":{"method":"POST","endpoint":"/users","body":{"name":"a"}},"expected_response":{"status":201}},` +
		`{"id":"TC_002","category":"security","description":"Reject a request with missing credential","request":{"method":"POST","endpoint":"/users"},"expected_response":{"status":401}},` +
		`{"id":"TC_003","category":"invalid","description":"Reject an empty payload","request":{"method":"POST","endpoint":"/users"},"expected_response":{"status":400}}` +
		"]\n```\nHope this helps!"}

	g := newTestGenerator(t, model, nil)
	result := g.Generate(context.Background(), postSpec())

	assertSaneBattery(t, result.TestCases)
	assert.False(t, result.Cached)
	assert.Empty(t, result.Note)
	assert.Equal(t, 1, model.calls)
	assert.Equal(t, BatterySize, result.Summary.Total)

	// the model's invalid case was dropped, its valid one kept
	assert.Equal(t, "Create a user with a well-formed payload", result.TestCases[0].Description)
}

func TestGenerateFallsBackOnModelError(t *testing.T) {
	model := &stubModel{err: errors.New("upstream exploded")}
	g := newTestGenerator(t, model, nil)

	result := g.Generate(context.Background(), postSpec())

	assertSaneBattery(t, result.TestCases)
	assert.Contains(t, result.Note, "fallback")
}

func TestGenerateFallsBackOnGarbage(t *testing.T) {
	model := &stubModel{response: "I cannot generate test cases for that."}
	g := newTestGenerator(t, model, nil)

	result := g.Generate(context.Background(), postSpec())

	assertSaneBattery(t, result.TestCases)
	assert.Contains(t, result.Note, "fallback")
}

func TestGenerateCacheHit(t *testing.T) {
	model := &stubModel{err: errors.New("should only be called once")}
	prober := &stubProber{results: types.ProbeResults{"noAuth": {Status: 401}}}
	g := newTestGenerator(t, model, prober)

	spec := postSpec()
	spec.AutoProbe = true

	first := g.Generate(context.Background(), spec)
	require.False(t, first.Cached)
	require.Equal(t, 1, model.calls)
	require.Equal(t, 1, prober.calls)

	second := g.Generate(context.Background(), spec)
	assert.True(t, second.Cached)
	assert.Equal(t, first.TestCases, second.TestCases)

	// no probe or model call on a cache hit, even with autoProbe set
	assert.Equal(t, 1, model.calls)
	assert.Equal(t, 1, prober.calls)
}

func TestGenerateCacheKeyDistinguishesHeaders(t *testing.T) {
	model := &stubModel{err: errors.New("no model")}
	g := newTestGenerator(t, model, nil)

	a := postSpec()
	b := postSpec()
	b.Headers = map[string]string{"Authorization": "Bearer other"}

	g.Generate(context.Background(), a)
	result := g.Generate(context.Background(), b)
	assert.False(t, result.Cached)
	assert.Equal(t, 2, model.calls)
}

func TestGenerateAppliesInference(t *testing.T) {
	model := &stubModel{response: `[
		{"category":"security","description":"Missing credential should be rejected","request":{"method":"POST","endpoint":"/users"},"expected_response":{"status":403}},
		{"category":"valid","description":"Baseline valid request succeeds","request":{"method":"POST","endpoint":"/users"},"expected_response":{"status":200}}
	]`}
	prober := &stubProber{results: types.ProbeResults{
		"noAuth":    {Status: 401},
		"validAuth": {Status: 200},
	}}
	g := newTestGenerator(t, model, prober)

	spec := postSpec()
	spec.AutoProbe = true
	spec.SampleValidToken = "sekrit-token"

	result := g.Generate(context.Background(), spec)
	assertSaneBattery(t, result.TestCases)

	require.NotNil(t, result.Inferred)
	assert.Equal(t, 401, result.Inferred.AuthErrorStatus)

	// the model's guess of 403 was overwritten by the probed 401
	assert.Equal(t, 401, result.TestCases[0].Expected.Status.Primary())

	// the detected credential style was injected into the happy-path case
	assert.Equal(t, "Bearer sekrit-token", result.TestCases[1].Request.Headers["Authorization"])

	// but the echoed detection and probe data are redacted
	require.NotNil(t, result.Detected)
	assert.Equal(t, "[REDACTED]", result.Detected.Value)
	for name, outcome := range result.ProbeResults {
		assert.NotContains(t, outcome.Curl, "sekrit-token", "variant %s", name)
	}
}

func TestGenerateCoercesOmittedFields(t *testing.T) {
	model := &stubModel{response: `[{"category":"valid","description":"Sparse case from the model"}]`}
	g := newTestGenerator(t, model, nil)

	spec := postSpec()
	result := g.Generate(context.Background(), spec)

	tc := result.TestCases[0]
	assert.Equal(t, "POST", tc.Request.Method)
	assert.Equal(t, "/users", tc.Request.Endpoint)
	assert.Equal(t, spec.Headers, tc.Request.Headers)
	assert.Equal(t, 201, tc.Expected.Status.Primary())
}

func TestFingerprintStableAcrossHeaderOrder(t *testing.T) {
	a := types.EndpointSpec{Method: "get", Endpoint: "/x", Headers: map[string]string{"A": "1", "B": "2"}}
	b := types.EndpointSpec{Method: "GET", Endpoint: "/x", Headers: map[string]string{"B": "2", "A": "1"}}
	assert.Equal(t, Fingerprint(a), Fingerprint(b))

	c := types.EndpointSpec{Method: "GET", Endpoint: "/y", Headers: map[string]string{"A": "1", "B": "2"}}
	assert.NotEqual(t, Fingerprint(a), Fingerprint(c))
}
