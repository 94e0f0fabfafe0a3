// Package probe calibrates expected status codes by issuing a small battery
// of requests against the real target before generation. Probing is
// read-only in intent; callers should treat write-method probes against real
// systems as informational only.
package probe

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/RamKarthikeya/ApiTestingG/internal/repro"
	"github.com/RamKarthikeya/ApiTestingG/internal/resolver"
	"github.com/RamKarthikeya/ApiTestingG/internal/types"
)

// Variant names. Fixed set, keyed into the outcome map.
const (
	VariantNoAuth      = "noAuth"
	VariantInvalidAuth = "invalidAuth"
	VariantRateLimit   = "rateLimit"
	VariantValidAuth   = "validAuth"
	VariantValidAPIKey = "validApiKey"
	VariantAuthWrong   = "authorization_wrong"
	VariantAPIKeyWrong = "x_api_key_wrong"
)

const (
	probeTimeout   = 4 * time.Second
	bodyCaptureMax = 2048

	wrongBearer = "Bearer probe-invalid-token-000"
	wrongAPIKey = "probe-invalid-key-000"
)

// Engine issues probe batteries. The zero value is not usable; construct
// with NewEngine.
type Engine struct {
	client *http.Client
}

// NewEngine creates a probe engine with its own bounded-timeout client.
func NewEngine() *Engine {
	return &Engine{
		client: &http.Client{Timeout: probeTimeout},
	}
}

type variant struct {
	name    string
	headers map[string]string
}

// Probe runs the calibration battery for spec and returns per-variant raw
// outcomes. Any status code counts as a successful probe; only a transport
// failure is recorded, and then only as that variant's Error field. One
// variant failing never aborts the others.
func (e *Engine) Probe(ctx context.Context, spec types.EndpointSpec) types.ProbeResults {
	url, err := resolver.Resolve(spec.Endpoint, spec.TargetURL)
	if err != nil {
		return types.ProbeResults{
			VariantNoAuth: {Error: err.Error()},
		}
	}

	variants := []variant{
		{VariantNoAuth, nil},
		{VariantInvalidAuth, map[string]string{"Authorization": wrongBearer}},
		{VariantRateLimit, map[string]string{"X-Probe-Rate-Limit": "exceeded"}},
		{VariantAuthWrong, map[string]string{"Authorization": wrongBearer}},
		{VariantAPIKeyWrong, map[string]string{"X-API-Key": wrongAPIKey}},
	}
	if spec.SampleValidToken != "" {
		variants = append(variants, variant{VariantValidAuth, map[string]string{
			"Authorization": "Bearer " + spec.SampleValidToken,
		}})
	}
	if spec.SampleValidAPIKey != "" {
		variants = append(variants, variant{VariantValidAPIKey, map[string]string{
			"X-API-Key": spec.SampleValidAPIKey,
		}})
	}

	results := make(types.ProbeResults, len(variants))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, v := range variants {
		wg.Add(1)
		go func(v variant) {
			defer wg.Done()
			outcome := e.issue(ctx, spec, url, v)
			mu.Lock()
			results[v.name] = outcome
			mu.Unlock()
		}(v)
	}
	wg.Wait()

	return results
}

func (e *Engine) issue(ctx context.Context, spec types.EndpointSpec, url string, v variant) types.ProbeOutcome {
	headers := make(map[string]string, len(spec.Headers)+len(v.headers))
	for k, val := range spec.Headers {
		headers[k] = val
	}
	for k, val := range v.headers {
		headers[k] = val
	}

	bodyText := spec.Body.String()
	curl := repro.Curl(spec.Method, url, headers, bodyText)

	var bodyReader io.Reader
	if !spec.Body.IsNull() {
		bodyReader = bytes.NewReader([]byte(bodyText))
		if _, ok := headers["Content-Type"]; !ok {
			headers["Content-Type"] = "application/json"
		}
	}

	reqCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, strings.ToUpper(spec.Method), url, bodyReader)
	if err != nil {
		return types.ProbeOutcome{Error: err.Error(), Curl: curl}
	}
	for k, val := range headers {
		req.Header.Set(k, val)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return types.ProbeOutcome{Error: err.Error(), Curl: curl}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, bodyCaptureMax))

	respHeaders := make(map[string]string, len(resp.Header))
	for k := range resp.Header {
		respHeaders[k] = resp.Header.Get(k)
	}

	return types.ProbeOutcome{
		Status:  resp.StatusCode,
		Body:    string(raw),
		Headers: respHeaders,
		Curl:    curl,
	}
}
