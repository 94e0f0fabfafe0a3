// Package parser discovers endpoints from a service's OpenAPI document and
// turns each operation into an EndpointSpec ready for generation.
package parser

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/RamKarthikeya/ApiTestingG/internal/types"
)

// SwaggerParser fetches and parses Swagger/OpenAPI documentation.
type SwaggerParser struct {
	baseURL string
	client  *http.Client
	doc     *openapi3.T
}

// NewSwaggerParser creates a parser rooted at the service base URL.
func NewSwaggerParser(baseURL string) *SwaggerParser {
	return &SwaggerParser{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
	}
}

// ParseEndpoints fetches the OpenAPI document from the usual well-known
// locations and returns one EndpointSpec per operation.
func (p *SwaggerParser) ParseEndpoints() ([]types.EndpointSpec, error) {
	urls := []string{
		fmt.Sprintf("%s/swagger/v1/swagger.json", p.baseURL),
		fmt.Sprintf("%s/swagger.json", p.baseURL),
		fmt.Sprintf("%s/v1/swagger.json", p.baseURL),
		fmt.Sprintf("%s/api/swagger.json", p.baseURL),
		fmt.Sprintf("%s/api/v1/swagger.json", p.baseURL),
		fmt.Sprintf("%s/openapi.json", p.baseURL),
		fmt.Sprintf("%s/api-docs", p.baseURL),
	}

	var lastErr error
	for _, url := range urls {
		p.doc, lastErr = p.fetchOpenAPIDoc(url)
		if lastErr == nil {
			break
		}
	}

	if p.doc == nil {
		return nil, fmt.Errorf("failed to fetch OpenAPI documentation from any known URL, last error: %w", lastErr)
	}

	return p.extractSpecs(), nil
}

// ParseDocument builds specs from an already-loaded document body.
func (p *SwaggerParser) ParseDocument(data []byte) ([]types.EndpointSpec, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI doc: %w", err)
	}
	p.doc = doc
	return p.extractSpecs(), nil
}

func (p *SwaggerParser) fetchOpenAPIDoc(url string) (*openapi3.T, error) {
	resp, err := p.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI doc: %w", err)
	}

	return doc, nil
}

func (p *SwaggerParser) extractSpecs() []types.EndpointSpec {
	var specs []types.EndpointSpec

	paths := p.doc.Paths.Map()
	for path, pathItem := range paths {
		for method, operation := range pathItem.Operations() {
			spec := types.EndpointSpec{
				Method:    strings.ToUpper(method),
				Endpoint:  path,
				TargetURL: p.baseURL,
				Headers:   map[string]string{},
			}

			if body := requestBodyExample(operation); body != nil {
				spec.Body = body
				spec.Headers["Content-Type"] = "application/json"
			}

			if statuses := successStatuses(operation); len(statuses) > 0 {
				spec.ExpectedStatus = statuses
			}

			specs = append(specs, spec)
		}
	}

	return specs
}

// requestBodyExample derives a sample JSON body from the operation's
// request schema, preferring declared examples over synthesized values.
func requestBodyExample(op *openapi3.Operation) *types.Body {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}

	for _, content := range op.RequestBody.Value.Content {
		if content.Schema == nil || content.Schema.Value == nil {
			continue
		}
		if content.Example != nil {
			return types.BodyFromAny(content.Example)
		}
		return types.BodyFromAny(exampleFromSchema(content.Schema.Value, 0))
	}
	return nil
}

// exampleFromSchema synthesizes a placeholder value for a schema. Depth is
// bounded to keep recursive schemas from spinning.
func exampleFromSchema(schema *openapi3.Schema, depth int) any {
	if schema == nil || depth > 3 {
		return nil
	}
	if schema.Example != nil {
		return schema.Example
	}

	switch {
	case schema.Type.Is("object") || len(schema.Properties) > 0:
		obj := make(map[string]any, len(schema.Properties))
		for name, prop := range schema.Properties {
			if prop.Value != nil {
				obj[name] = exampleFromSchema(prop.Value, depth+1)
			}
		}
		return obj
	case schema.Type.Is("array"):
		if schema.Items != nil && schema.Items.Value != nil {
			return []any{exampleFromSchema(schema.Items.Value, depth+1)}
		}
		return []any{}
	case schema.Type.Is("integer"), schema.Type.Is("number"):
		return 1
	case schema.Type.Is("boolean"):
		return true
	default:
		return "example"
	}
}

// successStatuses collects the declared 2xx responses for an operation.
func successStatuses(op *openapi3.Operation) types.StatusSet {
	if op.Responses == nil {
		return nil
	}

	var statuses types.StatusSet
	for statusCode := range op.Responses.Map() {
		var code int
		if _, err := fmt.Sscanf(statusCode, "%d", &code); err != nil {
			continue
		}
		if code >= 200 && code < 300 {
			statuses = append(statuses, code)
		}
	}
	return statuses
}
