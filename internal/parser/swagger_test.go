package parser

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RamKarthikeya/ApiTestingG/internal/types"
)

const sampleDoc = `{
  "openapi": "3.0.0",
  "info": {"title": "sample", "version": "1.0.0"},
  "paths": {
    "/users": {
      "get": {
        "responses": {"200": {"description": "ok"}}
      },
      "post": {
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "properties": {
                  "name": {"type": "string"},
                  "age": {"type": "integer"}
                }
              }
            }
          }
        },
        "responses": {
          "201": {"description": "created"},
          "400": {"description": "bad request"}
        }
      }
    }
  }
}`

func TestParseDocument(t *testing.T) {
	p := NewSwaggerParser("http://api.example.com")
	specs, err := p.ParseDocument([]byte(sampleDoc))
	require.NoError(t, err)
	require.Len(t, specs, 2)

	byMethod := make(map[string]types.EndpointSpec)
	for _, s := range specs {
		byMethod[s.Method] = s
	}

	get := byMethod["GET"]
	assert.Equal(t, "/users", get.Endpoint)
	assert.Equal(t, "http://api.example.com", get.TargetURL)
	assert.Equal(t, types.StatusSet{200}, get.ExpectedStatus)
	assert.Nil(t, get.Body)

	post := byMethod["POST"]
	require.NotNil(t, post.Body)
	require.Equal(t, types.BodyObject, post.Body.Kind)
	assert.Equal(t, "example", post.Body.Object["name"])
	assert.Equal(t, 1, post.Body.Object["age"])
	assert.Equal(t, types.StatusSet{201}, post.ExpectedStatus)
	assert.Equal(t, "application/json", post.Headers["Content-Type"])
}

func TestParseEndpointsProbesWellKnownURLs(t *testing.T) {
	var hits []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits = append(hits, r.URL.Path)
		if r.URL.Path == "/openapi.json" {
			_, _ = w.Write([]byte(sampleDoc))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	specs, err := NewSwaggerParser(server.URL).ParseEndpoints()
	require.NoError(t, err)
	assert.Len(t, specs, 2)
	assert.Contains(t, hits, "/swagger.json")
	assert.Contains(t, hits, "/openapi.json")
}

func TestParseEndpointsNoDocAnywhere(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := NewSwaggerParser(server.URL).ParseEndpoints()
	assert.ErrorContains(t, err, "failed to fetch OpenAPI documentation")
}
