// Package schema validates response bodies against optional JSON Schema
// assertions attached to test cases.
package schema

import (
	"fmt"

	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

const resourceName = "expected-response.json"

// Validate checks doc against schemaDoc and returns one message per
// violation. A nil schema validates everything; a schema that fails to
// compile is itself reported as a violation rather than an error, since a
// broken assertion should fail the test case, not the run.
func Validate(doc any, schemaDoc map[string]any) []string {
	if schemaDoc == nil {
		return nil
	}

	c := sjsonschema.NewCompiler()
	if err := c.AddResource(resourceName, schemaDoc); err != nil {
		return []string{fmt.Sprintf("schema resource: %v", err)}
	}

	sch, err := c.Compile(resourceName)
	if err != nil {
		return []string{fmt.Sprintf("schema compile: %v", err)}
	}

	if err := sch.Validate(doc); err != nil {
		if ve, ok := err.(*sjsonschema.ValidationError); ok {
			return flatten(ve)
		}
		return []string{err.Error()}
	}
	return nil
}

// flatten walks the validation error tree and collects leaf causes with
// their instance locations.
func flatten(ve *sjsonschema.ValidationError) []string {
	if len(ve.Causes) == 0 {
		path := "/"
		for _, seg := range ve.InstanceLocation {
			path += seg + "/"
		}
		return []string{fmt.Sprintf("%s: %v", path, ve.ErrorKind)}
	}

	var msgs []string
	for _, cause := range ve.Causes {
		msgs = append(msgs, flatten(cause)...)
	}
	return msgs
}
