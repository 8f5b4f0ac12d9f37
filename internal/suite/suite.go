// Package suite loads expectation-suite files. A suite file is JSON:
//
//	{
//	  "expectation_suite_name": "trains.warning",
//	  "expectations": [
//	    {"expectation_type": "expect_column_to_exist", "kwargs": {"column": "price"}}
//	  ]
//	}
//
// Suite files are validated against a schema generated from the Go types
// before they are accepted, so malformed suites fail at load time rather
// than mid-validation.
package suite

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	invopop "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/datavet/datavet/pkg/types"
)

// Suite is a named set of declarative expectations over tabular data.
type Suite struct {
	Name         string                    `json:"expectation_suite_name" jsonschema:"required,minLength=1"`
	Expectations []types.ExpectationConfig `json:"expectations" jsonschema:"required"`
}

var (
	fileSchemaOnce sync.Once
	fileSchema     *jsonschema.Schema
	fileSchemaErr  error
)

// fileSchemaCompiled generates the suite-file schema from the Go struct
// and compiles it once.
func fileSchemaCompiled() (*jsonschema.Schema, error) {
	fileSchemaOnce.Do(func() {
		reflector := invopop.Reflector{
			DoNotReference:            true,
			AllowAdditionalProperties: true,
		}
		generated := reflector.Reflect(&Suite{})
		raw, err := json.Marshal(generated)
		if err != nil {
			fileSchemaErr = err
			return
		}
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			fileSchemaErr = err
			return
		}
		if m, ok := doc.(map[string]any); ok {
			delete(m, "$id")
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("suite.json", doc); err != nil {
			fileSchemaErr = err
			return
		}
		fileSchema, fileSchemaErr = compiler.Compile("suite.json")
	})
	return fileSchema, fileSchemaErr
}

// Load reads and validates a suite file.
func Load(path string) (*Suite, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	schema, err := fileSchemaCompiled()
	if err != nil {
		return nil, fmt.Errorf("compiling suite file schema: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing suite %s: %w", path, err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid suite %s: %w", path, err)
	}

	var s Suite
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parsing suite %s: %w", path, err)
	}
	return &s, nil
}
