package review

import (
	"encoding/json"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

var (
	driftSchemaOnce sync.Once
	driftSchema     *gojsonschema.Schema
	driftSchemaErr  error
)

func compiledSchema() (*gojsonschema.Schema, error) {
	driftSchemaOnce.Do(func() {
		raw, err := json.Marshal(ResponseSchema().JSONSchema())
		if err != nil {
			driftSchemaErr = err
			return
		}
		driftSchema, driftSchemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	})
	return driftSchema, driftSchemaErr
}

// schemaDrift lists where a parsed model response departs from the response schema.
func schemaDrift(text string) ([]string, error) {
	schema, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	res, err := schema.Validate(gojsonschema.NewStringLoader(text))
	if err != nil {
		return nil, err
	}
	if res.Valid() {
		return nil, nil
	}
	out := make([]string, 0, len(res.Errors()))
	for _, desc := range res.Errors() {
		out = append(out, desc.String())
	}
	return out, nil
}
