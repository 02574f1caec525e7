package docs

import (
	"encoding/json"
	"testing"

	"github.com/swaggo/swag"
)

func TestReadDoc(t *testing.T) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	if err != nil {
		t.Fatalf("ReadDoc() error = %v", err)
	}

	var spec struct {
		Swagger     string                     `json:"swagger"`
		Info        map[string]interface{}     `json:"info"`
		Paths       map[string]json.RawMessage `json:"paths"`
		Definitions map[string]json.RawMessage `json:"definitions"`
	}
	if err := json.Unmarshal([]byte(doc), &spec); err != nil {
		t.Fatalf("doc is not valid JSON: %v", err)
	}

	if spec.Swagger != "2.0" || spec.Info["title"] != SwaggerInfo.Title {
		t.Errorf("unexpected header: swagger=%q info=%v", spec.Swagger, spec.Info)
	}
	for _, def := range []string{"model.Record", "model.AggregateStats", "model.SubmitResult", "model.ErrorResponse"} {
		if _, ok := spec.Definitions[def]; !ok {
			t.Errorf("definition %s missing", def)
		}
	}
	if len(spec.Paths) != 5 {
		t.Errorf("documented %d paths, want 5", len(spec.Paths))
	}
}
