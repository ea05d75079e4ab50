// Package interchange reads and writes the plain JSON files collections are
// imported from and exported to.
package interchange

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"annotate-cli/internal/model"
	"annotate-cli/internal/validate"

	"gopkg.in/yaml.v3"
)

type Kind string

const (
	KindTasks     Kind = "tasks"
	KindTopics    Kind = "topics"
	KindQuestions Kind = "questions"
	KindCombined  Kind = "combined"
)

// Payload is the validated, decoded content of an import file.
type Payload struct {
	Tasks     []model.Task     `json:"tasks"`
	Topics    []model.Topic    `json:"topics,omitempty"`
	Questions []model.Question `json:"questions,omitempty"`
}

// ReadFile imports path as the given kind. YAML is accepted for .yaml/.yml files.
func ReadFile(path string, kind Kind) (Payload, error) {
	if strings.TrimSpace(path) == "" {
		return Payload{}, &validate.Error{Artifact: validate.ArtifactNoFile}
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Payload{}, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		b, err = yamlToJSON(b)
		if err != nil {
			return Payload{}, fmt.Errorf("%s: %w", path, err)
		}
	}
	return Decode(b, kind)
}

// Decode validates JSON bytes for kind and decodes them. Nothing is returned on failure.
func Decode(b []byte, kind Kind) (Payload, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return Payload{}, &validate.Error{Artifact: validate.ArtifactNoFile}
	}
	var tree any
	if err := json.Unmarshal(b, &tree); err != nil {
		return Payload{}, fmt.Errorf("parse json: %w", err)
	}

	var out Payload
	switch kind {
	case KindTasks:
		if err := validate.Tasks(tree); err != nil {
			return Payload{}, err
		}
		if err := json.Unmarshal(b, &out.Tasks); err != nil {
			return Payload{}, &validate.Error{Artifact: validate.ArtifactDocuments}
		}
	case KindTopics:
		if err := validate.Topics(tree); err != nil {
			return Payload{}, err
		}
		if err := json.Unmarshal(b, &out.Topics); err != nil {
			return Payload{}, &validate.Error{Artifact: validate.ArtifactTopics}
		}
	case KindQuestions:
		if err := validate.Questions(tree); err != nil {
			return Payload{}, err
		}
		if err := json.Unmarshal(b, &out.Questions); err != nil {
			return Payload{}, &validate.Error{Artifact: validate.ArtifactQuestions}
		}
	case KindCombined:
		if err := validate.Combined(tree); err != nil {
			return Payload{}, err
		}
		if err := json.Unmarshal(b, &out); err != nil {
			return Payload{}, &validate.Error{Artifact: validate.ArtifactData}
		}
	default:
		return Payload{}, fmt.Errorf("unknown import kind: %s", kind)
	}
	return out, nil
}

func yamlToJSON(b []byte) ([]byte, error) {
	var tree any
	if err := yaml.Unmarshal(b, &tree); err != nil {
		return nil, err
	}
	return json.Marshal(normalizeYAML(tree))
}

// normalizeYAML turns yaml.v3's generic tree into one encoding/json can marshal.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, x := range t {
			out[k] = normalizeYAML(x)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, x := range t {
			out[fmt.Sprint(k)] = normalizeYAML(x)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, x := range t {
			out[i] = normalizeYAML(x)
		}
		return out
	default:
		return v
	}
}
