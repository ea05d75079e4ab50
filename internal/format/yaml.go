package format

import (
	"encoding/json"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

// WriteYAML writes v as a YAML document.
func WriteYAML(w io.Writer, v any) error {
	x, err := generic(v)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(yamlNumbers(x)); err != nil {
		return err
	}
	return enc.Close()
}

// yamlNumbers turns json.Number leaves into int64/float64 so they are not quoted.
func yamlNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if n, err := strconv.ParseInt(t.String(), 10, 64); err == nil {
			return n
		}
		f, _ := t.Float64()
		return f
	case []any:
		for i := range t {
			t[i] = yamlNumbers(t[i])
		}
		return t
	case map[string]any:
		for k := range t {
			t[k] = yamlNumbers(t[k])
		}
		return t
	default:
		return v
	}
}
