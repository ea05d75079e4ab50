package model

import (
	"encoding/json"
	"maps"
)

// Extra holds the keys of an imported object that the model has no field for.
// They are written back unchanged on export.
type Extra map[string]json.RawMessage

func (e Extra) Clone() Extra {
	if e == nil {
		return nil
	}
	out := make(Extra, len(e))
	for k, v := range e {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}

// splitExtra returns the keys of the JSON object b that are not in known.
func splitExtra(b []byte, known ...string) (Extra, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(b, &all); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return Extra(all), nil
}

// mergeExtra adds e's keys to the encoded object b; modeled keys win.
func mergeExtra(b []byte, e Extra) ([]byte, error) {
	if len(e) == 0 {
		return b, nil
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(b, &all); err != nil {
		return nil, err
	}
	merged := maps.Clone(map[string]json.RawMessage(e))
	maps.Copy(merged, all)
	return json.Marshal(merged)
}
