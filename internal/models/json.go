package models

import "encoding/json"

// mergeObjects flattens several JSON objects into one. Later keys win.
func mergeObjects(objects ...[]byte) ([]byte, error) {
	merged := make(map[string]json.RawMessage)
	for _, obj := range objects {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(obj, &fields); err != nil {
			return nil, err
		}
		for k, v := range fields {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}
