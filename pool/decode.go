package pool

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Fields added by remoting layers, never part of pool state. Stripped from
// every decoded record so remote results look exactly like local ones.
var transportMetadataKeys = []string{
	"PSComputerName",
	"RunspaceId",
	"PSShowComputerName",
}

// decodeState parses a JSON state record from script output. Empty output
// means no matching pool and yields a nil state. Arrays (a pipeline that
// happened to emit more than one record) take the first element.
func decodeState(host, raw string) (*State, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("decode pool state: %w", err)
	}
	if list, ok := v.([]any); ok {
		if len(list) == 0 {
			return nil, nil
		}
		v = list[0]
	}
	rec, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("decode pool state: unexpected shape %T", v)
	}
	stripMetadata(rec)

	st := &State{ComputerName: host}
	if s, ok := rec["Name"].(string); ok {
		st.Name = s
	}
	if s, ok := rec["State"].(string); ok {
		st.State = s
	}
	return st, nil
}

// decodeSites parses a site-name list from script output. The scripts force
// an array, but a bare string is tolerated for robustness.
func decodeSites(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("decode site list: %w", err)
	}
	switch val := v.(type) {
	case string:
		return []string{val}, nil
	case []any:
		var sites []string
		for _, item := range val {
			if s, ok := item.(string); ok && s != "" {
				sites = append(sites, s)
			}
		}
		return sites, nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("decode site list: unexpected shape %T", v)
	}
}

func stripMetadata(rec map[string]any) {
	for key := range rec {
		for _, meta := range transportMetadataKeys {
			if strings.EqualFold(key, meta) {
				delete(rec, key)
			}
		}
	}
}
