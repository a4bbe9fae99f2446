package api

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/trustedvehicles/vinspect/internal/catalog"
)

// ServerRecord is a vehicle as returned by the backend: the id, every field
// value the catalog recognizes, and media references keyed by slot. Booleans
// and numbers come back as strings, matching how the form stores them.
type ServerRecord struct {
	ID     string
	Fields map[string]string
	Media  map[catalog.Slot]string
}

// Display returns a field for read views, or "" when absent.
func (s ServerRecord) Display(f catalog.Field) string {
	return s.Fields[string(f)]
}

func decodeRecord(r io.Reader) (ServerRecord, error) {
	var raw map[string]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return ServerRecord{}, fmt.Errorf("decode vehicle: %w", err)
	}
	return recordFromRaw(raw), nil
}

func decodeRecordList(r io.Reader) ([]ServerRecord, error) {
	var payload json.RawMessage
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode vehicle list: %w", err)
	}

	// The list endpoint returns either a bare array or a wrapper object.
	var rawList []map[string]any
	if err := json.Unmarshal(payload, &rawList); err != nil {
		var wrapper struct {
			Vehicles []map[string]any `json:"vehicles"`
		}
		if err := json.Unmarshal(payload, &wrapper); err != nil {
			return nil, fmt.Errorf("decode vehicle list: %w", err)
		}
		rawList = wrapper.Vehicles
	}

	out := make([]ServerRecord, 0, len(rawList))
	for _, raw := range rawList {
		out = append(out, recordFromRaw(raw))
	}
	return out, nil
}

func recordFromRaw(raw map[string]any) ServerRecord {
	rec := ServerRecord{
		Fields: make(map[string]string),
		Media:  make(map[catalog.Slot]string),
	}
	for k, v := range raw {
		switch k {
		case "_id", "id":
			if rec.ID == "" {
				rec.ID = stringify(v)
			}
			continue
		}
		if _, ok := catalog.SlotByID(catalog.Slot(k)); ok {
			if ref := stringify(v); ref != "" {
				rec.Media[catalog.Slot(k)] = ref
			}
			continue
		}
		if catalog.KnownField(catalog.Field(k)) {
			rec.Fields[k] = stringify(v)
		}
	}
	return rec
}

// stringify flattens the JSON scalar types the backend mixes freely.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}
