package hivetrace

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

// Key of the metadata tab holding an *Error's attached payload.
const payloadTab = "payload"

// mergeMetadata combines two metadata maps, with override winning on key
// collision. Neither input is mutated.
func mergeMetadata(base, override map[string]any) map[string]any {
	return lo.Assign(base, override)
}

// SanitizeMetadata recursively coerces metadata values to JSON-safe
// primitives so opaque values cannot break report serialization. Maps,
// slices, strings, booleans, and numbers pass through; structs decode to
// maps; everything else becomes its string representation. The coercion is
// idempotent: sanitizing an already-sanitized map yields an identical map.
func SanitizeMetadata(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = jsonSafe(v)
	}
	return out
}

func jsonSafe(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string, bool, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return t
	case map[string]any:
		return SanitizeMetadata(t)
	case []any:
		return lo.Map(t, func(item any, _ int) any { return jsonSafe(item) })
	case error:
		return t.Error()
	case fmt.Stringer:
		return t.String()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[fmt.Sprintf("%v", iter.Key().Interface())] = jsonSafe(iter.Value().Interface())
		}
		return out
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = jsonSafe(rv.Index(i).Interface())
		}
		return out
	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		return jsonSafe(rv.Elem().Interface())
	case reflect.Struct:
		if m, ok := structToMap(v); ok {
			return SanitizeMetadata(m)
		}
	}
	return fmt.Sprintf("%v", v)
}

func structToMap(v any) (map[string]any, bool) {
	var m map[string]any
	if err := mapstructure.Decode(v, &m); err != nil || len(m) == 0 {
		return nil, false
	}
	return m, true
}

// normalizeUser shapes a free-form user descriptor into the map the report
// schema expects. Maps and decodable structs pass through; anything else is
// wrapped as {"id": value}.
func normalizeUser(v any) map[string]any {
	if v == nil {
		return nil
	}
	if m, ok := v.(map[string]any); ok {
		return SanitizeMetadata(m)
	}
	if m, ok := structToMap(v); ok {
		return SanitizeMetadata(m)
	}
	return map[string]any{"id": jsonSafe(v)}
}
