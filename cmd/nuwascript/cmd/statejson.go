package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/nuwa-ai/nuwascript/pkg/nuwascript"
)

// decodeJSONValue and encodeJSONValue bridge encoding/json's any-typed
// decoding with nuwascript.Value for the CLI's state-persistence
// convenience (config [state] persist_path). Neither function is part of
// the language core; they exist only so the CLI can round-trip state
// through a plain JSON file between runs.

func decodeJSONValue(raw json.RawMessage) (nuwascript.Value, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nuwascript.Null, err
	}
	return anyToValue(v)
}

func anyToValue(v any) (nuwascript.Value, error) {
	switch x := v.(type) {
	case nil:
		return nuwascript.Null, nil
	case bool:
		return nuwascript.Bool(x), nil
	case float64:
		return nuwascript.Number(x), nil
	case string:
		return nuwascript.String(x), nil
	case []any:
		elems := make([]nuwascript.Value, len(x))
		for i, e := range x {
			ev, err := anyToValue(e)
			if err != nil {
				return nuwascript.Null, err
			}
			elems[i] = ev
		}
		return nuwascript.Array(elems), nil
	case map[string]any:
		obj := nuwascript.NewObject()
		for k, e := range x {
			ev, err := anyToValue(e)
			if err != nil {
				return nuwascript.Null, err
			}
			obj = obj.Set(k, ev)
		}
		return obj, nil
	default:
		return nuwascript.Null, fmt.Errorf("unsupported JSON value type %T", v)
	}
}

func encodeJSONValue(v nuwascript.Value) any {
	if n, ok := v.AsNumber(); ok {
		return n
	}
	if b, ok := v.AsBool(); ok {
		return b
	}
	if s, ok := v.AsString(); ok {
		return s
	}
	if arr, ok := v.AsArray(); ok {
		out := make([]any, len(arr))
		for i, e := range arr {
			out[i] = encodeJSONValue(e)
		}
		return out
	}
	if v.Kind().String() == "Object" {
		out := map[string]any{}
		for _, k := range v.ObjectKeys() {
			val, _ := v.Get(k)
			out[k] = encodeJSONValue(val)
		}
		return out
	}
	return nil
}
