package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nuwa-ai/nuwascript/pkg/nuwascript"
)

func TestDecodeJSONValueEveryKind(t *testing.T) {
	v, err := decodeJSONValue(json.RawMessage(`null`))
	require.NoError(t, err)
	require.True(t, v.IsNull())

	v, err = decodeJSONValue(json.RawMessage(`true`))
	require.NoError(t, err)
	b, _ := v.AsBool()
	require.True(t, b)

	v, err = decodeJSONValue(json.RawMessage(`3.5`))
	require.NoError(t, err)
	n, _ := v.AsNumber()
	require.Equal(t, 3.5, n)

	v, err = decodeJSONValue(json.RawMessage(`"hi"`))
	require.NoError(t, err)
	s, _ := v.AsString()
	require.Equal(t, "hi", s)

	v, err = decodeJSONValue(json.RawMessage(`[1, 2]`))
	require.NoError(t, err)
	arr, _ := v.AsArray()
	require.Len(t, arr, 2)

	v, err = decodeJSONValue(json.RawMessage(`{"a": 1}`))
	require.NoError(t, err)
	inner, ok := v.Get("a")
	require.True(t, ok)
	n, _ = inner.AsNumber()
	require.Equal(t, 1.0, n)
}

func TestDecodeJSONValueRoundTripsThroughEncode(t *testing.T) {
	v, err := decodeJSONValue(json.RawMessage(`{"name": "a", "items": [1, 2], "active": true}`))
	require.NoError(t, err)

	encoded := encodeJSONValue(v)
	out, err := json.Marshal(encoded)
	require.NoError(t, err)

	back, err := decodeJSONValue(out)
	require.NoError(t, err)
	require.True(t, nuwascript.Equal(v, back))
}

func TestEncodeJSONValueNullFallsBackToNil(t *testing.T) {
	require.Nil(t, encodeJSONValue(nuwascript.Null))
}
