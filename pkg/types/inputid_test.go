package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeInputID(t *testing.T) {
	tests := []struct {
		name     string
		content  []byte
		expected string
	}{
		{
			name:    "empty content",
			content: []byte(""),
			// Git: echo -n "" | git hash-object --stdin
			expected: "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391",
		},
		{
			name:    "hello world",
			content: []byte("hello world"),
			// Git computes: SHA-1("blob 11\0hello world")
			expected: "95d09f2b10159347eece71399a7e2e907ea3df4f",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := ComputeInputID(tt.content)
			assert.Equal(t, tt.expected, id.Hex())
			assert.Equal(t, tt.expected, id.String())
			assert.Equal(t, tt.expected[:12], id.Short())
		})
	}
}

func TestParseInputID(t *testing.T) {
	id, err := ParseInputID("95d09f2b10159347eece71399a7e2e907ea3df4f")
	require.NoError(t, err)
	assert.Equal(t, ComputeInputID([]byte("hello world")), id)

	_, err = ParseInputID("abc")
	assert.Error(t, err)

	_, err = ParseInputID("zz d09f2b10159347eece71399a7e2e907ea3df4")
	assert.Error(t, err)
}

func TestInputID_JSON(t *testing.T) {
	id := ComputeInputID([]byte("seeds: 1 2"))

	data, err := json.Marshal(id)
	require.NoError(t, err)
	assert.Equal(t, `"`+id.Hex()+`"`, string(data))

	var decoded InputID
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, id, decoded)

	assert.Error(t, json.Unmarshal([]byte(`"short"`), &decoded))
	assert.Error(t, json.Unmarshal([]byte(`12`), &decoded))
}

func TestInputID_ValueScan(t *testing.T) {
	id := ComputeInputID([]byte("content"))

	v, err := id.Value()
	require.NoError(t, err)

	var fromString, fromBytes InputID
	require.NoError(t, fromString.Scan(v))
	require.NoError(t, fromBytes.Scan([]byte(id.Hex())))
	assert.Equal(t, id, fromString)
	assert.Equal(t, id, fromBytes)

	assert.Error(t, fromString.Scan(nil))
	assert.Error(t, fromString.Scan(42))
}
