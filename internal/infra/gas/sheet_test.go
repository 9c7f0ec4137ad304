package gas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCell_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want cell
	}{
		{name: "string", in: `"abc"`, want: "abc"},
		{name: "escaped string", in: `"a\"b"`, want: `a"b`},
		{name: "integer", in: `800`, want: "800"},
		{name: "large id", in: `1700000000000`, want: "1700000000000"},
		{name: "float", in: `12.5`, want: "12.5"},
		{name: "bool", in: `true`, want: "true"},
		{name: "null", in: `null`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c cell
			require.NoError(t, json.Unmarshal([]byte(tt.in), &c))
			assert.Equal(t, tt.want, c)
		})
	}
}

func TestCell_UnmarshalJSON_Invalid(t *testing.T) {
	var row sheetItem
	err := json.Unmarshal([]byte(`{"id": {"nested": 1}}`), &row)
	assert.Error(t, err)
}
