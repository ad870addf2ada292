package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/savesvc/pkg/errors"
)

func TestValueStringValue(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"string verbatim", String("80"), "80"},
		{"string with spaces", String("hello world"), "hello world"},
		{"empty string", String(""), ""},
		{"int", Int(42), "42"},
		{"negative int", Int(-7), "-7"},
		{"float", Float(2.5), "2.5"},
		{"bool true", Bool(true), "true"},
		{"bool false", Bool(false), "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.value.StringValue()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValueStringValueInvalid(t *testing.T) {
	var zero Value

	_, err := zero.StringValue()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrValueConvert))
}

func TestValueKind(t *testing.T) {
	assert.Equal(t, KindString, String("x").Kind())
	assert.Equal(t, KindInt, Int(1).Kind())
	assert.Equal(t, KindFloat, Float(1).Kind())
	assert.Equal(t, KindBool, Bool(true).Kind())
	assert.Equal(t, KindInvalid, Value{}.Kind())
}
