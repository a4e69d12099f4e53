package converters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToInt64(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    int64
		wantErr bool
	}{
		{name: "int64 from TOML", input: int64(42), want: 42},
		{name: "integral float from JSON", input: float64(14320000), want: 14320000},
		{name: "decimal string", input: "40", want: 40},
		{name: "padded string", input: " -7 ", want: -7},
		{name: "fractional float", input: 3.14, wantErr: true},
		{name: "not a number", input: "nan", wantErr: true},
		{name: "empty string", input: "", wantErr: true},
		{name: "bool", input: true, wantErr: true},
		{name: "nil", input: nil, wantErr: true},
		{name: "huge float", input: 1e30, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToInt64(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToUint64(t *testing.T) {
	got, err := ToUint64("18446744073709551615")
	require.NoError(t, err)
	assert.Equal(t, uint64(18446744073709551615), got)

	got, err = ToUint64(int64(9))
	require.NoError(t, err)
	assert.Equal(t, uint64(9), got)

	_, err = ToUint64(int64(-1))
	assert.Error(t, err)
	_, err = ToUint64("-1")
	assert.Error(t, err)
}

func TestToFloat64(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    float64
		wantErr bool
	}{
		{name: "float", input: 3.14, want: 3.14},
		{name: "int widening", input: int64(3), want: 3},
		{name: "uint widening", input: uint8(3), want: 3},
		{name: "string", input: "2.5", want: 2.5},
		{name: "bad string", input: "two", wantErr: true},
		{name: "bool", input: false, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToFloat64(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"true", "True", "TRUE", "1"} {
		b, err := ParseBool(s)
		require.NoError(t, err, s)
		assert.True(t, b, s)
	}
	for _, s := range []string{"false", "False", "0"} {
		b, err := ParseBool(s)
		require.NoError(t, err, s)
		assert.False(t, b, s)
	}
	for _, s := range []string{"yes", "no", "", " true", "2"} {
		_, err := ParseBool(s)
		assert.Error(t, err, s)
	}
}

func TestToBool(t *testing.T) {
	b, err := ToBool(true)
	require.NoError(t, err)
	assert.True(t, b)

	b, err = ToBool(int64(0))
	require.NoError(t, err)
	assert.False(t, b)

	b, err = ToBool(1)
	require.NoError(t, err)
	assert.True(t, b)

	_, err = ToBool(2)
	assert.Error(t, err)
	_, err = ToBool(1.0)
	assert.Error(t, err)
	_, err = ToBool(nil)
	assert.Error(t, err)
}

func TestToString(t *testing.T) {
	tests := []struct {
		input any
		want  string
	}{
		{"x", "x"},
		{int64(42), "42"},
		{uint(7), "7"},
		{2.5, "2.5"},
		{true, "true"},
	}
	for _, tt := range tests {
		got, err := ToString(tt.input)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
	_, err := ToString([]any{"a"})
	assert.Error(t, err)
	_, err = ToString(nil)
	assert.Error(t, err)
}
