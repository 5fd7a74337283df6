package money

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1.234,56", "1234.56"},
		{"0,00", "0"},
		{"R$ 1.500,00", "1500"},
		{"R$1.234.567,89", "1234567.89"},
		{"1500", "1500"},
		{"  12,5 ", "12.5"},
		{"-3,10", "-3.1"},
		{"R$ 999,00", "999"},
	}

	for _, tt := range tests {
		got, err := Parse(tt.in)
		require.NoError(t, err, tt.in)
		assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "%q: got %s want %s", tt.in, got, tt.want)
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"", "   ", "R$", "abc", "12a,00", "1,2,3", "--5"} {
		_, err := Parse(in)
		require.Error(t, err, in)

		var pe *ParseError
		assert.True(t, errors.As(err, &pe), in)
		assert.ErrorIs(t, err, ErrInvalidAmount, in)
		assert.Equal(t, in, pe.Input)
	}
}

func TestParseValue_NumbersPassThrough(t *testing.T) {
	got, err := ParseValue(1500.25)
	require.NoError(t, err)
	assert.Equal(t, 1500.25, got.InexactFloat64())

	got, err = ParseValue(42)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(42)))

	d := decimal.RequireFromString("10.01")
	got, err = ParseValue(d)
	require.NoError(t, err)
	assert.True(t, got.Equal(d))
}

func TestParseValue_Strings(t *testing.T) {
	got, err := ParseValue("R$ 1.500,00")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(1500)))
}

func TestParseValue_Unsupported(t *testing.T) {
	_, err := ParseValue(nil)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ParseValue(true)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.Contains(t, err.Error(), "unsupported value type bool")
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "1,234.56", Format(decimal.RequireFromString("1234.56")))
	assert.Equal(t, "0.00", Format(decimal.Zero))
	assert.Equal(t, "20.00", Format(decimal.NewFromInt(20)))
	assert.Equal(t, "-20.00", Format(decimal.NewFromInt(-20)))
	assert.Equal(t, "1,000,000.10", Format(decimal.RequireFromString("1000000.1")))
}
