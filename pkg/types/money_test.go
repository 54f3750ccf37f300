package types

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCentsFromDecimal(t *testing.T) {
	cents, err := CentsFromDecimal(decimal.RequireFromString("45.90"))
	require.NoError(t, err)
	assert.Equal(t, Cents(4590), cents)

	cents, err = CentsFromDecimal(decimal.RequireFromString("0"))
	require.NoError(t, err)
	assert.Equal(t, Cents(0), cents)
}

func TestCentsFromDecimalRejectsSubCent(t *testing.T) {
	_, err := CentsFromDecimal(decimal.RequireFromString("45.905"))
	assert.Error(t, err)
}

func TestCentsString(t *testing.T) {
	assert.Equal(t, "45.90", Cents(4590).String())
	assert.Equal(t, "0.05", Cents(5).String())
	assert.Equal(t, "0.00", Cents(0).String())
}

func TestCentsJSON(t *testing.T) {
	raw, err := json.Marshal(Cents(5180))
	require.NoError(t, err)
	assert.Equal(t, "51.80", string(raw))

	var parsed Cents
	require.NoError(t, json.Unmarshal([]byte("51.8"), &parsed))
	assert.Equal(t, Cents(5180), parsed)

	require.NoError(t, json.Unmarshal([]byte(`"32.90"`), &parsed))
	assert.Equal(t, Cents(3290), parsed)

	assert.Error(t, json.Unmarshal([]byte(`"45.905"`), &parsed))
	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &parsed))
}
