package category

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable(t *testing.T) {
	entries := Table()
	require.Len(t, entries, 9)
	assert.Equal(t, VisaCred, entries[0].Category)

	seen := map[Category]bool{}
	for _, e := range entries {
		assert.False(t, seen[e.Category], "duplicate category %s", e.Category)
		seen[e.Category] = true
		assert.NotEmpty(t, e.Brand)
		assert.NotEmpty(t, e.Product)
	}

	// copies must not leak into the shared table
	entries[0].Brand = "changed"
	again, _ := Lookup(VisaCred)
	assert.Equal(t, "Visa", again.Brand)
}

func TestInternationalSiblings(t *testing.T) {
	withSibling := []Category{}
	for _, e := range Table() {
		if e.HasInternational() {
			withSibling = append(withSibling, e.Category)
		}
	}
	assert.Equal(t, []Category{VisaCred, VisaDeb, MasterCred, MaestroDeb, AmexCred}, withSibling)

	e, ok := Lookup(VisaCred)
	require.True(t, ok)
	assert.Equal(t, Category("Visa Cred Int"), e.Sibling())
}

func TestLookup_Unknown(t *testing.T) {
	_, ok := Lookup("Diners Cred")
	assert.False(t, ok)
}

func TestTotals_Order(t *testing.T) {
	tot := NewTotals(EloCred, VisaCred)
	tot.Add(VisaCred, decimal.NewFromInt(10))
	tot.Add(VisaCred, decimal.NewFromInt(5))
	tot.Set(AmexCred, decimal.NewFromInt(1))

	assert.Equal(t, []Category{EloCred, VisaCred, AmexCred}, tot.Categories())
	assert.True(t, decimal.NewFromInt(15).Equal(tot.Get(VisaCred)))
	assert.True(t, tot.Get(MasterDeb).IsZero())
	assert.False(t, tot.Has(MasterDeb))

	tot.Delete(EloCred)
	assert.Equal(t, []Category{VisaCred, AmexCred}, tot.Categories())
	assert.Equal(t, 2, tot.Len())
}

func TestTotals_ZeroValue(t *testing.T) {
	var tot Totals
	_, ok := tot.Lookup(VisaDeb)
	assert.False(t, ok)

	tot.Add(VisaDeb, decimal.NewFromInt(3))
	v, ok := tot.Lookup(VisaDeb)
	assert.True(t, ok)
	assert.True(t, decimal.NewFromInt(3).Equal(v))
}

func TestTotals_MarshalJSON(t *testing.T) {
	tot := NewTotals(VisaCred)
	tot.Set(AmexCred, decimal.RequireFromString("12.5"))

	b, err := tot.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `[{"category":"Visa Cred","amount":"0"},{"category":"Amex Cred","amount":"12.5"}]`, string(b))
}
