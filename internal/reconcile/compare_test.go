package reconcile

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/conciliacao/internal/category"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCompare_Matched(t *testing.T) {
	system := &category.Totals{}
	system.Set(category.VisaCred, dec("150.00"))
	bin := category.NewTotals(category.Categories()...)
	bin.Set(category.VisaCred, dec("150"))

	records := Compare(system, bin)
	require.Len(t, records, 1)
	assert.Equal(t, category.VisaCred, records[0].Category)
	assert.True(t, records[0].Difference.IsZero())
	assert.True(t, records[0].Matched())
}

func TestCompare_MismatchSign(t *testing.T) {
	system := &category.Totals{}
	system.Set(category.MasterCred, dec("200.00"))
	bin := &category.Totals{}
	bin.Set(category.MasterCred, dec("180.00"))

	records := Compare(system, bin)
	require.Len(t, records, 1)
	assert.True(t, dec("20").Equal(records[0].Difference), "difference is system - bin")
	assert.False(t, records[0].Matched())
}

func TestCompare_SystemDrivesRows(t *testing.T) {
	system := &category.Totals{}
	system.Set(category.AmexCred, dec("10"))
	system.Set(category.EloDeb, dec("5"))
	bin := &category.Totals{}
	bin.Set(category.VisaDeb, dec("99"))

	records := Compare(system, bin)
	require.Len(t, records, 2)
	assert.Equal(t, category.AmexCred, records[0].Category)
	assert.Equal(t, category.EloDeb, records[1].Category)
	assert.True(t, records[0].Bin.IsZero(), "missing bin side counts as zero")
	assert.True(t, dec("10").Equal(records[0].Difference))
}

func TestCompare_Empty(t *testing.T) {
	records := Compare(&category.Totals{}, category.NewTotals(category.Categories()...))
	assert.Empty(t, records)
}

func TestRecord_MarshalJSON(t *testing.T) {
	r := Record{Category: category.EloCred, System: dec("1"), Bin: dec("2"), Difference: dec("-1")}

	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"category":"Elo Cred","system":"1","bin":"2","difference":"-1","matched":false}`, string(b))
}
