package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindRow(t *testing.T) {
	rows := [][]string{
		{"Relatório de vendas", ""},
		{"", "Bin Visa Cred"},
		{"SUB-TOTAL TIPO:", "", "100"},
		{"", "Bin Visa Deb"},
		{"sub-total tipo:", "", "200"},
	}

	i, ok := FindRow(rows, 0, ContainsFold("bin visa"))
	assert.True(t, ok)
	assert.Equal(t, 1, i)

	i, ok = FindRow(rows, 2, ContainsFold("bin visa"))
	assert.True(t, ok)
	assert.Equal(t, 3, i)

	i, ok = FindRow(rows, 4, ContainsFold("SUB-TOTAL TIPO:"))
	assert.True(t, ok)
	assert.Equal(t, 4, i)

	_, ok = FindRow(rows, 0, ContainsFold("Bin Amex"))
	assert.False(t, ok)

	_, ok = FindRow(rows, len(rows), ContainsFold("Bin"))
	assert.False(t, ok)

	i, ok = FindRow(rows, -3, ContainsFold("relatório"))
	assert.True(t, ok)
	assert.Equal(t, 0, i)
}
