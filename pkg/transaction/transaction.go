package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a single settlement row of the acquirer export
type Transaction struct {
	Line        int             `json:"line"`
	Brand       string          `json:"brand"`   // Bandeira, e.g. "Visa"
	Product     string          `json:"product"` // Produto, e.g. "Crédito"
	Status      string          `json:"status"`
	GrossAmount decimal.Decimal `json:"gross_amount"` // Valor bruto
}

// TransactionList holds the rows loaded from one export
type TransactionList struct {
	Transactions []Transaction `json:"transactions"`
	Total        int           `json:"total"`
	Skipped      int           `json:"skipped"`
	Source       string        `json:"source"`
	LoadedAt     time.Time     `json:"loaded_at"`
}

// AddTransaction appends a transaction to the list
func (tl *TransactionList) AddTransaction(t Transaction) {
	tl.Transactions = append(tl.Transactions, t)
	tl.Total = len(tl.Transactions)
}

// Settled returns a new list without the rows whose status exactly matches
// one of excluded. The receiver is left untouched.
func (tl *TransactionList) Settled(excluded []string) *TransactionList {
	skip := make(map[string]struct{}, len(excluded))
	for _, s := range excluded {
		skip[s] = struct{}{}
	}

	settled := &TransactionList{Source: tl.Source, LoadedAt: tl.LoadedAt, Skipped: tl.Skipped}
	for _, t := range tl.Transactions {
		if _, ok := skip[t.Status]; ok {
			continue
		}
		settled.AddTransaction(t)
	}
	return settled
}

// Sum returns the gross amount of all transactions matching brand and product
// exactly.
func (tl *TransactionList) Sum(brand, product string) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range tl.Transactions {
		if t.Brand == brand && t.Product == product {
			sum = sum.Add(t.GrossAmount)
		}
	}
	return sum
}
