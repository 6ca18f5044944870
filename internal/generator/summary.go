package generator

import (
	"github.com/dvloznov/finanzas-demo/internal/domain"
	"github.com/shopspring/decimal"
)

// Summary is the post-generation report printed by the generate command.
type Summary struct {
	Rows    int
	Months  int
	Income  decimal.Decimal
	Spend   decimal.Decimal
	Balance decimal.Decimal
}

// Summarize totals credits and debits and counts distinct calendar months.
func Summarize(txs []domain.Transaction) Summary {
	s := Summary{Rows: len(txs)}
	months := make(map[string]struct{})
	for _, tx := range txs {
		months[tx.Date.Format("2006-01")] = struct{}{}
		switch {
		case tx.Amount.IsPositive():
			s.Income = s.Income.Add(tx.Amount)
		case tx.Amount.IsNegative():
			s.Spend = s.Spend.Add(tx.Amount)
		}
	}
	s.Months = len(months)
	s.Balance = s.Income.Add(s.Spend)
	return s
}
