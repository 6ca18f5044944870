package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date format used in the CSV file and the database.
const DateLayout = "2006-01-02"

// Transaction is one bank movement. Amount is positive for money in and
// negative for money out. Category stays empty until the categorizer assigns it.
type Transaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Category    Category
}

// IsCredit reports whether the transaction adds money to the account.
func (t Transaction) IsCredit() bool {
	return t.Amount.IsPositive()
}

// DateString formats Date as YYYY-MM-DD.
func (t Transaction) DateString() string {
	return t.Date.Format(DateLayout)
}

// SavingsGoal mirrors the objetivos table. Neither tool populates it.
type SavingsGoal struct {
	ID            int64
	Name          string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	Deadline      time.Time
}
