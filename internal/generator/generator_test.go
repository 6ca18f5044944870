package generator

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/dvloznov/finanzas-demo/internal/statement"
)

var testAnchor = time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)

func TestTrailingWindow(t *testing.T) {
	tests := []struct {
		name      string
		anchor    time.Time
		wantStart string
		wantEnd   string
	}{
		{"mid month", testAnchor, "2023-09-01", "2025-02-28"},
		{"leap february", time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), "2022-09-01", "2024-02-29"},
		{"january anchor", time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC), "2024-07-01", "2025-12-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := TrailingWindow(tt.anchor, DefaultMonths)
			if got := w.Start.Format("2006-01-02"); got != tt.wantStart {
				t.Errorf("Start = %s, want %s", got, tt.wantStart)
			}
			if got := w.End.Format("2006-01-02"); got != tt.wantEnd {
				t.Errorf("End = %s, want %s", got, tt.wantEnd)
			}
			if n := len(w.Months()); n != DefaultMonths {
				t.Errorf("len(Months()) = %d, want %d", n, DefaultMonths)
			}
		})
	}
}

func TestGenerate_DatesWithinWindowAndSorted(t *testing.T) {
	w := TrailingWindow(testAnchor, DefaultMonths)
	rows := New(42, w).Generate()
	if len(rows) == 0 {
		t.Fatal("Generate() returned no rows")
	}

	for i, r := range rows {
		if !w.Contains(r.Date) {
			t.Errorf("row %d date %s outside window %s..%s", i, r.DateString(), w.Start.Format("2006-01-02"), w.End.Format("2006-01-02"))
		}
		if i > 0 && r.Date.Before(rows[i-1].Date) {
			t.Fatalf("rows not sorted at %d: %s before %s", i, r.DateString(), rows[i-1].DateString())
		}
	}
}

func TestGenerate_SignPerKind(t *testing.T) {
	rows := New(7, TrailingWindow(testAnchor, DefaultMonths)).Generate()

	for _, r := range rows {
		if r.Kind.IsCredit() && !r.Amount.IsPositive() {
			t.Errorf("%s row %q has non-positive amount %s", r.Kind, r.Description, r.Amount)
		}
		if !r.Kind.IsCredit() && !r.Amount.IsNegative() {
			t.Errorf("%s row %q has non-negative amount %s", r.Kind, r.Description, r.Amount)
		}
		if r.Amount.Exponent() < -2 {
			t.Errorf("amount %s has more than two decimals", r.Amount)
		}
	}
}

func TestGenerate_MonthlyStructure(t *testing.T) {
	w := TrailingWindow(testAnchor, DefaultMonths)
	rows := New(42, w).Generate()

	type counts map[Kind]int
	perMonth := make(map[string]counts)
	for _, r := range rows {
		key := r.Date.Format("2006-01")
		if perMonth[key] == nil {
			perMonth[key] = counts{}
		}
		perMonth[key][r.Kind]++
	}

	if len(perMonth) != DefaultMonths {
		t.Fatalf("got %d distinct months, want %d", len(perMonth), DefaultMonths)
	}

	for month, c := range perMonth {
		checks := []struct {
			kind     Kind
			min, max int
		}{
			{KindSalary, 1, 1},
			{KindBonus, 0, 1},
			{KindRent, 1, 1},
			{KindUtility, 2, 4},
			{KindSubscription, 3, 6},
			{KindHealth, 0, 2},
			{KindOneOff, 0, 1},
		}
		for _, ch := range checks {
			if n := c[ch.kind]; n < ch.min || n > ch.max {
				t.Errorf("%s: %d %s rows, want %d..%d", month, n, ch.kind, ch.min, ch.max)
			}
		}
	}
}

func TestGenerate_RentAndUtilityDays(t *testing.T) {
	rows := New(42, TrailingWindow(testAnchor, DefaultMonths)).Generate()

	for _, r := range rows {
		switch r.Kind {
		case KindRent:
			if r.Date.Day() > 5 {
				t.Errorf("rent on day %d, want 1..5", r.Date.Day())
			}
		case KindUtility:
			if r.Date.Day() > 10 {
				t.Errorf("utility bill on day %d, want 1..10", r.Date.Day())
			}
		case KindSalary:
			if d := r.Date.Day(); d != 28 {
				t.Errorf("salary on day %d, want 28", d)
			}
			if !strings.HasPrefix(r.Description, "TRANSFERENCIA NOMINA EMPRESA SL ") {
				t.Errorf("unexpected salary description %q", r.Description)
			}
		}
	}
}

func TestGenerate_SubscriptionsAreDistinctPerMonth(t *testing.T) {
	rows := New(3, TrailingWindow(testAnchor, DefaultMonths)).Generate()

	seen := make(map[string]map[string]bool)
	for _, r := range rows {
		if r.Kind != KindSubscription {
			continue
		}
		month := r.Date.Format("2006-01")
		if seen[month] == nil {
			seen[month] = make(map[string]bool)
		}
		merchant := strings.Fields(r.Description)[0]
		if seen[month][merchant] {
			t.Errorf("%s: subscription %q drawn twice", month, merchant)
		}
		seen[month][merchant] = true
	}
}

func TestGenerate_SameSeedIsByteIdentical(t *testing.T) {
	w := TrailingWindow(testAnchor, DefaultMonths)

	var a, b bytes.Buffer
	if err := statement.Write(&a, Transactions(New(42, w).Generate())); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := statement.Write(&b, Transactions(New(42, w).Generate())); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("same seed produced different CSV output")
	}

	var c bytes.Buffer
	if err := statement.Write(&c, Transactions(New(43, w).Generate())); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if bytes.Equal(a.Bytes(), c.Bytes()) {
		t.Error("different seeds produced identical CSV output")
	}
}

func TestFormatDescription(t *testing.T) {
	month := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		pattern string
		n       int
		want    string
	}{
		{"TPV MERCADONA {n:03d}", 7, "TPV MERCADONA 007"},
		{"GLOVO ES {n:06d}", 1234, "GLOVO ES 001234"},
		{"UBER EATS *ES {n:5d}", 42, "UBER EATS *ES    42"},
		{"PAYPAL *GAMING {n:8d}", 9999, "PAYPAL *GAMING     9999"},
		{"RECIBO ENDESA {mes}", 1, "RECIBO ENDESA 02/2025"},
		{"MCDONALDS {ciudad}", 1, "MCDONALDS BILBAO"},
		{"STEAM PURCHASE", 1, "STEAM PURCHASE"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			if got := formatDescription(tt.pattern, tt.n, month, "BILBAO"); got != tt.want {
				t.Errorf("formatDescription(%q) = %q, want %q", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	rows := New(42, TrailingWindow(testAnchor, DefaultMonths)).Generate()
	s := Summarize(Transactions(rows))

	if s.Rows != len(rows) {
		t.Errorf("Rows = %d, want %d", s.Rows, len(rows))
	}
	if s.Months != DefaultMonths {
		t.Errorf("Months = %d, want %d", s.Months, DefaultMonths)
	}
	if !s.Income.IsPositive() || !s.Spend.IsNegative() {
		t.Errorf("Income = %s, Spend = %s", s.Income, s.Spend)
	}
	if !s.Balance.Equal(s.Income.Add(s.Spend)) {
		t.Errorf("Balance = %s, want Income+Spend", s.Balance)
	}
}
