// Package generator synthesizes a reproducible history of Spanish retail
// bank movements for the categorizer demo.
package generator

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/dvloznov/finanzas-demo/internal/domain"
	"github.com/shopspring/decimal"
)

// Row is a generated transaction together with the pool it came from.
type Row struct {
	domain.Transaction
	Kind Kind
}

// Generator draws every random value from a single seeded source, so the
// same seed and window always produce the same rows.
type Generator struct {
	rng    *rand.Rand
	window Window
}

// New returns a generator for window seeded with seed.
func New(seed uint64, window Window) *Generator {
	return &Generator{
		rng:    rand.New(rand.NewPCG(seed, seed)),
		window: window,
	}
}

// Generate walks the window month by month and returns all rows sorted by date.
// Rows sharing a date keep their generation order.
func (g *Generator) Generate() []Row {
	var rows []Row
	for _, month := range g.window.Months() {
		rows = g.appendMonth(rows, month)
	}
	slices.SortStableFunc(rows, func(a, b Row) int {
		return a.Date.Compare(b.Date)
	})
	return rows
}

// Transactions strips the generation metadata.
func Transactions(rows []Row) []domain.Transaction {
	out := make([]domain.Transaction, len(rows))
	for i, r := range rows {
		out[i] = r.Transaction
	}
	return out
}

func (g *Generator) appendMonth(rows []Row, month time.Time) []Row {
	last := lastDayOfMonth(month)
	year, mon := month.Year(), month.Month()

	day := func(d int) time.Time {
		return time.Date(year, mon, min(d, last), 0, 0, 0, 0, time.UTC)
	}
	anyDay := func() time.Time { return day(g.intBetween(1, last)) }
	dayBetween := func(from, to int) time.Time { return day(g.intBetween(from, to)) }

	add := func(date time.Time, desc string, amount float64, kind Kind) {
		rows = append(rows, Row{
			Transaction: domain.Transaction{
				Date:        date,
				Description: desc,
				Amount:      roundCents(amount),
			},
			Kind: kind,
		})
	}
	addFromPool := func(date time.Time, tpl Template) {
		add(date, g.describe(tpl.Pattern, month), -g.amount(tpl), tpl.Kind)
	}

	// Salary lands on the 28th, or the last day of shorter months.
	salary := g.gauss(salaryMean, salaryStdDev)
	add(day(28), fmt.Sprintf("TRANSFERENCIA NOMINA EMPRESA SL %02d/%d", int(mon), year), salary, KindSalary)

	if g.rng.Float64() < bonusProbability {
		date := anyDay()
		ref := g.intBetween(10000000, 99999999)
		add(date, fmt.Sprintf("BIZUM RECIBIDO %d", ref), g.uniform(bonusMin, bonusMax), KindBonus)
	}

	rent := g.gauss(rentMean, rentStdDev)
	add(dayBetween(1, 5), fmt.Sprintf("RECIBO ALQUILER %02d/%d INMOBILIARIA", int(mon), year), -rent, KindRent)

	for range g.intBetween(4, 8) {
		tpl := g.choice(supermarkets)
		addFromPool(anyDay(), tpl)
	}
	for range g.intBetween(3, 8) {
		tpl := g.choice(restaurants)
		addFromPool(anyDay(), tpl)
	}
	for range g.intBetween(1, 4) {
		tpl := g.choice(leisure)
		addFromPool(anyDay(), tpl)
	}
	for range g.intBetween(2, 5) {
		tpl := g.choice(transport)
		addFromPool(anyDay(), tpl)
	}

	for _, tpl := range g.sample(utilities, g.intBetween(2, 4)) {
		addFromPool(dayBetween(1, 10), tpl)
	}
	for _, tpl := range g.sample(subscriptions, g.intBetween(3, 6)) {
		addFromPool(anyDay(), tpl)
	}

	for range g.intBetween(0, 2) {
		tpl := g.choice(health)
		addFromPool(anyDay(), tpl)
	}

	if g.rng.Float64() < oneOffProbability {
		date := anyDay()
		tpl := g.choice(oneOffs)
		add(date, g.describe(tpl.Pattern, month), -g.amount(tpl), tpl.Kind)
	}

	return rows
}

// describe always consumes a merchant number and a city so the random stream
// does not depend on which placeholders a pattern uses.
func (g *Generator) describe(pattern string, month time.Time) string {
	n := g.intBetween(0, 9999)
	city := choose(g.rng, cities)
	return formatDescription(pattern, n, month, city)
}

func (g *Generator) amount(tpl Template) float64 {
	if tpl.Min == tpl.Max {
		return tpl.Min
	}
	return g.uniform(tpl.Min, tpl.Max)
}

// intBetween returns a uniform integer in [lo, hi].
func (g *Generator) intBetween(lo, hi int) int {
	return lo + g.rng.IntN(hi-lo+1)
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*g.rng.Float64()
}

func (g *Generator) gauss(mean, stdDev float64) float64 {
	return mean + stdDev*g.rng.NormFloat64()
}

func choose[T any](rng *rand.Rand, items []T) T {
	return items[rng.IntN(len(items))]
}

func (g *Generator) choice(pool []Template) Template {
	return choose(g.rng, pool)
}

// sample draws k distinct templates with a partial Fisher-Yates shuffle.
func (g *Generator) sample(pool []Template, k int) []Template {
	k = min(k, len(pool))
	shuffled := slices.Clone(pool)
	for i := range k {
		j := i + g.rng.IntN(len(shuffled)-i)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled[:k]
}

func roundCents(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
