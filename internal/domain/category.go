package domain

// Category is one of the ten fixed spending labels a transaction can carry.
type Category string

const (
	CategoryVivienda      Category = "Vivienda"
	CategorySupermercado  Category = "Supermercado"
	CategoryRestaurantes  Category = "Restaurantes"
	CategoryOcio          Category = "Ocio"
	CategoryTransporte    Category = "Transporte"
	CategorySuministros   Category = "Suministros"
	CategorySalud         Category = "Salud"
	CategorySuscripciones Category = "Suscripciones"
	CategoryIngresos      Category = "Ingresos"
	CategoryOtros         Category = "Otros"
)

// CatchAll is assigned whenever a classification is missing or not in the closed set.
const CatchAll = CategoryOtros

// allCategories keeps the order in which labels are presented to the model.
var allCategories = [...]Category{
	CategoryVivienda,
	CategorySupermercado,
	CategoryRestaurantes,
	CategoryOcio,
	CategoryTransporte,
	CategorySuministros,
	CategorySalud,
	CategorySuscripciones,
	CategoryIngresos,
	CategoryOtros,
}

// Categories returns the closed category set in canonical order.
func Categories() []Category {
	out := make([]Category, len(allCategories))
	copy(out, allCategories[:])
	return out
}

// CategoryNames returns the labels as plain strings, in canonical order.
func CategoryNames() []string {
	out := make([]string, len(allCategories))
	for i, c := range allCategories {
		out[i] = string(c)
	}
	return out
}

// ParseCategory reports whether s is exactly one of the ten labels (case-sensitive).
func ParseCategory(s string) (Category, bool) {
	for _, c := range allCategories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// NormalizeCategory maps any label outside the closed set to CatchAll.
func NormalizeCategory(s string) Category {
	if c, ok := ParseCategory(s); ok {
		return c
	}
	return CatchAll
}

// Valid reports whether c belongs to the closed set.
func (c Category) Valid() bool {
	_, ok := ParseCategory(string(c))
	return ok
}

func (c Category) String() string {
	return string(c)
}

// CategoryCount is one line of the per-category distribution.
type CategoryCount struct {
	Category Category
	Count    int
}
