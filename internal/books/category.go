package books

import (
    "strings"

    "github.com/govalues/decimal"

    "costbook/internal/slug"
)

// Category is the display label of a day-sheet section, e.g. "Labour" or
// "Staff Salaries". Labels are stored as-is; Code gives the stable slug form.
type Category string

// CategoryKind selects the total formula for a category's items.
type CategoryKind string

const (
    // KindQuantity computes total as price*count+other (labour, materials).
    KindQuantity CategoryKind = "quantity"
    // KindFlatAmount computes total as the price alone: a recurring fixed
    // amount such as a salary or a standing personal allowance.
    KindFlatAmount CategoryKind = "flat_amount"
)

// Quantity-priced categories.
const (
    CategoryLabour     Category = "Labour"
    CategoryCement     Category = "Cement & Aggregates"
    CategorySteel      Category = "Steel"
    CategoryCarpenter  Category = "Carpenter Work"
    CategoryElectrical Category = "Electrical"
    CategoryPlumbing   Category = "Plumbing"
    CategoryPainting   Category = "Painting"
)

// Flat-amount categories.
const (
    CategoryAdvances Category = "Advances Given (Reminders)"
    CategoryStaff    Category = "Staff Salaries"
    CategoryFood     Category = "Food and Snacks"
    CategoryPersonal Category = "Personal Expenses"
    CategoryMisc     Category = "Other Miscellaneous Expenses"
)

// CategoryDef describes one curated category: its slug code, display label and
// the kind that drives the total formula. The kind is tagged here, once, at
// definition time; every call site dispatches through Category.Kind.
type CategoryDef struct {
    Code  string       `json:"code"`
    Label Category     `json:"label"`
    Kind  CategoryKind `json:"kind"`
}

var curated = []CategoryDef{
    {Code: "labour", Label: CategoryLabour, Kind: KindQuantity},
    {Code: "cement", Label: CategoryCement, Kind: KindQuantity},
    {Code: "steel", Label: CategorySteel, Kind: KindQuantity},
    {Code: "carpenter", Label: CategoryCarpenter, Kind: KindQuantity},
    {Code: "electrical", Label: CategoryElectrical, Kind: KindQuantity},
    {Code: "plumbing", Label: CategoryPlumbing, Kind: KindQuantity},
    {Code: "painting", Label: CategoryPainting, Kind: KindQuantity},
    {Code: "advances_given", Label: CategoryAdvances, Kind: KindFlatAmount},
    {Code: "staff_salaries", Label: CategoryStaff, Kind: KindFlatAmount},
    {Code: "food_and_snacks", Label: CategoryFood, Kind: KindFlatAmount},
    {Code: "personal_expenses", Label: CategoryPersonal, Kind: KindFlatAmount},
    {Code: "misc_expenses", Label: CategoryMisc, Kind: KindFlatAmount},
}

var kindByLabel = func() map[Category]CategoryKind {
    m := make(map[Category]CategoryKind, len(curated))
    for _, def := range curated {
        m[def.Label] = def.Kind
    }
    return m
}()

// Categories returns the curated catalogue, optionally filtered by kind.
func Categories(kind *CategoryKind) []CategoryDef {
    out := make([]CategoryDef, 0, len(curated))
    for _, def := range curated {
        if kind != nil && def.Kind != *kind {
            continue
        }
        out = append(out, def)
    }
    return out
}

// Kind returns the category's total formula kind. Ad-hoc categories the
// operator typed themselves are priced by quantity.
func (c Category) Kind() CategoryKind {
    if k, ok := kindByLabel[c]; ok {
        return k
    }
    return KindQuantity
}

// Code returns the slug form of the category label, e.g. "cement_aggregates".
// Curated categories use their catalogue code.
func (c Category) Code() string {
    for _, def := range curated {
        if def.Label == c {
            return def.Code
        }
    }
    return slug.Slugify(string(c))
}

var zero = decimal.MustNew(0, 0)

// ParseNumber parses a spreadsheet-style numeric field. Empty or unparseable
// input counts as zero rather than an error.
func ParseNumber(s string) decimal.Decimal {
    d, err := decimal.Parse(strings.TrimSpace(s))
    if err != nil {
        return zero
    }
    return d
}

// ItemTotal computes one line's total under the category's kind:
// flat-amount categories yield the price alone, quantity categories yield
// price*count+other.
func ItemTotal(c Category, price, count, other string) decimal.Decimal {
    p := ParseNumber(price)
    if c.Kind() == KindFlatAmount {
        return p
    }
    subtotal, err := p.Mul(ParseNumber(count))
    if err != nil {
        return zero
    }
    total, err := subtotal.Add(ParseNumber(other))
    if err != nil {
        return zero
    }
    return total
}
