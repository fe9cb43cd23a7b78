package books

import (
    "time"

    "github.com/google/uuid"
    "github.com/govalues/decimal"
    "github.com/govalues/money"

    "costbook/internal/meta"
)

// Project is a construction site whose finances are tracked: a total budget
// agreed with the owner and a running aggregate of what the owner has paid.
type Project struct {
    ID       uuid.UUID
    UserID   uuid.UUID
    Name     string
    Currency string
    // TotalBudget is the agreed contract value.
    TotalBudget money.Amount
    // OwnerPaid is a materialized aggregate: it always equals the sum of the
    // project's payment amounts and is written only together with a payment
    // mutation, inside the same transaction.
    OwnerPaid money.Amount
    // Metadata holds additional key-value attributes for the project
    // (site address, client contact, plot number and the like).
    Metadata meta.Metadata `json:"metadata,omitempty"`
}

// Payment is one entry in a project's owner-payment ledger.
type Payment struct {
    ID          uuid.UUID
    UserID      uuid.UUID
    ProjectID   uuid.UUID
    Date        time.Time
    Amount      money.Amount
    Description string
}

// Expense is a single line of a project's day sheet. Price, Count and Other
// are kept as the operator typed them; Total is computed on save from the
// category's kind and is the only field reports aggregate over.
type Expense struct {
    ID        uuid.UUID
    UserID    uuid.UUID
    ProjectID uuid.UUID
    // Date is normalized to the start of its calendar day in the deployment's
    // reference zone before storage.
    Date     time.Time
    Category Category
    ItemName string
    Price    string
    Count    string
    Other    string
    Total    decimal.Decimal
}

// LineItem is one row of a day sheet as exchanged with callers: template
// output and save input. It carries no identity; a saved day replaces all
// rows for that (project, date) wholesale.
type LineItem struct {
    Category Category
    ItemName string
    Price    string
    Count    string
    Other    string
    Total    decimal.Decimal
}

// Items converts stored expenses to line items, preserving order.
func Items(expenses []Expense) []LineItem {
    out := make([]LineItem, 0, len(expenses))
    for _, e := range expenses {
        out = append(out, LineItem{
            Category: e.Category,
            ItemName: e.ItemName,
            Price:    e.Price,
            Count:    e.Count,
            Other:    e.Other,
            Total:    e.Total,
        })
    }
    return out
}

// Skeleton derives a fresh day's line items from a prior day's rows: structure
// is kept, count and other are cleared, total resets to zero. Price is cleared
// for quantity categories and carried forward for flat-amount categories, so
// recurring fixed amounts (salaries, standing allowances) need no re-entry.
func Skeleton(prior []Expense) []LineItem {
    out := make([]LineItem, 0, len(prior))
    for _, e := range prior {
        item := LineItem{Category: e.Category, ItemName: e.ItemName}
        if e.Category.Kind() == KindFlatAmount {
            item.Price = e.Price
        }
        out = append(out, item)
    }
    return out
}
