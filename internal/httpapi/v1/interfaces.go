package v1

import (
    "context"
    "time"

    "github.com/google/uuid"
    "github.com/govalues/decimal"

    "costbook/internal/books"
)

// ProjectReader abstracts project read operations.
type ProjectReader interface {
    // Project returns a user's project by ID.
    Project(ctx context.Context, userID, projectID uuid.UUID) (books.Project, error)
    // Projects returns all projects for a user.
    Projects(ctx context.Context, userID uuid.UUID) ([]books.Project, error)
    // ExpenseTotals returns the summed expense total per project.
    ExpenseTotals(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
}

// PaymentReader abstracts payment read operations.
type PaymentReader interface {
    Payments(ctx context.Context, userID, projectID uuid.UUID) ([]books.Payment, error)
    PaymentsInRange(ctx context.Context, userID, projectID uuid.UUID, from, to time.Time) ([]books.Payment, error)
}

// ExpenseReader abstracts expense read operations.
type ExpenseReader interface {
    ExpensesInRange(ctx context.Context, userID, projectID uuid.UUID, from, to time.Time) ([]books.Expense, error)
    LatestExpenseDayBefore(ctx context.Context, userID, projectID uuid.UUID, before time.Time) (time.Time, bool, error)
}

// ReadyChecker is optionally implemented by stores to indicate readiness.
type ReadyChecker interface {
    Ready(ctx context.Context) error
}

// Repository composes the read-side operations used by the API.
// It is a convenience union satisfied by both stores.
type Repository interface {
    ProjectReader
    PaymentReader
    ExpenseReader
}

// Writer interfaces are provided by services directly (payment.Writer,
// daysheet.Writer, project.Writer).
