package payment

import (
    "context"
    "time"

    "github.com/google/uuid"
    "github.com/govalues/money"

    "costbook/internal/books"
    "costbook/internal/errs"
)

// Repo defines read operations needed by the service.
type Repo interface {
    // Project returns a project owned by the user.
    Project(ctx context.Context, userID, projectID uuid.UUID) (books.Project, error)
    // Payments returns a project's payments sorted by date descending.
    Payments(ctx context.Context, userID, projectID uuid.UUID) ([]books.Payment, error)
    // PaymentsInRange returns payments with from <= date < to.
    PaymentsInRange(ctx context.Context, userID, projectID uuid.UUID, from, to time.Time) ([]books.Payment, error)
}

// Writer defines the atomic ledger mutations. Each call commits the payment
// write and the compensating ownerPaid adjustment through a single
// transaction handle: either both land or neither does.
type Writer interface {
    AddPayment(ctx context.Context, p books.Payment) (books.Payment, error)
    // UpdatePayment re-reads the payment inside the transaction and adjusts
    // the aggregate by the delta against the committed amount, so concurrent
    // updates never apply a delta computed from a stale read.
    UpdatePayment(ctx context.Context, userID, paymentID uuid.UUID, amountMinor int64, date time.Time, description string) (books.Payment, error)
    DeletePayment(ctx context.Context, userID, paymentID uuid.UUID) (books.Payment, error)
}

// Service exposes the owner-payment ledger: every mutation keeps the
// project's ownerPaid aggregate equal to the sum of its payment amounts.
type Service interface {
    Add(ctx context.Context, userID, projectID uuid.UUID, date time.Time, amountMinor int64, description string) (books.Payment, error)
    Update(ctx context.Context, userID, paymentID uuid.UUID, amountMinor int64, date time.Time, description string) (books.Payment, error)
    Delete(ctx context.Context, userID, paymentID uuid.UUID) (books.Payment, error)
    List(ctx context.Context, userID, projectID uuid.UUID) ([]books.Payment, error)
    SumInRange(ctx context.Context, userID, projectID uuid.UUID, from, to time.Time) (money.Amount, error)
}

type service struct {
    repo   Repo
    writer Writer
    zone   *time.Location
}

// New constructs the payment ledger service. zone is the deployment's
// reference time zone for day-granular range bounds; nil means UTC.
func New(repo Repo, writer Writer, zone *time.Location) Service {
    if zone == nil {
        zone = time.UTC
    }
    return &service{repo: repo, writer: writer, zone: zone}
}

func (s *service) Add(ctx context.Context, userID, projectID uuid.UUID, date time.Time, amountMinor int64, description string) (books.Payment, error) {
    if userID == uuid.Nil || projectID == uuid.Nil {
        return books.Payment{}, errs.ErrMissingProject
    }
    if date.IsZero() {
        return books.Payment{}, errs.ErrMissingDate
    }
    if amountMinor == 0 {
        return books.Payment{}, errs.ErrInvalidAmount
    }
    project, err := s.repo.Project(ctx, userID, projectID)
    if err != nil {
        return books.Payment{}, err
    }
    amount, err := money.NewAmountFromMinorUnits(project.Currency, amountMinor)
    if err != nil {
        return books.Payment{}, errs.ErrInvalidAmount
    }
    p := books.Payment{
        ID:          uuid.New(),
        UserID:      userID,
        ProjectID:   projectID,
        Date:        date,
        Amount:      amount,
        Description: description,
    }
    return s.writer.AddPayment(ctx, p)
}

func (s *service) Update(ctx context.Context, userID, paymentID uuid.UUID, amountMinor int64, date time.Time, description string) (books.Payment, error) {
    if userID == uuid.Nil || paymentID == uuid.Nil {
        return books.Payment{}, errs.ErrInvalid
    }
    if date.IsZero() {
        return books.Payment{}, errs.ErrMissingDate
    }
    if amountMinor == 0 {
        return books.Payment{}, errs.ErrInvalidAmount
    }
    return s.writer.UpdatePayment(ctx, userID, paymentID, amountMinor, date, description)
}

func (s *service) Delete(ctx context.Context, userID, paymentID uuid.UUID) (books.Payment, error) {
    if userID == uuid.Nil || paymentID == uuid.Nil {
        return books.Payment{}, errs.ErrInvalid
    }
    return s.writer.DeletePayment(ctx, userID, paymentID)
}

func (s *service) List(ctx context.Context, userID, projectID uuid.UUID) ([]books.Payment, error) {
    if userID == uuid.Nil || projectID == uuid.Nil {
        return nil, errs.ErrInvalid
    }
    if _, err := s.repo.Project(ctx, userID, projectID); err != nil {
        return nil, err
    }
    return s.repo.Payments(ctx, userID, projectID)
}

// SumInRange totals payments dated within [from, to], both bounds inclusive
// at day granularity.
func (s *service) SumInRange(ctx context.Context, userID, projectID uuid.UUID, from, to time.Time) (money.Amount, error) {
    var none money.Amount
    if userID == uuid.Nil || projectID == uuid.Nil {
        return none, errs.ErrInvalid
    }
    if from.IsZero() || to.IsZero() {
        return none, errs.ErrMissingRange
    }
    project, err := s.repo.Project(ctx, userID, projectID)
    if err != nil {
        return none, err
    }
    start := books.StartOfDay(from, s.zone)
    _, end := books.DayBounds(to, s.zone)
    payments, err := s.repo.PaymentsInRange(ctx, userID, projectID, start, end)
    if err != nil {
        return none, err
    }
    var minor int64
    for _, p := range payments {
        units, _ := p.Amount.MinorUnits()
        minor += units
    }
    return money.NewAmountFromMinorUnits(project.Currency, minor)
}
