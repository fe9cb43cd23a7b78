package daysheet

import (
    "context"
    "time"

    "github.com/google/uuid"

    "costbook/internal/books"
    "costbook/internal/errs"
)

// Repo defines read operations needed by the service.
type Repo interface {
    Project(ctx context.Context, userID, projectID uuid.UUID) (books.Project, error)
    // ExpensesInRange returns expenses with from <= date < to, ordered by
    // date then insertion order.
    ExpensesInRange(ctx context.Context, userID, projectID uuid.UUID, from, to time.Time) ([]books.Expense, error)
    // LatestExpenseDayBefore returns the normalized date of the most recent
    // expense strictly before the given instant, if any.
    LatestExpenseDayBefore(ctx context.Context, userID, projectID uuid.UUID, before time.Time) (time.Time, bool, error)
}

// Writer defines the atomic day replacement: delete every expense row of the
// (project, day) pair and insert the given rows in a single transaction.
type Writer interface {
    ReplaceDay(ctx context.Context, userID, projectID uuid.UUID, dayStart, dayEnd time.Time, rows []books.Expense) error
}

// ItemInput is one row of a day sheet as submitted by the caller; totals are
// computed here, never trusted from input.
type ItemInput struct {
    Category books.Category
    ItemName string
    Price    string
    Count    string
    Other    string
}

// Service exposes the day-sheet engines: template derivation for a date,
// whole-day atomic save, and range reads for reporting.
type Service interface {
    TemplateForDate(ctx context.Context, userID, projectID uuid.UUID, date time.Time) ([]books.LineItem, error)
    SaveDay(ctx context.Context, userID, projectID uuid.UUID, date time.Time, items []ItemInput) error
    ExpensesInRange(ctx context.Context, userID, projectID uuid.UUID, from, to time.Time) ([]books.Expense, error)
}

type service struct {
    repo   Repo
    writer Writer
    zone   *time.Location
}

// New constructs the day-sheet service. zone is the deployment's reference
// time zone used to bucket expenses into calendar days; nil means UTC.
func New(repo Repo, writer Writer, zone *time.Location) Service {
    if zone == nil {
        zone = time.UTC
    }
    return &service{repo: repo, writer: writer, zone: zone}
}

// TemplateForDate returns the day's line items, in priority order: the day's
// own saved rows verbatim; else a skeleton derived from the nearest prior
// day; else the starter catalogue. Read-only.
func (s *service) TemplateForDate(ctx context.Context, userID, projectID uuid.UUID, date time.Time) ([]books.LineItem, error) {
    if userID == uuid.Nil || projectID == uuid.Nil {
        return nil, errs.ErrMissingProject
    }
    if date.IsZero() {
        return nil, errs.ErrMissingDate
    }
    if _, err := s.repo.Project(ctx, userID, projectID); err != nil {
        return nil, err
    }
    start, end := books.DayBounds(date, s.zone)
    own, err := s.repo.ExpensesInRange(ctx, userID, projectID, start, end)
    if err != nil {
        return nil, err
    }
    if len(own) > 0 {
        return books.Items(own), nil
    }
    priorDay, ok, err := s.repo.LatestExpenseDayBefore(ctx, userID, projectID, start)
    if err != nil {
        return nil, err
    }
    if ok {
        priorStart, priorEnd := books.DayBounds(priorDay, s.zone)
        prior, err := s.repo.ExpensesInRange(ctx, userID, projectID, priorStart, priorEnd)
        if err != nil {
            return nil, err
        }
        return books.Skeleton(prior), nil
    }
    return books.DefaultTemplate(), nil
}

// SaveDay replaces the project's expense rows for the date's calendar day
// with the given items. Totals are computed per the category kind; an empty
// item list clears the day.
func (s *service) SaveDay(ctx context.Context, userID, projectID uuid.UUID, date time.Time, items []ItemInput) error {
    if userID == uuid.Nil || projectID == uuid.Nil {
        return errs.ErrMissingProject
    }
    if date.IsZero() {
        return errs.ErrMissingDate
    }
    if _, err := s.repo.Project(ctx, userID, projectID); err != nil {
        return err
    }
    start, end := books.DayBounds(date, s.zone)
    rows := make([]books.Expense, 0, len(items))
    for _, item := range items {
        rows = append(rows, books.Expense{
            ID:        uuid.New(),
            UserID:    userID,
            ProjectID: projectID,
            Date:      start,
            Category:  item.Category,
            ItemName:  item.ItemName,
            Price:     item.Price,
            Count:     item.Count,
            Other:     item.Other,
            Total:     books.ItemTotal(item.Category, item.Price, item.Count, item.Other),
        })
    }
    return s.writer.ReplaceDay(ctx, userID, projectID, start, end, rows)
}

// ExpensesInRange returns expenses dated within [from, to], both bounds
// inclusive at day granularity.
func (s *service) ExpensesInRange(ctx context.Context, userID, projectID uuid.UUID, from, to time.Time) ([]books.Expense, error) {
    if userID == uuid.Nil || projectID == uuid.Nil {
        return nil, errs.ErrInvalid
    }
    if from.IsZero() || to.IsZero() {
        return nil, errs.ErrMissingRange
    }
    if _, err := s.repo.Project(ctx, userID, projectID); err != nil {
        return nil, err
    }
    start := books.StartOfDay(from, s.zone)
    _, end := books.DayBounds(to, s.zone)
    return s.repo.ExpensesInRange(ctx, userID, projectID, start, end)
}
