package memory

// Package memory provides a simple in-memory implementation used for
// development and tests. Write operations take the store lock for their whole
// unit of work, so a payment write and its ownerPaid adjustment (or a day
// sheet's delete-then-insert) are observed together or not at all.
import (
    "context"
    "sort"
    "sync"
    "time"

    "github.com/google/uuid"
    "github.com/govalues/decimal"
    "github.com/govalues/money"

    "costbook/internal/books"
    "costbook/internal/errs"
)

// Store is an in-memory implementation of the repository+writer interfaces
// used by the services. It is guarded by an RWMutex for concurrent use.
type Store struct {
    mu       sync.RWMutex
    projects map[uuid.UUID]books.Project
    payments map[uuid.UUID]books.Payment
    // expenses keeps insertion order so a saved day reads back in the order
    // it was submitted.
    expenses []books.Expense
}

// New constructs an empty in-memory store.
func New() *Store {
    return &Store{
        projects: make(map[uuid.UUID]books.Project),
        payments: make(map[uuid.UUID]books.Payment),
    }
}

// Seed helpers for local dev/tests.
func (s *Store) SeedProject(p books.Project) { s.mu.Lock(); s.projects[p.ID] = p; s.mu.Unlock() }
func (s *Store) Reset() {
    s.mu.Lock()
    s.projects = map[uuid.UUID]books.Project{}
    s.payments = map[uuid.UUID]books.Payment{}
    s.expenses = nil
    s.mu.Unlock()
}

// --- Project reads ---

// Project implements the services' Repo.
func (s *Store) Project(_ context.Context, userID, projectID uuid.UUID) (books.Project, error) {
    s.mu.RLock(); defer s.mu.RUnlock()
    return s.projectLocked(userID, projectID)
}

func (s *Store) projectLocked(userID, projectID uuid.UUID) (books.Project, error) {
    p, ok := s.projects[projectID]
    if !ok || p.UserID != userID { return books.Project{}, errs.ErrNotFound }
    return p, nil
}

// Projects returns all projects for a user sorted by name.
func (s *Store) Projects(_ context.Context, userID uuid.UUID) ([]books.Project, error) {
    s.mu.RLock(); defer s.mu.RUnlock()
    out := make([]books.Project, 0)
    for _, p := range s.projects {
        if p.UserID == userID { out = append(out, p) }
    }
    sort.Slice(out, func(i, j int) bool {
        if out[i].Name == out[j].Name { return out[i].ID.String() < out[j].ID.String() }
        return out[i].Name < out[j].Name
    })
    return out, nil
}

// ExpenseTotals sums expense totals per project for the user.
func (s *Store) ExpenseTotals(_ context.Context, userID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
    s.mu.RLock(); defer s.mu.RUnlock()
    out := make(map[uuid.UUID]decimal.Decimal)
    for _, e := range s.expenses {
        if e.UserID != userID { continue }
        cur, ok := out[e.ProjectID]
        if !ok {
            out[e.ProjectID] = e.Total
            continue
        }
        if sum, err := cur.Add(e.Total); err == nil { out[e.ProjectID] = sum }
    }
    return out, nil
}

// --- Project writes ---

// CreateProject persists a new project.
func (s *Store) CreateProject(_ context.Context, p books.Project) (books.Project, error) {
    s.mu.Lock(); defer s.mu.Unlock()
    s.projects[p.ID] = p
    return p, nil
}

// UpdateProjectBudget sets a project's total budget.
func (s *Store) UpdateProjectBudget(_ context.Context, userID, projectID uuid.UUID, budgetMinor int64) (books.Project, error) {
    s.mu.Lock(); defer s.mu.Unlock()
    p, err := s.projectLocked(userID, projectID)
    if err != nil { return books.Project{}, err }
    budget, err := money.NewAmountFromMinorUnits(p.Currency, budgetMinor)
    if err != nil { return books.Project{}, errs.ErrInvalid }
    p.TotalBudget = budget
    s.projects[p.ID] = p
    return p, nil
}

// DeleteProject removes the project and all of its payments and expenses.
func (s *Store) DeleteProject(_ context.Context, userID, projectID uuid.UUID) error {
    s.mu.Lock(); defer s.mu.Unlock()
    if _, err := s.projectLocked(userID, projectID); err != nil { return err }
    delete(s.projects, projectID)
    for id, p := range s.payments {
        if p.ProjectID == projectID { delete(s.payments, id) }
    }
    kept := s.expenses[:0]
    for _, e := range s.expenses {
        if e.ProjectID != projectID { kept = append(kept, e) }
    }
    s.expenses = kept
    return nil
}

// --- Payment reads ---

// Payments returns a project's payments sorted by date descending.
func (s *Store) Payments(_ context.Context, userID, projectID uuid.UUID) ([]books.Payment, error) {
    s.mu.RLock(); defer s.mu.RUnlock()
    out := make([]books.Payment, 0)
    for _, p := range s.payments {
        if p.UserID == userID && p.ProjectID == projectID { out = append(out, p) }
    }
    sort.Slice(out, func(i, j int) bool {
        if out[i].Date.Equal(out[j].Date) { return out[i].ID.String() < out[j].ID.String() }
        return out[i].Date.After(out[j].Date)
    })
    return out, nil
}

// PaymentsInRange returns payments with from <= date < to.
func (s *Store) PaymentsInRange(_ context.Context, userID, projectID uuid.UUID, from, to time.Time) ([]books.Payment, error) {
    s.mu.RLock(); defer s.mu.RUnlock()
    out := make([]books.Payment, 0)
    for _, p := range s.payments {
        if p.UserID != userID || p.ProjectID != projectID { continue }
        if p.Date.Before(from) || !p.Date.Before(to) { continue }
        out = append(out, p)
    }
    sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
    return out, nil
}

// --- Payment writes (single lock = single atomic unit) ---

// AddPayment inserts the payment and increments the project's ownerPaid.
func (s *Store) AddPayment(_ context.Context, p books.Payment) (books.Payment, error) {
    s.mu.Lock(); defer s.mu.Unlock()
    project, err := s.projectLocked(p.UserID, p.ProjectID)
    if err != nil { return books.Payment{}, err }
    paid, err := project.OwnerPaid.Add(p.Amount)
    if err != nil { return books.Payment{}, errs.ErrInvalidAmount }
    s.payments[p.ID] = p
    project.OwnerPaid = paid
    s.projects[project.ID] = project
    return p, nil
}

// UpdatePayment rewrites the payment and adjusts ownerPaid by the delta
// against the stored amount. The delta is computed under the write lock, so
// concurrent updates always see the previously committed amount.
func (s *Store) UpdatePayment(_ context.Context, userID, paymentID uuid.UUID, amountMinor int64, date time.Time, description string) (books.Payment, error) {
    s.mu.Lock(); defer s.mu.Unlock()
    old, ok := s.payments[paymentID]
    if !ok || old.UserID != userID { return books.Payment{}, errs.ErrNotFound }
    project, err := s.projectLocked(userID, old.ProjectID)
    if err != nil { return books.Payment{}, err }
    oldMinor, _ := old.Amount.MinorUnits()
    delta, err := money.NewAmountFromMinorUnits(project.Currency, amountMinor-oldMinor)
    if err != nil { return books.Payment{}, errs.ErrInvalidAmount }
    amount, err := money.NewAmountFromMinorUnits(project.Currency, amountMinor)
    if err != nil { return books.Payment{}, errs.ErrInvalidAmount }
    paid, err := project.OwnerPaid.Add(delta)
    if err != nil { return books.Payment{}, errs.ErrInvalidAmount }
    updated := old
    updated.Amount = amount
    updated.Date = date
    updated.Description = description
    s.payments[paymentID] = updated
    project.OwnerPaid = paid
    s.projects[project.ID] = project
    return updated, nil
}

// DeletePayment removes the payment and decrements ownerPaid by its amount.
func (s *Store) DeletePayment(_ context.Context, userID, paymentID uuid.UUID) (books.Payment, error) {
    s.mu.Lock(); defer s.mu.Unlock()
    old, ok := s.payments[paymentID]
    if !ok || old.UserID != userID { return books.Payment{}, errs.ErrNotFound }
    project, err := s.projectLocked(userID, old.ProjectID)
    if err != nil { return books.Payment{}, err }
    paid, err := project.OwnerPaid.Sub(old.Amount)
    if err != nil { return books.Payment{}, errs.ErrInvalidAmount }
    delete(s.payments, paymentID)
    project.OwnerPaid = paid
    s.projects[project.ID] = project
    return old, nil
}

// --- Expense reads ---

// ExpensesInRange returns expenses with from <= date < to, ordered by date
// then insertion order.
func (s *Store) ExpensesInRange(_ context.Context, userID, projectID uuid.UUID, from, to time.Time) ([]books.Expense, error) {
    s.mu.RLock(); defer s.mu.RUnlock()
    out := make([]books.Expense, 0)
    for _, e := range s.expenses {
        if e.UserID != userID || e.ProjectID != projectID { continue }
        if e.Date.Before(from) || !e.Date.Before(to) { continue }
        out = append(out, e)
    }
    sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
    return out, nil
}

// LatestExpenseDayBefore returns the date of the most recent expense strictly
// before the given instant.
func (s *Store) LatestExpenseDayBefore(_ context.Context, userID, projectID uuid.UUID, before time.Time) (time.Time, bool, error) {
    s.mu.RLock(); defer s.mu.RUnlock()
    var latest time.Time
    found := false
    for _, e := range s.expenses {
        if e.UserID != userID || e.ProjectID != projectID { continue }
        if !e.Date.Before(before) { continue }
        if !found || e.Date.After(latest) { latest = e.Date; found = true }
    }
    return latest, found, nil
}

// --- Expense writes ---

// ReplaceDay deletes every expense row in [dayStart, dayEnd) and appends the
// given rows, all under one lock.
func (s *Store) ReplaceDay(_ context.Context, userID, projectID uuid.UUID, dayStart, dayEnd time.Time, rows []books.Expense) error {
    s.mu.Lock(); defer s.mu.Unlock()
    kept := make([]books.Expense, 0, len(s.expenses)+len(rows))
    for _, e := range s.expenses {
        if e.UserID == userID && e.ProjectID == projectID && !e.Date.Before(dayStart) && e.Date.Before(dayEnd) {
            continue
        }
        kept = append(kept, e)
    }
    s.expenses = append(kept, rows...)
    return nil
}
