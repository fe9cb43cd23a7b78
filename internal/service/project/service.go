package project

import (
    "context"
    "strings"

    "github.com/google/uuid"
    "github.com/govalues/decimal"
    "github.com/govalues/money"

    "costbook/internal/books"
    "costbook/internal/errs"
    "costbook/internal/meta"
)

// Summary is a project with its derived expense total attached, as shown on
// the dashboard.
type Summary struct {
    books.Project
    // ExpensesTotal is the sum of all expense row totals for the project.
    ExpensesTotal decimal.Decimal
}

// Repo defines read operations needed by the service.
type Repo interface {
    Project(ctx context.Context, userID, projectID uuid.UUID) (books.Project, error)
    Projects(ctx context.Context, userID uuid.UUID) ([]books.Project, error)
    // ExpenseTotals returns the summed expense total per project for a user.
    ExpenseTotals(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
}

// Writer defines write operations needed by the service.
type Writer interface {
    CreateProject(ctx context.Context, p books.Project) (books.Project, error)
    UpdateProjectBudget(ctx context.Context, userID, projectID uuid.UUID, budgetMinor int64) (books.Project, error)
    // DeleteProject removes the project and all of its payments and expenses
    // in one transaction.
    DeleteProject(ctx context.Context, userID, projectID uuid.UUID) error
}

// Service exposes project lifecycle and dashboard reads.
type Service interface {
    Create(ctx context.Context, userID uuid.UUID, name, currency string, budgetMinor int64, metadata meta.Metadata) (books.Project, error)
    Get(ctx context.Context, userID, projectID uuid.UUID) (Summary, error)
    List(ctx context.Context, userID uuid.UUID) ([]Summary, error)
    UpdateBudget(ctx context.Context, userID, projectID uuid.UUID, budgetMinor int64) (books.Project, error)
    Delete(ctx context.Context, userID, projectID uuid.UUID) error
}

type service struct {
    repo   Repo
    writer Writer
}

func New(repo Repo, writer Writer) Service { return &service{repo: repo, writer: writer} }

func (s *service) Create(ctx context.Context, userID uuid.UUID, name, currency string, budgetMinor int64, metadata meta.Metadata) (books.Project, error) {
    if userID == uuid.Nil {
        return books.Project{}, errs.ErrInvalid
    }
    if strings.TrimSpace(name) == "" {
        return books.Project{}, errs.ErrInvalid
    }
    if budgetMinor < 0 {
        return books.Project{}, errs.ErrInvalidAmount
    }
    if err := metadata.Validate(); err != nil {
        return books.Project{}, errs.ErrInvalid
    }
    currency = strings.ToUpper(strings.TrimSpace(currency))
    budget, err := money.NewAmountFromMinorUnits(currency, budgetMinor)
    if err != nil {
        return books.Project{}, errs.ErrInvalid
    }
    paid, _ := money.NewAmountFromMinorUnits(currency, 0)
    p := books.Project{
        ID:          uuid.New(),
        UserID:      userID,
        Name:        strings.TrimSpace(name),
        Currency:    currency,
        TotalBudget: budget,
        OwnerPaid:   paid,
        Metadata:    metadata.Clone(),
    }
    return s.writer.CreateProject(ctx, p)
}

func (s *service) Get(ctx context.Context, userID, projectID uuid.UUID) (Summary, error) {
    if userID == uuid.Nil || projectID == uuid.Nil {
        return Summary{}, errs.ErrInvalid
    }
    p, err := s.repo.Project(ctx, userID, projectID)
    if err != nil {
        return Summary{}, err
    }
    totals, err := s.repo.ExpenseTotals(ctx, userID)
    if err != nil {
        return Summary{}, err
    }
    return Summary{Project: p, ExpensesTotal: totals[p.ID]}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]Summary, error) {
    if userID == uuid.Nil {
        return nil, errs.ErrInvalid
    }
    projects, err := s.repo.Projects(ctx, userID)
    if err != nil {
        return nil, err
    }
    totals, err := s.repo.ExpenseTotals(ctx, userID)
    if err != nil {
        return nil, err
    }
    out := make([]Summary, 0, len(projects))
    for _, p := range projects {
        out = append(out, Summary{Project: p, ExpensesTotal: totals[p.ID]})
    }
    return out, nil
}

func (s *service) UpdateBudget(ctx context.Context, userID, projectID uuid.UUID, budgetMinor int64) (books.Project, error) {
    if userID == uuid.Nil || projectID == uuid.Nil {
        return books.Project{}, errs.ErrInvalid
    }
    if budgetMinor < 0 {
        return books.Project{}, errs.ErrInvalidAmount
    }
    return s.writer.UpdateProjectBudget(ctx, userID, projectID, budgetMinor)
}

func (s *service) Delete(ctx context.Context, userID, projectID uuid.UUID) error {
    if userID == uuid.Nil || projectID == uuid.Nil {
        return errs.ErrInvalid
    }
    return s.writer.DeleteProject(ctx, userID, projectID)
}
