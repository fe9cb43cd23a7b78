package postgres

// Package postgres provides a pgx-backed storage implementation satisfying
// the repository and writer interfaces used by the services.
//
// Every payment mutation runs in a transaction that also carries its
// compensating projects.owner_paid_minor adjustment, re-reading the payment
// row with FOR UPDATE first so a concurrent writer's delta is always against
// the committed amount. Day-sheet saves delete and re-insert a day's rows in
// one transaction. The schema lives in migrations/ and is applied by
// RunMigrations.

import (
    "context"
    "errors"
    "time"

    "github.com/google/uuid"
    "github.com/govalues/decimal"
    "github.com/govalues/money"
    "github.com/jackc/pgx/v5"
    "github.com/jackc/pgx/v5/pgxpool"

    "costbook/internal/books"
    "costbook/internal/errs"
    "costbook/internal/meta"
)

// Store holds a pgx connection pool. All methods are safe for concurrent use.
type Store struct {
    pool *pgxpool.Pool
}

// Open establishes a pgx pool using the provided connection string.
func Open(ctx context.Context, dsn string) (*Store, error) {
    cfg, err := pgxpool.ParseConfig(dsn)
    if err != nil { return nil, err }
    pool, err := pgxpool.NewWithConfig(ctx, cfg)
    if err != nil { return nil, err }
    // Verify connection
    if err := pool.Ping(ctx); err != nil { pool.Close(); return nil, err }
    return &Store{pool: pool}, nil
}

// Close releases the underlying pool.
func (s *Store) Close() { if s.pool != nil { s.pool.Close() } }

// Ready pings the pool to verify connectivity.
func (s *Store) Ready(ctx context.Context) error { return s.pool.Ping(ctx) }

// --- Project reads ---

const projectCols = `id, user_id, name, currency, total_budget_minor, owner_paid_minor, metadata`

func scanProject(row pgx.Row) (books.Project, error) {
    var p books.Project
    var budgetMinor, paidMinor int64
    var mdBytes []byte
    if err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Currency, &budgetMinor, &paidMinor, &mdBytes); err != nil {
        return books.Project{}, err
    }
    p.TotalBudget, _ = money.NewAmountFromMinorUnits(p.Currency, budgetMinor)
    p.OwnerPaid, _ = money.NewAmountFromMinorUnits(p.Currency, paidMinor)
    if len(mdBytes) > 0 {
        var m meta.Metadata
        if err := m.UnmarshalJSON(mdBytes); err == nil { p.Metadata = m }
    }
    return p, nil
}

// Project fetches a single project by id for a user.
func (s *Store) Project(ctx context.Context, userID, projectID uuid.UUID) (books.Project, error) {
    row := s.pool.QueryRow(ctx, `
        select `+projectCols+`
        from projects
        where id = $1 and user_id = $2
    `, projectID, userID)
    p, err := scanProject(row)
    if errors.Is(err, pgx.ErrNoRows) { return books.Project{}, errs.ErrNotFound }
    if err != nil { return books.Project{}, err }
    return p, nil
}

// Projects returns all projects for a user ordered by name.
func (s *Store) Projects(ctx context.Context, userID uuid.UUID) ([]books.Project, error) {
    rows, err := s.pool.Query(ctx, `
        select `+projectCols+`
        from projects
        where user_id = $1
        order by name, id
    `, userID)
    if err != nil { return nil, err }
    defer rows.Close()
    out := make([]books.Project, 0)
    for rows.Next() {
        p, err := scanProject(rows)
        if err != nil { return nil, err }
        out = append(out, p)
    }
    return out, rows.Err()
}

// ExpenseTotals sums expense totals per project for a user.
func (s *Store) ExpenseTotals(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
    rows, err := s.pool.Query(ctx, `
        select project_id, coalesce(sum(total), 0)::text
        from expenses
        where user_id = $1
        group by project_id
    `, userID)
    if err != nil { return nil, err }
    defer rows.Close()
    out := make(map[uuid.UUID]decimal.Decimal)
    for rows.Next() {
        var projectID uuid.UUID
        var totalStr string
        if err := rows.Scan(&projectID, &totalStr); err != nil { return nil, err }
        out[projectID] = books.ParseNumber(totalStr).Trim(0)
    }
    return out, rows.Err()
}

// --- Project writes ---

// CreateProject inserts a project row.
func (s *Store) CreateProject(ctx context.Context, p books.Project) (books.Project, error) {
    if err := p.Metadata.Validate(); err != nil { return books.Project{}, err }
    md, _ := p.Metadata.MarshalStableJSON()
    budgetMinor, _ := p.TotalBudget.MinorUnits()
    paidMinor, _ := p.OwnerPaid.MinorUnits()
    _, err := s.pool.Exec(ctx, `
        insert into projects (id, user_id, name, currency, total_budget_minor, owner_paid_minor, metadata)
        values ($1,$2,$3,$4,$5,$6,$7)
    `, p.ID, p.UserID, p.Name, p.Currency, budgetMinor, paidMinor, md)
    if err != nil { return books.Project{}, err }
    return p, nil
}

// UpdateProjectBudget sets a project's total budget.
func (s *Store) UpdateProjectBudget(ctx context.Context, userID, projectID uuid.UUID, budgetMinor int64) (books.Project, error) {
    ct, err := s.pool.Exec(ctx, `
        update projects set total_budget_minor = $1
        where id = $2 and user_id = $3
    `, budgetMinor, projectID, userID)
    if err != nil { return books.Project{}, err }
    if ct.RowsAffected() == 0 { return books.Project{}, errs.ErrNotFound }
    return s.Project(ctx, userID, projectID)
}

// DeleteProject removes the project and all of its payments and expenses in
// one transaction.
func (s *Store) DeleteProject(ctx context.Context, userID, projectID uuid.UUID) error {
    tx, err := s.pool.Begin(ctx)
    if err != nil { return err }
    defer func() { _ = tx.Rollback(ctx) }()
    if _, err := tx.Exec(ctx, `delete from payments where project_id = $1 and user_id = $2`, projectID, userID); err != nil { return err }
    if _, err := tx.Exec(ctx, `delete from expenses where project_id = $1 and user_id = $2`, projectID, userID); err != nil { return err }
    ct, err := tx.Exec(ctx, `delete from projects where id = $1 and user_id = $2`, projectID, userID)
    if err != nil { return err }
    if ct.RowsAffected() == 0 { return errs.ErrNotFound }
    return tx.Commit(ctx)
}

// --- Payment reads ---

const paymentCols = `pay.id, pay.user_id, pay.project_id, pay.date, pay.amount_minor, pay.description, pr.currency`

func scanPayment(row pgx.Row) (books.Payment, error) {
    var p books.Payment
    var minor int64
    var currency string
    if err := row.Scan(&p.ID, &p.UserID, &p.ProjectID, &p.Date, &minor, &p.Description, &currency); err != nil {
        return books.Payment{}, err
    }
    p.Amount, _ = money.NewAmountFromMinorUnits(currency, minor)
    return p, nil
}

// Payments returns a project's payments sorted by date descending.
func (s *Store) Payments(ctx context.Context, userID, projectID uuid.UUID) ([]books.Payment, error) {
    rows, err := s.pool.Query(ctx, `
        select `+paymentCols+`
        from payments pay
        join projects pr on pr.id = pay.project_id
        where pay.user_id = $1 and pay.project_id = $2
        order by pay.date desc, pay.id
    `, userID, projectID)
    if err != nil { return nil, err }
    defer rows.Close()
    out := make([]books.Payment, 0)
    for rows.Next() {
        p, err := scanPayment(rows)
        if err != nil { return nil, err }
        out = append(out, p)
    }
    return out, rows.Err()
}

// PaymentsInRange returns payments with from <= date < to, ascending.
func (s *Store) PaymentsInRange(ctx context.Context, userID, projectID uuid.UUID, from, to time.Time) ([]books.Payment, error) {
    rows, err := s.pool.Query(ctx, `
        select `+paymentCols+`
        from payments pay
        join projects pr on pr.id = pay.project_id
        where pay.user_id = $1 and pay.project_id = $2 and pay.date >= $3 and pay.date < $4
        order by pay.date, pay.id
    `, userID, projectID, from, to)
    if err != nil { return nil, err }
    defer rows.Close()
    out := make([]books.Payment, 0)
    for rows.Next() {
        p, err := scanPayment(rows)
        if err != nil { return nil, err }
        out = append(out, p)
    }
    return out, rows.Err()
}

// --- Payment writes ---

// AddPayment inserts the payment and increments the project aggregate in one
// transaction.
func (s *Store) AddPayment(ctx context.Context, p books.Payment) (books.Payment, error) {
    tx, err := s.pool.Begin(ctx)
    if err != nil { return books.Payment{}, err }
    defer func() { _ = tx.Rollback(ctx) }()
    var currency string
    err = tx.QueryRow(ctx, `
        select currency from projects where id = $1 and user_id = $2 for update
    `, p.ProjectID, p.UserID).Scan(&currency)
    if errors.Is(err, pgx.ErrNoRows) { return books.Payment{}, errs.ErrNotFound }
    if err != nil { return books.Payment{}, err }
    minor, _ := p.Amount.MinorUnits()
    if _, err := tx.Exec(ctx, `
        insert into payments (id, user_id, project_id, date, amount_minor, description)
        values ($1,$2,$3,$4,$5,$6)
    `, p.ID, p.UserID, p.ProjectID, p.Date, minor, p.Description); err != nil {
        return books.Payment{}, err
    }
    if _, err := tx.Exec(ctx, `
        update projects set owner_paid_minor = owner_paid_minor + $1
        where id = $2 and user_id = $3
    `, minor, p.ProjectID, p.UserID); err != nil {
        return books.Payment{}, err
    }
    if err := tx.Commit(ctx); err != nil { return books.Payment{}, err }
    return p, nil
}

// UpdatePayment rewrites the payment and adjusts the aggregate by the delta
// against the row as re-read inside the transaction. FOR UPDATE on the
// payment row serializes concurrent updates to the same payment.
func (s *Store) UpdatePayment(ctx context.Context, userID, paymentID uuid.UUID, amountMinor int64, date time.Time, description string) (books.Payment, error) {
    tx, err := s.pool.Begin(ctx)
    if err != nil { return books.Payment{}, err }
    defer func() { _ = tx.Rollback(ctx) }()
    var projectID uuid.UUID
    var oldMinor int64
    var currency string
    err = tx.QueryRow(ctx, `
        select pay.project_id, pay.amount_minor, pr.currency
        from payments pay
        join projects pr on pr.id = pay.project_id
        where pay.id = $1 and pay.user_id = $2
        for update of pay
    `, paymentID, userID).Scan(&projectID, &oldMinor, &currency)
    if errors.Is(err, pgx.ErrNoRows) { return books.Payment{}, errs.ErrNotFound }
    if err != nil { return books.Payment{}, err }
    if _, err := tx.Exec(ctx, `
        update payments set amount_minor = $1, date = $2, description = $3
        where id = $4 and user_id = $5
    `, amountMinor, date, description, paymentID, userID); err != nil {
        return books.Payment{}, err
    }
    if _, err := tx.Exec(ctx, `
        update projects set owner_paid_minor = owner_paid_minor + $1
        where id = $2 and user_id = $3
    `, amountMinor-oldMinor, projectID, userID); err != nil {
        return books.Payment{}, err
    }
    if err := tx.Commit(ctx); err != nil { return books.Payment{}, err }
    amount, _ := money.NewAmountFromMinorUnits(currency, amountMinor)
    return books.Payment{ID: paymentID, UserID: userID, ProjectID: projectID, Date: date, Amount: amount, Description: description}, nil
}

// DeletePayment removes the payment and decrements the aggregate by its
// amount in one transaction.
func (s *Store) DeletePayment(ctx context.Context, userID, paymentID uuid.UUID) (books.Payment, error) {
    tx, err := s.pool.Begin(ctx)
    if err != nil { return books.Payment{}, err }
    defer func() { _ = tx.Rollback(ctx) }()
    row := tx.QueryRow(ctx, `
        select `+paymentCols+`
        from payments pay
        join projects pr on pr.id = pay.project_id
        where pay.id = $1 and pay.user_id = $2
        for update of pay
    `, paymentID, userID)
    p, err := scanPayment(row)
    if errors.Is(err, pgx.ErrNoRows) { return books.Payment{}, errs.ErrNotFound }
    if err != nil { return books.Payment{}, err }
    if _, err := tx.Exec(ctx, `delete from payments where id = $1 and user_id = $2`, paymentID, userID); err != nil {
        return books.Payment{}, err
    }
    minor, _ := p.Amount.MinorUnits()
    if _, err := tx.Exec(ctx, `
        update projects set owner_paid_minor = owner_paid_minor - $1
        where id = $2 and user_id = $3
    `, minor, p.ProjectID, userID); err != nil {
        return books.Payment{}, err
    }
    if err := tx.Commit(ctx); err != nil { return books.Payment{}, err }
    return p, nil
}

// --- Expense reads ---

const expenseCols = `id, user_id, project_id, date, category, item_name, price, count, other, total::text`

func scanExpense(row pgx.Row) (books.Expense, error) {
    var e books.Expense
    var totalStr string
    if err := row.Scan(&e.ID, &e.UserID, &e.ProjectID, &e.Date, &e.Category, &e.ItemName, &e.Price, &e.Count, &e.Other, &totalStr); err != nil {
        return books.Expense{}, err
    }
    // numeric(14,2) reads back with a fixed scale; trim so "1500.00" and a
    // recomputed "1500" compare equal as strings too
    e.Total = books.ParseNumber(totalStr).Trim(0)
    return e, nil
}

// ExpensesInRange returns expenses with from <= date < to, ordered by date
// then insertion order.
func (s *Store) ExpensesInRange(ctx context.Context, userID, projectID uuid.UUID, from, to time.Time) ([]books.Expense, error) {
    rows, err := s.pool.Query(ctx, `
        select `+expenseCols+`
        from expenses
        where user_id = $1 and project_id = $2 and date >= $3 and date < $4
        order by date, seq
    `, userID, projectID, from, to)
    if err != nil { return nil, err }
    defer rows.Close()
    out := make([]books.Expense, 0)
    for rows.Next() {
        e, err := scanExpense(rows)
        if err != nil { return nil, err }
        out = append(out, e)
    }
    return out, rows.Err()
}

// LatestExpenseDayBefore returns the date of the most recent expense strictly
// before the given instant.
func (s *Store) LatestExpenseDayBefore(ctx context.Context, userID, projectID uuid.UUID, before time.Time) (time.Time, bool, error) {
    var day time.Time
    err := s.pool.QueryRow(ctx, `
        select date from expenses
        where user_id = $1 and project_id = $2 and date < $3
        order by date desc
        limit 1
    `, userID, projectID, before).Scan(&day)
    if errors.Is(err, pgx.ErrNoRows) { return time.Time{}, false, nil }
    if err != nil { return time.Time{}, false, err }
    return day, true, nil
}

// --- Expense writes ---

// ReplaceDay deletes every expense row in [dayStart, dayEnd) and inserts the
// given rows in a single transaction. The project row is locked first: under
// read committed, a delete blocked on another writer's row locks never sees
// rows that writer inserted after our snapshot, so without the lock two saves
// of the same day could commit a union of both row sets. Serializing on the
// project makes the last committed writer win cleanly.
func (s *Store) ReplaceDay(ctx context.Context, userID, projectID uuid.UUID, dayStart, dayEnd time.Time, rows []books.Expense) error {
    tx, err := s.pool.Begin(ctx)
    if err != nil { return err }
    defer func() { _ = tx.Rollback(ctx) }()
    var locked uuid.UUID
    err = tx.QueryRow(ctx, `
        select id from projects where id = $1 and user_id = $2 for update
    `, projectID, userID).Scan(&locked)
    if errors.Is(err, pgx.ErrNoRows) { return errs.ErrNotFound }
    if err != nil { return err }
    if _, err := tx.Exec(ctx, `
        delete from expenses
        where user_id = $1 and project_id = $2 and date >= $3 and date < $4
    `, userID, projectID, dayStart, dayEnd); err != nil {
        return err
    }
    for _, e := range rows {
        if _, err := tx.Exec(ctx, `
            insert into expenses (id, user_id, project_id, date, category, item_name, price, count, other, total)
            values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        `, e.ID, e.UserID, e.ProjectID, e.Date, e.Category, e.ItemName, e.Price, e.Count, e.Other, e.Total.String()); err != nil {
            return err
        }
    }
    return tx.Commit(ctx)
}
