package project

import (
    "context"
    "errors"
    "testing"
    "time"

    "github.com/google/uuid"

    "costbook/internal/books"
    "costbook/internal/errs"
    "costbook/internal/meta"
    "costbook/internal/service/daysheet"
    "costbook/internal/service/payment"
    "costbook/internal/storage/memory"
)

func TestCreate_ValidationAndDefaults(t *testing.T) {
    store := memory.New()
    svc := New(store, store)
    ctx := context.Background()
    userID := uuid.New()

    p, err := svc.Create(ctx, userID, "  Lakeview Villa ", "inr", 25_000_00, meta.New(map[string]string{"client": "Iyer"}))
    if err != nil {
        t.Fatalf("create: %v", err)
    }
    if p.Name != "Lakeview Villa" || p.Currency != "INR" {
        t.Fatalf("unexpected project: %+v", p)
    }
    if minor, _ := p.OwnerPaid.MinorUnits(); minor != 0 {
        t.Fatalf("new project must start with zero ownerPaid, got %d", minor)
    }
    if v, _ := p.Metadata.Get("client"); v != "Iyer" {
        t.Fatalf("metadata not kept: %+v", p.Metadata)
    }

    if _, err := svc.Create(ctx, userID, " ", "INR", 0, nil); !errors.Is(err, errs.ErrInvalid) {
        t.Fatalf("expected ErrInvalid for blank name, got %v", err)
    }
    if _, err := svc.Create(ctx, userID, "X", "INR", -1, nil); !errors.Is(err, errs.ErrInvalidAmount) {
        t.Fatalf("expected ErrInvalidAmount for negative budget, got %v", err)
    }
    if _, err := svc.Create(ctx, uuid.Nil, "X", "INR", 0, nil); !errors.Is(err, errs.ErrInvalid) {
        t.Fatalf("expected ErrInvalid for missing user, got %v", err)
    }
}

func TestListAndGet_CarryExpenseTotals(t *testing.T) {
    store := memory.New()
    svc := New(store, store)
    sheets := daysheet.New(store, store, time.UTC)
    ctx := context.Background()
    userID := uuid.New()

    a, err := svc.Create(ctx, userID, "Site A", "INR", 0, nil)
    if err != nil {
        t.Fatalf("create a: %v", err)
    }
    b, err := svc.Create(ctx, userID, "Site B", "INR", 0, nil)
    if err != nil {
        t.Fatalf("create b: %v", err)
    }

    d := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
    err = sheets.SaveDay(ctx, userID, a.ID, d, []daysheet.ItemInput{
        {Category: books.CategoryLabour, ItemName: "Mason", Price: "500", Count: "2"},
        {Category: books.CategoryStaff, ItemName: "Ramesh (Supervisor)", Price: "5000"},
    })
    if err != nil {
        t.Fatalf("save day: %v", err)
    }

    sum, err := svc.Get(ctx, userID, a.ID)
    if err != nil {
        t.Fatalf("get: %v", err)
    }
    if sum.ExpensesTotal.String() != "6000" {
        t.Fatalf("expected expense total 6000, got %s", sum.ExpensesTotal.String())
    }

    list, err := svc.List(ctx, userID)
    if err != nil {
        t.Fatalf("list: %v", err)
    }
    if len(list) != 2 {
        t.Fatalf("expected 2 projects, got %d", len(list))
    }
    for _, s := range list {
        if s.ID == b.ID && s.ExpensesTotal.String() != "0" {
            t.Fatalf("project without expenses must total 0, got %s", s.ExpensesTotal.String())
        }
    }
}

func TestDelete_CascadesPaymentsAndExpenses(t *testing.T) {
    store := memory.New()
    svc := New(store, store)
    payments := payment.New(store, store, time.UTC)
    sheets := daysheet.New(store, store, time.UTC)
    ctx := context.Background()
    userID := uuid.New()

    p, err := svc.Create(ctx, userID, "Doomed", "INR", 0, nil)
    if err != nil {
        t.Fatalf("create: %v", err)
    }
    d := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
    if _, err := payments.Add(ctx, userID, p.ID, d, 1000, ""); err != nil {
        t.Fatalf("add payment: %v", err)
    }
    err = sheets.SaveDay(ctx, userID, p.ID, d, []daysheet.ItemInput{
        {Category: books.CategoryLabour, ItemName: "Mason", Price: "500", Count: "1"},
    })
    if err != nil {
        t.Fatalf("save day: %v", err)
    }

    if err := svc.Delete(ctx, userID, p.ID); err != nil {
        t.Fatalf("delete: %v", err)
    }
    if _, err := svc.Get(ctx, userID, p.ID); !errors.Is(err, errs.ErrNotFound) {
        t.Fatalf("expected ErrNotFound after delete, got %v", err)
    }
    totals, err := store.ExpenseTotals(ctx, userID)
    if err != nil {
        t.Fatalf("totals: %v", err)
    }
    if _, ok := totals[p.ID]; ok {
        t.Fatalf("expenses must be removed with the project")
    }
}

func TestUpdateBudget(t *testing.T) {
    store := memory.New()
    svc := New(store, store)
    ctx := context.Background()
    userID := uuid.New()

    p, err := svc.Create(ctx, userID, "Site C", "INR", 10_000_00, nil)
    if err != nil {
        t.Fatalf("create: %v", err)
    }
    upd, err := svc.UpdateBudget(ctx, userID, p.ID, 12_500_00)
    if err != nil {
        t.Fatalf("update: %v", err)
    }
    if minor, _ := upd.TotalBudget.MinorUnits(); minor != 12_500_00 {
        t.Fatalf("unexpected budget: %d", minor)
    }
    if _, err := svc.UpdateBudget(ctx, userID, p.ID, -5); !errors.Is(err, errs.ErrInvalidAmount) {
        t.Fatalf("expected ErrInvalidAmount, got %v", err)
    }
    if _, err := svc.UpdateBudget(ctx, userID, uuid.New(), 1); !errors.Is(err, errs.ErrNotFound) {
        t.Fatalf("expected ErrNotFound, got %v", err)
    }
}
