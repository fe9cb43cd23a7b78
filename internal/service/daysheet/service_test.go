package daysheet

import (
    "context"
    "errors"
    "strconv"
    "sync"
    "testing"
    "time"

    "github.com/google/uuid"
    "github.com/govalues/money"

    "costbook/internal/books"
    "costbook/internal/errs"
    "costbook/internal/storage/memory"
)

func newFixture(t *testing.T) (Service, uuid.UUID, books.Project) {
    t.Helper()
    store := memory.New()
    userID := uuid.New()
    budget, _ := money.NewAmountFromMinorUnits("INR", 10_000_00)
    paid, _ := money.NewAmountFromMinorUnits("INR", 0)
    proj := books.Project{ID: uuid.New(), UserID: userID, Name: "Site B", Currency: "INR", TotalBudget: budget, OwnerPaid: paid}
    store.SeedProject(proj)
    return New(store, store, time.UTC), userID, proj
}

func day(y int, m time.Month, d int) time.Time {
    return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTemplateForDate_StarterWhenNoHistory(t *testing.T) {
    svc, userID, proj := newFixture(t)
    items, err := svc.TemplateForDate(context.Background(), userID, proj.ID, day(2025, 3, 10))
    if err != nil {
        t.Fatalf("template: %v", err)
    }
    if len(items) != len(books.DefaultTemplate()) {
        t.Fatalf("expected starter catalogue, got %d rows", len(items))
    }
}

func TestTemplateForDate_OwnDayVerbatim(t *testing.T) {
    svc, userID, proj := newFixture(t)
    ctx := context.Background()
    in := []ItemInput{
        {Category: books.CategoryLabour, ItemName: "Mason", Price: "500", Count: "3", Other: "50"},
        {Category: books.CategoryStaff, ItemName: "Ramesh (Supervisor)", Price: "5000"},
    }
    if err := svc.SaveDay(ctx, userID, proj.ID, day(2025, 3, 10), in); err != nil {
        t.Fatalf("save: %v", err)
    }
    // any time within the day addresses the same sheet
    items, err := svc.TemplateForDate(ctx, userID, proj.ID, time.Date(2025, 3, 10, 18, 45, 0, 0, time.UTC))
    if err != nil {
        t.Fatalf("template: %v", err)
    }
    if len(items) != 2 {
        t.Fatalf("expected 2 saved rows, got %d", len(items))
    }
    if items[0].Price != "500" || items[0].Count != "3" || items[0].Total.String() != "1550" {
        t.Fatalf("saved row not returned verbatim: %+v", items[0])
    }
    if items[1].Total.String() != "5000" {
        t.Fatalf("flat total: expected 5000, got %s", items[1].Total.String())
    }
}

func TestTemplateForDate_SkeletonFromNearestPriorDay(t *testing.T) {
    svc, userID, proj := newFixture(t)
    ctx := context.Background()

    older := []ItemInput{{Category: books.CategorySteel, ItemName: "8mm Rebar", Price: "76", Count: "50"}}
    newer := []ItemInput{
        {Category: books.CategoryLabour, ItemName: "Mason", Price: "600", Count: "2"},
        {Category: books.CategoryStaff, ItemName: "Ramesh (Supervisor)", Price: "5000"},
    }
    if err := svc.SaveDay(ctx, userID, proj.ID, day(2025, 3, 1), older); err != nil {
        t.Fatalf("save older: %v", err)
    }
    if err := svc.SaveDay(ctx, userID, proj.ID, day(2025, 3, 8), newer); err != nil {
        t.Fatalf("save newer: %v", err)
    }

    // a later empty date derives from March 8, not March 1
    items, err := svc.TemplateForDate(ctx, userID, proj.ID, day(2025, 3, 12))
    if err != nil {
        t.Fatalf("template: %v", err)
    }
    if len(items) != 2 || items[0].ItemName != "Mason" {
        t.Fatalf("expected skeleton of March 8, got %+v", items)
    }
    if items[0].Price != "" || items[0].Count != "" || items[0].Total.String() != "0" {
        t.Fatalf("quantity skeleton not cleared: %+v", items[0])
    }
    if items[1].Price != "5000" || items[1].Total.String() != "0" {
        t.Fatalf("flat skeleton should carry price with zero total: %+v", items[1])
    }

    // a gap date between the two saved days derives from March 1
    items, err = svc.TemplateForDate(ctx, userID, proj.ID, day(2025, 3, 5))
    if err != nil {
        t.Fatalf("template: %v", err)
    }
    if len(items) != 1 || items[0].ItemName != "8mm Rebar" {
        t.Fatalf("expected skeleton of March 1, got %+v", items)
    }
}

func TestSaveDay_ReplacesAndClears(t *testing.T) {
    svc, userID, proj := newFixture(t)
    ctx := context.Background()
    d := day(2025, 4, 2)

    first := []ItemInput{
        {Category: books.CategoryLabour, ItemName: "Mason", Price: "600", Count: "2"},
        {Category: books.CategoryLabour, ItemName: "Helper", Price: "400", Count: "4"},
    }
    if err := svc.SaveDay(ctx, userID, proj.ID, d, first); err != nil {
        t.Fatalf("save: %v", err)
    }
    second := []ItemInput{{Category: books.CategoryLabour, ItemName: "Mason", Price: "650", Count: "2"}}
    if err := svc.SaveDay(ctx, userID, proj.ID, d, second); err != nil {
        t.Fatalf("resave: %v", err)
    }
    rows, err := svc.ExpensesInRange(ctx, userID, proj.ID, d, d)
    if err != nil {
        t.Fatalf("range: %v", err)
    }
    if len(rows) != 1 || rows[0].Price != "650" {
        t.Fatalf("resave must replace the day: %+v", rows)
    }

    if err := svc.SaveDay(ctx, userID, proj.ID, d, nil); err != nil {
        t.Fatalf("clear: %v", err)
    }
    rows, err = svc.ExpensesInRange(ctx, userID, proj.ID, d, d)
    if err != nil {
        t.Fatalf("range: %v", err)
    }
    if len(rows) != 0 {
        t.Fatalf("expected cleared day, got %d rows", len(rows))
    }
    // with no other saved days the template falls back to the starter catalogue
    items, err := svc.TemplateForDate(ctx, userID, proj.ID, d)
    if err != nil {
        t.Fatalf("template: %v", err)
    }
    if len(items) != len(books.DefaultTemplate()) {
        t.Fatalf("expected starter fallback after clear, got %d rows", len(items))
    }
}

func TestSaveDay_ConcurrentWritersOneSetWins(t *testing.T) {
    svc, userID, proj := newFixture(t)
    ctx := context.Background()
    d := day(2025, 5, 6)

    const writers = 8
    var wg sync.WaitGroup
    for i := 0; i < writers; i++ {
        wg.Add(1)
        go func(i int) {
            defer wg.Done()
            price := strconv.Itoa((i + 1) * 100)
            in := []ItemInput{
                {Category: books.CategoryLabour, ItemName: "Mason", Price: price, Count: "2"},
                {Category: books.CategoryLabour, ItemName: "Helper", Price: price, Count: "4"},
                {Category: books.CategorySteel, ItemName: "8mm Rebar", Price: price, Count: "10"},
            }
            if err := svc.SaveDay(ctx, userID, proj.ID, d, in); err != nil {
                t.Errorf("save: %v", err)
            }
        }(i)
    }
    wg.Wait()

    // the day holds exactly one writer's complete set, never a mix
    rows, err := svc.ExpensesInRange(ctx, userID, proj.ID, d, d)
    if err != nil {
        t.Fatalf("range: %v", err)
    }
    if len(rows) != 3 {
        t.Fatalf("expected one complete row set of 3, got %d rows", len(rows))
    }
    for _, r := range rows[1:] {
        if r.Price != rows[0].Price {
            t.Fatalf("rows from different saves interleaved: %+v", rows)
        }
    }
}

func TestSaveDay_Validation(t *testing.T) {
    svc, userID, proj := newFixture(t)
    ctx := context.Background()
    if err := svc.SaveDay(ctx, uuid.Nil, proj.ID, day(2025, 4, 2), nil); !errors.Is(err, errs.ErrMissingProject) {
        t.Fatalf("expected ErrMissingProject, got %v", err)
    }
    if err := svc.SaveDay(ctx, userID, proj.ID, time.Time{}, nil); !errors.Is(err, errs.ErrMissingDate) {
        t.Fatalf("expected ErrMissingDate, got %v", err)
    }
    if err := svc.SaveDay(ctx, userID, uuid.New(), day(2025, 4, 2), nil); !errors.Is(err, errs.ErrNotFound) {
        t.Fatalf("expected ErrNotFound, got %v", err)
    }
}
