package postgres

import (
	"context"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/money"

	"costbook/internal/books"
)

func getTestDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping Postgres store tests")
	}
	return dsn
}

func mustOpen(t *testing.T, dsn string) *Store {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s, err := Open(ctx, dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return s
}

func truncateAll(t *testing.T, dsn string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s, err := Open(ctx, dsn)
	if err != nil {
		t.Fatalf("open for truncate: %v", err)
	}
	defer s.Close()
	_, _ = s.pool.Exec(ctx, `truncate table expenses, payments, projects cascade`)
}

func seedProject(t *testing.T, s *Store, ctx context.Context) (uuid.UUID, books.Project) {
	t.Helper()
	userID := uuid.New()
	budget, _ := money.NewAmountFromMinorUnits("INR", 10_000_00)
	paid, _ := money.NewAmountFromMinorUnits("INR", 0)
	p := books.Project{ID: uuid.New(), UserID: userID, Name: "Test Site", Currency: "INR", TotalBudget: budget, OwnerPaid: paid}
	created, err := s.CreateProject(ctx, p)
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	return userID, created
}

func TestStore_ProjectsAndPayments(t *testing.T) {
	dsn := getTestDSN(t)
	if err := RunMigrations(dsn); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	truncateAll(t, dsn)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s := mustOpen(t, dsn)
	defer s.Close()

	if err := s.Ready(ctx); err != nil {
		t.Fatalf("ready: %v", err)
	}

	userID, proj := seedProject(t, s, ctx)

	// project roundtrip
	got, err := s.Project(ctx, userID, proj.ID)
	if err != nil {
		t.Fatalf("get project: %v", err)
	}
	if got.Name != "Test Site" || got.Currency != "INR" {
		t.Fatalf("unexpected project: %+v", got)
	}

	// payments: add two, aggregate tracks the sum
	amt, _ := money.NewAmountFromMinorUnits("INR", 1000)
	p1 := books.Payment{ID: uuid.New(), UserID: userID, ProjectID: proj.ID, Date: time.Now().UTC(), Amount: amt, Description: "first"}
	if _, err := s.AddPayment(ctx, p1); err != nil {
		t.Fatalf("add payment: %v", err)
	}
	amt2, _ := money.NewAmountFromMinorUnits("INR", 2500)
	p2 := books.Payment{ID: uuid.New(), UserID: userID, ProjectID: proj.ID, Date: time.Now().UTC(), Amount: amt2}
	if _, err := s.AddPayment(ctx, p2); err != nil {
		t.Fatalf("add payment 2: %v", err)
	}

	after, err := s.Project(ctx, userID, proj.ID)
	if err != nil {
		t.Fatalf("get project: %v", err)
	}
	if minor, _ := after.OwnerPaid.MinorUnits(); minor != 3500 {
		t.Fatalf("expected ownerPaid 3500, got %d", minor)
	}

	// update adjusts by delta
	if _, err := s.UpdatePayment(ctx, userID, p1.ID, 1500, time.Now().UTC(), "upd"); err != nil {
		t.Fatalf("update payment: %v", err)
	}
	after, _ = s.Project(ctx, userID, proj.ID)
	if minor, _ := after.OwnerPaid.MinorUnits(); minor != 4000 {
		t.Fatalf("expected ownerPaid 4000 after update, got %d", minor)
	}

	// delete decrements
	if _, err := s.DeletePayment(ctx, userID, p2.ID); err != nil {
		t.Fatalf("delete payment: %v", err)
	}
	after, _ = s.Project(ctx, userID, proj.ID)
	if minor, _ := after.OwnerPaid.MinorUnits(); minor != 1500 {
		t.Fatalf("expected ownerPaid 1500 after delete, got %d", minor)
	}

	list, err := s.Payments(ctx, userID, proj.ID)
	if err != nil || len(list) != 1 {
		t.Fatalf("payments: %v len=%d", err, len(list))
	}
}

func TestStore_DaySheets(t *testing.T) {
	dsn := getTestDSN(t)
	if err := RunMigrations(dsn); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	truncateAll(t, dsn)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s := mustOpen(t, dsn)
	defer s.Close()

	userID, proj := seedProject(t, s, ctx)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	next := day.AddDate(0, 0, 1)

	mkRow := func(name, price, count string) books.Expense {
		return books.Expense{
			ID: uuid.New(), UserID: userID, ProjectID: proj.ID, Date: day,
			Category: books.CategoryLabour, ItemName: name,
			Price: price, Count: count,
			Total: books.ItemTotal(books.CategoryLabour, price, count, ""),
		}
	}

	rows := []books.Expense{mkRow("Mason", "500", "3"), mkRow("Helper", "400", "2")}
	if err := s.ReplaceDay(ctx, userID, proj.ID, day, next, rows); err != nil {
		t.Fatalf("replace day: %v", err)
	}

	got, err := s.ExpensesInRange(ctx, userID, proj.ID, day, next)
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if len(got) != 2 || got[0].ItemName != "Mason" {
		t.Fatalf("expected 2 ordered rows, got %+v", got)
	}
	if got[0].Total.String() != "1500" {
		t.Fatalf("total roundtrip: expected 1500, got %s", got[0].Total.String())
	}

	// resave replaces the day wholesale
	if err := s.ReplaceDay(ctx, userID, proj.ID, day, next, []books.Expense{mkRow("Mason", "600", "1")}); err != nil {
		t.Fatalf("resave: %v", err)
	}
	got, _ = s.ExpensesInRange(ctx, userID, proj.ID, day, next)
	if len(got) != 1 || got[0].Price != "600" {
		t.Fatalf("resave must replace: %+v", got)
	}

	// prior day lookup
	prior, ok, err := s.LatestExpenseDayBefore(ctx, userID, proj.ID, next.AddDate(0, 0, 5))
	if err != nil || !ok {
		t.Fatalf("latest day: %v ok=%v", err, ok)
	}
	if !prior.Equal(day) {
		t.Fatalf("expected %v, got %v", day, prior)
	}

	// totals aggregate
	totals, err := s.ExpenseTotals(ctx, userID)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if totals[proj.ID].String() != "600" {
		t.Fatalf("expected project total 600, got %s", totals[proj.ID].String())
	}

	// cascade delete
	if err := s.DeleteProject(ctx, userID, proj.ID); err != nil {
		t.Fatalf("delete project: %v", err)
	}
	if _, err := s.Project(ctx, userID, proj.ID); err == nil {
		t.Fatalf("expected not found after delete")
	}
}

func TestStore_ConcurrentDaySaves(t *testing.T) {
	dsn := getTestDSN(t)
	if err := RunMigrations(dsn); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	truncateAll(t, dsn)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s := mustOpen(t, dsn)
	defer s.Close()

	userID, proj := seedProject(t, s, ctx)
	day := time.Date(2025, 5, 6, 0, 0, 0, 0, time.UTC)
	next := day.AddDate(0, 0, 1)

	writerRows := func(price string) []books.Expense {
		names := []string{"Mason", "Helper", "8mm Rebar"}
		rows := make([]books.Expense, 0, len(names))
		for _, name := range names {
			rows = append(rows, books.Expense{
				ID: uuid.New(), UserID: userID, ProjectID: proj.ID, Date: day,
				Category: books.CategoryLabour, ItemName: name,
				Price: price, Count: "2",
				Total: books.ItemTotal(books.CategoryLabour, price, "2", ""),
			})
		}
		return rows
	}

	const writers = 8
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			price := strconv.Itoa((i + 1) * 100)
			if err := s.ReplaceDay(ctx, userID, proj.ID, day, next, writerRows(price)); err != nil {
				t.Errorf("replace day: %v", err)
			}
		}(i)
	}
	wg.Wait()

	// the committed day is exactly one writer's set, never a union of two
	got, err := s.ExpensesInRange(ctx, userID, proj.ID, day, next)
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected one complete row set of 3, got %d rows", len(got))
	}
	for _, row := range got[1:] {
		if row.Price != got[0].Price {
			t.Fatalf("rows from different saves interleaved: %+v", got)
		}
	}
}
