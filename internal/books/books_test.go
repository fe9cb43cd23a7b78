package books

import (
    "testing"
    "time"
)

func TestCategoryKind(t *testing.T) {
    if CategoryLabour.Kind() != KindQuantity {
        t.Fatalf("Labour should be quantity")
    }
    if CategoryStaff.Kind() != KindFlatAmount {
        t.Fatalf("Staff Salaries should be flat amount")
    }
    // ad-hoc categories default to quantity pricing
    if Category("Scaffolding Rental").Kind() != KindQuantity {
        t.Fatalf("unknown category should default to quantity")
    }
}

func TestCategoryCode(t *testing.T) {
    if got := CategoryCement.Code(); got != "cement" {
        t.Fatalf("expected catalogue code cement, got %q", got)
    }
    if got := Category("Scaffolding Rental").Code(); got != "scaffolding_rental" {
        t.Fatalf("expected slug for ad-hoc category, got %q", got)
    }
}

func TestItemTotal(t *testing.T) {
    cases := []struct {
        name     string
        category Category
        price    string
        count    string
        other    string
        want     string
    }{
        {"quantity", CategoryLabour, "500", "3", "50", "1550"},
        {"quantity no other", CategorySteel, "76", "50", "", "3800"},
        {"flat ignores count", CategoryStaff, "5000", "3", "100", "5000"},
        {"unparseable price", CategoryLabour, "abc", "2", "", "0"},
        {"empty everything", CategoryFood, "", "", "", "0"},
        {"decimal price", CategoryCement, "12.5", "4", "0", "50.0"},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            got := ItemTotal(tc.category, tc.price, tc.count, tc.other)
            if got.String() != tc.want {
                t.Fatalf("expected %s, got %s", tc.want, got.String())
            }
        })
    }
}

func TestDayBounds(t *testing.T) {
    kolkata, err := time.LoadLocation("Asia/Kolkata")
    if err != nil {
        t.Skip("tzdata unavailable")
    }
    // 2025-03-10 01:30 IST is still 2025-03-09 in UTC
    ts := time.Date(2025, 3, 9, 20, 0, 0, 0, time.UTC)
    start, end := DayBounds(ts, kolkata)
    if start.Day() != 10 || start.Hour() != 0 {
        t.Fatalf("unexpected start: %v", start)
    }
    if !end.Equal(start.AddDate(0, 0, 1)) {
        t.Fatalf("end must be start of next day: %v", end)
    }
    // half-open: the end instant belongs to the next day
    if !end.After(start) || end.Sub(start) != 24*time.Hour {
        t.Fatalf("expected a 24h interval, got %v", end.Sub(start))
    }
}

func TestSkeleton(t *testing.T) {
    prior := []Expense{
        {Category: CategoryLabour, ItemName: "Mason", Price: "500", Count: "3", Other: "50", Total: ItemTotal(CategoryLabour, "500", "3", "50")},
        {Category: CategoryStaff, ItemName: "Ramesh (Supervisor)", Price: "5000", Total: ItemTotal(CategoryStaff, "5000", "", "")},
    }
    got := Skeleton(prior)
    if len(got) != 2 {
        t.Fatalf("expected 2 rows, got %d", len(got))
    }
    if got[0].Price != "" || got[0].Count != "" || got[0].Other != "" || got[0].Total.String() != "0" {
        t.Fatalf("quantity row not cleared: %+v", got[0])
    }
    if got[1].Price != "5000" {
        t.Fatalf("flat row should carry price forward: %+v", got[1])
    }
    if got[1].Total.String() != "0" {
        t.Fatalf("skeleton totals must reset: %+v", got[1])
    }
}

func TestDefaultTemplate(t *testing.T) {
    tpl := DefaultTemplate()
    if len(tpl) == 0 {
        t.Fatalf("expected starter rows")
    }
    seen := map[Category]bool{}
    for _, it := range tpl {
        seen[it.Category] = true
        if it.Price != "" || it.Count != "" || it.Other != "" {
            t.Fatalf("starter rows must be blank: %+v", it)
        }
    }
    for _, def := range Categories(nil) {
        if !seen[def.Label] {
            t.Fatalf("starter catalogue missing category %q", def.Label)
        }
    }
}
