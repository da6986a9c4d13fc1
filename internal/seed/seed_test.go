package seed

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/windforest/windforest/internal/query/duckdb"
)

func testOptions() Options {
	return Options{
		Seed:         7,
		Customers:    20,
		Employees:    16,
		Suppliers:    5,
		Categories:   8,
		Authors:      10,
		Books:        25,
		Shippers:     3,
		Orders:       40,
		OrderItems:   60,
		Interactions: 15,
	}
}

func TestGeneratorIsDeterministic(t *testing.T) {
	now := time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC)
	first := newGenerator(7, now).build(testOptions())
	second := newGenerator(7, now).build(testOptions())

	if len(first.customers) != len(second.customers) {
		t.Fatalf("customer counts differ: %d vs %d", len(first.customers), len(second.customers))
	}
	for i := range first.customers {
		if first.customers[i] != second.customers[i] {
			t.Fatalf("customer %d differs: %+v vs %+v", i, first.customers[i], second.customers[i])
		}
	}
	for i := range first.orders {
		if first.orders[i] != second.orders[i] {
			t.Fatalf("order %d differs", i)
		}
	}
}

func TestGeneratorSegmentSplit(t *testing.T) {
	now := time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC)
	opts := testOptions()
	opts.Customers = 2000
	data := newGenerator(1, now).build(opts)

	counts := map[string]int{}
	for _, c := range data.customers {
		counts[c.segment]++
	}
	retail := float64(counts["Retail"]) / float64(opts.Customers)
	if retail < 0.6 || retail > 0.8 {
		t.Fatalf("retail share = %.2f, want near 0.7", retail)
	}
	if counts["Wholesale"] == 0 || counts["VIP"] == 0 {
		t.Fatalf("segment counts = %v", counts)
	}
}

func TestGeneratorOrgStructure(t *testing.T) {
	now := time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC)
	data := newGenerator(3, now).build(testOptions())

	byID := map[int]employee{}
	for _, e := range data.employees {
		byID[e.id] = e
	}
	for _, e := range data.employees {
		if e.id == 1 {
			if e.managerID != nil || e.level != 1 {
				t.Fatalf("root employee = %+v", e)
			}
			continue
		}
		if e.managerID == nil {
			t.Fatalf("employee %d has no manager", e.id)
		}
		manager, ok := byID[*e.managerID]
		if !ok {
			t.Fatalf("employee %d reports to unknown manager %d", e.id, *e.managerID)
		}
		if manager.level >= e.level {
			t.Fatalf("employee %d (level %d) reports to manager at level %d", e.id, e.level, manager.level)
		}
	}
}

func TestGeneratorPriceHistoryHasCurrentRow(t *testing.T) {
	now := time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC)
	data := newGenerator(5, now).build(testOptions())

	current := map[int]bool{}
	for _, p := range data.priceHistory {
		if p.changeReason == "Current" {
			if p.endDate != nil {
				t.Fatalf("current price for book %d has an end date", p.bookID)
			}
			current[p.bookID] = true
		}
	}
	for _, b := range data.books {
		if !current[b.id] {
			t.Fatalf("book %d has no current price row", b.id)
		}
	}
}

func TestSeederPopulatesAllTables(t *testing.T) {
	engine, err := duckdb.Open(filepath.Join(t.TempDir(), "seed.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = engine.Close() }()

	opts := testOptions()
	seeder := NewSeeder(engine.DB(), slog.New(slog.DiscardHandler))
	if err := seeder.Run(context.Background(), opts); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	counts := map[string]int{
		"customers":                     opts.Customers,
		"employees":                     opts.Employees,
		"suppliers":                     opts.Suppliers,
		"categories":                    opts.Categories,
		"authors":                       opts.Authors,
		"books":                         opts.Books,
		"shippers":                      opts.Shippers,
		"order_items":                   opts.OrderItems,
		"customer_service_interactions": opts.Interactions,
	}
	for table, want := range counts {
		var got int
		if err := engine.DB().QueryRow("SELECT COUNT(*) FROM " + table).Scan(&got); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if got != want {
			t.Fatalf("%s rows = %d, want %d", table, got, want)
		}
	}

	var orders int
	if err := engine.DB().QueryRow("SELECT COUNT(*) FROM orders").Scan(&orders); err != nil {
		t.Fatalf("count orders: %v", err)
	}
	if orders != opts.Orders {
		t.Fatalf("orders rows = %d, want %d", orders, opts.Orders)
	}
}
