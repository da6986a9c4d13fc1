package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/windforest/windforest/internal/config"
	"github.com/windforest/windforest/internal/observability"
	duckdbengine "github.com/windforest/windforest/internal/query/duckdb"
	"github.com/windforest/windforest/internal/seed"
)

func main() {
	opts := seed.DefaultOptions()
	flag.Int64Var(&opts.Seed, "seed", opts.Seed, "random seed for deterministic generation")
	flag.IntVar(&opts.Customers, "customers", opts.Customers, "number of customers")
	flag.IntVar(&opts.Employees, "employees", opts.Employees, "number of employees")
	flag.IntVar(&opts.Suppliers, "suppliers", opts.Suppliers, "number of suppliers")
	flag.IntVar(&opts.Categories, "categories", opts.Categories, "number of categories")
	flag.IntVar(&opts.Authors, "authors", opts.Authors, "number of authors")
	flag.IntVar(&opts.Books, "books", opts.Books, "number of books")
	flag.IntVar(&opts.Shippers, "shippers", opts.Shippers, "number of shippers")
	flag.IntVar(&opts.Orders, "orders", opts.Orders, "number of orders")
	flag.IntVar(&opts.OrderItems, "order-items", opts.OrderItems, "number of order line items")
	flag.IntVar(&opts.Interactions, "interactions", opts.Interactions, "number of customer service interactions")
	flag.Parse()

	cfg, err := config.LoadFromEnv("windforest-seed")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg, os.Stdout)

	queryEngine, err := duckdbengine.Open(cfg.Database.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "database open error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = queryEngine.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	seeder := seed.NewSeeder(queryEngine.DB(), logger)
	if err := seeder.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("seeded %s\n", cfg.Database.Path)
}
