package seed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/windforest/windforest/internal/observability"
)

type Seeder struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

func NewSeeder(db *sql.DB, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{db: db, logger: logger, now: time.Now}
}

// Run creates the schema and fills every table. The whole load runs in one
// transaction; a failed run leaves the database empty rather than partial.
func (s *Seeder) Run(ctx context.Context, opts Options) error {
	if err := ApplySchema(ctx, s.db); err != nil {
		return err
	}

	data := newGenerator(opts.Seed, s.now().UTC()).build(opts)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.insertAll(ctx, tx, data); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed transaction: %w", err)
	}

	s.logger.InfoContext(ctx, "dataset seeded",
		slog.Int("customers", len(data.customers)),
		slog.Int("books", len(data.books)),
		slog.Int("orders", len(data.orders)),
		slog.Int("order_items", len(data.orderItems)))
	return nil
}

func (s *Seeder) insertAll(ctx context.Context, tx *sql.Tx, data dataset) error {
	steps := []struct {
		table  string
		insert func(context.Context, *sql.Tx) (int, error)
	}{
		{"customers", func(ctx context.Context, tx *sql.Tx) (int, error) { return insertCustomers(ctx, tx, data.customers) }},
		{"employees", func(ctx context.Context, tx *sql.Tx) (int, error) { return insertEmployees(ctx, tx, data.employees) }},
		{"suppliers", func(ctx context.Context, tx *sql.Tx) (int, error) { return insertSuppliers(ctx, tx, data.suppliers) }},
		{"categories", func(ctx context.Context, tx *sql.Tx) (int, error) { return insertCategories(ctx, tx, data.categories) }},
		{"authors", func(ctx context.Context, tx *sql.Tx) (int, error) { return insertAuthors(ctx, tx, data.authors) }},
		{"books", func(ctx context.Context, tx *sql.Tx) (int, error) { return insertBooks(ctx, tx, data.books) }},
		{"shippers", func(ctx context.Context, tx *sql.Tx) (int, error) { return insertShippers(ctx, tx, data.shippers) }},
		{"orders", func(ctx context.Context, tx *sql.Tx) (int, error) { return insertOrders(ctx, tx, data.orders) }},
		{"order_items", func(ctx context.Context, tx *sql.Tx) (int, error) { return insertOrderItems(ctx, tx, data.orderItems) }},
		{"book_authors", func(ctx context.Context, tx *sql.Tx) (int, error) { return insertBookAuthors(ctx, tx, data.bookAuthors) }},
		{"book_categories", func(ctx context.Context, tx *sql.Tx) (int, error) { return insertBookCategories(ctx, tx, data.bookCats) }},
		{"book_price_history", func(ctx context.Context, tx *sql.Tx) (int, error) { return insertPriceHistory(ctx, tx, data.priceHistory) }},
		{"customer_service_interactions", func(ctx context.Context, tx *sql.Tx) (int, error) { return insertInteractions(ctx, tx, data.interactions) }},
	}

	for _, step := range steps {
		count, err := step.insert(ctx, tx)
		if err != nil {
			return fmt.Errorf("seed table %q: %w", step.table, err)
		}
		observability.AddSeededRows(step.table, count)
	}
	return nil
}

func insertCustomers(ctx context.Context, tx *sql.Tx, rows []customer) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO customers VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer func() { _ = stmt.Close() }()
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.id, r.name, r.email, r.phone, r.address, r.segment, r.region,
			r.age, r.gender, r.incomeLevel, r.clv, r.accountCreated, r.contactMethod, r.purchaseFreq,
			r.seasonalPref, r.lastPurchase, r.avgOrderValue); err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}

func insertEmployees(ctx context.Context, tx *sql.Tx, rows []employee) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO employees VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer func() { _ = stmt.Close() }()
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.id, r.firstName, r.lastName, r.title, r.dept, r.managerID,
			r.hireDate, r.termDate, r.salary, r.bonus, r.commission, r.kpiScore, r.shift, r.level); err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}

func insertSuppliers(ctx context.Context, tx *sql.Tx, rows []supplier) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO suppliers VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer func() { _ = stmt.Close() }()
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.id, r.name, r.contactName, r.address, r.rating,
			r.location, r.contractTerms, r.relationship); err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}

func insertCategories(ctx context.Context, tx *sql.Tx, rows []category) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO categories VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer func() { _ = stmt.Close() }()
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.id, r.name, r.parentID, r.popularity); err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}

func insertAuthors(ctx context.Context, tx *sql.Tx, rows []author) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO authors VALUES (?, ?)`)
	if err != nil {
		return 0, err
	}
	defer func() { _ = stmt.Close() }()
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.id, r.name); err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}

func insertBooks(ctx context.Context, tx *sql.Tx, rows []book) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO books VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer func() { _ = stmt.Close() }()
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.id, r.title, r.isbn, r.format, r.language, r.price,
			r.stockLevel, r.safetyStock, r.reorderPoint, r.published, r.supplierID); err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}

func insertShippers(ctx context.Context, tx *sql.Tx, rows []shipper) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO shippers VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer func() { _ = stmt.Close() }()
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.id, r.name, r.phone, r.serviceArea, r.baseCost, r.rating); err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}

func insertOrders(ctx context.Context, tx *sql.Tx, rows []order) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO orders VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer func() { _ = stmt.Close() }()
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.id, r.orderDate, r.status, r.shipping, r.payment,
			r.discount, r.tax, r.notes, r.customerID, r.employeeID, r.shipperID); err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}

func insertOrderItems(ctx context.Context, tx *sql.Tx, rows []orderItem) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO order_items VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer func() { _ = stmt.Close() }()
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.id, r.orderID, r.bookID, r.quantity, r.unitPrice); err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}

func insertBookAuthors(ctx context.Context, tx *sql.Tx, rows []bookAuthor) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO book_authors VALUES (?, ?)`)
	if err != nil {
		return 0, err
	}
	defer func() { _ = stmt.Close() }()
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.bookID, r.authorID); err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}

func insertBookCategories(ctx context.Context, tx *sql.Tx, rows []bookCategory) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO book_categories VALUES (?, ?)`)
	if err != nil {
		return 0, err
	}
	defer func() { _ = stmt.Close() }()
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.bookID, r.categoryID); err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}

func insertPriceHistory(ctx context.Context, tx *sql.Tx, rows []pricePoint) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO book_price_history VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer func() { _ = stmt.Close() }()
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.id, r.bookID, r.price, r.effectiveDate, r.endDate, r.changeReason); err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}

func insertInteractions(ctx context.Context, tx *sql.Tx, rows []interaction) (int, error) {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO customer_service_interactions VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer func() { _ = stmt.Close() }()
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.id, r.customerID, r.orderID, r.date, r.kind, r.channel,
			r.priority, r.status, r.resolved, r.satisfaction, r.notes, r.employeeID); err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}
