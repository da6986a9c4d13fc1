// Package schema holds the static description of the Windforest bookstore
// database used to ground SQL generation. The text must be kept in lockstep
// with the physical schema created by the seeder; no introspection happens
// at runtime.
package schema

// DDL returns the SQL schema for every table relevant to query generation.
func DDL() string {
	return ddl
}

// BusinessContext returns the prose domain heuristics handed to the model
// alongside the schema.
func BusinessContext() string {
	return businessContext
}

// Tables lists every table in dependency order: parents before the tables
// that reference them, so the list can drive both seeding and restore.
func Tables() []string {
	return []string{
		"customers",
		"employees",
		"suppliers",
		"categories",
		"authors",
		"books",
		"shippers",
		"orders",
		"order_items",
		"book_authors",
		"book_categories",
		"book_price_history",
		"customer_service_interactions",
	}
}

// Tables appear in dependency order so the DDL can run statement by
// statement. Self-referencing keys (employee managers, category parents)
// are documented inline; DuckDB does not enforce them.
const ddl = `CREATE TABLE customers (
    id INTEGER PRIMARY KEY,
    name TEXT,
    email TEXT,
    phone TEXT,
    address TEXT,
    segment TEXT,
    region TEXT,
    age INTEGER,
    gender TEXT,
    income_level REAL,
    clv REAL,
    account_creation_date DATE,
    preferred_contact_method TEXT,
    purchase_frequency TEXT,
    seasonal_preference TEXT,
    last_purchase_date DATE,
    avg_order_value REAL
);

CREATE TABLE employees (
    id INTEGER PRIMARY KEY,
    first_name TEXT,
    last_name TEXT,
    title TEXT,
    department TEXT,
    manager_id INTEGER, -- references employees(id)
    hire_date DATE,
    termination_date DATE,
    salary REAL,
    bonus REAL,
    commission REAL,
    kpi_score REAL,
    shift TEXT,
    level INTEGER
);

CREATE TABLE suppliers (
    id INTEGER PRIMARY KEY,
    name TEXT,
    contact_name TEXT,
    address TEXT,
    rating REAL,
    location TEXT,
    contract_terms TEXT,
    relationship_length INTEGER
);

CREATE TABLE categories (
    id INTEGER PRIMARY KEY,
    name TEXT,
    parent_id INTEGER, -- references categories(id)
    popularity REAL
);

CREATE TABLE authors (
    id INTEGER PRIMARY KEY,
    name TEXT
);

CREATE TABLE books (
    id INTEGER PRIMARY KEY,
    title TEXT,
    isbn TEXT,
    format TEXT,
    language TEXT,
    price REAL,
    stock_level INTEGER,
    safety_stock INTEGER,
    reorder_point INTEGER,
    publication_date DATE,
    supplier_id INTEGER,
    FOREIGN KEY(supplier_id) REFERENCES suppliers(id)
);

CREATE TABLE shippers (
    id INTEGER PRIMARY KEY,
    name TEXT,
    phone TEXT,
    service_area TEXT,
    base_cost REAL,
    performance_rating REAL
);

CREATE TABLE orders (
    id INTEGER PRIMARY KEY,
    order_date DATE,
    status TEXT,
    shipping_method TEXT,
    payment_method TEXT,
    discount REAL,
    tax REAL,
    notes TEXT,
    customer_id INTEGER,
    employee_id INTEGER,
    shipper_id INTEGER,
    FOREIGN KEY(customer_id) REFERENCES customers(id),
    FOREIGN KEY(employee_id) REFERENCES employees(id),
    FOREIGN KEY(shipper_id) REFERENCES shippers(id)
);

CREATE TABLE order_items (
    id INTEGER PRIMARY KEY,
    order_id INTEGER,
    book_id INTEGER,
    quantity INTEGER,
    unit_price REAL,
    FOREIGN KEY(order_id) REFERENCES orders(id),
    FOREIGN KEY(book_id) REFERENCES books(id)
);

CREATE TABLE book_authors (
    book_id INTEGER,
    author_id INTEGER,
    PRIMARY KEY (book_id, author_id),
    FOREIGN KEY(book_id) REFERENCES books(id),
    FOREIGN KEY(author_id) REFERENCES authors(id)
);

CREATE TABLE book_categories (
    book_id INTEGER,
    category_id INTEGER,
    PRIMARY KEY (book_id, category_id),
    FOREIGN KEY(book_id) REFERENCES books(id),
    FOREIGN KEY(category_id) REFERENCES categories(id)
);

CREATE TABLE book_price_history (
    id INTEGER PRIMARY KEY,
    book_id INTEGER,
    price REAL,
    effective_date DATE,
    end_date DATE,
    change_reason TEXT,
    FOREIGN KEY(book_id) REFERENCES books(id)
);

CREATE TABLE customer_service_interactions (
    id INTEGER PRIMARY KEY,
    customer_id INTEGER,
    order_id INTEGER,
    interaction_date DATE,
    interaction_type TEXT,
    channel TEXT,
    priority TEXT,
    status TEXT,
    resolution_date DATE,
    satisfaction_score INTEGER,
    notes TEXT,
    employee_id INTEGER,
    FOREIGN KEY(customer_id) REFERENCES customers(id),
    FOREIGN KEY(order_id) REFERENCES orders(id),
    FOREIGN KEY(employee_id) REFERENCES employees(id)
);`

const businessContext = `Business Context:
- Customers: Segmented into Retail, Wholesale, and VIP
  with varying purchase frequencies
- Orders: Show seasonal patterns with peaks in November-December (holidays)
  and July-August (back to school)
- Books: Managed with price history, categories, and multiple authors
- Customer Service: Tracks interactions, satisfaction scores, and
  resolution times
- Fraud Detection: Monitors for suspicious patterns like multiple
  same-day orders and unusual shipping
- Inventory: Tracks stock levels, safety stock, and reorder points
- Suppliers: Rated based on sales performance and stock management`
