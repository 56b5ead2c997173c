// Package db provides SQLite storage for customers, invoices, transactions and payment accounts.
package db

// Schema defines the SQL statements to create database tables.
// Monetary values are stored as decimal strings.
const Schema = `
CREATE TABLE IF NOT EXISTS customers (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    abn TEXT,
    address_line_1 TEXT,
    address_line_2 TEXT,
    next_invoice_number INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS invoices (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    customer_id INTEGER NOT NULL,
    invoice_number TEXT NOT NULL,
    date TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'unpaid',   -- 'unpaid' or 'paid'
    total TEXT NOT NULL DEFAULT '0',
    pdf_path TEXT,
    bank_name TEXT,                          -- snapshot of the account printed on the invoice
    bank_bsb TEXT,
    bank_acc TEXT,
    FOREIGN KEY (customer_id) REFERENCES customers(id)
);

CREATE INDEX IF NOT EXISTS idx_invoices_customer
    ON invoices(customer_id);

CREATE TABLE IF NOT EXISTS line_items (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    invoice_id INTEGER NOT NULL,
    qty INTEGER NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    price TEXT NOT NULL,
    FOREIGN KEY (invoice_id) REFERENCES invoices(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_line_items_invoice
    ON line_items(invoice_id);

CREATE TABLE IF NOT EXISTS transactions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    date TEXT NOT NULL,
    type TEXT NOT NULL,                      -- 'income' or 'cost'
    amount TEXT NOT NULL,
    category TEXT NOT NULL DEFAULT 'general',
    notes TEXT NOT NULL DEFAULT ''
);

-- Legacy key-value settings (bank_name, bank_bsb, bank_acc)
CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT
);

CREATE TABLE IF NOT EXISTS payment_accounts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    bsb TEXT,
    acc TEXT,
    is_default INTEGER NOT NULL DEFAULT 0
);
`

// InitializeSchema initializes the database schema.
// It creates all tables if they don't exist.
func InitializeSchema(conn *Connection) error {
	if _, err := conn.Exec(Schema); err != nil {
		return err
	}
	return nil
}
