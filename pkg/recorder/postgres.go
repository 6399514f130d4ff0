// pkg/recorder/postgres.go

package recorder

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

const invoicesSchema = `
CREATE TABLE IF NOT EXISTS invoices (
	id              BIGSERIAL PRIMARY KEY,
	invoice_no      TEXT NOT NULL,
	issued_on       TEXT NOT NULL,
	customer_name   TEXT NOT NULL DEFAULT '',
	address         TEXT NOT NULL DEFAULT '',
	mobile          TEXT NOT NULL DEFAULT '',
	email           TEXT NOT NULL DEFAULT '',
	products        TEXT[] NOT NULL DEFAULT '{}',
	quantities      NUMERIC[] NOT NULL DEFAULT '{}',
	prices          NUMERIC[] NOT NULL DEFAULT '{}',
	total_price     NUMERIC(14,2) NOT NULL,
	delivery_charge NUMERIC(14,2) NOT NULL,
	discount        NUMERIC(14,2) NOT NULL,
	final_amount    NUMERIC(14,2) NOT NULL,
	advance         NUMERIC(14,2) NOT NULL,
	balance         NUMERIC(14,2) NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const insertInvoice = `
INSERT INTO invoices (
	invoice_no, issued_on, customer_name, address, mobile, email,
	products, quantities, prices,
	total_price, delivery_charge, discount, final_amount, advance, balance
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

// Postgres keeps a row per generated bill in the invoices table.
type Postgres struct {
	db *sql.DB
}

// OpenPostgres connects to dsn with the lib/pq driver.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return NewPostgres(db), nil
}

// NewPostgres wraps an open database handle.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema creates the invoices table when it is missing.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, invoicesSchema); err != nil {
		return fmt.Errorf("postgres: create schema: %w", err)
	}
	return nil
}

// Record implements Recorder.
func (p *Postgres) Record(ctx context.Context, e Entry) error {
	_, err := p.db.ExecContext(ctx, insertInvoice,
		e.InvoiceNo, e.Date, e.CustomerName, e.Address, e.Mobile, e.Email,
		pq.Array(e.Names()), pq.Array(e.Quantities()), pq.Array(e.Prices()),
		e.TotalPrice.StringFixed(2), e.DeliveryCharge.StringFixed(2), e.Discount.StringFixed(2),
		e.FinalAmount.StringFixed(2), e.Advance.StringFixed(2), e.Balance.StringFixed(2),
	)
	if err != nil {
		return fmt.Errorf("postgres: insert %s: %w", e.InvoiceNo, err)
	}
	return nil
}

// Close closes the database handle.
func (p *Postgres) Close() error {
	return p.db.Close()
}
