// pkg/recorder/recorder.go

// Package recorder writes a flattened copy of each generated bill to
// external stores. Recording is best effort and never affects a render.
package recorder

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/billing-microservice/pkg/invoice"
)

// Recorder stores one bill entry.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

// Entry is the flat projection of an order and its totals.
type Entry struct {
	InvoiceNo      string
	Date           string
	CustomerName   string
	Address        string
	Mobile         string
	Email          string
	Items          []Item
	TotalPrice     decimal.Decimal
	DeliveryCharge decimal.Decimal
	Discount       decimal.Decimal
	FinalAmount    decimal.Decimal
	Advance        decimal.Decimal
	Balance        decimal.Decimal
}

// Item is one product of an Entry.
type Item struct {
	Name     string
	Quantity decimal.Decimal
	Price    decimal.Decimal
}

// NewEntry flattens an order and its totals.
func NewEntry(o invoice.Order, t invoice.Totals) Entry {
	items := make([]Item, len(o.LineItems))
	for i, li := range o.LineItems {
		items[i] = Item{Name: li.Description, Quantity: li.Quantity, Price: li.UnitPrice}
	}
	return Entry{
		InvoiceNo:      o.InvoiceID,
		Date:           o.IssuedOn(),
		CustomerName:   o.Customer.Name,
		Address:        o.Customer.Address,
		Mobile:         o.Customer.Phone,
		Email:          o.Customer.Email,
		Items:          items,
		TotalPrice:     t.Subtotal,
		DeliveryCharge: t.DeliveryCharge,
		Discount:       t.Discount,
		FinalAmount:    t.FinalAmount,
		Advance:        t.Advance,
		Balance:        t.Balance,
	}
}

// Names returns the product names in order.
func (e Entry) Names() []string {
	out := make([]string, len(e.Items))
	for i, it := range e.Items {
		out[i] = it.Name
	}
	return out
}

// Quantities returns the product quantities in order.
func (e Entry) Quantities() []string {
	out := make([]string, len(e.Items))
	for i, it := range e.Items {
		out[i] = it.Quantity.String()
	}
	return out
}

// Prices returns the product unit prices in order.
func (e Entry) Prices() []string {
	out := make([]string, len(e.Items))
	for i, it := range e.Items {
		out[i] = it.Price.String()
	}
	return out
}

// Row is the spreadsheet row form, product lists joined with ", ".
func (e Entry) Row() map[string]any {
	return map[string]any{
		"invoice_no":      e.InvoiceNo,
		"date":            e.Date,
		"customer_name":   e.CustomerName,
		"address":         e.Address,
		"mobile":          e.Mobile,
		"email":           e.Email,
		"products":        strings.Join(e.Names(), ", "),
		"quantities":      strings.Join(e.Quantities(), ", "),
		"prices":          strings.Join(e.Prices(), ", "),
		"total_price":     e.TotalPrice.InexactFloat64(),
		"delivery_charge": e.DeliveryCharge.InexactFloat64(),
		"discount":        e.Discount.InexactFloat64(),
		"final_amount":    e.FinalAmount.InexactFloat64(),
		"advance":         e.Advance.InexactFloat64(),
		"balance":         e.Balance.InexactFloat64(),
	}
}

// Multi fans an entry out to every recorder and joins their errors.
type Multi []Recorder

// Record implements Recorder.
func (m Multi) Record(ctx context.Context, e Entry) error {
	var errs []error
	for _, r := range m {
		if err := r.Record(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards entries.
type Nop struct{}

// Record implements Recorder.
func (Nop) Record(context.Context, Entry) error { return nil }
