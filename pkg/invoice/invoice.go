// pkg/invoice/invoice.go

package invoice

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the dd.mm.yyyy form printed on bills.
const DateLayout = "02.01.2006"

// Shape identifies which request payload layout an Order was normalized from.
type Shape string

const (
	ShapeLegacy Shape = "legacy"
	ShapeNested Shape = "nested"
)

// Order is the canonical bill request.
type Order struct {
	InvoiceID string
	// IssueDate is always the generation time, never the client's value.
	IssueDate time.Time
	// ClientDate is the date the client submitted, kept for reference only.
	ClientDate     string
	Customer       Customer
	LineItems      []LineItem
	DeliveryCharge decimal.Decimal
	Discount       decimal.Decimal
	Advance        decimal.Decimal
	Shape          Shape
}

// Customer represents the ordering party.
type Customer struct {
	Name    string
	Address string
	Phone   string
	Email   string
}

// LineItem represents one product row of an order.
type LineItem struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// Total returns quantity * unit price.
func (li LineItem) Total() decimal.Decimal {
	return li.Quantity.Mul(li.UnitPrice)
}

// IssuedOn formats the issue date for printing.
func (o Order) IssuedOn() string {
	return o.IssueDate.Format(DateLayout)
}
