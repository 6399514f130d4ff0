// pkg/invoice/normalize.go

package invoice

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrMalformedPayload is returned when the request body is not a JSON object.
var ErrMalformedPayload = errors.New("payload must be a JSON object")

// legacyKeys are only present in the flat payload layout. A non-empty value
// for any of them selects the legacy shape.
var legacyKeys = []string{
	"customerName",
	"customerAddress",
	"customerMobile",
	"customerEmail",
	"inNumber",
}

// Bounds on a numeric input. Anything larger or finer is treated as invalid.
const (
	maxAmountText   = 64
	maxAmountDigits = 24
	maxAmountScale  = 24
)

// clientDateLayouts are tried in order when reading a client supplied date.
var clientDateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	DateLayout,
	"02/01/2006",
}

type fields map[string]json.RawMessage

// Normalize maps a raw request body onto the canonical Order.
//
// Missing or unparsable numbers become zero and mistyped strings become
// empty; only a body that is not a JSON object is rejected. The issue date
// is always taken from now.
func Normalize(body []byte, now time.Time) (Order, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		body = []byte("{}")
	}

	var f fields
	if err := json.Unmarshal(body, &f); err != nil || f == nil {
		return Order{}, fmt.Errorf("normalize order: %w", ErrMalformedPayload)
	}

	var o Order
	if isLegacy(f) {
		o = fromLegacy(f)
	} else {
		o = fromNested(f)
	}

	o.InvoiceID = strings.TrimSpace(o.InvoiceID)
	if o.InvoiceID == "" {
		o.InvoiceID = SynthesizeID(now)
	}
	o.IssueDate = now
	return o, nil
}

// SynthesizeID builds the fallback invoice id from a timestamp.
func SynthesizeID(now time.Time) string {
	return "IN-" + strconv.FormatInt(now.UnixMilli(), 10)
}

func isLegacy(f fields) bool {
	for _, key := range legacyKeys {
		if f.str(key) != "" {
			return true
		}
	}
	return false
}

func fromLegacy(f fields) Order {
	return Order{
		Shape:     ShapeLegacy,
		InvoiceID: f.str("inNumber"),
		Customer: Customer{
			Name:    f.str("customerName"),
			Address: f.str("customerAddress"),
			Phone:   f.str("customerMobile"),
			Email:   f.str("customerEmail"),
		},
		ClientDate:     clientDate(f.str("dateOfIssue")),
		LineItems:      f.items("products", "name"),
		DeliveryCharge: f.amount("deliveryCharge"),
		Discount:       f.amount("discount"),
		Advance:        f.amount("advanceAmount"),
	}
}

func fromNested(f fields) Order {
	c := f.object("customer")
	return Order{
		Shape:     ShapeNested,
		InvoiceID: f.str("invoiceNo"),
		Customer: Customer{
			Name:    c.str("name"),
			Address: c.str("address"),
			Phone:   c.str("phone"),
			Email:   c.str("email"),
		},
		ClientDate:     clientDate(f.str("date")),
		LineItems:      f.items("products", "description"),
		DeliveryCharge: f.amount("deliveryCharge"),
		Discount:       f.amount("discount"),
		Advance:        f.amount("advance"),
	}
}

// clientDate reformats a parsable client date as dd.mm.yyyy and keeps
// anything else verbatim.
func clientDate(s string) string {
	for _, layout := range clientDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DateLayout)
		}
	}
	return s
}

func (f fields) str(key string) string {
	raw, ok := f[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// amount reads a JSON number or numeric string. Negative values are invalid
// for every monetary input and quantity, so they read as zero too, as do
// values outside the bounds above.
func (f fields) amount(key string) decimal.Decimal {
	raw, ok := f[key]
	if !ok {
		return decimal.Zero
	}

	var text string
	var n json.Number
	switch {
	case json.Unmarshal(raw, &n) == nil:
		text = n.String()
	case json.Unmarshal(raw, &text) == nil:
		text = strings.TrimSpace(text)
	default:
		return decimal.Zero
	}

	if len(text) > maxAmountText {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(text)
	if err != nil || d.IsNegative() || !bounded(d) {
		return decimal.Zero
	}
	return d
}

// bounded reports whether d has at most maxAmountDigits whole digits and
// maxAmountScale fraction digits. Exponents are checked before any digits
// are expanded.
func bounded(d decimal.Decimal) bool {
	exp := d.Exponent()
	if exp < -maxAmountScale || exp > maxAmountDigits {
		return false
	}
	whole := len(d.Coefficient().String()) + int(exp)
	return whole <= maxAmountDigits
}

func (f fields) object(key string) fields {
	var obj fields
	if raw, ok := f[key]; ok {
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil
		}
	}
	return obj
}

// items reads the product list, taking the description from descKey.
// A value that is not an array yields no items; an entry that is not an
// object yields a zero item so positions stay stable.
func (f fields) items(key, descKey string) []LineItem {
	raw, ok := f[key]
	if !ok {
		return nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}

	items := make([]LineItem, 0, len(entries))
	for _, entry := range entries {
		var p fields
		if err := json.Unmarshal(entry, &p); err != nil {
			p = nil
		}
		items = append(items, LineItem{
			Description: strings.TrimSpace(p.str(descKey)),
			Quantity:    p.amount("quantity"),
			UnitPrice:   p.amount("price"),
		})
	}
	return items
}
