package lineitem

import (
	"fmt"
	"strings"
	"time"

	"github.com/noah-isme/backend-pasar/internal/common"
)

// Quantity is the outcome of resolving an order's charged amount: either a
// plain quantity, or a units x seats split for seated bookings.
type Quantity struct {
	Quantity *float64
	Units    *float64
	Seats    *int
}

// Valid reports whether the resolution produced a chargeable amount.
func (q Quantity) Valid() bool {
	if q.Quantity != nil && *q.Quantity != 0 {
		return true
	}
	return q.Units != nil && *q.Units != 0 && q.Seats != nil && *q.Seats != 0
}

// MissingFields lists which of quantity, units, seats are absent, in the
// order the error message reports them.
func (q Quantity) MissingFields() []string {
	var missing []string
	if q.Quantity == nil || *q.Quantity == 0 {
		missing = append(missing, "quantity")
	}
	if q.Units == nil || *q.Units == 0 {
		missing = append(missing, "units")
	}
	if q.Seats == nil || *q.Seats == 0 {
		missing = append(missing, "seats")
	}
	return missing
}

// ResolveQuantity derives the charged quantity from order data based on the
// listing's unit type. Unknown unit types yield an empty result, which the
// composer rejects.
func ResolveQuantity(order *BookingOrder, unitType UnitType) Quantity {
	if order == nil {
		order = &BookingOrder{}
	}
	switch unitType {
	case UnitTypeItem:
		return itemQuantity(order)
	case UnitTypeFixed:
		return fixedQuantity(order)
	case UnitTypeHour:
		return hourQuantity(order)
	case UnitTypeDay, UnitTypeNight:
		return dateRangeQuantity(order)
	}
	return Quantity{}
}

func itemQuantity(order *BookingOrder) Quantity {
	if order.StockReservationQuantity == 0 {
		return Quantity{}
	}
	return Quantity{Quantity: floatPtr(order.StockReservationQuantity)}
}

// fixedQuantity charges a single session. With seats the quantity is split
// into factors: 1 session x N seats.
func fixedQuantity(order *BookingOrder) Quantity {
	if order.Seats != 0 {
		return Quantity{Units: floatPtr(1), Seats: intPtr(order.Seats)}
	}
	return Quantity{Quantity: floatPtr(1)}
}

func hourQuantity(order *BookingOrder) Quantity {
	var units *float64
	if order.BookingStart != nil && order.BookingEnd != nil {
		units = floatPtr(HoursBetween(*order.BookingStart, *order.BookingEnd))
	}
	if order.Seats != 0 {
		return Quantity{Units: units, Seats: intPtr(order.Seats)}
	}
	return Quantity{Quantity: units}
}

func dateRangeQuantity(order *BookingOrder) Quantity {
	var units *float64
	if order.BookingStart != nil && order.BookingEnd != nil {
		units = floatPtr(float64(DaysBetween(*order.BookingStart, *order.BookingEnd)))
	}
	if order.Seats != 0 {
		return Quantity{Units: units, Seats: intPtr(order.Seats)}
	}
	return Quantity{Quantity: units}
}

// HoursBetween returns the exact decimal hour count between two instants.
// No ceiling is applied; a 90-minute booking is 1.5 hours.
func HoursBetween(start, end time.Time) float64 {
	return end.Sub(start).Hours()
}

// DaysBetween counts calendar days over the half-open range [start, end).
// Nights equal the day count under the same convention, since checkout day
// is the exclusive end.
func DaysBetween(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours() / 24)
}

func missingQuantityError(q Quantity) *common.AppError {
	missing := q.MissingFields()
	message := fmt.Sprintf(
		"Error: orderData is missing the following information: %s. Quantity or either units & seats is required.",
		strings.Join(missing, ", "),
	)
	return common.NewValidationError(message, map[string]any{"missing": missing})
}
