package lineitem

import (
	"testing"
	"time"
)

func TestResolveQuantityItem(t *testing.T) {
	q := ResolveQuantity(&BookingOrder{StockReservationQuantity: 4}, UnitTypeItem)
	if !q.Valid() || q.Quantity == nil || *q.Quantity != 4 {
		t.Fatalf("unexpected resolution %+v", q)
	}

	q = ResolveQuantity(&BookingOrder{}, UnitTypeItem)
	if q.Valid() {
		t.Fatal("expected invalid resolution without stock reservation quantity")
	}
}

func TestResolveQuantityFixed(t *testing.T) {
	q := ResolveQuantity(&BookingOrder{}, UnitTypeFixed)
	if q.Quantity == nil || *q.Quantity != 1 {
		t.Fatalf("expected quantity 1, got %+v", q)
	}

	q = ResolveQuantity(&BookingOrder{Seats: 2}, UnitTypeFixed)
	if q.Units == nil || *q.Units != 1 || q.Seats == nil || *q.Seats != 2 {
		t.Fatalf("expected 1 unit x 2 seats, got %+v", q)
	}
}

func TestResolveQuantityHour(t *testing.T) {
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(3 * time.Hour)
	q := ResolveQuantity(&BookingOrder{BookingStart: &start, BookingEnd: &end}, UnitTypeHour)
	if q.Quantity == nil || *q.Quantity != 3 {
		t.Fatalf("expected 3 hours, got %+v", q)
	}

	// Durations that do not divide evenly stay fractional.
	end = start.Add(90 * time.Minute)
	q = ResolveQuantity(&BookingOrder{BookingStart: &start, BookingEnd: &end}, UnitTypeHour)
	if q.Quantity == nil || *q.Quantity != 1.5 {
		t.Fatalf("expected 1.5 hours, got %+v", q)
	}

	q = ResolveQuantity(&BookingOrder{}, UnitTypeHour)
	if q.Valid() {
		t.Fatal("expected invalid resolution without booking dates")
	}
}

func TestResolveQuantityDayNight(t *testing.T) {
	start := time.Date(2024, 5, 1, 14, 0, 0, 0, time.UTC)
	end := time.Date(2024, 5, 4, 11, 0, 0, 0, time.UTC)

	q := ResolveQuantity(&BookingOrder{BookingStart: &start, BookingEnd: &end}, UnitTypeDay)
	if q.Quantity == nil || *q.Quantity != 3 {
		t.Fatalf("expected 3 days, got %+v", q)
	}

	// Nights use the same half-open range convention.
	q = ResolveQuantity(&BookingOrder{BookingStart: &start, BookingEnd: &end}, UnitTypeNight)
	if q.Quantity == nil || *q.Quantity != 3 {
		t.Fatalf("expected 3 nights, got %+v", q)
	}

	q = ResolveQuantity(&BookingOrder{BookingStart: &start, BookingEnd: &end, Seats: 4}, UnitTypeNight)
	if q.Units == nil || *q.Units != 3 || q.Seats == nil || *q.Seats != 4 {
		t.Fatalf("expected 3 units x 4 seats, got %+v", q)
	}
}

func TestResolveQuantityUnknownUnitType(t *testing.T) {
	q := ResolveQuantity(&BookingOrder{StockReservationQuantity: 2}, UnitType("subscription"))
	if q.Valid() {
		t.Fatalf("expected empty resolution for unknown unit type, got %+v", q)
	}
}

func TestMissingFields(t *testing.T) {
	q := ResolveQuantity(&BookingOrder{}, UnitTypeHour)
	missing := q.MissingFields()
	if len(missing) != 3 || missing[0] != "quantity" || missing[1] != "units" || missing[2] != "seats" {
		t.Fatalf("unexpected missing fields %v", missing)
	}

	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	q = ResolveQuantity(&BookingOrder{BookingStart: &start, BookingEnd: &end, Seats: 2}, UnitTypeHour)
	if !q.Valid() {
		t.Fatalf("expected valid resolution, missing %v", q.MissingFields())
	}
}

func TestSeatsTimesUnitsMatchesQuantity(t *testing.T) {
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(3 * time.Hour)

	seated := ResolveQuantity(&BookingOrder{BookingStart: &start, BookingEnd: &end, Seats: 2}, UnitTypeHour)
	plain := ResolveQuantity(&BookingOrder{BookingStart: &start, BookingEnd: &end}, UnitTypeHour)

	charged := *seated.Units * float64(*seated.Seats)
	if charged != *plain.Quantity*2 {
		t.Fatalf("units x seats = %v, want %v", charged, *plain.Quantity*2)
	}
}
