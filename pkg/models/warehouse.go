package models

import "time"

// Canonical warehouse records. Each type exposes its replace key, its change
// timestamp and its column values in target-table order; the incremental
// loader works purely against that surface.
//
// A zero LastModified means the change time is unknown; the loader treats
// unknown as changed, so such rows are conservatively reloaded every run.

// ProductDim is one row of dim_product, keyed by the natural product id.
type ProductDim struct {
	ProductID    int64
	Name         string
	Category     *string
	CurrentPrice float64
	LastModified time.Time
}

func (p ProductDim) Key() int64 { return p.ProductID }

func (p ProductDim) ChangedAt() (time.Time, bool) {
	return p.LastModified, !p.LastModified.IsZero()
}

func (p ProductDim) Values() []any {
	return []any{p.ProductID, p.Name, p.Category, p.CurrentPrice, p.LastModified}
}

// UserDim is one row of dim_user.
type UserDim struct {
	UserID       int64
	City         *string
	Country      *string
	Gender       *string
	DateOfBirth  *time.Time
	LastModified time.Time
}

func (u UserDim) Key() int64 { return u.UserID }

func (u UserDim) ChangedAt() (time.Time, bool) {
	return u.LastModified, !u.LastModified.IsZero()
}

func (u UserDim) Values() []any {
	return []any{u.UserID, u.City, u.Country, u.Gender, u.DateOfBirth, u.LastModified}
}

// RiderDim is one row of dim_rider. CourierName is nil when the rider's
// courier has no matching row. LastModified is the most recent updatedAt of
// the rider and courier sides.
type RiderDim struct {
	RiderID      int64
	VehicleType  *string
	CourierName  *string
	Gender       *string
	LastModified time.Time
}

func (r RiderDim) Key() int64 { return r.RiderID }

func (r RiderDim) ChangedAt() (time.Time, bool) {
	return r.LastModified, !r.LastModified.IsZero()
}

func (r RiderDim) Values() []any {
	return []any{r.RiderID, r.VehicleType, r.CourierName, r.Gender, r.LastModified}
}

// DateDim is one row of dim_date. Derived entirely from the calendar date:
// DateID = year*10000 + month*100 + day, DayOfWeek counts from Monday=0.
// Date rows are immutable once observed and carry no change timestamp.
type DateDim struct {
	DateID    int64
	Year      int
	Quarter   int
	Month     int
	Day       int
	DayOfWeek int
	IsWeekend bool
}

func (d DateDim) Key() int64 { return d.DateID }

// ChangedAt always reports absent: dim_date is append-only and never
// participates in watermark filtering.
func (d DateDim) ChangedAt() (time.Time, bool) {
	return time.Time{}, false
}

func (d DateDim) Values() []any {
	return []any{d.DateID, d.Year, d.Quarter, d.Month, d.Day, d.DayOfWeek, d.IsWeekend}
}

// FactOrderLine is one row of fact_orders: one line item of one order.
// RiderID carries the -1 sentinel when the order has no delivery rider.
// The replace key is the order id, so an incremental load swaps whole
// orders rather than individual line items.
type FactOrderLine struct {
	FactID         int64
	OrderID        int64
	ProductID      int64
	UserID         int64
	RiderID        int64
	DeliveryDateID *int64
	Quantity       int64
	UnitPrice      float64
	TotalPrice     float64
	LastModified   time.Time
}

func (f FactOrderLine) Key() int64 { return f.OrderID }

func (f FactOrderLine) ChangedAt() (time.Time, bool) {
	return f.LastModified, !f.LastModified.IsZero()
}

func (f FactOrderLine) Values() []any {
	return []any{
		f.FactID, f.OrderID, f.ProductID, f.UserID, f.RiderID,
		f.DeliveryDateID, f.Quantity, f.UnitPrice, f.TotalPrice, f.LastModified,
	}
}
