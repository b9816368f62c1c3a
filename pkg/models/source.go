package models

import "database/sql"

// Raw rows as read from the operational store, never mutated. Nullable
// columns use database/sql null types so a bad or absent value survives
// extraction and is resolved during transform instead of failing the read.

// Order is a raw row from the Orders relation. DeliveryDate stays a string
// because the source mixes several human-entered date conventions.
type Order struct {
	ID              int64
	OrderNumber     sql.NullString
	UserID          sql.NullInt64
	DeliveryDate    sql.NullString
	DeliveryRiderID sql.NullInt64
	CreatedAt       sql.NullTime
	UpdatedAt       sql.NullTime
}

// OrderItem is a raw row from the OrderItems relation.
type OrderItem struct {
	OrderID   sql.NullInt64
	ProductID sql.NullInt64
	Quantity  sql.NullInt64
	Notes     sql.NullString
	CreatedAt sql.NullTime
	UpdatedAt sql.NullTime
}

// Product is a raw row from the Products relation.
type Product struct {
	ID          sql.NullInt64
	Code        sql.NullString
	Category    sql.NullString
	Description sql.NullString
	Name        sql.NullString
	Price       sql.NullFloat64
	CreatedAt   sql.NullTime
	UpdatedAt   sql.NullTime
}

// User is a raw row from the Users relation. DateOfBirth stays a string for
// the same reason as Order.DeliveryDate.
type User struct {
	ID          sql.NullInt64
	Username    sql.NullString
	FirstName   sql.NullString
	LastName    sql.NullString
	Address1    sql.NullString
	Address2    sql.NullString
	City        sql.NullString
	Country     sql.NullString
	ZipCode     sql.NullString
	PhoneNumber sql.NullString
	DateOfBirth sql.NullString
	Gender      sql.NullString
	CreatedAt   sql.NullTime
	UpdatedAt   sql.NullTime
}

// Rider is a raw row from the Riders relation.
type Rider struct {
	ID          sql.NullInt64
	FirstName   sql.NullString
	LastName    sql.NullString
	VehicleType sql.NullString
	CourierID   sql.NullInt64
	Age         sql.NullInt64
	Gender      sql.NullString
	CreatedAt   sql.NullTime
	UpdatedAt   sql.NullTime
}

// Courier is a raw row from the Couriers relation.
type Courier struct {
	ID        sql.NullInt64
	Name      sql.NullString
	CreatedAt sql.NullTime
	UpdatedAt sql.NullTime
}
