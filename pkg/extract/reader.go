// Package extract issues the six fixed read-only queries against the
// operational store and returns typed raw rows.
package extract

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/zuraxy/delivery-warehouse/pkg/database"
	"github.com/zuraxy/delivery-warehouse/pkg/models"
)

const (
	ordersQuery = `SELECT id, orderNumber, userId, deliveryDate, deliveryRiderId, createdAt, updatedAt
		FROM Orders`

	orderItemsQuery = `SELECT OrderId, ProductId, quantity, notes, createdAt, updatedAt
		FROM OrderItems`

	productsQuery = `SELECT id, productCode, category, description, name, price, createdAt, updatedAt
		FROM Products`

	usersQuery = `SELECT id, username, firstName, lastName, address1, address2, city, country, zipCode, phoneNumber, dateOfBirth, gender, createdAt, updatedAt
		FROM Users`

	ridersQuery = `SELECT id, firstName, lastName, vehicleType, courierId, age, gender, createdAt, updatedAt
		FROM Riders`

	couriersQuery = `SELECT id, name, createdAt, updatedAt
		FROM Couriers`
)

// Snapshot holds one run's extracted view of the source, taken before any
// transform starts so every transformer works from the same rows.
type Snapshot struct {
	Orders     []models.Order
	OrderItems []models.OrderItem
	Products   []models.Product
	Users      []models.User
	Riders     []models.Rider
	Couriers   []models.Courier
}

// Reader extracts raw entity rows from the operational store.
type Reader struct {
	db     *database.SourceDB
	logger *zap.Logger
}

// NewReader creates a source reader.
func NewReader(db *database.SourceDB, logger *zap.Logger) *Reader {
	return &Reader{db: db, logger: logger}
}

// ReadAll extracts all six source relations.
func (r *Reader) ReadAll(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}
	var err error

	if snap.Orders, err = r.Orders(ctx); err != nil {
		return nil, err
	}
	if snap.OrderItems, err = r.OrderItems(ctx); err != nil {
		return nil, err
	}
	if snap.Products, err = r.Products(ctx); err != nil {
		return nil, err
	}
	if snap.Users, err = r.Users(ctx); err != nil {
		return nil, err
	}
	if snap.Riders, err = r.Riders(ctx); err != nil {
		return nil, err
	}
	if snap.Couriers, err = r.Couriers(ctx); err != nil {
		return nil, err
	}

	r.logger.Info("Extracted source tables",
		zap.Int("orders", len(snap.Orders)),
		zap.Int("order_items", len(snap.OrderItems)),
		zap.Int("products", len(snap.Products)),
		zap.Int("users", len(snap.Users)),
		zap.Int("riders", len(snap.Riders)),
		zap.Int("couriers", len(snap.Couriers)))

	return snap, nil
}

// Orders reads the Orders relation.
func (r *Reader) Orders(ctx context.Context) ([]models.Order, error) {
	rows, err := r.db.QueryContext(ctx, ordersQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query Orders: %w", err)
	}
	defer rows.Close()

	var out []models.Order
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.UserID, &o.DeliveryDate, &o.DeliveryRiderID, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan Orders row: %w", err)
		}
		out = append(out, o)
	}
	return out, rowsErr(rows, "Orders")
}

// OrderItems reads the OrderItems relation.
func (r *Reader) OrderItems(ctx context.Context) ([]models.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, orderItemsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query OrderItems: %w", err)
	}
	defer rows.Close()

	var out []models.OrderItem
	for rows.Next() {
		var i models.OrderItem
		if err := rows.Scan(&i.OrderID, &i.ProductID, &i.Quantity, &i.Notes, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan OrderItems row: %w", err)
		}
		out = append(out, i)
	}
	return out, rowsErr(rows, "OrderItems")
}

// Products reads the Products relation.
func (r *Reader) Products(ctx context.Context) ([]models.Product, error) {
	rows, err := r.db.QueryContext(ctx, productsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query Products: %w", err)
	}
	defer rows.Close()

	var out []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Code, &p.Category, &p.Description, &p.Name, &p.Price, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan Products row: %w", err)
		}
		out = append(out, p)
	}
	return out, rowsErr(rows, "Products")
}

// Users reads the Users relation.
func (r *Reader) Users(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, usersQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query Users: %w", err)
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.Address1, &u.Address2,
			&u.City, &u.Country, &u.ZipCode, &u.PhoneNumber, &u.DateOfBirth, &u.Gender, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan Users row: %w", err)
		}
		out = append(out, u)
	}
	return out, rowsErr(rows, "Users")
}

// Riders reads the Riders relation.
func (r *Reader) Riders(ctx context.Context) ([]models.Rider, error) {
	rows, err := r.db.QueryContext(ctx, ridersQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query Riders: %w", err)
	}
	defer rows.Close()

	var out []models.Rider
	for rows.Next() {
		var rd models.Rider
		if err := rows.Scan(&rd.ID, &rd.FirstName, &rd.LastName, &rd.VehicleType, &rd.CourierID, &rd.Age, &rd.Gender, &rd.CreatedAt, &rd.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan Riders row: %w", err)
		}
		out = append(out, rd)
	}
	return out, rowsErr(rows, "Riders")
}

// Couriers reads the Couriers relation.
func (r *Reader) Couriers(ctx context.Context) ([]models.Courier, error) {
	rows, err := r.db.QueryContext(ctx, couriersQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query Couriers: %w", err)
	}
	defer rows.Close()

	var out []models.Courier
	for rows.Next() {
		var c models.Courier
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan Couriers row: %w", err)
		}
		out = append(out, c)
	}
	return out, rowsErr(rows, "Couriers")
}

func rowsErr(rows *sql.Rows, relation string) error {
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed reading %s rows: %w", relation, err)
	}
	return nil
}
