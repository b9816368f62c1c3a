package transform

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zuraxy/delivery-warehouse/pkg/models"
)

func TestFactTable(t *testing.T) {
	orderUpdated := time.Date(2024, 3, 8, 10, 0, 0, 0, time.UTC)
	itemUpdated := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)
	productUpdated := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	orders := []models.Order{
		{
			ID:              1,
			UserID:          nullInt(7),
			DeliveryRiderID: nullInt(3),
			DeliveryDate:    nullStr("2024-03-10"),
			UpdatedAt:       nullTime(orderUpdated),
		},
	}
	items := []models.OrderItem{
		{OrderID: nullInt(1), ProductID: nullInt(5), Quantity: nullInt(3), UpdatedAt: nullTime(itemUpdated)},
	}
	products := []models.Product{
		{ID: nullInt(5), Price: sql.NullFloat64{Float64: 19.99, Valid: true}, UpdatedAt: nullTime(productUpdated)},
	}

	_, deliveryDates, _ := DateDimension(orders)

	facts, stats := FactTable(items, orders, products, deliveryDates)
	require.Len(t, facts, 1)
	assert.Equal(t, FactStats{Total: 1}, stats)

	f := facts[0]
	assert.Equal(t, int64(1), f.OrderID)
	assert.Equal(t, int64(5), f.ProductID)
	assert.Equal(t, int64(7), f.UserID)
	assert.Equal(t, int64(3), f.RiderID)
	assert.Equal(t, int64(3), f.Quantity)
	assert.Equal(t, 19.99, f.UnitPrice)
	assert.InDelta(t, 59.97, f.TotalPrice, 1e-9)
	require.NotNil(t, f.DeliveryDateID)
	assert.Equal(t, int64(20240310), *f.DeliveryDateID)
	// Item updatedAt is the most recent of the three sources.
	assert.Equal(t, itemUpdated, f.LastModified)
	assert.Positive(t, f.FactID)
}

func TestFactTable_Defaults(t *testing.T) {
	items := []models.OrderItem{
		// Order id missing: dropped.
		{ProductID: nullInt(5), Quantity: nullInt(1)},
		// Nothing joins: every dimension reference defaults.
		{OrderID: nullInt(42), Quantity: nullInt(2)},
		// Negative quantity is treated as zero.
		{OrderID: nullInt(43), ProductID: nullInt(9), Quantity: sql.NullInt64{Int64: -4, Valid: true}},
	}

	facts, stats := FactTable(items, nil, nil, nil)
	require.Len(t, facts, 2)
	assert.Equal(t, 1, stats.MissingOrderID)
	assert.Equal(t, 1, stats.MissingProductID)
	assert.Equal(t, 2, stats.MissingUnitPrice)

	orphan := facts[0]
	assert.Equal(t, int64(42), orphan.OrderID)
	assert.Equal(t, int64(0), orphan.ProductID)
	assert.Equal(t, int64(0), orphan.UserID)
	assert.Equal(t, int64(MissingRiderID), orphan.RiderID)
	assert.Nil(t, orphan.DeliveryDateID)
	assert.Equal(t, 0.0, orphan.UnitPrice)
	assert.True(t, orphan.LastModified.IsZero())

	negQty := facts[1]
	assert.Equal(t, int64(0), negQty.Quantity)
	assert.Equal(t, 0.0, negQty.TotalPrice)
}

func TestFactID_Stable(t *testing.T) {
	a := factID(1, 5)
	b := factID(1, 5)
	assert.Equal(t, a, b)
	assert.Positive(t, a)

	// Different line items of the same order get distinct ids, and the
	// separator keeps (12, 3) apart from (1, 23).
	assert.NotEqual(t, factID(1, 5), factID(1, 6))
	assert.NotEqual(t, factID(12, 3), factID(1, 23))
}
