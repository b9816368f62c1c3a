package transform

import (
	"database/sql"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/zuraxy/delivery-warehouse/pkg/models"
	"github.com/zuraxy/delivery-warehouse/pkg/timeutil"
)

// MissingRiderID marks fact rows whose order has no delivery rider.
const MissingRiderID = -1

// FactStats carries the diagnostic counts emitted by the fact transform.
// They are reported for operational visibility and never block a load.
type FactStats struct {
	Total            int
	MissingOrderID   int
	MissingProductID int
	MissingUnitPrice int
}

// FactTable produces one FactOrderLine per order item. Order items are
// left-joined to orders on order id (an item whose order is missing is still
// emitted with defaulted order fields) and to products on product id to
// bring in the unit price. deliveryDates is the per-order parsed delivery
// instant produced by DateDimension.
//
// last_modified is the most recent of the order, item and product updatedAt
// values that are present; when none is present it stays unknown and the
// loader reloads the row on every run.
//
// The fact id is derived purely from (order_id, product_id) so it is stable
// across runs and survives partial incremental replaces without collisions.
func FactTable(items []models.OrderItem, orders []models.Order, products []models.Product, deliveryDates map[int64]time.Time) ([]models.FactOrderLine, FactStats) {
	ordersByID := make(map[int64]models.Order, len(orders))
	for _, o := range orders {
		ordersByID[o.ID] = o
	}

	type productInfo struct {
		price     sql.NullFloat64
		updatedAt sql.NullTime
	}
	productsByID := make(map[int64]productInfo, len(products))
	for _, p := range products {
		if !p.ID.Valid {
			continue
		}
		productsByID[p.ID.Int64] = productInfo{price: p.Price, updatedAt: p.UpdatedAt}
	}

	out := make([]models.FactOrderLine, 0, len(items))
	stats := FactStats{}

	for _, item := range items {
		if !item.OrderID.Valid {
			// Without an order id the row has no replace key and could
			// never be joined; it is dropped, not defaulted.
			stats.MissingOrderID++
			continue
		}
		orderID := item.OrderID.Int64

		row := models.FactOrderLine{
			OrderID: orderID,
			RiderID: MissingRiderID,
		}

		if !item.ProductID.Valid {
			stats.MissingProductID++
		} else {
			row.ProductID = item.ProductID.Int64
		}

		order, orderFound := ordersByID[orderID]
		if orderFound {
			if order.UserID.Valid {
				row.UserID = order.UserID.Int64
			}
			if order.DeliveryRiderID.Valid {
				row.RiderID = order.DeliveryRiderID.Int64
			}
			if t, ok := deliveryDates[orderID]; ok {
				id := DateID(t)
				row.DeliveryDateID = &id
			}
		}

		product, productFound := productsByID[row.ProductID]
		if productFound && product.price.Valid {
			row.UnitPrice = product.price.Float64
		} else {
			stats.MissingUnitPrice++
		}

		if item.Quantity.Valid && item.Quantity.Int64 > 0 {
			row.Quantity = item.Quantity.Int64
		}
		row.TotalPrice = float64(row.Quantity) * row.UnitPrice

		sources := []sql.NullTime{item.UpdatedAt}
		if orderFound {
			sources = append(sources, order.UpdatedAt)
		}
		if productFound {
			sources = append(sources, product.updatedAt)
		}
		if latest, ok := timeutil.Latest(sources...); ok {
			row.LastModified = latest
		}

		row.FactID = factID(row.OrderID, row.ProductID)
		out = append(out, row)
		stats.Total++
	}

	return out, stats
}

// factID hashes (order_id, product_id) into a positive 63-bit surrogate key.
func factID(orderID, productID int64) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(strconv.FormatInt(orderID, 10)))
	_, _ = h.Write([]byte{':'})
	_, _ = h.Write([]byte(strconv.FormatInt(productID, 10)))
	return int64(h.Sum64() & (1<<63 - 1))
}
