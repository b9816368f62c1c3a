package load

// Table identifies a warehouse target table: its name, the column an
// incremental replace deletes by, and the full column list in the order the
// record types emit their values.
type Table struct {
	Name      string
	KeyColumn string
	Columns   []string
}

var (
	// ProductTable is the product dimension.
	ProductTable = Table{
		Name:      "dim_product",
		KeyColumn: "product_id",
		Columns:   []string{"product_id", "name", "category", "current_price", "last_modified"},
	}

	// UserTable is the user dimension.
	UserTable = Table{
		Name:      "dim_user",
		KeyColumn: "user_id",
		Columns:   []string{"user_id", "city", "country", "gender", "date_of_birth", "last_modified"},
	}

	// RiderTable is the rider dimension.
	RiderTable = Table{
		Name:      "dim_rider",
		KeyColumn: "rider_id",
		Columns:   []string{"rider_id", "vehicle_type", "courier_name", "gender", "last_modified"},
	}

	// DateTable is the append-only date dimension.
	DateTable = Table{
		Name:      "dim_date",
		KeyColumn: "date_id",
		Columns:   []string{"date_id", "year", "quarter", "month", "day", "day_of_week", "is_weekend"},
	}

	// FactTable is the order-line fact table. The replace key is order_id:
	// an incremental load swaps whole orders, never single line items.
	FactTable = Table{
		Name:      "fact_orders",
		KeyColumn: "order_id",
		Columns: []string{
			"fact_id", "order_id", "product_id", "user_id", "rider_id",
			"delivery_date_id", "quantity", "unit_price", "total_price", "last_modified",
		},
	}
)
