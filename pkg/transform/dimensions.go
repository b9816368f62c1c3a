package transform

import (
	"database/sql"
	"sort"
	"strings"
	"time"

	"github.com/zuraxy/delivery-warehouse/pkg/models"
	"github.com/zuraxy/delivery-warehouse/pkg/timeutil"
)

// NormalizeCategory canonicalizes a raw product category: trim, lowercase,
// strip internal whitespace, crude singularization. Returns nil for absent
// or empty categories.
func NormalizeCategory(raw sql.NullString) *string {
	if !raw.Valid {
		return nil
	}
	s := strings.ToLower(strings.TrimSpace(raw.String))
	s = strings.Join(strings.Fields(s), "")
	s = singularize(s)
	if s == "" {
		return nil
	}
	return &s
}

// singularize applies the source data's crude English plural rules:
// batteries -> battery, classes -> class, shoes -> shoes (keep -es),
// bags -> bag, glass -> glass (keep -ss).
func singularize(t string) string {
	switch {
	case strings.HasSuffix(t, "ies") && len(t) > 3:
		return t[:len(t)-3] + "y"
	case strings.HasSuffix(t, "sses"):
		return t[:len(t)-2]
	case strings.HasSuffix(t, "es"):
		return t
	case strings.HasSuffix(t, "s") && !strings.HasSuffix(t, "ss"):
		return t[:len(t)-1]
	}
	return t
}

// ProductDimension maps raw products to dim_product rows. Rows without a
// product id are dropped (nothing could ever join against them); duplicate
// ids keep the last occurrence.
func ProductDimension(products []models.Product) []models.ProductDim {
	out := make([]models.ProductDim, 0, len(products))
	seen := make(map[int64]int, len(products))

	for _, p := range products {
		if !p.ID.Valid {
			continue
		}
		row := models.ProductDim{
			ProductID:    p.ID.Int64,
			Name:         p.Name.String,
			Category:     NormalizeCategory(p.Category),
			CurrentPrice: p.Price.Float64,
			LastModified: p.UpdatedAt.Time,
		}
		if i, dup := seen[row.ProductID]; dup {
			out[i] = row
		} else {
			seen[row.ProductID] = len(out)
			out = append(out, row)
		}
	}
	return out
}

// UserDimension maps raw users to dim_user rows. Date of birth goes through
// the date normalizer and keeps only the calendar date.
func UserDimension(users []models.User) []models.UserDim {
	out := make([]models.UserDim, 0, len(users))
	seen := make(map[int64]int, len(users))

	for _, u := range users {
		if !u.ID.Valid {
			continue
		}
		row := models.UserDim{
			UserID:       u.ID.Int64,
			City:         optString(u.City),
			Country:      optString(u.Country),
			Gender:       optString(u.Gender),
			LastModified: u.UpdatedAt.Time,
		}
		if t, ok := ParseNullDate(u.DateOfBirth); ok {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			row.DateOfBirth = &d
		}
		if i, dup := seen[row.UserID]; dup {
			out[i] = row
		} else {
			seen[row.UserID] = len(out)
			out = append(out, row)
		}
	}
	return out
}

// RiderDimension left-joins riders to couriers on courier id. Unmatched
// riders keep a nil courier name; last_modified is the most recent of the
// rider and courier updatedAt values that are present.
func RiderDimension(riders []models.Rider, couriers []models.Courier) []models.RiderDim {
	type courierInfo struct {
		name      sql.NullString
		updatedAt sql.NullTime
	}
	couriersByID := make(map[int64]courierInfo, len(couriers))
	for _, c := range couriers {
		if !c.ID.Valid {
			continue
		}
		couriersByID[c.ID.Int64] = courierInfo{name: c.Name, updatedAt: c.UpdatedAt}
	}

	out := make([]models.RiderDim, 0, len(riders))
	seen := make(map[int64]int, len(riders))

	for _, r := range riders {
		if !r.ID.Valid {
			continue
		}
		row := models.RiderDim{
			RiderID:     r.ID.Int64,
			VehicleType: optString(r.VehicleType),
			Gender:      optString(r.Gender),
		}

		courierUpdated := sql.NullTime{}
		if r.CourierID.Valid {
			if c, ok := couriersByID[r.CourierID.Int64]; ok {
				row.CourierName = optString(c.name)
				courierUpdated = c.updatedAt
			}
		}
		if latest, ok := timeutil.Latest(r.UpdatedAt, courierUpdated); ok {
			row.LastModified = latest
		}

		if i, dup := seen[row.RiderID]; dup {
			out[i] = row
		} else {
			seen[row.RiderID] = len(out)
			out = append(out, row)
		}
	}
	return out
}

// DateDimension parses every order's delivery date and derives dim_date rows
// for the distinct calendar days observed, sorted ascending. It also returns
// the parsed delivery instant per order id (consumed by the fact transform)
// and the count of orders whose delivery date could not be parsed.
func DateDimension(orders []models.Order) ([]models.DateDim, map[int64]time.Time, int) {
	parsed := make(map[int64]time.Time, len(orders))
	days := make(map[int64]time.Time)
	unparseable := 0

	for _, o := range orders {
		t, ok := ParseNullDate(o.DeliveryDate)
		if !ok {
			if o.DeliveryDate.Valid && strings.TrimSpace(o.DeliveryDate.String) != "" {
				unparseable++
			}
			continue
		}
		parsed[o.ID] = t
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		days[DateID(day)] = day
	}

	out := make([]models.DateDim, 0, len(days))
	for id, day := range days {
		out = append(out, models.DateDim{
			DateID:    id,
			Year:      day.Year(),
			Quarter:   (int(day.Month())-1)/3 + 1,
			Month:     int(day.Month()),
			Day:       day.Day(),
			DayOfWeek: mondayIndexed(day.Weekday()),
			IsWeekend: isWeekend(day.Weekday()),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateID < out[j].DateID })

	return out, parsed, unparseable
}

// mondayIndexed converts Go's Sunday=0 weekday to the warehouse convention
// of Monday=0.
func mondayIndexed(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

func isWeekend(wd time.Weekday) bool {
	return wd == time.Saturday || wd == time.Sunday
}

func optString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
