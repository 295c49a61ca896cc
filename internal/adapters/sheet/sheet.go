// Package sheet imports customer coordinates from and exports estimates to xlsx workbooks.
package sheet

import (
	"delivery-estimate-service/internal/domain"
	"delivery-estimate-service/internal/services"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SkippedRow is an input row that could not be turned into a customer.
type SkippedRow struct {
	Row    int
	Reason string
}

var headerAliases = map[string][]string{
	"id":       {"id", "customer_id", "customer id"},
	"name":     {"name", "customer_name", "customer name"},
	"lat":      {"lat", "latitude"},
	"lon":      {"lon", "lng", "long", "longitude"},
	"subtotal": {"subtotal", "order_total", "order total"},
}

// parseNumber accepts both "17.38" and the comma-decimal "17,38".
func parseNumber(val string) (float64, error) {
	val = strings.TrimSpace(strings.ReplaceAll(val, ",", "."))
	if val == "" {
		return 0, fmt.Errorf("empty")
	}
	return strconv.ParseFloat(val, 64)
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(headerAliases))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for field, aliases := range headerAliases {
			if _, done := idx[field]; done {
				continue
			}
			for _, a := range aliases {
				if h == a {
					idx[field] = i
				}
			}
		}
	}

	for _, required := range []string{"lat", "lon"} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("header has no %s column", required)
		}
	}
	return idx, nil
}

func cell(row []string, idx map[string]int, field string) string {
	i, ok := idx[field]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// ReadCustomers reads customers from sheetName (the first sheet when empty).
// The first row is a header naming the columns; lat and lon are required while
// id, name and subtotal are optional. Rows with missing or invalid values are
// skipped and reported.
func ReadCustomers(path, sheetName string) ([]domain.Customer, []SkippedRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read customers: open %q: %w", path, err)
	}
	defer f.Close()

	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("read customers: sheet %q: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return []domain.Customer{}, nil, nil
	}

	idx, err := columnIndex(rows[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read customers: sheet %q: %w", sheetName, err)
	}

	customers := make([]domain.Customer, 0, len(rows)-1)
	var skipped []SkippedRow
	for i, row := range rows[1:] {
		rowNum := i + 2

		lat, latErr := parseNumber(cell(row, idx, "lat"))
		lon, lonErr := parseNumber(cell(row, idx, "lon"))
		if latErr != nil || lonErr != nil {
			skipped = append(skipped, SkippedRow{Row: rowNum, Reason: "missing or unparsable coordinates"})
			continue
		}

		loc := domain.Coordinate{Lat: lat, Lon: lon}
		if err := loc.Validate(); err != nil {
			skipped = append(skipped, SkippedRow{Row: rowNum, Reason: err.Error()})
			continue
		}

		var subtotal float64
		hasSubtotal := false
		if raw := cell(row, idx, "subtotal"); raw != "" {
			v, err := parseNumber(raw)
			if err != nil || v < 0 {
				skipped = append(skipped, SkippedRow{Row: rowNum, Reason: "invalid subtotal"})
				continue
			}
			subtotal, hasSubtotal = v, true
		}

		id := cell(row, idx, "id")
		if id == "" {
			id = strconv.Itoa(rowNum)
		}

		customers = append(customers, domain.Customer{
			ID:          id,
			Name:        cell(row, idx, "name"),
			Location:    loc,
			Subtotal:    subtotal,
			HasSubtotal: hasSubtotal,
		})
	}

	return customers, skipped, nil
}

var estimateHeaders = []interface{}{
	"Customer ID", "Customer Name", "Customer Lat", "Customer Lon",
	"Facility ID", "Facility Name", "Distance (km)", "Distance",
	"Duration (min)", "Duration", "Fee", "Fee Policy",
}

// WriteEstimates writes one row per estimate to a new workbook at path.
func WriteEstimates(path, sheetName string, estimates []services.BatchEstimate) error {
	if sheetName == "" {
		sheetName = "Estimates"
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("write estimates: new sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return fmt.Errorf("write estimates: stream writer: %w", err)
	}

	if err := sw.SetRow("A1", estimateHeaders); err != nil {
		return fmt.Errorf("write estimates: header: %w", err)
	}

	for i, e := range estimates {
		cellName, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("write estimates: row %d: %w", i+2, err)
		}

		var facilityID, facilityName, distance, duration string
		if fac := e.Result.NearestFacility; fac != nil {
			facilityID, facilityName = fac.ID, fac.Name
			distance = services.FormatDistance(e.Result.DistanceKm)
			duration = services.FormatDeliveryDuration(e.Result.DurationMinutes)
		}

		row := []interface{}{
			e.Customer.ID, e.Customer.Name, e.Customer.Location.Lat, e.Customer.Location.Lon,
			facilityID, facilityName, e.Result.DistanceKm, distance,
			e.Result.DurationMinutes, duration, e.Result.FeeAmount, e.Result.FeePolicy,
		}
		if err := sw.SetRow(cellName, row); err != nil {
			return fmt.Errorf("write estimates: row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("write estimates: flush: %w", err)
	}

	f.SetActiveSheet(index)
	if sheetName != "Sheet1" {
		f.DeleteSheet("Sheet1")
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("write estimates: save %q: %w", path, err)
	}
	return nil
}
