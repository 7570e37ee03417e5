// Package report renders a business day's orders as an Excel workbook.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mmynk/pokehouse/internal/bowl"
	"github.com/mmynk/pokehouse/internal/models"
)

// Sheet names of the daily workbook.
const (
	SummarySheet = "Summary"
	OrdersSheet  = "Orders"
	BowlsSheet   = "Bowls"
)

// SizeSummary aggregates one size's sales over a day.
type SizeSummary struct {
	Size    string
	Bowls   int
	Revenue float64
}

// Summarize totals bowls and line revenue per size, ordered by size name.
// Revenue is before order discounts.
func Summarize(orders []*models.Order) []SizeSummary {
	bySize := make(map[string]*SizeSummary)
	for _, o := range orders {
		for _, line := range o.Bowls {
			s, ok := bySize[line.Size]
			if !ok {
				s = &SizeSummary{Size: line.Size}
				bySize[line.Size] = s
			}
			s.Bowls += line.Amount
			s.Revenue = bowl.RoundCents(s.Revenue + line.Price)
		}
	}

	out := make([]SizeSummary, 0, len(bySize))
	for _, s := range bySize {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Size < out[j].Size })
	return out
}

// Daily builds the workbook for day. The caller must close the returned file.
func Daily(day string, orders []*models.Order, loc *time.Location) (*excelize.File, error) {
	f := excelize.NewFile()

	// The default sheet becomes the summary.
	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), SummarySheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to name summary sheet: %w", err)
	}
	for _, name := range []string{OrdersSheet, BowlsSheet} {
		if _, err := f.NewSheet(name); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	if err := writeSummary(f, day, orders); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := writeOrders(f, orders, loc); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := writeBowls(f, orders); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

// WriteDaily writes the workbook for day to w.
func WriteDaily(w io.Writer, day string, orders []*models.Order, loc *time.Location) error {
	f, err := Daily(day, orders, loc)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, day string, orders []*models.Order) error {
	var units int
	var total, discount float64
	for _, o := range orders {
		units += o.Units()
		total += o.Total
		discount += o.Discount
	}

	rows := [][]interface{}{
		{"day", day},
		{"orders", len(orders)},
		{"bowls", units},
		{"discounts", bowl.RoundCents(discount)},
		{"revenue", bowl.RoundCents(total)},
		{},
		{"size", "bowls", "line_revenue"},
	}
	for _, s := range Summarize(orders) {
		rows = append(rows, []interface{}{s.Size, s.Bowls, s.Revenue})
	}
	return writeRows(f, SummarySheet, rows)
}

func writeOrders(f *excelize.File, orders []*models.Order, loc *time.Location) error {
	rows := [][]interface{}{
		{"order_id", "customer_id", "created_at", "units", "subtotal", "discount", "total", "notes"},
	}
	for _, o := range orders {
		rows = append(rows, []interface{}{
			o.ID,
			o.CustomerID,
			time.Unix(o.CreatedAt, 0).In(loc).Format(time.DateTime),
			o.Units(),
			o.Subtotal,
			o.Discount,
			o.Total,
			o.Notes,
		})
	}
	return writeRows(f, OrdersSheet, rows)
}

func writeBowls(f *excelize.File, orders []*models.Order) error {
	rows := [][]interface{}{
		{"order_id", "size", "base", "proteins", "ingredients", "amount", "price"},
	}
	for _, o := range orders {
		for _, line := range o.Bowls {
			rows = append(rows, []interface{}{
				o.ID,
				line.Size,
				line.Base,
				strings.Join(line.Proteins, ", "),
				strings.Join(line.Ingredients, ", "),
				line.Amount,
				line.Price,
			})
		}
	}
	return writeRows(f, BowlsSheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
