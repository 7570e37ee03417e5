package service

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmynk/pokehouse/internal/order"
	"github.com/mmynk/pokehouse/internal/report"
	"github.com/mmynk/pokehouse/internal/storage"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler serves the daily sales workbook. The day query parameter
// (YYYY-MM-DD) defaults to today.
type ReportHandler struct {
	store    storage.Store
	location *time.Location
	now      func() time.Time
}

// NewReportHandler creates a ReportHandler reading orders from store.
func NewReportHandler(store storage.Store, loc *time.Location) *ReportHandler {
	return &ReportHandler{store: store, location: loc, now: time.Now}
}

func (h *ReportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	day := r.URL.Query().Get("day")
	if day == "" {
		day = order.BusinessDay(h.now(), h.location)
	} else if _, err := time.Parse(order.DayLayout, day); err != nil {
		http.Error(w, fmt.Sprintf("invalid day %q, want YYYY-MM-DD", day), http.StatusBadRequest)
		return
	}

	orders, err := h.store.ListOrdersByDay(r.Context(), day)
	if err != nil {
		slog.Error("Failed to load orders for report", "day", day, "error", err)
		http.Error(w, "failed to load orders", http.StatusInternalServerError)
		return
	}

	// Render fully before writing so a failure can still send an error status.
	var buf bytes.Buffer
	if err := report.WriteDaily(&buf, day, orders, h.location); err != nil {
		slog.Error("Failed to render report", "day", day, "error", err)
		http.Error(w, "failed to render report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"orders_%s.xlsx\"", day))
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("Failed to send report", "day", day, "error", err)
	}
}
