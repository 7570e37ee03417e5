package service

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mmynk/pokehouse/internal/report"
	pb "github.com/mmynk/pokehouse/pkg/pokeapi"
)

func TestReportHandler(t *testing.T) {
	env := setupTestServer(t)

	_, err := env.orders.PlaceOrder(context.Background(), asCustomer("alice", &pb.PlaceOrderRequest{
		Bowls: []pb.Bowl{{Size: "Large", Base: "rice", Proteins: []string{"tuna"}}},
	}))
	require.NoError(t, err)

	h := NewReportHandler(env.store, time.UTC)
	h.now = func() time.Time { return fixedNow }

	t.Run("defaults to today", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/daily.xlsx", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "orders_2026-10-19.xlsx")

		f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
		require.NoError(t, err)
		defer func() { _ = f.Close() }()

		rows, err := f.GetRows(report.BowlsSheet)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Large", rows[1][1])
	})

	t.Run("other day is empty", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/daily.xlsx?day=2026-10-18", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
		require.NoError(t, err)
		defer func() { _ = f.Close() }()

		rows, err := f.GetRows(report.OrdersSheet)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("bad day", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/daily.xlsx?day=19-10-2026", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
