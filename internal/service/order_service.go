package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/pokehouse/internal/catalog"
	"github.com/mmynk/pokehouse/internal/metrics"
	"github.com/mmynk/pokehouse/internal/middleware"
	"github.com/mmynk/pokehouse/internal/order"
	"github.com/mmynk/pokehouse/internal/storage"
	pb "github.com/mmynk/pokehouse/pkg/pokeapi"
)

// maxNotesLength bounds the free-text special requests on an order.
const maxNotesLength = 500

// OrderService implements the Connect OrderService.
type OrderService struct {
	catalog  *catalog.Catalog
	ledger   *order.Ledger
	store    storage.Store
	metrics  *metrics.Metrics
	location *time.Location
	now      func() time.Time
}

// NewOrderService creates an OrderService. Orders are dated by their
// business day in loc.
func NewOrderService(c *catalog.Catalog, ledger *order.Ledger, store storage.Store, m *metrics.Metrics, loc *time.Location) *OrderService {
	return &OrderService{
		catalog:  c,
		ledger:   ledger,
		store:    store,
		metrics:  m,
		location: loc,
		now:      time.Now,
	}
}

// PlaceOrder builds the requested bowls, admits them against today's
// quotas, prices the order and persists it. Nothing stays reserved when
// any step fails.
func (s *OrderService) PlaceOrder(
	ctx context.Context,
	req *connect.Request[pb.PlaceOrderRequest],
) (*connect.Response[pb.PlaceOrderResponse], error) {
	customerID := callerID(ctx)

	if len(req.Msg.Bowls) == 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("order must contain at least one bowl"))
	}
	if len(req.Msg.Notes) > maxNotesLength {
		return nil, connect.NewError(connect.CodeInvalidArgument,
			fmt.Errorf("notes must be at most %d characters", maxNotesLength))
	}

	o := order.New(s.ledger)
	o.SetNotes(req.Msg.Notes)
	for i, reqBowl := range req.Msg.Bowls {
		b, err := buildBowl(s.catalog, reqBowl)
		if err == nil {
			err = o.AddBowl(b)
		}
		if err != nil {
			o.Cancel()
			if errors.Is(err, order.ErrQuotaExceeded) {
				s.metrics.RecordQuotaRejection(reqBowl.Size)
			}
			return nil, toConnectError(fmt.Errorf("bowl %d: %w", i+1, err))
		}
	}

	if _, err := o.ComputeTotal(); err != nil {
		o.Cancel()
		return nil, toConnectError(err)
	}

	now := s.now()
	record, err := o.Record(customerID, order.BusinessDay(now, s.location), now)
	if err != nil {
		o.Cancel()
		return nil, toConnectError(err)
	}
	if err := s.store.SaveOrder(ctx, record); err != nil {
		o.Cancel()
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("failed to save order: %w", err))
	}

	bySize := make(map[string]int)
	for _, line := range record.Bowls {
		bySize[line.Size] += line.Amount
	}
	s.metrics.RecordOrder(bySize, record.Total)
	publishRemaining(s.metrics, s.ledger)

	slog.Info("Order placed",
		"order_id", record.ID,
		"customer_id", customerID,
		"units", record.Units(),
		"total", record.Total,
		"discounted", record.Discounted,
	)

	return connect.NewResponse(&pb.PlaceOrderResponse{Order: orderToProto(record)}), nil
}

// GetOrder returns one of the caller's orders. Orders of other customers
// are reported as not found.
func (s *OrderService) GetOrder(
	ctx context.Context,
	req *connect.Request[pb.GetOrderRequest],
) (*connect.Response[pb.GetOrderResponse], error) {
	if req.Msg.OrderID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("order_id is required"))
	}

	o, err := s.store.GetOrder(ctx, req.Msg.OrderID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, toConnectError(err)
		}
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("failed to get order: %w", err))
	}
	if o.CustomerID != callerID(ctx) {
		return nil, toConnectError(fmt.Errorf("order %q: %w", req.Msg.OrderID, storage.ErrNotFound))
	}

	return connect.NewResponse(&pb.GetOrderResponse{Order: orderToProto(o)}), nil
}

// ListOrders returns the caller's past orders, newest first.
func (s *OrderService) ListOrders(
	ctx context.Context,
	req *connect.Request[pb.ListOrdersRequest],
) (*connect.Response[pb.ListOrdersResponse], error) {
	orders, err := s.store.ListOrders(ctx, callerID(ctx))
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("failed to list orders: %w", err))
	}

	out := make([]pb.Order, len(orders))
	for i, o := range orders {
		out[i] = orderToProto(o)
	}
	return connect.NewResponse(&pb.ListOrdersResponse{Orders: out}), nil
}

// callerID returns the customer ID set by the customer interceptor, or the
// guest ID when the interceptor is not installed.
func callerID(ctx context.Context) string {
	if id := middleware.GetCustomerID(ctx); id != "" {
		return id
	}
	return middleware.GuestCustomerID
}

func publishRemaining(m *metrics.Metrics, ledger *order.Ledger) {
	for _, a := range ledger.Snapshot() {
		m.SetRemaining(a.Size, a.Remaining)
	}
}
