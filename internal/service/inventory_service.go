package service

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/pokehouse/internal/metrics"
	"github.com/mmynk/pokehouse/internal/order"
	pb "github.com/mmynk/pokehouse/pkg/pokeapi"
)

// InventoryService implements the Connect InventoryService.
type InventoryService struct {
	ledger   *order.Ledger
	metrics  *metrics.Metrics
	location *time.Location
	now      func() time.Time
}

// NewInventoryService creates an InventoryService over ledger.
func NewInventoryService(ledger *order.Ledger, m *metrics.Metrics, loc *time.Location) *InventoryService {
	return &InventoryService{
		ledger:   ledger,
		metrics:  m,
		location: loc,
		now:      time.Now,
	}
}

// GetAvailability reports today's quota, usage and remaining bowls per size.
func (s *InventoryService) GetAvailability(
	ctx context.Context,
	req *connect.Request[pb.GetAvailabilityRequest],
) (*connect.Response[pb.GetAvailabilityResponse], error) {
	return connect.NewResponse(&pb.GetAvailabilityResponse{
		Day:   order.BusinessDay(s.now(), s.location),
		Sizes: availabilityToProto(s.ledger.Snapshot()),
	}), nil
}

// ResetDay zeroes the daily counters.
func (s *InventoryService) ResetDay(
	ctx context.Context,
	req *connect.Request[pb.ResetDayRequest],
) (*connect.Response[pb.ResetDayResponse], error) {
	return connect.NewResponse(&pb.ResetDayResponse{
		Sizes: availabilityToProto(s.Reset()),
	}), nil
}

// Reset zeroes the daily counters and returns the fresh availability. It
// is also the job run by the daily reset schedule.
func (s *InventoryService) Reset() []order.Availability {
	s.ledger.Reset()
	s.metrics.RecordReset()
	publishRemaining(s.metrics, s.ledger)

	slog.Info("Daily ledger reset", "day", order.BusinessDay(s.now(), s.location))
	return s.ledger.Snapshot()
}
