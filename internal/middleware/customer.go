package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// CustomerIDKey is the context key for storing the calling customer's ID.
	CustomerIDKey contextKey = "customer_id"

	// CustomerHeader carries the customer ID on requests.
	CustomerHeader = "X-Customer-ID"

	// GuestCustomerID is used when a request does not identify its customer.
	GuestCustomerID = "guest"

	maxCustomerIDLength = 64
)

// GetCustomerID extracts the customer ID from the context.
// Returns empty string if not found.
func GetCustomerID(ctx context.Context) string {
	customerID, _ := ctx.Value(CustomerIDKey).(string)
	return customerID
}

// WithCustomerID returns a copy of ctx carrying customerID.
func WithCustomerID(ctx context.Context, customerID string) context.Context {
	return context.WithValue(ctx, CustomerIDKey, customerID)
}

// CustomerFromHeader returns the customer ID sent in a request header, or the guest ID when
// the header is missing or unusable. There is no authentication: the ID only
// groups a caller's order history.
func CustomerFromHeader(value string) string {
	id := strings.TrimSpace(value)
	if id == "" || len(id) > maxCustomerIDLength {
		return GuestCustomerID
	}
	return id
}

// CustomerInterceptor returns a Connect interceptor that puts the caller's
// customer ID into the context.
func CustomerInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			ctx = WithCustomerID(ctx, CustomerFromHeader(req.Header().Get(CustomerHeader)))
			return next(ctx, req)
		}
	}
}
