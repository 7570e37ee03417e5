package pokeapi

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

const (
	MenuServiceName      = "poke.v1.MenuService"
	OrderServiceName     = "poke.v1.OrderService"
	InventoryServiceName = "poke.v1.InventoryService"
)

const (
	MenuServiceGetMenuProcedure   = "/poke.v1.MenuService/GetMenu"
	MenuServiceQuoteBowlProcedure = "/poke.v1.MenuService/QuoteBowl"

	OrderServicePlaceOrderProcedure = "/poke.v1.OrderService/PlaceOrder"
	OrderServiceGetOrderProcedure   = "/poke.v1.OrderService/GetOrder"
	OrderServiceListOrdersProcedure = "/poke.v1.OrderService/ListOrders"

	InventoryServiceGetAvailabilityProcedure = "/poke.v1.InventoryService/GetAvailability"
	InventoryServiceResetDayProcedure        = "/poke.v1.InventoryService/ResetDay"
)

// MenuServiceHandler serves the menu and live bowl prices.
type MenuServiceHandler interface {
	GetMenu(context.Context, *connect.Request[GetMenuRequest]) (*connect.Response[GetMenuResponse], error)
	QuoteBowl(context.Context, *connect.Request[QuoteBowlRequest]) (*connect.Response[QuoteBowlResponse], error)
}

// OrderServiceHandler places orders and serves order history.
type OrderServiceHandler interface {
	PlaceOrder(context.Context, *connect.Request[PlaceOrderRequest]) (*connect.Response[PlaceOrderResponse], error)
	GetOrder(context.Context, *connect.Request[GetOrderRequest]) (*connect.Response[GetOrderResponse], error)
	ListOrders(context.Context, *connect.Request[ListOrdersRequest]) (*connect.Response[ListOrdersResponse], error)
}

// InventoryServiceHandler exposes the daily quotas.
type InventoryServiceHandler interface {
	GetAvailability(context.Context, *connect.Request[GetAvailabilityRequest]) (*connect.Response[GetAvailabilityResponse], error)
	ResetDay(context.Context, *connect.Request[ResetDayRequest]) (*connect.Response[ResetDayResponse], error)
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
}

// route dispatches a service's procedures by exact path.
func route(routes map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := routes[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

// NewMenuServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and
// the handler itself.
func NewMenuServiceHandler(svc MenuServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + MenuServiceName + "/", route(map[string]http.Handler{
		MenuServiceGetMenuProcedure:   connect.NewUnaryHandler(MenuServiceGetMenuProcedure, svc.GetMenu, opts...),
		MenuServiceQuoteBowlProcedure: connect.NewUnaryHandler(MenuServiceQuoteBowlProcedure, svc.QuoteBowl, opts...),
	})
}

// NewOrderServiceHandler builds an HTTP handler from the service implementation.
func NewOrderServiceHandler(svc OrderServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + OrderServiceName + "/", route(map[string]http.Handler{
		OrderServicePlaceOrderProcedure: connect.NewUnaryHandler(OrderServicePlaceOrderProcedure, svc.PlaceOrder, opts...),
		OrderServiceGetOrderProcedure:   connect.NewUnaryHandler(OrderServiceGetOrderProcedure, svc.GetOrder, opts...),
		OrderServiceListOrdersProcedure: connect.NewUnaryHandler(OrderServiceListOrdersProcedure, svc.ListOrders, opts...),
	})
}

// NewInventoryServiceHandler builds an HTTP handler from the service implementation.
func NewInventoryServiceHandler(svc InventoryServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + InventoryServiceName + "/", route(map[string]http.Handler{
		InventoryServiceGetAvailabilityProcedure: connect.NewUnaryHandler(InventoryServiceGetAvailabilityProcedure, svc.GetAvailability, opts...),
		InventoryServiceResetDayProcedure:        connect.NewUnaryHandler(InventoryServiceResetDayProcedure, svc.ResetDay, opts...),
	})
}

// MenuServiceClient is a client for poke.v1.MenuService.
type MenuServiceClient struct {
	getMenu   *connect.Client[GetMenuRequest, GetMenuResponse]
	quoteBowl *connect.Client[QuoteBowlRequest, QuoteBowlResponse]
}

// NewMenuServiceClient constructs a client for poke.v1.MenuService.
// baseURL is the server root, e.g. http://localhost:8080.
func NewMenuServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *MenuServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &MenuServiceClient{
		getMenu:   connect.NewClient[GetMenuRequest, GetMenuResponse](httpClient, baseURL+MenuServiceGetMenuProcedure, opts...),
		quoteBowl: connect.NewClient[QuoteBowlRequest, QuoteBowlResponse](httpClient, baseURL+MenuServiceQuoteBowlProcedure, opts...),
	}
}

func (c *MenuServiceClient) GetMenu(ctx context.Context, req *connect.Request[GetMenuRequest]) (*connect.Response[GetMenuResponse], error) {
	return c.getMenu.CallUnary(ctx, req)
}

func (c *MenuServiceClient) QuoteBowl(ctx context.Context, req *connect.Request[QuoteBowlRequest]) (*connect.Response[QuoteBowlResponse], error) {
	return c.quoteBowl.CallUnary(ctx, req)
}

// OrderServiceClient is a client for poke.v1.OrderService.
type OrderServiceClient struct {
	placeOrder *connect.Client[PlaceOrderRequest, PlaceOrderResponse]
	getOrder   *connect.Client[GetOrderRequest, GetOrderResponse]
	listOrders *connect.Client[ListOrdersRequest, ListOrdersResponse]
}

// NewOrderServiceClient constructs a client for poke.v1.OrderService.
func NewOrderServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *OrderServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &OrderServiceClient{
		placeOrder: connect.NewClient[PlaceOrderRequest, PlaceOrderResponse](httpClient, baseURL+OrderServicePlaceOrderProcedure, opts...),
		getOrder:   connect.NewClient[GetOrderRequest, GetOrderResponse](httpClient, baseURL+OrderServiceGetOrderProcedure, opts...),
		listOrders: connect.NewClient[ListOrdersRequest, ListOrdersResponse](httpClient, baseURL+OrderServiceListOrdersProcedure, opts...),
	}
}

func (c *OrderServiceClient) PlaceOrder(ctx context.Context, req *connect.Request[PlaceOrderRequest]) (*connect.Response[PlaceOrderResponse], error) {
	return c.placeOrder.CallUnary(ctx, req)
}

func (c *OrderServiceClient) GetOrder(ctx context.Context, req *connect.Request[GetOrderRequest]) (*connect.Response[GetOrderResponse], error) {
	return c.getOrder.CallUnary(ctx, req)
}

func (c *OrderServiceClient) ListOrders(ctx context.Context, req *connect.Request[ListOrdersRequest]) (*connect.Response[ListOrdersResponse], error) {
	return c.listOrders.CallUnary(ctx, req)
}

// InventoryServiceClient is a client for poke.v1.InventoryService.
type InventoryServiceClient struct {
	getAvailability *connect.Client[GetAvailabilityRequest, GetAvailabilityResponse]
	resetDay        *connect.Client[ResetDayRequest, ResetDayResponse]
}

// NewInventoryServiceClient constructs a client for poke.v1.InventoryService.
func NewInventoryServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *InventoryServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &InventoryServiceClient{
		getAvailability: connect.NewClient[GetAvailabilityRequest, GetAvailabilityResponse](httpClient, baseURL+InventoryServiceGetAvailabilityProcedure, opts...),
		resetDay:        connect.NewClient[ResetDayRequest, ResetDayResponse](httpClient, baseURL+InventoryServiceResetDayProcedure, opts...),
	}
}

func (c *InventoryServiceClient) GetAvailability(ctx context.Context, req *connect.Request[GetAvailabilityRequest]) (*connect.Response[GetAvailabilityResponse], error) {
	return c.getAvailability.CallUnary(ctx, req)
}

func (c *InventoryServiceClient) ResetDay(ctx context.Context, req *connect.Request[ResetDayRequest]) (*connect.Response[ResetDayResponse], error) {
	return c.resetDay.CallUnary(ctx, req)
}
