// Package pokeapi defines the Poke House RPC API: message types, procedure
// names, and Connect handler and client constructors.
//
// Messages are plain Go structs carried by a JSON codec registered under
// the "json" name, so any Connect or plain HTTP client can call the
// services by POSTing JSON to the procedure path.
package pokeapi

// Size describes one bowl size on the menu.
type Size struct {
	Name            string  `json:"name"`
	BasePrice       float64 `json:"base_price"`
	MaxProteins     int     `json:"max_proteins"`
	FreeIngredients int     `json:"free_ingredients"`
	DailyQuota      int     `json:"daily_quota"`
}

// Bowl is a bowl configuration as sent by clients.
type Bowl struct {
	Size        string   `json:"size"`
	Base        string   `json:"base,omitempty"`
	Proteins    []string `json:"proteins,omitempty"`
	Ingredients []string `json:"ingredients,omitempty"`
	Amount      int      `json:"amount"`
}

// BowlLine is a priced bowl on an order.
type BowlLine struct {
	Bowl
	Price float64 `json:"price"`
}

// Order is a placed order.
type Order struct {
	OrderID    string     `json:"order_id"`
	CustomerID string     `json:"customer_id"`
	Day        string     `json:"day"`
	Notes      string     `json:"notes,omitempty"`
	Bowls      []BowlLine `json:"bowls"`
	Units      int        `json:"units"`
	Subtotal   float64    `json:"subtotal"`
	Discount   float64    `json:"discount"`
	Total      float64    `json:"total"`
	Discounted bool       `json:"discounted"`
	CreatedAt  int64      `json:"created_at"`
}

// Availability is the remaining daily quota of one size.
type Availability struct {
	Size      string `json:"size"`
	Quota     int    `json:"quota"`
	Used      int    `json:"used"`
	Remaining int    `json:"remaining"`
}

type GetMenuRequest struct{}

type GetMenuResponse struct {
	Sizes       []Size   `json:"sizes"`
	Bases       []string `json:"bases"`
	Proteins    []string `json:"proteins"`
	Ingredients []string `json:"ingredients"`
}

type QuoteBowlRequest struct {
	Bowl Bowl `json:"bowl"`
}

type QuoteBowlResponse struct {
	Price float64 `json:"price"`
	// ExtraIngredients is how many ingredients are charged beyond the free allowance.
	ExtraIngredients int `json:"extra_ingredients"`
}

type PlaceOrderRequest struct {
	Bowls []Bowl `json:"bowls"`
	Notes string `json:"notes,omitempty"`
}

type PlaceOrderResponse struct {
	Order Order `json:"order"`
}

type GetOrderRequest struct {
	OrderID string `json:"order_id"`
}

type GetOrderResponse struct {
	Order Order `json:"order"`
}

type ListOrdersRequest struct{}

type ListOrdersResponse struct {
	Orders []Order `json:"orders"`
}

type GetAvailabilityRequest struct{}

type GetAvailabilityResponse struct {
	Day   string         `json:"day"`
	Sizes []Availability `json:"sizes"`
}

type ResetDayRequest struct{}

type ResetDayResponse struct {
	Sizes []Availability `json:"sizes"`
}
