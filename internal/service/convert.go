package service

import (
	"github.com/mmynk/pokehouse/internal/bowl"
	"github.com/mmynk/pokehouse/internal/catalog"
	"github.com/mmynk/pokehouse/internal/models"
	"github.com/mmynk/pokehouse/internal/order"
	pb "github.com/mmynk/pokehouse/pkg/pokeapi"
)

// buildBowl configures a bowl from a client request. Amount 0 means the
// default of one bowl.
func buildBowl(c *catalog.Catalog, req pb.Bowl) (*bowl.Bowl, error) {
	b, err := bowl.New(c, req.Size)
	if err != nil {
		return nil, err
	}
	if req.Amount != 0 {
		if err := b.SetAmount(req.Amount); err != nil {
			return nil, err
		}
	}
	if req.Base != "" {
		if err := b.SetBase(req.Base); err != nil {
			return nil, err
		}
	}
	for _, p := range req.Proteins {
		if err := b.AddProtein(p); err != nil {
			return nil, err
		}
	}
	for _, ing := range req.Ingredients {
		if err := b.AddIngredient(ing); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func sizeToProto(s catalog.SizeSpec) pb.Size {
	return pb.Size{
		Name:            s.Name,
		BasePrice:       s.BasePrice,
		MaxProteins:     s.MaxProteins,
		FreeIngredients: s.FreeIngredients,
		DailyQuota:      s.DailyQuota,
	}
}

func orderToProto(o *models.Order) pb.Order {
	lines := make([]pb.BowlLine, len(o.Bowls))
	for i, l := range o.Bowls {
		lines[i] = pb.BowlLine{
			Bowl: pb.Bowl{
				Size:        l.Size,
				Base:        l.Base,
				Proteins:    l.Proteins,
				Ingredients: l.Ingredients,
				Amount:      l.Amount,
			},
			Price: l.Price,
		}
	}
	return pb.Order{
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		Day:        o.Day,
		Notes:      o.Notes,
		Bowls:      lines,
		Units:      o.Units(),
		Subtotal:   o.Subtotal,
		Discount:   o.Discount,
		Total:      o.Total,
		Discounted: o.Discounted,
		CreatedAt:  o.CreatedAt,
	}
}

func availabilityToProto(snapshot []order.Availability) []pb.Availability {
	out := make([]pb.Availability, len(snapshot))
	for i, a := range snapshot {
		out[i] = pb.Availability{
			Size:      a.Size,
			Quota:     a.Quota,
			Used:      a.Used,
			Remaining: a.Remaining,
		}
	}
	return out
}
