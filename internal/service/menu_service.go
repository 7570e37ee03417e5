package service

import (
	"context"

	"connectrpc.com/connect"

	"github.com/mmynk/pokehouse/internal/catalog"
	pb "github.com/mmynk/pokehouse/pkg/pokeapi"
)

// MenuService implements the Connect MenuService.
type MenuService struct {
	catalog *catalog.Catalog
}

// NewMenuService creates a MenuService serving the given catalog.
func NewMenuService(c *catalog.Catalog) *MenuService {
	return &MenuService{catalog: c}
}

// GetMenu returns the sizes, bases, proteins and ingredients on offer.
func (s *MenuService) GetMenu(
	ctx context.Context,
	req *connect.Request[pb.GetMenuRequest],
) (*connect.Response[pb.GetMenuResponse], error) {
	specs := s.catalog.Sizes()
	sizes := make([]pb.Size, len(specs))
	for i, spec := range specs {
		sizes[i] = sizeToProto(spec)
	}

	return connect.NewResponse(&pb.GetMenuResponse{
		Sizes:       sizes,
		Bases:       s.catalog.Bases(),
		Proteins:    s.catalog.Proteins(),
		Ingredients: s.catalog.Ingredients(),
	}), nil
}

// QuoteBowl prices a bowl configuration without reserving anything.
func (s *MenuService) QuoteBowl(
	ctx context.Context,
	req *connect.Request[pb.QuoteBowlRequest],
) (*connect.Response[pb.QuoteBowlResponse], error) {
	b, err := buildBowl(s.catalog, req.Msg.Bowl)
	if err != nil {
		return nil, toConnectError(err)
	}
	price, err := b.Price()
	if err != nil {
		return nil, toConnectError(err)
	}
	spec, err := s.catalog.SizeSpec(b.Size())
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&pb.QuoteBowlResponse{
		Price:            price,
		ExtraIngredients: max(0, len(b.Ingredients())-spec.FreeIngredients),
	}), nil
}
