package service

import (
	"context"
	"sort"

	"store-nav/internal/domain/geo"
	"store-nav/internal/domain/product"
	"store-nav/internal/domain/robot"
	"store-nav/internal/ports"
)

const defaultNearbyRadiusM = 10.0

// Nearby returns the located products within a radius of a point, closest
// first. Products without a surveyed coordinate never match.
func (service *navigationService) Nearby(ctx context.Context, in ports.NearbyInput) (ports.NearbyResult, error) {
	radius := in.RadiusM
	if radius <= 0 {
		radius = defaultNearbyRadiusM
	}

	var products []product.Product
	err := service.uow.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		products, err = service.products.ListLocated(ctx)
		return err
	})
	if err != nil {
		service.logger.Error(ctx, "nearby_list_failed", "Failed to list located products", err, nil)
		return ports.NearbyResult{}, err
	}

	hits := make([]ports.NearbyProduct, 0, len(products))
	for _, p := range products {
		if p.Location == nil {
			continue
		}
		d := geo.Distance(in.Center, *p.Location)
		if d > radius {
			continue
		}
		hits = append(hits, ports.NearbyProduct{
			ProductBrief: ports.ProductBrief{
				ProductID: p.ID,
				Name:      p.Name,
				Category:  p.Category,
				Price:     p.Price,
				Location:  *p.Location,
			},
			DistanceM: d,
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].DistanceM != hits[j].DistanceM {
			return hits[i].DistanceM < hits[j].DistanceM
		}
		return hits[i].ProductID < hits[j].ProductID
	})

	total := len(hits)
	if in.Limit > 0 && len(hits) > in.Limit {
		hits = hits[:in.Limit]
	}

	return ports.NearbyResult{
		Center:   in.Center,
		RadiusM:  radius,
		Products: hits,
		Total:    total,
	}, nil
}

// GetFloorPlan returns the store layout the planner runs against.
func (service *navigationService) GetFloorPlan(ctx context.Context) (geo.FloorPlan, error) {
	return service.plan, nil
}

// Locations returns the combined store map: zones, located products, the
// latest robot positions and charging stations.
func (service *navigationService) Locations(ctx context.Context) (ports.LocationsResult, error) {
	var (
		products []product.Product
		robots   []robot.Location
	)
	err := service.uow.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if products, err = service.products.ListLocated(ctx); err != nil {
			return err
		}
		robots, err = service.robots.ListLocations(ctx)
		return err
	})
	if err != nil {
		service.logger.Error(ctx, "locations_query_failed", "Failed to build store map", err, nil)
		return ports.LocationsResult{}, err
	}

	briefs := make([]ports.ProductBrief, 0, len(products))
	for _, p := range products {
		if p.Location == nil {
			continue
		}
		briefs = append(briefs, ports.ProductBrief{
			ProductID: p.ID,
			Name:      p.Name,
			Category:  p.Category,
			Price:     p.Price,
			Location:  *p.Location,
		})
	}

	return ports.LocationsResult{
		Zones:            service.plan.Zones,
		Products:         briefs,
		Robots:           robots,
		ChargingStations: service.plan.ChargingStations,
	}, nil
}
