package product

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"store-nav/internal/domain/geo"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	ok := Product{ID: "p1", Name: "Vitamin C Serum", Price: 29.9}
	assert.NoError(t, ok.Validate())

	assert.ErrorIs(t, (&Product{Name: "x"}).Validate(), ErrProductRequired)
	assert.ErrorIs(t, (&Product{ID: "p1"}).Validate(), ErrNameRequired)
	assert.ErrorIs(t, (&Product{ID: "p1", Name: "x", Price: -1}).Validate(), ErrNegativePrice)
}

func TestResolveLocation(t *testing.T) {
	t.Parallel()

	plan := geo.DefaultFloorPlan()

	t.Run("surveyed coordinate wins", func(t *testing.T) {
		t.Parallel()
		p := Product{ID: "p1", Name: "x", Location: &geo.Coordinate{X: 32, Y: 10}, ZoneID: "zone_skincare"}
		assert.Equal(t, geo.Coordinate{X: 32, Y: 10}, p.ResolveLocation(plan))
	})

	t.Run("zone center when only the zone is known", func(t *testing.T) {
		t.Parallel()
		p := Product{ID: "p1", Name: "x", ZoneID: "zone_skincare"}
		zone, _ := plan.ZoneByID("zone_skincare")
		assert.Equal(t, zone.Center(), p.ResolveLocation(plan))
	})

	t.Run("category maps onto a zone", func(t *testing.T) {
		t.Parallel()
		p := Product{ID: "p1", Name: "x", Category: "Makeup"}
		zone, _ := plan.ZoneByID("zone_makeup")
		assert.Equal(t, zone.Center(), p.ResolveLocation(plan))
	})

	t.Run("floor center as last resort", func(t *testing.T) {
		t.Parallel()
		p := Product{ID: "p1", Name: "x", Category: "garden"}
		assert.Equal(t, plan.Center(), p.ResolveLocation(plan))
	})
}
