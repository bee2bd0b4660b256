package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/ligue-solar/internal/entity"
)

func TestFilterComposesPredicates(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	proposals := []entity.Proposal{
		{ClientName: "João Silva", SellerName: "Carla", TotalValue: 10000, CreatedAt: base},
		{ClientName: "Maria Silva", SellerName: "Carla", TotalValue: 25000, CreatedAt: base.Add(48 * time.Hour)},
		{ClientName: "Pedro Souza", SellerName: "Bruno", TotalValue: 15000, CreatedAt: base.Add(24 * time.Hour)},
	}

	assert.Len(t, Filter{}.Apply(proposals), 3)
	assert.Len(t, Filter{ClientName: "silva"}.Apply(proposals), 2)
	assert.Len(t, Filter{SellerName: "BRU"}.Apply(proposals), 1)

	lo, hi := 12000.0, 20000.0
	got := Filter{MinValue: &lo, MaxValue: &hi}.Apply(proposals)
	assert.Len(t, got, 1)
	assert.Equal(t, "Pedro Souza", got[0].ClientName)

	got = Filter{ClientName: "silva", From: base, To: base.Add(24 * time.Hour)}.Apply(proposals)
	assert.Len(t, got, 1)
	assert.Equal(t, "João Silva", got[0].ClientName)
}

func TestCreatedBetweenIsInclusive(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	p := entity.Proposal{CreatedAt: at}

	assert.True(t, CreatedBetween(at, at)(p))
	assert.True(t, CreatedBetween(time.Time{}, at)(p))
	assert.False(t, CreatedBetween(at.Add(time.Second), time.Time{})(p))
}

func TestWhereKeepsOrder(t *testing.T) {
	proposals := []entity.Proposal{{ID: "3"}, {ID: "1"}, {ID: "2"}}
	got := Where(proposals, func(p entity.Proposal) bool { return p.ID != "1" })
	assert.Equal(t, []entity.Proposal{{ID: "3"}, {ID: "2"}}, got)
}
