package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-solar/internal/entity"
)

var now = time.Date(2026, 3, 20, 15, 0, 0, 0, time.UTC)

func newTestAggregator() *Aggregator {
	return NewAggregator(WithClock(func() time.Time { return now }), WithLocation(time.UTC))
}

func proposal(seller string, ago time.Duration, value float64) entity.Proposal {
	return entity.Proposal{
		SellerID:   seller,
		SellerName: "Vendedor " + seller,
		ClientName: "Cliente " + seller,
		Status:     entity.StatusDraft,
		TotalValue: value,
		CreatedAt:  now.Add(-ago),
	}
}

const day = 24 * time.Hour

func TestProductivityDeclineFlagsSellerBelowHalf(t *testing.T) {
	a := newTestAggregator()
	proposals := []entity.Proposal{
		proposal("s1", 8*day, 1000),
		proposal("s1", 10*day, 1000),
		proposal("s1", 12*day, 1000),
		proposal("s1", 2*day, 1000),
	}

	declines := a.ProductivityDecline(proposals)
	require.Len(t, declines, 1)
	assert.Equal(t, "s1", declines[0].SellerID)
	assert.Equal(t, 3, declines[0].Previous)
	assert.Equal(t, 1, declines[0].Current)
	assert.Equal(t, 67, declines[0].DeclinePercent)
}

func TestProductivityDeclineIgnoresSellerWithoutPreviousWeek(t *testing.T) {
	a := newTestAggregator()
	proposals := []entity.Proposal{
		proposal("s2", 1*day, 1000),
		proposal("s3", 20*day, 1000),
	}
	assert.Empty(t, a.ProductivityDecline(proposals))
}

func TestProductivityDeclineExactlyHalfIsNotFlagged(t *testing.T) {
	a := newTestAggregator()
	proposals := []entity.Proposal{
		proposal("s1", 8*day, 1),
		proposal("s1", 9*day, 1),
		proposal("s1", 1*day, 1),
	}
	assert.Empty(t, a.ProductivityDecline(proposals))
}

func TestStaleProposalsByAgeOnly(t *testing.T) {
	a := newTestAggregator()
	old := proposal("s1", 49*time.Hour, 1)
	fresh := proposal("s1", 47*time.Hour, 1)
	approved := proposal("s1", 72*time.Hour, 1)
	approved.Status = entity.StatusApproved

	stale := a.StaleProposals([]entity.Proposal{old, fresh, approved})
	require.Len(t, stale, 2)
	assert.Equal(t, old.CreatedAt, stale[0].CreatedAt)
	assert.Equal(t, entity.StatusApproved, stale[1].Status)
}

func TestDailySeriesBucketsLastThirtyDays(t *testing.T) {
	a := newTestAggregator()
	proposals := []entity.Proposal{
		proposal("s1", time.Hour, 100),
		proposal("s2", 2*time.Hour, 50),
		proposal("s1", 3*day, 10),
		proposal("s1", 40*day, 999),
	}

	series := a.DailySeries(proposals, SeriesDays)
	require.Len(t, series, 30)
	assert.Equal(t, "2026-02-19", series[0].Date)
	assert.Equal(t, "2026-03-20", series[29].Date)
	assert.Equal(t, 2, series[29].Count)
	assert.Equal(t, 150.0, series[29].Total)
	assert.Equal(t, 1, series[26].Count)

	total := 0
	for _, b := range series {
		total += b.Count
	}
	assert.Equal(t, 3, total)
}

func TestMonthlyMetricsCurrentMonthOnly(t *testing.T) {
	a := newTestAggregator()
	proposals := []entity.Proposal{
		proposal("s1", day, 1000),
		proposal("s2", 2*day, 2000),
		proposal("s1", 3*day, 3000),
		proposal("s3", 25*day, 5000),
	}

	m := a.MonthlyMetrics(proposals)
	assert.Equal(t, 3, m.Count)
	assert.Equal(t, 6000.0, m.TotalValue)
	assert.Equal(t, 2, m.ActiveSellers)
	assert.Equal(t, 2000.0, m.AverageValue)
}

func TestSellerRanking(t *testing.T) {
	ranking := SellerRanking([]entity.Proposal{
		proposal("a", day, 100),
		proposal("b", day, 500),
		proposal("a", day, 100),
		proposal("c", day, 200),
	})
	require.Len(t, ranking, 3)
	assert.Equal(t, "b", ranking[0].SellerID)
	assert.Equal(t, "a", ranking[1].SellerID)
	assert.Equal(t, 2, ranking[1].Count)
	assert.Equal(t, "c", ranking[2].SellerID)
}

func TestNotifications(t *testing.T) {
	a := newTestAggregator()
	assert.Empty(t, a.Notifications([]entity.Proposal{proposal("s1", time.Hour, 1)}))

	notes := a.Notifications([]entity.Proposal{
		proposal("s1", 8*day, 1),
		proposal("s1", 9*day, 1),
		proposal("s1", 10*day, 1),
	})
	require.Len(t, notes, 2)
	assert.Equal(t, NotificationStale, notes[0].Type)
	assert.Equal(t, 3, notes[0].Count)
	assert.Equal(t, NotificationDecline, notes[1].Type)
	assert.Equal(t, 100, notes[1].Sellers[0].DeclinePercent)
}

func TestBuildAppliesFilter(t *testing.T) {
	a := newTestAggregator()
	proposals := []entity.Proposal{
		proposal("s1", day, 100),
		proposal("s2", day, 200),
	}
	d := a.Build(proposals, Filter{SellerName: "S2"})
	assert.Equal(t, 1, d.Total)
	require.Len(t, d.Ranking, 1)
	assert.Equal(t, "s2", d.Ranking[0].SellerID)
}
