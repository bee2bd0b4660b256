// Package analytics computes dashboard series, rankings and follow-up
// notifications from a proposal collection. It never talks to the backend.
package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/xavierca1/ligue-solar/internal/entity"
)

const (
	SeriesDays       = 30
	StaleAfter       = 48 * time.Hour
	ProductivityWeek = 7 * 24 * time.Hour
	// queda sinalizada quando atual/anterior < DeclineRatio
	DeclineRatio = 0.5
)

const dateLayout = "2006-01-02"

type DayBucket struct {
	Date  string  `json:"date"`
	Count int     `json:"count"`
	Total float64 `json:"total"`
}

type MonthMetrics struct {
	Count         int     `json:"count"`
	TotalValue    float64 `json:"total_value"`
	ActiveSellers int     `json:"active_sellers"`
	AverageValue  float64 `json:"average_value"`
}

type SellerRank struct {
	SellerID   string  `json:"seller_id"`
	SellerName string  `json:"seller_name"`
	Count      int     `json:"count"`
	TotalValue float64 `json:"total_value"`
}

type SellerDecline struct {
	SellerID       string `json:"seller_id"`
	SellerName     string `json:"seller_name"`
	Previous       int    `json:"previous"`
	Current        int    `json:"current"`
	DeclinePercent int    `json:"decline_percent"`
}

type NotificationType string

const (
	NotificationStale   NotificationType = "stale_proposals"
	NotificationDecline NotificationType = "productivity_decline"
)

type Notification struct {
	Type     NotificationType `json:"type"`
	Severity string           `json:"severity"`
	Title    string           `json:"title"`
	Message  string           `json:"message"`
	Count    int              `json:"count"`
	Sellers  []SellerDecline  `json:"sellers,omitempty"`
}

type Aggregator struct {
	now func() time.Time
	loc *time.Location
}

type Option func(*Aggregator)

func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// WithLocation define o fuso usado para os dias e o mês corrente.
func WithLocation(loc *time.Location) Option {
	return func(a *Aggregator) { a.loc = loc }
}

func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{now: time.Now, loc: time.Local}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// DailySeries devolve um balde por dia, do mais antigo até hoje.
func (a *Aggregator) DailySeries(proposals []entity.Proposal, days int) []DayBucket {
	if days <= 0 {
		days = SeriesDays
	}
	today := startOfDay(a.now().In(a.loc))

	series := make([]DayBucket, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		date := today.AddDate(0, 0, i-days+1).Format(dateLayout)
		series[i] = DayBucket{Date: date}
		index[date] = i
	}

	for _, p := range proposals {
		i, ok := index[p.CreatedAt.In(a.loc).Format(dateLayout)]
		if !ok {
			continue
		}
		series[i].Count++
		series[i].Total += p.TotalValue
	}
	return series
}

// StaleProposals: propostas criadas há mais de 48h, qualquer que seja o status.
func (a *Aggregator) StaleProposals(proposals []entity.Proposal) []entity.Proposal {
	cutoff := a.now().Add(-StaleAfter)
	return Where(proposals, func(p entity.Proposal) bool {
		return p.CreatedAt.Before(cutoff)
	})
}

// ProductivityDecline compara os últimos 7 dias com os 7 anteriores por vendedor.
// Vendedores sem propostas na semana anterior nunca são sinalizados.
func (a *Aggregator) ProductivityDecline(proposals []entity.Proposal) []SellerDecline {
	now := a.now()
	currentStart := now.Add(-ProductivityWeek)
	previousStart := currentStart.Add(-ProductivityWeek)

	type counts struct {
		name              string
		previous, current int
	}
	bySeller := map[string]*counts{}
	var order []string

	for _, p := range proposals {
		if p.CreatedAt.Before(previousStart) || p.CreatedAt.After(now) {
			continue
		}
		c, ok := bySeller[p.SellerID]
		if !ok {
			c = &counts{name: p.SellerName}
			bySeller[p.SellerID] = c
			order = append(order, p.SellerID)
		}
		if p.CreatedAt.Before(currentStart) {
			c.previous++
		} else {
			c.current++
		}
	}

	var out []SellerDecline
	for _, id := range order {
		c := bySeller[id]
		if c.previous == 0 {
			continue
		}
		ratio := float64(c.current) / float64(c.previous)
		if ratio >= DeclineRatio {
			continue
		}
		out = append(out, SellerDecline{
			SellerID:       id,
			SellerName:     c.name,
			Previous:       c.previous,
			Current:        c.current,
			DeclinePercent: int(math.Round((1 - ratio) * 100)),
		})
	}
	return out
}

// MonthlyMetrics considera só o mês corrente pela data de criação.
func (a *Aggregator) MonthlyMetrics(proposals []entity.Proposal) MonthMetrics {
	now := a.now().In(a.loc)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, a.loc)
	nextMonth := monthStart.AddDate(0, 1, 0)

	var m MonthMetrics
	sellers := map[string]struct{}{}
	for _, p := range proposals {
		if p.CreatedAt.Before(monthStart) || !p.CreatedAt.Before(nextMonth) {
			continue
		}
		m.Count++
		m.TotalValue += p.TotalValue
		sellers[p.SellerID] = struct{}{}
	}
	m.ActiveSellers = len(sellers)
	if m.Count > 0 {
		m.AverageValue = math.Round(m.TotalValue/float64(m.Count)*100) / 100
	}
	return m
}

// SellerRanking ordena por valor total e desempata pela quantidade.
func SellerRanking(proposals []entity.Proposal) []SellerRank {
	bySeller := map[string]*SellerRank{}
	for _, p := range proposals {
		r, ok := bySeller[p.SellerID]
		if !ok {
			r = &SellerRank{SellerID: p.SellerID, SellerName: p.SellerName}
			bySeller[p.SellerID] = r
		}
		r.Count++
		r.TotalValue += p.TotalValue
	}

	ranking := make([]SellerRank, 0, len(bySeller))
	for _, r := range bySeller {
		ranking = append(ranking, *r)
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].TotalValue != ranking[j].TotalValue {
			return ranking[i].TotalValue > ranking[j].TotalValue
		}
		if ranking[i].Count != ranking[j].Count {
			return ranking[i].Count > ranking[j].Count
		}
		return ranking[i].SellerName < ranking[j].SellerName
	})
	return ranking
}

func (a *Aggregator) Notifications(proposals []entity.Proposal) []Notification {
	var out []Notification

	if stale := a.StaleProposals(proposals); len(stale) > 0 {
		out = append(out, Notification{
			Type:     NotificationStale,
			Severity: "warning",
			Title:    "Propostas sem retorno",
			Message:  fmt.Sprintf("%d proposta(s) criadas há mais de 48h", len(stale)),
			Count:    len(stale),
		})
	}

	if declines := a.ProductivityDecline(proposals); len(declines) > 0 {
		out = append(out, Notification{
			Type:     NotificationDecline,
			Severity: "info",
			Title:    "Queda de produtividade",
			Message:  fmt.Sprintf("%d vendedor(es) com queda de mais de 50%% nas propostas da semana", len(declines)),
			Count:    len(declines),
			Sellers:  declines,
		})
	}
	return out
}

type Dashboard struct {
	Total         int            `json:"total"`
	Series        []DayBucket    `json:"series"`
	Month         MonthMetrics   `json:"month"`
	Ranking       []SellerRank   `json:"ranking"`
	Notifications []Notification `json:"notifications"`
}

// Build aplica o filtro e calcula todas as visões sobre o resultado.
// As notificações olham a coleção completa.
func (a *Aggregator) Build(proposals []entity.Proposal, filter Filter) Dashboard {
	filtered := filter.Apply(proposals)
	return Dashboard{
		Total:         len(filtered),
		Series:        a.DailySeries(filtered, SeriesDays),
		Month:         a.MonthlyMetrics(filtered),
		Ranking:       SellerRanking(filtered),
		Notifications: a.Notifications(proposals),
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
