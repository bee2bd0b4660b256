package analytics

import (
	"strings"
	"time"

	"github.com/xavierca1/ligue-solar/internal/entity"
)

type Predicate func(p entity.Proposal) bool

// Filter combina os filtros da tela de propostas. Campos zerados não filtram.
type Filter struct {
	ClientName string
	SellerName string
	From       time.Time
	To         time.Time
	MinValue   *float64
	MaxValue   *float64
}

func (f Filter) Predicates() []Predicate {
	var preds []Predicate
	if f.ClientName != "" {
		preds = append(preds, ClientNameContains(f.ClientName))
	}
	if f.SellerName != "" {
		preds = append(preds, SellerNameContains(f.SellerName))
	}
	if !f.From.IsZero() || !f.To.IsZero() {
		preds = append(preds, CreatedBetween(f.From, f.To))
	}
	if f.MinValue != nil || f.MaxValue != nil {
		preds = append(preds, ValueBetween(f.MinValue, f.MaxValue))
	}
	return preds
}

func (f Filter) Apply(proposals []entity.Proposal) []entity.Proposal {
	return Where(proposals, f.Predicates()...)
}

// Where devolve as propostas que satisfazem todos os predicados, na ordem original.
func Where(proposals []entity.Proposal, preds ...Predicate) []entity.Proposal {
	out := make([]entity.Proposal, 0, len(proposals))
next:
	for _, p := range proposals {
		for _, pred := range preds {
			if !pred(p) {
				continue next
			}
		}
		out = append(out, p)
	}
	return out
}

func ClientNameContains(term string) Predicate {
	term = strings.ToLower(strings.TrimSpace(term))
	return func(p entity.Proposal) bool {
		return strings.Contains(strings.ToLower(p.ClientName), term)
	}
}

func SellerNameContains(term string) Predicate {
	term = strings.ToLower(strings.TrimSpace(term))
	return func(p entity.Proposal) bool {
		return strings.Contains(strings.ToLower(p.SellerName), term)
	}
}

// CreatedBetween inclui as duas pontas; uma ponta zerada fica aberta.
func CreatedBetween(from, to time.Time) Predicate {
	return func(p entity.Proposal) bool {
		if !from.IsZero() && p.CreatedAt.Before(from) {
			return false
		}
		if !to.IsZero() && p.CreatedAt.After(to) {
			return false
		}
		return true
	}
}

func ValueBetween(lo, hi *float64) Predicate {
	return func(p entity.Proposal) bool {
		if lo != nil && p.TotalValue < *lo {
			return false
		}
		if hi != nil && p.TotalValue > *hi {
			return false
		}
		return true
	}
}
