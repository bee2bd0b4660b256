package usecase

import (
	"github.com/xavierca1/ligue-solar/internal/analytics"
	"github.com/xavierca1/ligue-solar/internal/entity"
)

type ListProposalsOutput struct {
	Proposals []entity.Proposal `json:"proposals"`
	Stale     bool              `json:"stale"`
}

type DashboardOutput struct {
	analytics.Dashboard
	Stale bool `json:"stale"`
}

type RenderedFile struct {
	Filename    string
	ContentType string
	Data        []byte
	Pages       int
}
