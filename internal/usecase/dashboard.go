package usecase

import (
	"bytes"
	"context"
	"time"

	"github.com/xavierca1/ligue-solar/internal/analytics"
	"github.com/xavierca1/ligue-solar/internal/entity"
	"github.com/xavierca1/ligue-solar/internal/export/report"
	"github.com/xavierca1/ligue-solar/internal/export/sheet"
)

type DashboardUseCase struct {
	Store      ProposalStore
	Aggregator *analytics.Aggregator
}

func NewDashboardUseCase(store ProposalStore, aggregator *analytics.Aggregator) *DashboardUseCase {
	return &DashboardUseCase{Store: store, Aggregator: aggregator}
}

func (uc *DashboardUseCase) Execute(ctx context.Context, user entity.User, filter analytics.Filter, refresh bool) (*DashboardOutput, error) {
	result, err := uc.Store.List(ctx, entity.ScopeFor(user), refresh)
	if err != nil {
		return nil, &TechnicalError{Code: CodeDatabase, Message: "Não foi possível carregar o painel", Err: err}
	}
	return &DashboardOutput{
		Dashboard: uc.Aggregator.Build(result.Proposals, filter),
		Stale:     result.Stale,
	}, nil
}

type ExportFormat string

const (
	FormatCSV    ExportFormat = "csv"
	FormatXLSX   ExportFormat = "xlsx"
	FormatReport ExportFormat = "report"
)

// ExportProposalsUseCase gera planilhas e o relatório em PDF do conjunto filtrado.
type ExportProposalsUseCase struct {
	Store      ProposalStore
	Aggregator *analytics.Aggregator
	Now        func() time.Time
}

func NewExportProposalsUseCase(store ProposalStore, aggregator *analytics.Aggregator) *ExportProposalsUseCase {
	return &ExportProposalsUseCase{Store: store, Aggregator: aggregator, Now: time.Now}
}

func (uc *ExportProposalsUseCase) Execute(ctx context.Context, user entity.User, filter analytics.Filter, format ExportFormat) (*RenderedFile, error) {
	result, err := uc.Store.List(ctx, entity.ScopeFor(user), false)
	if err != nil {
		return nil, &TechnicalError{Code: CodeDatabase, Message: "Não foi possível carregar as propostas", Err: err}
	}
	proposals := filter.Apply(result.Proposals)
	now := uc.Now()

	var buf bytes.Buffer
	file := &RenderedFile{}
	switch format {
	case FormatCSV:
		err = sheet.WriteCSV(&buf, proposals)
		file.Filename, file.ContentType = sheet.CSVFilename(now), "text/csv; charset=utf-8"
	case FormatXLSX:
		err = sheet.WriteXLSX(&buf, proposals)
		file.Filename, file.ContentType = sheet.XLSXFilename(now), "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatReport:
		dashboard := uc.Aggregator.Build(result.Proposals, filter)
		file.Pages, err = report.Write(&buf, dashboard, proposals, now)
		file.Filename, file.ContentType = report.Filename(now), "application/pdf"
	default:
		return nil, &DomainError{Code: CodeValidation, Message: "formato de exportação inválido"}
	}
	if err != nil {
		return nil, &TechnicalError{Code: CodeExport, Message: "Não foi possível gerar o arquivo", Err: err}
	}

	file.Data = buf.Bytes()
	return file, nil
}
