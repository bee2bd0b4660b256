package usecase

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/xavierca1/ligue-solar/internal/boundary"
	"github.com/xavierca1/ligue-solar/internal/entity"
	"github.com/xavierca1/ligue-solar/internal/export/document"
)

// RenderProposalPDF monta o documento da proposta e passa pelo exportador raster.
type RenderProposalPDF struct {
	Exporter *document.Exporter
	Guard    *boundary.Boundary
	Layout   document.LayoutOptions
	Now      func() time.Time
}

func NewRenderProposalPDF(exporter *document.Exporter, guard *boundary.Boundary, layout document.LayoutOptions) *RenderProposalPDF {
	return &RenderProposalPDF{
		Exporter: exporter,
		Guard:    guard,
		Layout:   layout,
		Now:      time.Now,
	}
}

func (uc *RenderProposalPDF) Execute(ctx context.Context, p entity.Proposal) (*RenderedFile, error) {
	root := document.ProposalDocument(p, uc.Layout)

	var buf bytes.Buffer
	var pages int
	err := uc.Guard.Guard(ctx, "proposal_pdf", func(ctx context.Context) error {
		var err error
		pages, err = uc.Exporter.Export(ctx, root, &buf)
		return err
	})
	if err != nil {
		var perr *boundary.PanicError
		if errors.As(err, &perr) {
			return nil, &TechnicalError{Code: CodeRenderFailed, Message: "Não foi possível gerar o PDF", Err: err}
		}
		return nil, &TechnicalError{Code: CodeExport, Message: "erro ao exportar PDF: " + err.Error(), Err: err}
	}

	return &RenderedFile{
		Filename:    document.Filename(p.ClientName, uc.Now()),
		ContentType: "application/pdf",
		Data:        buf.Bytes(),
		Pages:       pages,
	}, nil
}
