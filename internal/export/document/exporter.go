package document

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"
)

// PageWriter recebe uma imagem por página. O documento nasce com a primeira
// página aberta; AddPage só é chamado a partir da segunda.
type PageWriter interface {
	AddPage()
	PageSize() (w, h float64)
	PlaceImage(name string, pngData []byte, w, h float64) error
	Output(w io.Writer) error
}

type pdfWriter struct {
	pdf *gofpdf.Fpdf
}

// NewPDFWriter abre um A4 retrato em milímetros já com a primeira página.
func NewPDFWriter() PageWriter {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	return &pdfWriter{pdf: pdf}
}

func (p *pdfWriter) AddPage() { p.pdf.AddPage() }

func (p *pdfWriter) PageSize() (float64, float64) {
	w, h := p.pdf.GetPageSize()
	return w, h
}

func (p *pdfWriter) PlaceImage(name string, pngData []byte, w, h float64) error {
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	p.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(pngData))
	p.pdf.ImageOptions(name, 0, 0, w, h, false, opts, 0, "")
	return p.pdf.Error()
}

func (p *pdfWriter) Output(w io.Writer) error {
	return p.pdf.Output(w)
}

type Exporter struct {
	rasterizer *Rasterizer
	loader     ImageLoader
	newWriter  func() PageWriter
}

func NewExporter(rasterizer *Rasterizer, loader ImageLoader) *Exporter {
	return &Exporter{rasterizer: rasterizer, loader: loader, newWriter: NewPDFWriter}
}

// WithWriter troca o destino das páginas (usado em testes).
func (e *Exporter) WithWriter(fn func() PageWriter) *Exporter {
	e.newWriter = fn
	return e
}

// Export processa as páginas em sequência e só escreve em out se todas
// derem certo. Os nós de apresentação voltam a aparecer mesmo em erro.
func (e *Exporter) Export(ctx context.Context, root *Node, out io.Writer) (pages int, err error) {
	restore := HidePresentation(root)
	defer restore()

	writer := e.newWriter()
	pageW, pageH := writer.PageSize()

	for i, page := range FindPages(root) {
		if err := WaitForImages(ctx, page, e.loader); err != nil {
			return 0, fmt.Errorf("página %d: %w", i+1, err)
		}

		bitmap, err := e.rasterizer.Rasterize(page)
		if err != nil {
			return 0, fmt.Errorf("página %d: %w", i+1, err)
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, bitmap); err != nil {
			return 0, fmt.Errorf("página %d: %w", i+1, err)
		}

		if i > 0 {
			writer.AddPage()
		}
		w, h := fit(bitmap.Bounds(), pageW, pageH)
		if err := writer.PlaceImage(fmt.Sprintf("page-%d", i+1), buf.Bytes(), w, h); err != nil {
			return 0, fmt.Errorf("página %d: %w", i+1, err)
		}
		pages++
	}

	// o arquivo vai para um buffer para nunca entregar saída parcial
	var doc bytes.Buffer
	if err := writer.Output(&doc); err != nil {
		return 0, err
	}
	if _, err := doc.WriteTo(out); err != nil {
		return 0, err
	}
	log.Printf("📄 PDF gerado com %d página(s)", pages)
	return pages, nil
}

// fit ocupa a largura da página mantendo a proporção do bitmap.
func fit(b image.Rectangle, pageW, pageH float64) (float64, float64) {
	if b.Dx() == 0 {
		return pageW, pageH
	}
	return pageW, pageW * float64(b.Dy()) / float64(b.Dx())
}

// Filename: Proposta_<nome_com_underscores>_<AAAA-MM-DD>.pdf
func Filename(clientName string, now time.Time) string {
	name := strings.Join(strings.Fields(clientName), "_")
	if name == "" {
		name = "Cliente"
	}
	return fmt.Sprintf("Proposta_%s_%s.pdf", name, now.Format("2006-01-02"))
}
