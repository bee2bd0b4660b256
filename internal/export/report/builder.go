// Package report draws the analytics report directly with gofpdf: fixed
// coordinates, text blocks and a bar chart, breaking pages by hand.
package report

import (
	"io"

	"github.com/phpdave11/gofpdf"
)

const (
	pageMargin = 15.0
	lineH      = 6.0
	// NoData é o texto do gráfico quando todos os valores são zero
	NoData = "Dados não disponíveis"
)

// Builder acumula a altura usada e abre nova página quando o próximo bloco
// não cabe na área imprimível.
type Builder struct {
	pdf    *gofpdf.Fpdf
	tr     func(string) string
	y      float64
	bottom float64
	width  float64
}

func NewBuilder() *Builder {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)
	pdf.AddPage()

	w, h := pdf.GetPageSize()
	return &Builder{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		y:      pageMargin,
		bottom: h - pageMargin,
		width:  w - 2*pageMargin,
	}
}

func (b *Builder) Pages() int { return b.pdf.PageCount() }

// Y é a altura já ocupada na página atual.
func (b *Builder) Y() float64 { return b.y }

// ensure abre página nova se h não couber.
func (b *Builder) ensure(h float64) {
	if b.y+h <= b.bottom {
		return
	}
	b.newPage()
}

func (b *Builder) newPage() {
	b.pdf.AddPage()
	b.y = pageMargin
}

func (b *Builder) Title(text string) {
	b.ensure(12)
	b.pdf.SetFont("Helvetica", "B", 18)
	b.pdf.SetTextColor(31, 41, 55)
	b.pdf.Text(pageMargin, b.y+8, b.tr(text))
	b.y += 14
}

func (b *Builder) Heading(text string) {
	b.ensure(10)
	b.pdf.SetFont("Helvetica", "B", 13)
	b.pdf.SetTextColor(245, 158, 11)
	b.pdf.Text(pageMargin, b.y+6, b.tr(text))
	b.y += 10
}

// Paragraph quebra o texto na largura útil.
func (b *Builder) Paragraph(text string) {
	b.pdf.SetFont("Helvetica", "", 10)
	b.pdf.SetTextColor(55, 65, 81)
	for _, line := range b.pdf.SplitText(b.tr(text), b.width) {
		b.ensure(lineH)
		b.pdf.Text(pageMargin, b.y+4.5, line)
		b.y += lineH
	}
	b.y += 2
}

func (b *Builder) KeyValue(key, value string) {
	b.ensure(lineH)
	b.pdf.SetFont("Helvetica", "", 10)
	b.pdf.SetTextColor(107, 114, 128)
	b.pdf.Text(pageMargin, b.y+4.5, b.tr(key))
	b.pdf.SetFont("Helvetica", "B", 10)
	b.pdf.SetTextColor(31, 41, 55)
	b.pdf.Text(pageMargin+70, b.y+4.5, b.tr(value))
	b.y += lineH
}

// Table desenha cabeçalho e linhas com larguras fixas; o cabeçalho se repete
// em cada página nova.
func (b *Builder) Table(header []string, widths []float64, rows [][]string) {
	drawHeader := func() {
		b.pdf.SetFont("Helvetica", "B", 9)
		b.pdf.SetFillColor(243, 244, 246)
		b.pdf.SetTextColor(31, 41, 55)
		x := pageMargin
		for i, h := range header {
			b.pdf.Rect(x, b.y, widths[i], lineH, "F")
			b.pdf.Text(x+1, b.y+4.2, b.tr(h))
			x += widths[i]
		}
		b.y += lineH
	}

	b.ensure(2 * lineH)
	drawHeader()
	b.pdf.SetFont("Helvetica", "", 9)
	for _, row := range rows {
		if b.y+lineH > b.bottom {
			b.newPage()
			drawHeader()
			b.pdf.SetFont("Helvetica", "", 9)
		}
		x := pageMargin
		for i, cell := range row {
			b.pdf.Text(x+1, b.y+4.2, b.tr(fit(b.pdf, cell, widths[i]-2)))
			x += widths[i]
		}
		b.y += lineH
	}
	b.y += 4
}

func (b *Builder) Space(h float64) {
	b.ensure(h)
	b.y += h
}

func (b *Builder) Output(w io.Writer) error {
	if err := b.pdf.Error(); err != nil {
		return err
	}
	return b.pdf.Output(w)
}

// fit corta o texto para caber em width.
func fit(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
