package report

const chartHeight = 60.0

type Bar struct {
	Label string
	Value float64
}

// BarChart desenha barras verticais proporcionais ao maior valor. Com todos
// os valores zerados, mostra NoData no lugar das barras.
func (b *Builder) BarChart(title string, bars []Bar) {
	b.ensure(chartHeight + 16)
	b.pdf.SetFont("Helvetica", "B", 10)
	b.pdf.SetTextColor(31, 41, 55)
	b.pdf.Text(pageMargin, b.y+4.5, b.tr(title))
	b.y += 8

	top := b.y
	b.pdf.SetDrawColor(209, 213, 219)
	b.pdf.Rect(pageMargin, top, b.width, chartHeight, "D")

	peak := 0.0
	for _, bar := range bars {
		if bar.Value > peak {
			peak = bar.Value
		}
	}

	if peak <= 0 {
		b.pdf.SetFont("Helvetica", "I", 10)
		b.pdf.SetTextColor(156, 163, 175)
		msg := b.tr(NoData)
		w := b.pdf.GetStringWidth(msg)
		b.pdf.Text(pageMargin+(b.width-w)/2, top+chartHeight/2, msg)
		b.y = top + chartHeight + 6
		return
	}

	slot := b.width / float64(len(bars))
	barW := slot * 0.7
	b.pdf.SetFillColor(245, 158, 11)
	b.pdf.SetFont("Helvetica", "", 6)
	b.pdf.SetTextColor(107, 114, 128)
	for i, bar := range bars {
		h := (chartHeight - 8) * bar.Value / peak
		x := pageMargin + float64(i)*slot + (slot-barW)/2
		if h > 0 {
			b.pdf.Rect(x, top+chartHeight-4-h, barW, h, "F")
		}
		if bar.Label != "" {
			b.pdf.Text(x, top+chartHeight-0.5, b.tr(bar.Label))
		}
	}
	b.y = top + chartHeight + 6
}
