package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xavierca1/ligue-solar/internal/analytics"
	"github.com/xavierca1/ligue-solar/internal/entity"
	"github.com/xavierca1/ligue-solar/internal/export"
)

// Filename do relatório gerencial.
func Filename(now time.Time) string {
	return fmt.Sprintf("Relatorio_Propostas_%s.pdf", now.Format("2006-01-02"))
}

// Write gera o relatório do painel com as propostas já filtradas.
func Write(w io.Writer, d analytics.Dashboard, proposals []entity.Proposal, generatedAt time.Time) (pages int, err error) {
	b := NewBuilder()

	b.Title("Relatório de Propostas")
	b.Paragraph(fmt.Sprintf("Gerado em %s. %d proposta(s) no filtro atual.",
		generatedAt.Format(export.DateLayout+" 15:04"), d.Total))

	b.Heading("Mês atual")
	b.KeyValue("Propostas", fmt.Sprintf("%d", d.Month.Count))
	b.KeyValue("Valor total", export.BRL(d.Month.TotalValue))
	b.KeyValue("Ticket médio", export.BRL(d.Month.AverageValue))
	b.KeyValue("Vendedores ativos", fmt.Sprintf("%d", d.Month.ActiveSellers))
	b.Space(4)

	b.BarChart("Propostas por dia (30 dias)", bars(d.Series, func(db analytics.DayBucket) float64 { return float64(db.Count) }))
	b.BarChart("Valor por dia (30 dias)", bars(d.Series, func(db analytics.DayBucket) float64 { return db.Total }))

	if len(d.Notifications) > 0 {
		b.Heading("Alertas")
		for _, n := range d.Notifications {
			b.Paragraph(n.Title + ": " + n.Message)
			for _, s := range n.Sellers {
				b.Paragraph(fmt.Sprintf("  %s: %d -> %d propostas (queda de %d%%)", s.SellerName, s.Previous, s.Current, s.DeclinePercent))
			}
		}
	}

	b.Heading("Ranking de vendedores")
	ranking := make([][]string, 0, len(d.Ranking))
	for i, r := range d.Ranking {
		ranking = append(ranking, []string{fmt.Sprintf("%dº", i+1), r.SellerName, fmt.Sprintf("%d", r.Count), export.BRL(r.TotalValue)})
	}
	b.Table([]string{"#", "Vendedor", "Propostas", "Valor total"}, []float64{12, 88, 30, 50}, ranking)

	b.Heading("Propostas")
	rows := make([][]string, 0, len(proposals))
	for _, p := range proposals {
		rows = append(rows, []string{
			p.CreatedAt.Format(export.DateLayout),
			p.SellerName,
			p.ClientName,
			export.Number(p.SystemPowerKwp, 2) + " kWp",
			export.BRL(p.TotalValue),
		})
	}
	b.Table([]string{"Data", "Vendedor", "Cliente", "Potência", "Valor"}, []float64{22, 40, 56, 26, 36}, rows)

	if err := b.Output(w); err != nil {
		return 0, fmt.Errorf("erro ao gerar relatório: %w", err)
	}
	return b.Pages(), nil
}

// bars rotula um dia a cada cinco para não sobrepor texto.
func bars(series []analytics.DayBucket, value func(analytics.DayBucket) float64) []Bar {
	out := make([]Bar, len(series))
	for i, db := range series {
		out[i].Value = value(db)
		if i%5 == 0 {
			if day, err := time.Parse("2006-01-02", db.Date); err == nil {
				out[i].Label = day.Format("02/01")
			}
		}
	}
	return out
}
