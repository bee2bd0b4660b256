package document

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/xavierca1/ligue-solar/internal/calculator"
	"github.com/xavierca1/ligue-solar/internal/entity"
	"github.com/xavierca1/ligue-solar/internal/export"
)

// A4 a 96 dpi
const (
	PageWidth  = 794
	PageHeight = 1123
)

var (
	brandColor = color.RGBA{0xF5, 0x9E, 0x0B, 0xFF}
	darkText   = color.RGBA{0x1F, 0x29, 0x37, 0xFF}
	mutedText  = color.RGBA{0x6B, 0x72, 0x80, 0xFF}
	panelColor = color.RGBA{0xF3, 0xF4, 0xF6, 0xFF}
)

type LayoutOptions struct {
	CompanyName string
	LogoURL     string
}

// ProposalDocument monta as páginas de capa, sistema e financeiro, mais a
// barra de navegação da pré-visualização.
func ProposalDocument(p entity.Proposal, opts LayoutOptions) *Node {
	if opts.CompanyName == "" {
		opts.CompanyName = "Ligue Solar"
	}

	nav := Box(0, 0, PageWidth, 48, darkText,
		Text(24, 16, 400, "Voltar   Baixar PDF   Compartilhar", color.White, 1),
	)
	nav.ID = "preview-nav"
	nav.PresentationOnly = true

	return &Node{
		ID:   "proposal-root",
		Kind: KindBox,
		W:    PageWidth,
		H:    3 * PageHeight,
		Children: []*Node{
			nav,
			coverPage(p, opts),
			systemPage(p),
			financialPage(p),
		},
	}
}

func page(id string, index int, children ...*Node) *Node {
	n := Box(0, index*PageHeight, PageWidth, PageHeight, nil, children...)
	n.ID = id
	n.Page = true
	return n
}

func header(title string) *Node {
	return Box(0, 0, PageWidth, 96, brandColor,
		Text(48, 32, PageWidth-96, title, color.White, 2),
	)
}

// rows desenha pares rótulo/valor a partir de y.
func rows(y int, pairs [][2]string) []*Node {
	var out []*Node
	for i, kv := range pairs {
		top := y + i*36
		out = append(out,
			Text(48, top, 300, kv[0], mutedText, 1),
			Text(360, top, PageWidth-408, kv[1], darkText, 1),
		)
	}
	return out
}

func coverPage(p entity.Proposal, opts LayoutOptions) *Node {
	children := []*Node{header("Proposta Comercial de Energia Solar")}
	if opts.LogoURL != "" {
		children = append(children, Img(PageWidth-168, 120, 120, 120, opts.LogoURL))
	}
	children = append(children,
		Text(48, 140, 500, opts.CompanyName, darkText, 2),
		Text(48, 200, 500, "Cliente", mutedText, 1),
		Text(48, 220, 600, p.ClientName, darkText, 2),
	)

	addr := addressLine(p.Address)
	pairs := [][2]string{
		{"Telefone", p.ClientPhone},
		{"E-mail", orDash(p.ClientEmail)},
		{"Endereço", orDash(addr)},
		{"Vendedor", orDash(p.SellerName)},
		{"Emitida em", p.CreatedAt.Format(export.DateLayout)},
		{"Válida até", p.ValidUntil.Format(export.DateLayout)},
	}
	children = append(children, rows(300, pairs)...)
	return page("page-cover", 0, children...)
}

func systemPage(p entity.Proposal) *Node {
	pairs := [][2]string{
		{"Potência do sistema", export.Number(p.SystemPowerKwp, 2) + " kWp"},
		{"Quantidade de módulos", fmt.Sprintf("%d", p.ModuleQuantity)},
		{"Potência do módulo", export.Number(p.ModulePower, 0) + " W"},
		{"Marca do módulo", orDash(p.ModuleBrand)},
		{"Inversor", orDash(strings.TrimSpace(p.InverterBrand + " " + wattsOrEmpty(p.InverterPower)))},
		{"Tipo de ligação", connectionLabel(p.ConnectionType)},
		{"Área necessária", export.Number(p.RequiredArea, 1) + " m²"},
		{"Geração mensal", export.Number(p.MonthlyGeneration, 0) + " kWh"},
		{"Consumo mensal informado", export.Number(p.MonthlyConsumption, 0) + " kWh"},
	}
	children := []*Node{header("Dimensionamento do Sistema")}
	children = append(children, Box(32, 120, PageWidth-64, len(pairs)*36+32, panelColor, rows(16, pairs)...))
	return page("page-system", 1, children...)
}

func financialPage(p entity.Proposal) *Node {
	payback := calculator.CalculatePayback(p.TotalValue, p.MonthlySavings)
	pairs := [][2]string{
		{"Investimento total", export.BRL(p.TotalValue)},
		{"Preço por kWp", export.BRL(p.PricePerKwp)},
		{"Economia mensal estimada", export.BRL(p.MonthlySavings)},
		{"Conta média atual", export.BRL(calculator.CalculateAverageBill(p.MonthlyConsumption))},
		{"Taxa mínima da concessionária", export.BRL(calculator.MinimumMonthlyCharge(p.ConnectionType))},
		{"Retorno do investimento", export.Number(payback, 1) + " anos"},
		{"Forma de pagamento", paymentLabel(p.PaymentMethod)},
	}
	children := []*Node{header("Investimento e Retorno")}
	children = append(children, rows(140, pairs)...)
	if p.Notes != "" {
		children = append(children,
			Text(48, 440, 300, "Observações", mutedText, 1),
			Text(48, 470, PageWidth-96, p.Notes, darkText, 1),
		)
	}
	return page("page-financial", 2, children...)
}

func addressLine(a entity.Address) string {
	var parts []string
	street := strings.TrimSpace(strings.Join(nonEmpty(a.Street, a.Number), ", "))
	if street != "" {
		parts = append(parts, street)
	}
	parts = append(parts, nonEmpty(a.Neighborhood, a.City, a.State, a.PostalCode)...)
	return strings.Join(parts, " - ")
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func wattsOrEmpty(w float64) string {
	if w <= 0 {
		return ""
	}
	return export.Number(w, 0) + " W"
}

func connectionLabel(c entity.ConnectionType) string {
	switch c {
	case entity.ConnectionTwoPhase:
		return "Bifásica"
	case entity.ConnectionThreePhase:
		return "Trifásica"
	}
	return "-"
}

func paymentLabel(m entity.PaymentMethod) string {
	switch m {
	case entity.PaymentPix:
		return "PIX"
	case entity.PaymentCard:
		return "Cartão de crédito"
	case entity.PaymentFinancing:
		return "Financiamento"
	}
	return "-"
}
