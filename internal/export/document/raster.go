package document

import (
	"errors"
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DefaultScale é o fator de ampliação usado para nitidez na impressão.
const DefaultScale = 2

const (
	lineHeight = 13
	glyphWidth = 7
	ascent     = 11
)

var ErrEmptyPage = errors.New("página sem dimensões")

type Rasterizer struct {
	Scale int
}

func NewRasterizer(scale int) *Rasterizer {
	if scale < 1 {
		scale = DefaultScale
	}
	return &Rasterizer{Scale: scale}
}

// Rasterize desenha a página em fundo branco, ignorando o fundo da própria página.
func (r *Rasterizer) Rasterize(page *Node) (*image.RGBA, error) {
	if page == nil || page.W <= 0 || page.H <= 0 {
		return nil, ErrEmptyPage
	}
	s := r.Scale
	dst := image.NewRGBA(image.Rect(0, 0, page.W*s, page.H*s))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)

	for _, child := range page.Children {
		r.paint(dst, child, 0, 0)
	}
	return dst, nil
}

func (r *Rasterizer) paint(dst *image.RGBA, n *Node, ox, oy int) {
	if n.Hidden {
		return
	}
	s := r.Scale
	x, y := ox+n.X, oy+n.Y
	rect := image.Rect(x*s, y*s, (x+n.W)*s, (y+n.H)*s)

	if n.Background != nil {
		draw.Draw(dst, rect, image.NewUniform(n.Background), image.Point{}, draw.Over)
	}

	switch n.Kind {
	case KindImage:
		if n.Image != nil && n.Image.img != nil {
			draw.CatmullRom.Scale(dst, rect, n.Image.img, n.Image.img.Bounds(), draw.Over, nil)
		}
	case KindText:
		r.drawText(dst, n, x, y)
	}

	for _, child := range n.Children {
		r.paint(dst, child, x, y)
	}
}

// drawText escreve em 1x numa camada transparente e amplia sem suavização.
func (r *Rasterizer) drawText(dst *image.RGBA, n *Node, x, y int) {
	if n.Text == "" {
		return
	}
	scale := n.Scale
	if scale < 1 {
		scale = 1
	}
	lines := Wrap(n.Text, n.W/(glyphWidth*scale))
	width := n.W / scale
	if width <= 0 {
		return
	}

	layer := image.NewRGBA(image.Rect(0, 0, width, len(lines)*lineHeight))
	c := n.Color
	if c == nil {
		c = color.Black
	}
	d := &font.Drawer{Dst: layer, Src: image.NewUniform(c), Face: basicfont.Face7x13}
	for i, line := range lines {
		d.Dot = fixed.P(0, ascent+i*lineHeight)
		d.DrawString(line)
	}

	s := r.Scale * scale
	target := image.Rect(x*r.Scale, y*r.Scale, x*r.Scale+width*s, y*r.Scale+len(lines)*lineHeight*s)
	draw.NearestNeighbor.Scale(dst, target, layer, layer.Bounds(), draw.Over, nil)
}

// Wrap quebra o texto por palavras em linhas de até maxChars caracteres.
func Wrap(text string, maxChars int) []string {
	if maxChars < 1 {
		maxChars = 1
	}
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := ""
		for _, w := range words {
			switch {
			case line == "":
				line = w
			case len([]rune(line))+1+len([]rune(w)) <= maxChars:
				line += " " + w
			default:
				lines = append(lines, line)
				line = w
			}
		}
		lines = append(lines, line)
	}
	return lines
}
