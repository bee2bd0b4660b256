// Package document renders a tree of page-sized boxes into a multi-page PDF:
// pages are located, presentation-only chrome is hidden, images are awaited,
// each page is rasterized on white at a fixed scale and placed on its own
// A4 page.
package document

import (
	"image"
	"image/color"
)

type Kind int

const (
	KindBox Kind = iota
	KindText
	KindImage
)

// Node é uma caixa posicionada em pixels relativos ao pai.
type Node struct {
	ID   string
	Kind Kind
	// Page marca um contêiner do tamanho de uma página
	Page bool
	// PresentationOnly marca navegação e botões que não vão para o arquivo
	PresentationOnly bool
	Hidden           bool

	X, Y, W, H int

	Background color.Color
	Color      color.Color
	Text       string
	// Scale multiplica o tamanho da fonte base (7x13)
	Scale int
	Image *ImageRef

	Children []*Node
}

// ImageRef é uma imagem ainda não carregada, identificada pela origem.
type ImageRef struct {
	Src string

	img    image.Image
	err    error
	loaded bool
}

func (r *ImageRef) Loaded() bool       { return r.loaded }
func (r *ImageRef) Image() image.Image { return r.img }
func (r *ImageRef) Err() error         { return r.err }

// SetImage marca a referência como carregada com img.
func (r *ImageRef) SetImage(img image.Image) {
	r.img, r.err, r.loaded = img, nil, true
}

func Box(x, y, w, h int, bg color.Color, children ...*Node) *Node {
	return &Node{Kind: KindBox, X: x, Y: y, W: w, H: h, Background: bg, Children: children}
}

func Text(x, y, w int, text string, c color.Color, scale int) *Node {
	if scale < 1 {
		scale = 1
	}
	return &Node{Kind: KindText, X: x, Y: y, W: w, H: lineHeight * scale, Text: text, Color: c, Scale: scale}
}

func Img(x, y, w, h int, src string) *Node {
	return &Node{Kind: KindImage, X: x, Y: y, W: w, H: h, Image: &ImageRef{Src: src}}
}

// Walk visita n e descendentes em pré-ordem até fn devolver false.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}
