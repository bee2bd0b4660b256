package document

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"net/http"
	"time"
)

// FindPages devolve os contêineres de página em ordem do documento.
// Sem nenhum marcado, a raiz inteira vira uma página.
func FindPages(root *Node) []*Node {
	var pages []*Node
	Walk(root, func(n *Node) bool {
		if n.Page {
			pages = append(pages, n)
			return false
		}
		return true
	})
	if len(pages) == 0 && root != nil {
		return []*Node{root}
	}
	return pages
}

// HidePresentation esconde os nós de navegação e devolve a função que
// restaura o estado anterior. Use sempre com defer.
func HidePresentation(root *Node) (restore func()) {
	var hidden []*Node
	Walk(root, func(n *Node) bool {
		if n.PresentationOnly && !n.Hidden {
			n.Hidden = true
			hidden = append(hidden, n)
		}
		return true
	})
	return func() {
		for _, n := range hidden {
			n.Hidden = false
		}
	}
}

type ImageLoader interface {
	Load(ctx context.Context, src string) (image.Image, error)
}

// WaitForImages carrega cada imagem da página. Falha de carga também conta
// como concluída; a caixa fica em branco.
func WaitForImages(ctx context.Context, page *Node, loader ImageLoader) error {
	var refs []*ImageRef
	Walk(page, func(n *Node) bool {
		if n.Kind == KindImage && n.Image != nil && !n.Image.loaded {
			refs = append(refs, n.Image)
		}
		return true
	})

	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return err
		}
		img, err := loader.Load(ctx, ref.Src)
		if err != nil {
			log.Printf("⚠️ Imagem %s não carregou: %v", ref.Src, err)
		}
		ref.img, ref.err, ref.loaded = img, err, true
	}
	return nil
}

// HTTPImageLoader busca PNG/JPEG por HTTP.
type HTTPImageLoader struct {
	Client *http.Client
}

func NewHTTPImageLoader() *HTTPImageLoader {
	return &HTTPImageLoader{Client: &http.Client{Timeout: 10 * time.Second}}
}

func (l *HTTPImageLoader) Load(ctx context.Context, src string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	img, _, err := image.Decode(resp.Body)
	return img, err
}
