package document

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-solar/internal/entity"
)

type fakeWriter struct {
	addPages int
	placed   []string
	sizes    [][2]float64
	order    []string
}

func (f *fakeWriter) AddPage() {
	f.addPages++
	f.order = append(f.order, "add")
}

func (f *fakeWriter) PageSize() (float64, float64) { return 210, 297 }

func (f *fakeWriter) PlaceImage(name string, _ []byte, w, h float64) error {
	f.placed = append(f.placed, name)
	f.sizes = append(f.sizes, [2]float64{w, h})
	f.order = append(f.order, name)
	return nil
}

func (f *fakeWriter) Output(w io.Writer) error {
	_, err := w.Write([]byte("%PDF-fake"))
	return err
}

type stubLoader struct {
	calls []string
	fail  map[string]bool
}

func (s *stubLoader) Load(_ context.Context, src string) (image.Image, error) {
	s.calls = append(s.calls, src)
	if s.fail[src] {
		return nil, errors.New("404")
	}
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{0xFF, 0, 0, 0xFF})
		}
	}
	return img, nil
}

func threePageRoot() *Node {
	nav := Box(0, 0, 100, 10, color.Black)
	nav.PresentationOnly = true
	root := Box(0, 0, 100, 420, nil, nav)
	for i := 0; i < 3; i++ {
		p := Box(0, i*140, 100, 140, nil, Text(4, 4, 90, "pagina", color.Black, 1))
		p.ID = []string{"a", "b", "c"}[i]
		p.Page = true
		root.Children = append(root.Children, p)
	}
	return root
}

func TestExportProducesOnePagePerContainerInOrder(t *testing.T) {
	fw := &fakeWriter{}
	e := NewExporter(NewRasterizer(2), &stubLoader{}).WithWriter(func() PageWriter { return fw })

	var out bytes.Buffer
	pages, err := e.Export(context.Background(), threePageRoot(), &out)
	require.NoError(t, err)

	assert.Equal(t, 3, pages)
	assert.Equal(t, 2, fw.addPages)
	assert.Equal(t, []string{"page-1", "add", "page-2", "add", "page-3"}, fw.order)
	for _, size := range fw.sizes {
		assert.Equal(t, 210.0, size[0])
		assert.InDelta(t, 294.0, size[1], 0.001)
	}
	assert.Equal(t, "%PDF-fake", out.String())
}

func TestExportAbortsWithoutOutputAndRestoresChrome(t *testing.T) {
	root := threePageRoot()
	root.Children[2].W = 0 // segunda página inválida

	e := NewExporter(NewRasterizer(2), &stubLoader{}).WithWriter(func() PageWriter { return &fakeWriter{} })

	var out bytes.Buffer
	_, err := e.Export(context.Background(), root, &out)
	require.ErrorIs(t, err, ErrEmptyPage)
	assert.Zero(t, out.Len())
	assert.False(t, root.Children[0].Hidden)
}

func TestFindPagesWithoutTagsUsesRoot(t *testing.T) {
	root := Box(0, 0, 10, 10, nil, Box(0, 0, 5, 5, nil))
	pages := FindPages(root)
	require.Len(t, pages, 1)
	assert.Same(t, root, pages[0])
}

func TestFindPagesKeepsDocumentOrder(t *testing.T) {
	pages := FindPages(threePageRoot())
	require.Len(t, pages, 3)
	assert.Equal(t, "a", pages[0].ID)
	assert.Equal(t, "b", pages[1].ID)
	assert.Equal(t, "c", pages[2].ID)
}

func TestHidePresentationRestores(t *testing.T) {
	root := threePageRoot()
	alreadyHidden := Box(0, 0, 1, 1, nil)
	alreadyHidden.PresentationOnly = true
	alreadyHidden.Hidden = true
	root.Children = append(root.Children, alreadyHidden)

	restore := HidePresentation(root)
	assert.True(t, root.Children[0].Hidden)
	restore()
	assert.False(t, root.Children[0].Hidden)
	assert.True(t, alreadyHidden.Hidden)
}

func TestWaitForImagesResolvesFailures(t *testing.T) {
	page := Box(0, 0, 10, 10, nil, Img(0, 0, 5, 5, "ok.png"), Img(5, 5, 5, 5, "missing.png"))
	loader := &stubLoader{fail: map[string]bool{"missing.png": true}}

	require.NoError(t, WaitForImages(context.Background(), page, loader))
	assert.True(t, page.Children[0].Image.Loaded())
	assert.NotNil(t, page.Children[0].Image.Image())
	assert.True(t, page.Children[1].Image.Loaded())
	assert.Error(t, page.Children[1].Image.Err())

	// já carregadas não são buscadas de novo
	require.NoError(t, WaitForImages(context.Background(), page, loader))
	assert.Len(t, loader.calls, 2)
}

func TestRasterizeUsesWhiteBackgroundAndScale(t *testing.T) {
	page := Box(0, 0, 20, 10, color.Black, Box(10, 0, 10, 10, color.RGBA{0, 0, 0xFF, 0xFF}))
	bmp, err := NewRasterizer(3).Rasterize(page)
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 60, 30), bmp.Bounds())
	assert.Equal(t, color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}, bmp.RGBAAt(5, 5))
	assert.Equal(t, color.RGBA{0, 0, 0xFF, 0xFF}, bmp.RGBAAt(45, 15))
}

func TestRasterizeSkipsHiddenNodes(t *testing.T) {
	hidden := Box(0, 0, 10, 10, color.Black)
	hidden.Hidden = true
	bmp, err := NewRasterizer(1).Rasterize(Box(0, 0, 10, 10, nil, hidden))
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}, bmp.RGBAAt(1, 1))
}

func TestWrap(t *testing.T) {
	assert.Equal(t, []string{"um dois", "tres"}, Wrap("um dois tres", 7))
	assert.Equal(t, []string{"a", "", "b"}, Wrap("a\n\nb", 10))
}

func TestFilename(t *testing.T) {
	at := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "Proposta_João_da_Silva_2026-04-02.pdf", Filename("João  da Silva", at))
	assert.Equal(t, "Proposta_Cliente_2026-04-02.pdf", Filename(" ", at))
}

func TestProposalDocumentHasThreePagesAndHiddenNav(t *testing.T) {
	root := ProposalDocument(entity.Proposal{ClientName: "Ana", TotalValue: 11136, MonthlySavings: 762}, LayoutOptions{})
	assert.Len(t, FindPages(root), 3)

	var chrome int
	Walk(root, func(n *Node) bool {
		if n.PresentationOnly {
			chrome++
		}
		return true
	})
	assert.Equal(t, 1, chrome)
}

func TestExportWithRealPDFWriter(t *testing.T) {
	e := NewExporter(NewRasterizer(1), &stubLoader{})
	root := ProposalDocument(entity.Proposal{ClientName: "Ana"}, LayoutOptions{LogoURL: "logo.png"})

	var out bytes.Buffer
	pages, err := e.Export(context.Background(), root, &out)
	require.NoError(t, err)
	assert.Equal(t, 3, pages)
	assert.True(t, bytes.HasPrefix(out.Bytes(), []byte("%PDF")))
}
