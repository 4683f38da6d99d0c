package visual

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagelab/reflow/fragment"
	"github.com/pagelab/reflow/layout"
	"github.com/pagelab/reflow/model"
)

func detectSample(t *testing.T) *layout.Result {
	t.Helper()

	page := model.NewRect(0, 0, 612, 792)
	var raws []fragment.RawFragment
	for y := 100.0; y < 300; y += 20 {
		raws = append(raws,
			fragment.RawFragment{Rect: model.NewRect(72, y, 290, y+12), Text: "left", FontFamily: "Times", FontSizePx: 12},
			fragment.RawFragment{Rect: model.NewRect(322, y, 540, y+12), Text: "right", FontFamily: "Times", FontSizePx: 12},
		)
	}

	return layout.NewDetector().Detect(fragment.NewSnapshot(raws, page, 1))
}

func TestRender(t *testing.T) {
	result := detectSample(t)

	img := Render(result, DefaultOptions())

	require.NotNil(t, img)
	assert.Equal(t, 612, img.Bounds().Dx())
	assert.Equal(t, 792, img.Bounds().Dy())
}

func TestRender_Scale(t *testing.T) {
	result := detectSample(t)

	opts := DefaultOptions()
	opts.Scale = 2

	img := Render(result, opts)

	assert.Equal(t, 1224, img.Bounds().Dx())
	assert.Equal(t, 1584, img.Bounds().Dy())
}

func TestRender_NilResult(t *testing.T) {
	img := Render(nil, DefaultOptions())

	require.NotNil(t, img)
	assert.Equal(t, 1, img.Bounds().Dx())
}

func TestRender_DrawsParagraphBoxes(t *testing.T) {
	result := detectSample(t)
	require.NotEmpty(t, result.Paragraphs)

	opts := DefaultOptions()
	opts.Labels = false
	img := Render(result, opts)

	box := result.Paragraphs[0].Rect()
	r, g, b, _ := img.At(int(box.Left), int(box.Top)).RGBA()
	bg := DefaultOptions().Background
	br, bgreen, bb, _ := bg.RGBA()
	changed := r != br || g != bgreen || b != bb
	assert.True(t, changed, "expected the paragraph outline to mark the canvas")
}

func TestEncodePNG(t *testing.T) {
	img := Render(detectSample(t), DefaultOptions())

	var buf bytes.Buffer
	require.NoError(t, EncodePNG(&buf, img))
	assert.Equal(t, []byte("\x89PNG"), buf.Bytes()[:4])
}
