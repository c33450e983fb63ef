// Package render draws relation groupings as PNG images.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"
	"strings"
	"sync"

	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	apperrors "github.com/vmoranv/aolastar/internal/platform/errors"
	"github.com/vmoranv/aolastar/internal/services/aolastar/domain"
)

const (
	defaultFontSize = 20
	padding         = 28
	columnGap       = 48
	lineSpacing     = 8
	swatchSize      = 12
	namesPerLine    = 4
	nameSeparator   = "   "
)

// Palette colors, matching the relation tiers.
var (
	colorBackground = drawing.ColorFromHex("f5f7fa")
	colorTitle      = drawing.ColorFromHex("0f172a")
	colorAccent     = drawing.ColorFromHex("6366f1")
	colorText       = drawing.ColorFromHex("334155")
	colorMuted      = drawing.ColorFromHex("94a3b8")

	tierColors = map[domain.Tier]drawing.Color{
		domain.TierSuper:  drawing.ColorFromHex("ef4444"),
		domain.TierStrong: drawing.ColorFromHex("fb923c"),
		domain.TierNormal: drawing.ColorFromHex("9ca3af"),
		domain.TierWeak:   drawing.ColorFromHex("22c55e"),
		domain.TierImmune: drawing.ColorFromHex("6b7280"),
	}
)

// Labels are the fixed strings drawn on the image.
type Labels struct {
	Attack  string
	Defense string
	None    string
	Tiers   map[domain.Tier]string
}

// DefaultLabels are the Simplified Chinese labels.
var DefaultLabels = Labels{
	Attack:  "攻击方",
	Defense: "防御方",
	None:    "无",
	Tiers: map[domain.Tier]string{
		domain.TierSuper:  "绝对克制",
		domain.TierStrong: "克制",
		domain.TierNormal: "一般",
		domain.TierWeak:   "微弱",
		domain.TierImmune: "无效",
	},
}

// Options configures a Renderer.
type Options struct {
	// FontPath is an explicit TrueType/OpenType font; it must load.
	FontPath string
	// SearchSystemFonts tries SystemFontPaths after FontPath.
	SearchSystemFonts bool
	// FontSize is the body text size in points.
	FontSize float64
	Labels   *Labels
	Logf     func(string, ...any)
}

// Renderer turns relation groupings into PNG bytes. Output depends only on
// the grouping, the title and the loaded font.
type Renderer struct {
	// mu serializes drawing; opentype faces are not safe for concurrent use.
	mu     sync.Mutex
	fonts  fontSet
	labels Labels
}

// New loads fonts and builds a renderer.
func New(opts Options) (*Renderer, error) {
	size := opts.FontSize
	if size <= 0 {
		size = defaultFontSize
	}
	fonts, err := loadFonts(opts.FontPath, opts.SearchSystemFonts, size, opts.Logf)
	if err != nil {
		return nil, err
	}
	if opts.Logf != nil {
		opts.Logf("render: using font %s", fonts.source)
	}
	labels := DefaultLabels
	if opts.Labels != nil {
		labels = *opts.Labels
	}
	return &Renderer{fonts: fonts, labels: labels}, nil
}

// FontSource names the loaded font file, or "basicfont".
func (r *Renderer) FontSource() string {
	return r.fonts.source
}

type line struct {
	text   string
	color  color.Color
	indent int
	swatch color.Color
}

// Render draws the grouping under attributeName. When attributeName is
// empty the grouping's own name is used.
func (r *Renderer) Render(grouping domain.RelationGrouping, attributeName string) ([]byte, error) {
	if grouping.Empty() {
		return nil, apperrors.WithMetadata(
			apperrors.CodeRenderUnavailable,
			"relation grouping is empty",
			map[string]string{apperrors.MetadataAttributeID: strconv.Itoa(grouping.AttributeID)},
		)
	}
	title := strings.TrimSpace(attributeName)
	if title == "" {
		title = grouping.AttributeName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	left := r.columnLines(r.labels.Attack, grouping.Attack)
	right := r.columnLines(r.labels.Defense, grouping.Defense)

	body := r.fonts.body
	bodyHeight := body.Metrics().Height.Ceil() + lineSpacing
	titleHeight := r.fonts.title.Metrics().Height.Ceil() + lineSpacing

	leftWidth := r.columnWidth(left)
	rightWidth := r.columnWidth(right)
	titleWidth := font.MeasureString(r.fonts.title, title).Ceil()

	width := max(padding*2+leftWidth+columnGap+rightWidth, padding*2+titleWidth)
	rows := max(len(left), len(right))
	height := padding*2 + titleHeight + lineSpacing*2 + rows*bodyHeight

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(colorBackground), image.Point{}, draw.Src)

	// Title, then an accent rule under it.
	r.drawText(img, r.fonts.title, colorTitle, padding, padding, title)
	ruleY := padding + titleHeight
	draw.Draw(img, image.Rect(padding, ruleY, width-padding, ruleY+2), image.NewUniform(colorAccent), image.Point{}, draw.Src)

	top := ruleY + lineSpacing*2
	r.drawColumn(img, padding, top, bodyHeight, left)
	r.drawColumn(img, padding+leftWidth+columnGap, top, bodyHeight, right)

	var buf bytes.Buffer
	encoder := png.Encoder{CompressionLevel: png.DefaultCompression}
	if err := encoder.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// columnLines lays out one side: a header, then each bucket as a colored
// sub-header followed by its names.
func (r *Renderer) columnLines(header string, buckets []domain.Bucket) []line {
	lines := []line{{text: header, color: colorAccent}}
	if len(buckets) == 0 {
		return append(lines, line{text: r.labels.None, color: colorMuted, indent: swatchSize * 2})
	}
	for _, bucket := range buckets {
		tier := domain.TierOf(bucket.Multiplier)
		tierColor := tierColors[tier]
		label := fmt.Sprintf("%s ×%s", r.labels.Tiers[tier], strconv.FormatFloat(bucket.Multiplier, 'g', -1, 64))
		lines = append(lines, line{text: label, color: tierColor, indent: swatchSize * 2, swatch: tierColor})
		for start := 0; start < len(bucket.Names); start += namesPerLine {
			end := min(start+namesPerLine, len(bucket.Names))
			lines = append(lines, line{
				text:   strings.Join(bucket.Names[start:end], nameSeparator),
				color:  colorText,
				indent: swatchSize * 2,
			})
		}
	}
	return lines
}

func (r *Renderer) columnWidth(lines []line) int {
	widest := 0
	for _, l := range lines {
		widest = max(widest, l.indent+font.MeasureString(r.fonts.body, l.text).Ceil())
	}
	return widest
}

func (r *Renderer) drawColumn(img *image.RGBA, x int, y int, lineHeight int, lines []line) {
	ascent := r.fonts.body.Metrics().Ascent.Ceil()
	for i, l := range lines {
		top := y + i*lineHeight
		if l.swatch != nil {
			swatchTop := top + (ascent-swatchSize)/2
			draw.Draw(img, image.Rect(x, swatchTop, x+swatchSize, swatchTop+swatchSize), image.NewUniform(l.swatch), image.Point{}, draw.Src)
		}
		r.drawText(img, r.fonts.body, l.color, x+l.indent, top, l.text)
	}
}

// drawText draws text with its top edge at y.
func (r *Renderer) drawText(img *image.RGBA, face font.Face, c color.Color, x int, y int, text string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y + face.Metrics().Ascent.Ceil())},
	}
	d.DrawString(text)
}
