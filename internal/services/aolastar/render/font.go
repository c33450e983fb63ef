package render

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
)

// SystemFontPaths are the CJK font files tried when no explicit font is set.
var SystemFontPaths = []string{
	"/usr/share/fonts/truetype/wqy/wqy-zenhei.ttc",
	"/usr/share/fonts/wenquanyi/wqy-zenhei/wqy-zenhei.ttc",
	"/usr/share/fonts/truetype/wqy/wqy-microhei.ttc",
	"/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/noto-cjk/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/truetype/droid/DroidSansFallbackFull.ttf",
	"/usr/share/fonts/truetype/arphic/ukai.ttc",
	"/usr/share/fonts/truetype/arphic/uming.ttc",
	"/System/Library/Fonts/PingFang.ttc",
	"/System/Library/Fonts/STHeiti Light.ttc",
}

// fontSet holds the faces for one renderer.
type fontSet struct {
	title  font.Face
	body   font.Face
	source string
}

// LoadFace parses a TrueType/OpenType file or collection and returns a face
// of the first font at size points.
func LoadFace(path string, size float64) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", path, err)
	}
	collection, err := opentype.ParseCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	if collection.NumFonts() == 0 {
		return nil, fmt.Errorf("font %s has no faces", path)
	}
	parsed, err := collection.Font(0)
	if err != nil {
		return nil, fmt.Errorf("select font %s: %w", path, err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("new face %s: %w", path, err)
	}
	return face, nil
}

// loadFonts tries path, then the system candidates when enabled, and falls
// back to the built-in bitmap face.
func loadFonts(path string, searchSystem bool, bodySize float64, logf func(string, ...any)) (fontSet, error) {
	var candidates []string
	if p := strings.TrimSpace(path); p != "" {
		candidates = append(candidates, p)
	}
	if searchSystem {
		candidates = append(candidates, SystemFontPaths...)
	}

	for i, candidate := range candidates {
		if _, err := os.Stat(candidate); err != nil {
			if i == 0 && strings.TrimSpace(path) != "" {
				return fontSet{}, fmt.Errorf("font %s: %w", candidate, err)
			}
			continue
		}
		body, err := LoadFace(candidate, bodySize)
		if err != nil {
			if i == 0 && strings.TrimSpace(path) != "" {
				return fontSet{}, err
			}
			if logf != nil {
				logf("render: skip font: %v", err)
			}
			continue
		}
		title, err := LoadFace(candidate, bodySize*1.5)
		if err != nil {
			return fontSet{}, err
		}
		return fontSet{title: title, body: body, source: candidate}, nil
	}

	if logf != nil && searchSystem {
		logf("render: no CJK font found, using built-in bitmap face")
	}
	return fontSet{title: basicfont.Face7x13, body: basicfont.Face7x13, source: "basicfont"}, nil
}
