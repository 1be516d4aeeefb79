// Package palette turns the accepted palette input shapes into one canonical
// models.Palette.
package palette

import (
	"regexp"
	"strings"

	"colorstory/apperr"
	"colorstory/models"
)

// DefaultName is used when a structured palette carries no name.
const DefaultName = "Untitled"

var hexPattern = regexp.MustCompile(`^#?[0-9a-fA-F]{6}$`)

// Structured is the modern palette shape.
type Structured struct {
	ID    *string              `json:"id,omitempty"`
	Name  string               `json:"name,omitempty"`
	Items []models.PaletteItem `json:"items"`
}

// Source carries both accepted shapes as they arrive on the wire. At most one
// of them is expected to be populated.
type Source struct {
	Palette     *Structured `json:"palette,omitempty"`
	PaletteName string      `json:"paletteName,omitempty"`
	Hexes       []string    `json:"hexes,omitempty"`
}

// Shape is the classification of a Source.
type Shape int

const (
	ShapeInvalid Shape = iota
	ShapeStructured
	ShapeLegacy
)

func (s Shape) String() string {
	switch s {
	case ShapeStructured:
		return "structured"
	case ShapeLegacy:
		return "legacy"
	default:
		return "invalid"
	}
}

// NormalizeHex validates a 6-digit color and returns it as upper-case #RRGGBB.
func NormalizeHex(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if !hexPattern.MatchString(s) {
		return "", false
	}
	return "#" + strings.ToUpper(strings.TrimPrefix(s, "#")), true
}

// Classify decides which accepted shape src matches. The structured shape
// wins when both are valid.
func Classify(src Source) Shape {
	if p := src.Palette; p != nil && len(p.Items) > 0 && allValid(p.Items) {
		return ShapeStructured
	}
	if strings.TrimSpace(src.PaletteName) != "" && len(src.Hexes) > 0 && allValidHexes(src.Hexes) {
		return ShapeLegacy
	}
	return ShapeInvalid
}

// Normalize converts src into the canonical palette.
func Normalize(src Source) (models.Palette, error) {
	switch Classify(src) {
	case ShapeStructured:
		return fromStructured(src.Palette), nil
	case ShapeLegacy:
		return fromLegacy(src.PaletteName, src.Hexes), nil
	default:
		return models.Palette{}, apperr.New(apperr.InvalidArgument,
			"palette must be either {palette: {items: [{hex}, ...]}} with at least one valid 6-digit hex, "+
				"or {paletteName, hexes: [...]} with a non-blank name and at least one valid 6-digit hex")
	}
}

// BrandHints returns the distinct brand names of p in item order.
func BrandHints(p models.Palette) []string {
	seen := make(map[string]bool)
	hints := []string{}
	for _, item := range p.Items {
		brand := strings.TrimSpace(item.BrandName)
		if brand == "" || seen[strings.ToLower(brand)] {
			continue
		}
		seen[strings.ToLower(brand)] = true
		hints = append(hints, brand)
	}
	return hints
}

func fromStructured(s *Structured) models.Palette {
	name := strings.TrimSpace(s.Name)
	if name == "" {
		name = DefaultName
	}

	var id *string
	if s.ID != nil && strings.TrimSpace(*s.ID) != "" {
		v := strings.TrimSpace(*s.ID)
		id = &v
	}

	items := make([]models.PaletteItem, 0, len(s.Items))
	hexes := make([]string, 0, len(s.Items))
	for _, item := range s.Items {
		hex, _ := NormalizeHex(item.Hex)
		items = append(items, models.PaletteItem{
			Hex:       hex,
			BrandName: strings.TrimSpace(item.BrandName),
			ColorName: strings.TrimSpace(item.ColorName),
			Code:      strings.TrimSpace(item.Code),
		})
		hexes = append(hexes, hex)
	}

	return models.Palette{ID: id, Name: name, Items: items, Hexes: hexes}
}

func fromLegacy(name string, raw []string) models.Palette {
	items := make([]models.PaletteItem, 0, len(raw))
	hexes := make([]string, 0, len(raw))
	for _, h := range raw {
		hex, _ := NormalizeHex(h)
		items = append(items, models.PaletteItem{Hex: hex})
		hexes = append(hexes, hex)
	}
	return models.Palette{Name: strings.TrimSpace(name), Items: items, Hexes: hexes}
}

func allValid(items []models.PaletteItem) bool {
	for _, item := range items {
		if _, ok := NormalizeHex(item.Hex); !ok {
			return false
		}
	}
	return true
}

func allValidHexes(hexes []string) bool {
	for _, h := range hexes {
		if _, ok := NormalizeHex(h); !ok {
			return false
		}
	}
	return true
}
