package models

// StoryContext is everything a stage needs to run. It is built from the
// persisted story so a stage behaves the same on a fresh run, a variant or
// a retry.
type StoryContext struct {
	StoryID    string
	Palette    Palette
	Room       string
	Style      string
	VibeWords  []string
	BrandHints []string
	VariantOf  string
	Emphasis   string
	VibeTweaks []string
	Narration  string
}

// NewStoryContext snapshots the generation inputs of s.
func NewStoryContext(s *Story) *StoryContext {
	return &StoryContext{
		StoryID:    s.ID,
		Palette:    s.Palette,
		Room:       s.Room,
		Style:      s.Style,
		VibeWords:  append([]string(nil), s.VibeWords...),
		BrandHints: append([]string(nil), s.BrandHints...),
		VariantOf:  s.VariantOf,
		Emphasis:   s.Emphasis,
		VibeTweaks: append([]string(nil), s.VibeTweaks...),
		Narration:  s.Narration,
	}
}

// IsVariant reports whether the story was derived from a parent story.
func (c *StoryContext) IsVariant() bool {
	return c.VariantOf != ""
}

// Hexes returns the palette colors in order.
func (c *StoryContext) Hexes() []string {
	return c.Palette.Hexes
}

// Apply folds the outputs later stages depend on back into the context.
func (c *StoryContext) Apply(p StoryPatch) {
	if p.Narration != nil {
		c.Narration = *p.Narration
	}
}
