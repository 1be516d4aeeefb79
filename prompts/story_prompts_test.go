package prompts

import (
	"strings"
	"testing"

	"colorstory/models"
)

func testContext() *models.StoryContext {
	return &models.StoryContext{
		StoryID: "s1",
		Palette: models.Palette{
			Name: "Harbor",
			Items: []models.PaletteItem{
				{Hex: "#112233", ColorName: "Deep Navy", BrandName: "Behr", Code: "S-1"},
				{Hex: "#F5F5DC"},
			},
			Hexes: []string{"#112233", "#F5F5DC"},
		},
		Room:       "kitchen",
		Style:      "modern",
		VibeWords:  []string{"calm", "airy"},
		BrandHints: []string{"Behr"},
	}
}

func TestNarrationPrompt(t *testing.T) {
	prompt := NarrationPrompt(testContext())

	for _, want := range []string{"Harbor (#112233, #F5F5DC)", "- #112233 Deep Navy by Behr (S-1)", "ROOM: kitchen", "STYLE: modern", "VIBE: calm, airy", "PREFERRED BRANDS: Behr", "300 to 600 words"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("narration prompt missing %q", want)
		}
	}
	if strings.Contains(prompt, "VARIATION") {
		t.Errorf("fresh story prompt should not mention a variation")
	}
}

func TestVariantPrompts(t *testing.T) {
	sc := testContext()
	sc.VariantOf = "parent"
	sc.Emphasis = "more texture"
	sc.VibeTweaks = []string{"earthy", "cozy"}

	narration := NarrationPrompt(sc)
	if !strings.Contains(narration, "EMPHASIS: more texture") || !strings.Contains(narration, "TWEAKS: earthy, cozy") {
		t.Errorf("variant narration prompt missing emphasis or tweaks:\n%s", narration)
	}

	hero := HeroPrompt(sc)
	if !strings.Contains(hero, "Emphasize: more texture.") {
		t.Errorf("variant hero prompt missing emphasis: %s", hero)
	}
}

func TestUsageGuidePrompt(t *testing.T) {
	prompt := UsageGuidePrompt(testContext())

	for _, want := range []string{`"items"`, "between 4 and 6 items", "main, trim, ceiling, accent", "finishRecommendation"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("usage guide prompt missing %q", want)
		}
	}
}

func TestPromptDefaults(t *testing.T) {
	sc := &models.StoryContext{Palette: models.Palette{Hexes: []string{"#000000"}}}

	hero := HeroPrompt(sc)
	if !strings.Contains(hero, "timeless living room") {
		t.Errorf("hero prompt did not fall back to defaults: %s", hero)
	}
	if !strings.Contains(NarrationPrompt(sc), "Untitled (#000000)") {
		t.Errorf("narration prompt did not default the palette name")
	}
}
