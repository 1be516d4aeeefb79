package prompts

import (
	"colorstory/models"
	"fmt"
	"strings"
)

// UsageRoles are the roles every usage guide is expected to cover
var UsageRoles = []string{"main", "trim", "ceiling", "accent"}

// NarrationPrompt generates the instruction for the narration stage
func NarrationPrompt(sc *models.StoryContext) string {
	prompt := fmt.Sprintf(`You are an interior color consultant writing a short "color story" for a homeowner.

PALETTE: %s
%s
ROOM: %s
STYLE: %s
VIBE: %s%s%s

Write 300 to 600 words that:
- Explain how the colors work together in this room and why they suit the style
- Describe the mood a visitor feels walking in
- Suggest where each color belongs (walls, trim, ceiling, accents) without listing them as a table
- Stay warm and specific; avoid generic design clichés

Markdown is allowed for emphasis and short headings. Do not include a title page or sign-off.`,
		paletteName(sc),
		describeColors(sc.Palette),
		orDefault(sc.Room, "living space"),
		orDefault(sc.Style, "timeless"),
		orDefault(strings.Join(sc.VibeWords, ", "), "balanced, inviting"),
		brandLine(sc.BrandHints),
		variantSection(sc))

	return prompt
}

// UsageGuidePrompt generates the instruction for the structured usage guide
func UsageGuidePrompt(sc *models.StoryContext) string {
	prompt := fmt.Sprintf(`You are an interior color consultant. Build a paint usage guide for this palette.

PALETTE: %s
%s
ROOM: %s
STYLE: %s
VIBE: %s%s%s

Respond ONLY with a JSON object of the form:
{
  "items": [
    {
      "role": "main | trim | ceiling | accent | door | cabinet",
      "hex": "#RRGGBB from the palette",
      "name": "color name",
      "brandName": "paint brand",
      "code": "manufacturer color code",
      "surface": "where it goes",
      "finishRecommendation": "e.g. matte, eggshell, satin, semi-gloss",
      "sheen": "low | medium | high",
      "howToUse": "one or two sentences of practical advice"
    }
  ]
}

Rules:
- Return between 4 and 6 items
- Cover the roles %s; door and cabinet are optional
- Every field is required and must be a non-empty string
- Only use hex values from the palette`,
		paletteName(sc),
		describeColors(sc.Palette),
		orDefault(sc.Room, "living space"),
		orDefault(sc.Style, "timeless"),
		orDefault(strings.Join(sc.VibeWords, ", "), "balanced, inviting"),
		brandLine(sc.BrandHints),
		variantSection(sc),
		strings.Join(UsageRoles, ", "))

	return prompt
}

// HeroPrompt generates the instruction for the hero image
func HeroPrompt(sc *models.StoryContext) string {
	prompt := fmt.Sprintf(
		"Photorealistic interior photograph of a %s %s, painted in the palette %s. "+
			"Mood: %s. Natural daylight, wide-angle, editorial styling, no people, no text, no logos.",
		orDefault(sc.Style, "timeless"),
		orDefault(sc.Room, "living room"),
		strings.Join(sc.Hexes(), ", "),
		orDefault(strings.Join(sc.VibeWords, ", "), "calm and inviting"))

	if sc.IsVariant() && sc.Emphasis != "" {
		prompt += fmt.Sprintf(" Emphasize: %s.", sc.Emphasis)
	}
	return prompt
}

func paletteName(sc *models.StoryContext) string {
	name := sc.Palette.Name
	if name == "" {
		name = "Untitled"
	}
	return fmt.Sprintf("%s (%s)", name, strings.Join(sc.Hexes(), ", "))
}

func describeColors(p models.Palette) string {
	colors := ""
	for _, item := range p.Items {
		line := "- " + item.Hex
		if item.ColorName != "" {
			line += " " + item.ColorName
		}
		if item.BrandName != "" {
			line += " by " + item.BrandName
		}
		if item.Code != "" {
			line += fmt.Sprintf(" (%s)", item.Code)
		}
		colors += line + "\n"
	}
	return colors
}

func brandLine(brands []string) string {
	if len(brands) == 0 {
		return ""
	}
	return "\nPREFERRED BRANDS: " + strings.Join(brands, ", ")
}

func variantSection(sc *models.StoryContext) string {
	if !sc.IsVariant() {
		return ""
	}
	section := "\n\nTHIS IS A VARIATION of an earlier story for the same palette. Keep the palette, but shift the telling."
	if sc.Emphasis != "" {
		section += "\nEMPHASIS: " + sc.Emphasis
	}
	if len(sc.VibeTweaks) > 0 {
		section += "\nTWEAKS: " + strings.Join(sc.VibeTweaks, ", ")
	}
	return section
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
