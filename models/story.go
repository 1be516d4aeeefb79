package models

import (
	"time"
)

// Status is the ledger state of a story
type Status string

const (
	StatusProcessing Status = "processing"
	StatusComplete   Status = "complete"
	StatusError      Status = "error"
)

// Access controls who besides the owner may read a story
type Access string

const (
	AccessPrivate Access = "private"
	AccessPublic  Access = "public"
)

// Stage names one of the four generation steps
type Stage string

const (
	StageNarration  Stage = "narration"
	StageUsageGuide Stage = "usage-guide"
	StageHero       Stage = "hero"
	StageAudio      Stage = "audio"
)

// Stages lists every stage in execution order
var Stages = []Stage{StageNarration, StageUsageGuide, StageHero, StageAudio}

// Palette is the canonical palette produced by the normalizer
type Palette struct {
	ID    *string       `bson:"id" json:"id"`
	Name  string        `bson:"name" json:"name"`
	Items []PaletteItem `bson:"items" json:"items"`
	Hexes []string      `bson:"hexes" json:"hexes"`
}

// PaletteItem is a single color of a palette
type PaletteItem struct {
	Hex       string `bson:"hex" json:"hex"`
	BrandName string `bson:"brandName,omitempty" json:"brandName,omitempty"`
	ColorName string `bson:"colorName,omitempty" json:"colorName,omitempty"`
	Code      string `bson:"code,omitempty" json:"code,omitempty"`
}

// UsageItem is one entry of the usage guide
type UsageItem struct {
	Role                 string `bson:"role" json:"role"`
	Hex                  string `bson:"hex" json:"hex"`
	Name                 string `bson:"name" json:"name"`
	BrandName            string `bson:"brandName" json:"brandName"`
	Code                 string `bson:"code" json:"code"`
	Surface              string `bson:"surface" json:"surface"`
	FinishRecommendation string `bson:"finishRecommendation" json:"finishRecommendation"`
	Sheen                string `bson:"sheen" json:"sheen"`
	HowToUse             string `bson:"howToUse" json:"howToUse"`
}

// Attribution records which provider produced a stage output
type Attribution struct {
	Provider string `bson:"provider" json:"provider"`
	Model    string `bson:"model,omitempty" json:"model,omitempty"`
	Fallback bool   `bson:"fallback,omitempty" json:"fallback,omitempty"`
	Note     string `bson:"note,omitempty" json:"note,omitempty"`
}

// Story represents the story document in the stories collection
type Story struct {
	ID      string `bson:"_id" json:"id"`
	OwnerID string `bson:"ownerId" json:"ownerId"`
	Access  Access `bson:"access" json:"access"`

	Palette    Palette  `bson:"palette" json:"palette"`
	Room       string   `bson:"room" json:"room"`
	Style      string   `bson:"style" json:"style"`
	VibeWords  []string `bson:"vibeWords" json:"vibeWords"`
	BrandHints []string `bson:"brandHints" json:"brandHints"`

	VariantOf  string   `bson:"variantOf,omitempty" json:"variantOf,omitempty"`
	Emphasis   string   `bson:"emphasis,omitempty" json:"emphasis,omitempty"`
	VibeTweaks []string `bson:"vibeTweaks,omitempty" json:"vibeTweaks,omitempty"`

	Narration             string       `bson:"narration,omitempty" json:"narration,omitempty"`
	NarrationHTML         string       `bson:"narrationHtml,omitempty" json:"narrationHtml,omitempty"`
	ModelAttribution      *Attribution `bson:"modelAttribution,omitempty" json:"modelAttribution,omitempty"`
	UsageGuide            []UsageItem  `bson:"usageGuide,omitempty" json:"usageGuide,omitempty"`
	UsageGuideAttribution *Attribution `bson:"usageGuideAttribution,omitempty" json:"usageGuideAttribution,omitempty"`
	HeroImageURL          string       `bson:"heroImageUrl,omitempty" json:"heroImageUrl,omitempty"`
	HeroPrompt            string       `bson:"heroPrompt,omitempty" json:"heroPrompt,omitempty"`
	HeroImageAttribution  *Attribution `bson:"heroImageAttribution,omitempty" json:"heroImageAttribution,omitempty"`
	AudioURL              string       `bson:"audioUrl,omitempty" json:"audioUrl,omitempty"`
	AudioAttribution      *Attribution `bson:"audioAttribution,omitempty" json:"audioAttribution,omitempty"`

	Status          Status  `bson:"status" json:"status"`
	Progress        float64 `bson:"progress" json:"progress"`
	ProgressMessage string  `bson:"progressMessage" json:"progressMessage"`

	// Assigned by the store.
	CreatedAt time.Time `bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt,omitempty" json:"updatedAt"`
}

// StoryPatch is a merge-write against a story. Nil fields are left untouched.
type StoryPatch struct {
	Narration             *string      `bson:"narration,omitempty"`
	NarrationHTML         *string      `bson:"narrationHtml,omitempty"`
	ModelAttribution      *Attribution `bson:"modelAttribution,omitempty"`
	UsageGuide            *[]UsageItem `bson:"usageGuide,omitempty"`
	UsageGuideAttribution *Attribution `bson:"usageGuideAttribution,omitempty"`
	HeroImageURL          *string      `bson:"heroImageUrl,omitempty"`
	HeroPrompt            *string      `bson:"heroPrompt,omitempty"`
	HeroImageAttribution  *Attribution `bson:"heroImageAttribution,omitempty"`
	AudioURL              *string      `bson:"audioUrl,omitempty"`
	AudioAttribution      *Attribution `bson:"audioAttribution,omitempty"`

	Status          *Status  `bson:"status,omitempty"`
	Progress        *float64 `bson:"progress,omitempty"`
	ProgressMessage *string  `bson:"progressMessage,omitempty"`
}

// ProgressPatch builds the ledger fields of a patch.
func ProgressPatch(status Status, progress float64, message string) StoryPatch {
	return StoryPatch{Status: &status, Progress: &progress, ProgressMessage: &message}
}
