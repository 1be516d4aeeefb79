package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Mock is an offline provider for local runs. It never calls a remote model.
// Image requests return no image, so the hero stage takes its placeholder path.
type Mock struct{}

var mockHexPattern = regexp.MustCompile(`#[0-9A-Fa-f]{6}`)

func (Mock) Provider() string { return "mock" }

func (Mock) Generate(_ context.Context, req Request) (*Response, error) {
	hexes := mockHexPattern.FindAllString(req.Prompt, -1)
	if len(hexes) == 0 {
		hexes = []string{"#FFFFFF"}
	}

	switch req.Kind {
	case KindJSON:
		roles := []string{"main", "trim", "ceiling", "accent"}
		items := make([]map[string]string, 0, len(roles))
		for i, role := range roles {
			hex := strings.ToUpper(hexes[i%len(hexes)])
			items = append(items, map[string]string{
				"role":                 role,
				"hex":                  hex,
				"name":                 "Color " + hex,
				"brandName":            "House Brand",
				"code":                 fmt.Sprintf("HB-%02d", i+1),
				"surface":              "walls",
				"finishRecommendation": "eggshell",
				"sheen":                "low",
				"howToUse":             "Use as the " + role + " color.",
			})
		}
		data, err := json.Marshal(map[string]any{"items": items})
		if err != nil {
			return nil, err
		}
		return &Response{Text: string(data)}, nil
	case KindImage:
		return &Response{}, nil
	default:
		var sb strings.Builder
		sb.WriteString("# A Palette Story\n\n")
		sb.WriteString("This room is built around ")
		sb.WriteString(strings.Join(hexes, ", "))
		sb.WriteString(". Each color has a job, and together they set a calm, considered mood.\n")
		return &Response{Text: sb.String()}, nil
	}
}

// Synthesize returns half a second of silence.
func (Mock) Synthesize(_ context.Context, text string, _ Voice) (*Audio, error) {
	pcm := make([]byte, defaultPCMRate) // 16-bit mono, 0.5s
	return &Audio{Data: EncodeWAV(pcm, defaultPCMRate), ContentType: "audio/wav"}, nil
}
