package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Gemini implements Generator and Synthesizer on top of the Gemini API.
type Gemini struct {
	client *genai.Client
}

func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Gemini{client: client}, nil
}

func (g *Gemini) Provider() string { return "gemini" }

func (g *Gemini) Generate(ctx context.Context, req Request) (*Response, error) {
	genConfig := &genai.GenerateContentConfig{}
	switch req.Kind {
	case KindJSON:
		genConfig.ResponseMIMEType = "application/json"
		if req.Schema != nil {
			genConfig.ResponseSchema = toGenaiSchema(req.Schema)
		}
	case KindImage:
		genConfig.ResponseModalities = []string{"TEXT", "IMAGE"}
	}

	resp, err := g.client.Models.GenerateContent(ctx, req.Model,
		[]*genai.Content{genai.NewContentFromText(req.Prompt, genai.RoleUser)},
		genConfig)
	if err != nil {
		return nil, fmt.Errorf("gemini generate (%s): %w", req.Model, err)
	}

	out := &Response{}
	var text strings.Builder
	for _, part := range responseParts(resp) {
		if part.Thought {
			continue
		}
		if part.Text != "" {
			text.WriteString(part.Text)
		}
		if blob := part.InlineData; blob != nil && len(out.Image) == 0 && strings.HasPrefix(blob.MIMEType, "image/") {
			out.Image = blob.Data
			out.ImageMIME = blob.MIMEType
		}
	}
	out.Text = text.String()
	return out, nil
}

// Synthesize uses the native audio modality. Gemini returns raw 16-bit PCM,
// which is wrapped into a WAV container.
func (g *Gemini) Synthesize(ctx context.Context, text string, voice Voice) (*Audio, error) {
	genConfig := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voice.Name},
			},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, voice.Model,
		[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)},
		genConfig)
	if err != nil {
		return nil, fmt.Errorf("gemini speech (%s): %w", voice.Model, err)
	}

	for _, part := range responseParts(resp) {
		blob := part.InlineData
		if blob == nil || len(blob.Data) == 0 || !strings.HasPrefix(blob.MIMEType, "audio/") {
			continue
		}
		if isPCM(blob.MIMEType) {
			return &Audio{Data: EncodeWAV(blob.Data, pcmRate(blob.MIMEType)), ContentType: "audio/wav"}, nil
		}
		return &Audio{Data: blob.Data, ContentType: blob.MIMEType}, nil
	}
	return nil, errors.New("gemini speech: response contained no audio")
}

func responseParts(resp *genai.GenerateContentResponse) []*genai.Part {
	if resp == nil {
		return nil
	}
	var parts []*genai.Part
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		parts = append(parts, cand.Content.Parts...)
	}
	return parts
}

func toGenaiSchema(s *Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:     genai.Type(strings.ToUpper(s.Type)),
		Required: s.Required,
		Items:    toGenaiSchema(s.Items),
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenaiSchema(prop)
		}
	}
	if s.MinItems > 0 {
		v := int64(s.MinItems)
		out.MinItems = &v
	}
	if s.MaxItems > 0 {
		v := int64(s.MaxItems)
		out.MaxItems = &v
	}
	return out
}
