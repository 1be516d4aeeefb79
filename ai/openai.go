package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// OpenAI implements Generator and Synthesizer using the official openai-go SDK.
// Any OpenAI-compatible endpoint works through BaseURL.
type OpenAI struct {
	client openai.Client
}

func NewOpenAI(apiKey, baseURL string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key missing")
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAI{client: openai.NewClient(opts...)}, nil
}

func (o *OpenAI) Provider() string { return "openai" }

func (o *OpenAI) Generate(ctx context.Context, req Request) (*Response, error) {
	if req.Kind == KindImage {
		return o.generateImage(ctx, req)
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(req.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
	}
	if req.Kind == KindJSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai chat (%s): %w", req.Model, err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("openai: empty choices")
	}
	return &Response{Text: resp.Choices[0].Message.Content}, nil
}

func (o *OpenAI) generateImage(ctx context.Context, req Request) (*Response, error) {
	params := openai.ImageGenerateParams{
		Prompt: req.Prompt,
		Model:  openai.ImageModel(req.Model),
	}
	// gpt-image models always answer in base64 and reject response_format.
	if !strings.HasPrefix(req.Model, "gpt-image") {
		params.ResponseFormat = openai.ImageGenerateParamsResponseFormatB64JSON
	}

	resp, err := o.client.Images.Generate(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai image (%s): %w", req.Model, err)
	}
	if len(resp.Data) == 0 {
		return &Response{}, nil
	}
	if resp.Data[0].B64JSON == "" {
		if resp.Data[0].URL != "" {
			return nil, fmt.Errorf("openai image (%s): returned a url instead of image data", req.Model)
		}
		return &Response{}, nil
	}
	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("openai image: decode: %w", err)
	}
	return &Response{Image: data, ImageMIME: "image/png"}, nil
}

func (o *OpenAI) Synthesize(ctx context.Context, text string, voice Voice) (*Audio, error) {
	resp, err := o.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Input:          text,
		Model:          openai.SpeechModel(voice.Model),
		Voice:          openai.AudioSpeechNewParamsVoice(voice.Name),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
	})
	if err != nil {
		return nil, fmt.Errorf("openai speech (%s): %w", voice.Model, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("openai speech: read body: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("openai speech: empty audio")
	}
	return &Audio{Data: data, ContentType: "audio/mpeg"}, nil
}
