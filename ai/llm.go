// Package ai abstracts the generative endpoints used by the story pipeline so
// providers can be swapped or faked.
package ai

import "context"

// Kind selects the response modality of a generation request.
type Kind int

const (
	KindText Kind = iota
	KindJSON
	KindImage
)

// Request is a single unary generation call.
type Request struct {
	Model  string
	Prompt string
	Kind   Kind
	// Schema constrains KindJSON responses when the provider supports it.
	Schema *Schema
}

// Response holds whatever the model returned. Image is empty unless the
// model produced inline image bytes.
type Response struct {
	Text      string
	Image     []byte
	ImageMIME string
}

// Schema is a provider-neutral subset of JSON schema.
type Schema struct {
	Type       string
	Properties map[string]*Schema
	Required   []string
	Items      *Schema
	MinItems   int
	MaxItems   int
}

// Voice selects a speech model and speaker.
type Voice struct {
	Model string
	Name  string
}

// Audio is synthesized speech ready to be stored.
type Audio struct {
	Data        []byte
	ContentType string
}

// Generator produces text, structured JSON or images from a prompt.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	Provider() string
}

// Synthesizer turns text into speech.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, voice Voice) (*Audio, error)
	Provider() string
}
