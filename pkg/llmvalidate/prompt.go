package llmvalidate

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/arxplans/planscan/pkg/marker"
)

const systemInstruction = `You are validating architectural drawing callout markers.

Two marker types appear in the images:
- circular: a circle containing "detail/sheet" text, e.g. "3/A7", meaning
  "see detail 3 on sheet A7".
- triangular: a triangle containing the same "detail/sheet" format, but the
  triangle marks a revision delta rather than a cross-reference.

The first %d images are exemplars of true positives. Do not analyze them or
include them in your output — they establish what a genuine marker looks
like.

After the exemplars come %d candidate images to analyze, in order. For each
candidate image that truly contains a marker, return one JSON object. Skip
candidate images that do not contain a genuine marker — do not invent one.

Rules:
- Return at most one object per candidate image, in the order given.
- The output array length must be <= the number of candidate images.
- Do not invent sequential or additional markers beyond what you see.

Respond with only a JSON array of objects shaped exactly as:
{"detail": string, "sheet": string, "type": "circular"|"triangular",
 "confidence": number between 0 and 1, "is_valid": boolean,
 "fuzzy_matched": boolean, "reason": string (optional)}`

// chatMessage/chatContent mirror the OpenAI/OpenRouter chat-completions
// multimodal message shape.
type chatContent struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *chatImageURL `json:"image_url,omitempty"`
}

type chatImageURL struct {
	URL string `json:"url"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []chatContent `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// buildRequest assembles the single multi-image prompt for one batch:
// system instruction, the project's valid sheets/details, the fixed
// exemplars, then the batch's candidate crops, in that order
// (spec.md §4.D "Prompt construction").
func buildRequest(model string, exemplars []Exemplar, batch []CandidateImage, pc marker.ProjectContext, maxTokens int) chatRequest {
	var content []chatContent

	instruction := fmt.Sprintf(systemInstruction, len(exemplars), len(batch))
	content = append(content, chatContent{Type: "text", Text: instruction})

	if len(pc.ValidSheets) > 0 {
		content = append(content, chatContent{
			Type: "text",
			Text: "Valid sheets: " + strings.Join(pc.SheetNames(), ", "),
		})
	}
	if len(pc.ValidDetails) > 0 {
		content = append(content, chatContent{
			Type: "text",
			Text: "Valid details: " + strings.Join(pc.DetailNames(), ", "),
		})
	}

	for _, ex := range exemplars {
		content = append(content, imageContent(ex.Image))
	}
	for _, cand := range batch {
		content = append(content, imageContent(cand.PNG))
	}

	return chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "user", Content: content},
		},
		Temperature: 0, // pinned for determinism, spec.md §4.D
		MaxTokens:   maxTokens,
	}
}

func imageContent(png []byte) chatContent {
	encoded := base64.StdEncoding.EncodeToString(png)
	return chatContent{
		Type: "image_url",
		ImageURL: &chatImageURL{
			URL: "data:image/png;base64," + encoded,
		},
	}
}
