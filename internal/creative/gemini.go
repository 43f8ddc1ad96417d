package creative

import (
	"context"
	"encoding/base64"
	"fmt"

	"google.golang.org/genai"

	appErrors "github.com/uttu25/AdGenius-AI-Campaigner/internal/errors"
	"github.com/uttu25/AdGenius-AI-Campaigner/internal/model"
)

const (
	copyModel  = "gemini-3-flash-preview"
	imageModel = "gemini-2.5-flash-image"
)

// GeminiGenerator implements Generator against the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
}

// NewGeminiGenerator creates a Gemini-backed creative generator. The API key
// is passed in explicitly; there is no ambient key lookup.
func NewGeminiGenerator(ctx context.Context, apiKey string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiGenerator{client: client}, nil
}

// GenerateAdCopy asks the text model for a channel-ready advertisement.
// Errors are classified so that key/credential problems surface as the auth
// sub-class of CreativeGenerationError.
func (g *GeminiGenerator) GenerateAdCopy(ctx context.Context, product model.Product, brandName string) (string, error) {
	prompt := fmt.Sprintf(`Create a compelling advertisement for the following product:
Name: %s
Description: %s
Price: %s
Link: %s

The ad should be engaging, include emojis, and have a clear call to action.
Format it ready for a chat message. Keep it concise.`,
		product.Name, product.Description, product.Price, product.URL)
	if brandName != "" {
		prompt += fmt.Sprintf("\nThe advertisement is on behalf of the brand %q; mention it.", brandName)
	}

	resp, err := g.client.Models.GenerateContent(ctx, copyModel, genai.Text(prompt), nil)
	if err != nil {
		return "", appErrors.NewCreativeGeneration(err)
	}

	text := resp.Text()
	if text == "" {
		return "", appErrors.NewCreativeGeneration(fmt.Errorf("model returned no ad copy"))
	}
	return text, nil
}

// GenerateProductImage renders a square product shot and returns it as a PNG
// data URI. An empty string with a nil error means the model produced no
// image part.
func (g *GeminiGenerator) GenerateProductImage(ctx context.Context, product model.Product, brandName string) (string, error) {
	prompt := fmt.Sprintf("High quality commercial product photography for an advertisement. Product: %s. Description: %s. White background, professional lighting.",
		product.Name, product.Description)
	if brandName != "" {
		prompt += fmt.Sprintf(" Subtle %s branding.", brandName)
	}

	resp, err := g.client.Models.GenerateContent(ctx, imageModel, genai.Text(prompt), &genai.GenerateContentConfig{
		ImageConfig: &genai.ImageConfig{AspectRatio: "1:1"},
	})
	if err != nil {
		return "", appErrors.NewCreativeGeneration(err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return "data:image/png;base64," + base64.StdEncoding.EncodeToString(part.InlineData.Data), nil
			}
		}
	}
	return "", nil
}

var _ Generator = (*GeminiGenerator)(nil)
