package ai

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiGenerator calls the Gemini API. JSON requests carry a response
// schema so the model cannot answer with prose.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(ctx context.Context, apiKey, modelName string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiGenerator{client: client, model: modelName}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, req Request) (string, error) {
	config := &genai.GenerateContentConfig{}
	if req.JSON {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = cvResponseSchema()
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}
	if resp == nil {
		return "", errors.New("no response generated (nil response)")
	}
	text := resp.Text()
	if text == "" {
		return "", errors.New("no text content in response")
	}
	return text, nil
}

func str(desc string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: desc}
}

func list(props map[string]*genai.Schema, required ...string) *genai.Schema {
	return &genai.Schema{
		Type:  genai.TypeArray,
		Items: &genai.Schema{Type: genai.TypeObject, Properties: props, Required: required},
	}
}

func cvResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"personalInfo": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"fullName":    str(""),
					"email":       str(""),
					"phoneNumber": str(""),
					"address":     str(""),
					"linkedin":    str(""),
					"github":      str(""),
					"website":     str(""),
				},
			},
			"summary": str(""),
			"experience": list(map[string]*genai.Schema{
				"title":       str(""),
				"company":     str(""),
				"location":    str(""),
				"startDate":   str("Year and month, e.g., 2022-01"),
				"endDate":     str("Year and month, e.g., 2023-12 or 'Present'"),
				"description": str(""),
			}, "title", "company", "startDate", "endDate", "description"),
			"education": list(map[string]*genai.Schema{
				"institution":  str(""),
				"degree":       str(""),
				"fieldOfStudy": str(""),
				"startDate":    str(""),
				"endDate":      str(""),
			}, "institution", "degree", "fieldOfStudy", "startDate", "endDate"),
			"skills": list(map[string]*genai.Schema{
				"name":  str(""),
				"level": {Type: genai.TypeInteger, Description: "A number from 1 to 5 representing skill level."},
			}, "name", "level"),
			"languages": list(map[string]*genai.Schema{
				"name": str(""),
				"proficiency": {
					Type: genai.TypeString,
					Enum: []string{"Beginner", "Intermediate", "Advanced", "Fluent", "Native"},
				},
			}, "name", "proficiency"),
			"certificates": list(map[string]*genai.Schema{
				"name":   str(""),
				"issuer": str(""),
				"date":   str("Year and month, e.g., 2023-05"),
			}, "name", "issuer", "date"),
			"projects": list(map[string]*genai.Schema{
				"name":        str(""),
				"description": str(""),
				"link":        str(""),
			}, "name", "description"),
			"references": list(map[string]*genai.Schema{
				"name":     str(""),
				"relation": str(""),
				"contact":  str(""),
			}, "name", "relation", "contact"),
			"hobbies": list(map[string]*genai.Schema{
				"name": str(""),
			}, "name"),
		},
	}
}
