// Package adcopy generates the marketing text and optional per-scene
// video script/titles for an offer. The preview pipeline only depends
// on the Generator interface; the OpenAI client and the deterministic
// template generator are interchangeable.
package adcopy

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/thakurp/shopreel/internal/scene"
)

// Request carries the structured shop/offer input.
type Request struct {
	ProductName   string         `json:"productName"`
	ShopName      string         `json:"shopName"`
	ShopType      string         `json:"shopType"`
	Discount      string         `json:"discount"`
	Address       string         `json:"address"`
	ContactNumber string         `json:"contactNumber"`
	Language      scene.Language `json:"language"`
}

// Creative is the generation result. VideoScript and VideoTitles are
// optional per-scene overrides; empty entries fall back to the scene
// templates.
type Creative struct {
	Text        string   `json:"text" jsonschema_description:"The main WhatsApp-ready ad copy."`
	Options     []string `json:"options" jsonschema_description:"Two alternative shorter ad copies."`
	VideoScript []string `json:"videoScript" jsonschema_description:"Exactly 5 narration lines, one per scene: welcome, product, offer, location, contact."`
	VideoTitles []string `json:"videoTitles" jsonschema_description:"Exactly 5 short on-screen titles, one per scene."`
}

// Generator produces a Creative for a request.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Creative, error)
}

// generateSchema reflects a JSON schema for structured outputs.
func generateSchema[T any]() interface{} {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

var creativeSchema = generateSchema[Creative]()

// OpenAIGenerator asks a chat model for the creative as structured
// output.
type OpenAIGenerator struct {
	client openai.Client
	model  string
}

func NewOpenAIGenerator(apiKey string) *OpenAIGenerator {
	return &OpenAIGenerator{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  openai.ChatModelGPT4oMini,
	}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, req Request) (*Creative, error) {
	langName := "simple English"
	if req.Language == scene.LangHindi {
		langName = "Hindi (Devanagari script)"
	}

	prompt := fmt.Sprintf(`You are a marketing copywriter for small Indian shops.
Shop: %s (%s)
Product: %s
Discount: %s
Address: %s
Phone: %s

Write WhatsApp ad copy in %s, plus two shorter alternatives.
Also write a 5-scene video: one narration line and one short on-screen
title per scene, in this order: welcome, product, offer, location,
contact. The offer line must mention the discount exactly as given; the
welcome line must mention the shop name.`,
		req.ShopName, req.ShopType, req.ProductName, req.Discount, req.Address, req.ContactNumber, langName)

	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "creative",
		Description: openai.String("Ad copy with a 5-scene video script"),
		Schema:      creativeSchema,
		Strict:      openai.Bool(true),
	}

	completion, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: g.model,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: schemaParam,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("ad copy generation: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("ad copy generation: empty response")
	}

	var creative Creative
	if err := json.Unmarshal([]byte(completion.Choices[0].Message.Content), &creative); err != nil {
		return nil, fmt.Errorf("ad copy generation: bad response shape: %w", err)
	}
	creative.clampScenes()
	return &creative, nil
}

// clampScenes drops script/title arrays with the wrong arity so the
// scene model falls back to templates instead of misaligning scenes.
func (c *Creative) clampScenes() {
	if len(c.VideoScript) != scene.Count {
		c.VideoScript = nil
	}
	if len(c.VideoTitles) != scene.Count {
		c.VideoTitles = nil
	}
}

// TemplateGenerator is the offline fallback: it reuses the scene
// templates so the preview works without an API key.
type TemplateGenerator struct{}

func (TemplateGenerator) Generate(ctx context.Context, req Request) (*Creative, error) {
	scenes := scene.Build(scene.Input{
		ProductName:   req.ProductName,
		ShopName:      req.ShopName,
		ShopType:      req.ShopType,
		Discount:      req.Discount,
		Address:       req.Address,
		ContactNumber: req.ContactNumber,
		Language:      req.Language,
	})

	text := fmt.Sprintf("%s\n%s — %s\n%s\nCall: %s",
		scenes[scene.KindWelcome].Narration,
		req.ProductName, req.Discount,
		req.Address, req.ContactNumber)

	return &Creative{
		Text: text,
		Options: []string{
			fmt.Sprintf("%s: %s on %s! Call %s", req.ShopName, req.Discount, req.ProductName, req.ContactNumber),
			fmt.Sprintf("%s — %s. Visit %s", req.ProductName, req.Discount, req.Address),
		},
		VideoScript: scene.Narrations(scenes),
		VideoTitles: sceneTitles(scenes),
	}, nil
}

func sceneTitles(scenes [scene.Count]scene.Scene) []string {
	out := make([]string, scene.Count)
	for i, s := range scenes {
		out[i] = s.Title
	}
	return out
}
