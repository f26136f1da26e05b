package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiConfig configures the hosted model behind a chat session.
type GeminiConfig struct {
	APIKey         string
	ModelID        string
	Temperature    float64
	WhatsAppNumber string
}

// GeminiChatModel implements ChatModel on Google's Gemini API. One value
// wraps one remote chat session.
type GeminiChatModel struct {
	client  *genai.Client
	session *genai.ChatSession
}

// leadFunctionDeclaration declares the single submitLead capability.
func leadFunctionDeclaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        LeadFunctionName,
		Description: "Submit a qualified residential solar lead for a Remote Satellite Audit.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"fullName":        {Type: genai.TypeString, Description: "The customers full name."},
				"phoneNumber":     {Type: genai.TypeString, Description: "The WhatsApp or phone number."},
				"homeType":        {Type: genai.TypeString, Description: "Villa, Townhouse, or Apartment."},
				"packageInterest": {Type: genai.TypeString, Description: "SolarStart, SolarFamily, or SolarElite."},
				"location":        {Type: genai.TypeString, Description: "Area in Nairobi or County in Kenya."},
				"notes":           {Type: genai.TypeString, Description: "Specifics like \"Has borehole\" or \"Bills are KES 15k\"."},
			},
			Required: []string{"fullName", "phoneNumber", "homeType", "location"},
		},
	}
}

// NewGeminiChatModel creates a configured chat session against Gemini.
func NewGeminiChatModel(ctx context.Context, cfg GeminiConfig) (*GeminiChatModel, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("conversation: gemini api key is required")
	}
	if strings.TrimSpace(cfg.ModelID) == "" {
		cfg.ModelID = "gemini-3-flash-preview"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("conversation: failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.ModelID)
	model.SetTemperature(float32(cfg.Temperature))
	model.SystemInstruction = genai.NewUserContent(genai.Text(SystemInstruction(cfg.WhatsAppNumber)))
	model.Tools = []*genai.Tool{
		{FunctionDeclarations: []*genai.FunctionDeclaration{leadFunctionDeclaration()}},
	}

	return &GeminiChatModel{
		client:  client,
		session: model.StartChat(),
	}, nil
}

// Send transmits user text within the chat session.
func (m *GeminiChatModel) Send(ctx context.Context, text string) (Reply, error) {
	resp, err := m.session.SendMessage(ctx, genai.Text(text))
	if err != nil {
		return Reply{}, fmt.Errorf("conversation: gemini send failed: %w", err)
	}
	return extractReply(resp)
}

// SendLeadResult reports the submitLead outcome into the same session.
func (m *GeminiChatModel) SendLeadResult(ctx context.Context, result string) (Reply, error) {
	resp, err := m.session.SendMessage(ctx, genai.FunctionResponse{
		Name:     LeadFunctionName,
		Response: map[string]any{"result": result},
	})
	if err != nil {
		return Reply{}, fmt.Errorf("conversation: gemini function response failed: %w", err)
	}
	return extractReply(resp)
}

// Close releases resources held by the Gemini client.
func (m *GeminiChatModel) Close() error {
	if m.client != nil {
		return m.client.Close()
	}
	return nil
}

func extractReply(resp *genai.GenerateContentResponse) (Reply, error) {
	if len(resp.Candidates) == 0 {
		return Reply{}, errors.New("conversation: gemini returned no candidates")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return Reply{}, errors.New("conversation: gemini returned empty content")
	}

	var reply Reply
	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			text.WriteString(string(p))
		case genai.FunctionCall:
			if p.Name == LeadFunctionName {
				reply.LeadCalls = append(reply.LeadCalls, LeadCall{Args: p.Args})
			}
		}
	}
	reply.Text = strings.TrimSpace(text.String())

	if reply.Text == "" && len(reply.LeadCalls) == 0 {
		return Reply{}, errors.New("conversation: gemini returned neither text nor a lead call")
	}
	return reply, nil
}
