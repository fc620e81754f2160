package guru

import (
	"context"
	"strings"

	"google.golang.org/genai"
)

// Greeting opens every assistant conversation.
const Greeting = "Namaste! I am your Gurukul Assistant. How can I help you on your quest for knowledge today?"

const emptyReply = "I'm sorry, I couldn't understand that. Can you try again?"

// Assistant is the Gurukul Sahayak help chat. It keeps the conversation
// history so follow-up questions have context. Not safe for concurrent use.
type Assistant struct {
	c       *Client
	history []*genai.Content
}

// NewAssistant opens a fresh Sahayak conversation.
func (c *Client) NewAssistant() *Assistant {
	return &Assistant{c: c}
}

// Send asks the assistant a question and returns its reply. On failure the
// history is unchanged, so the question can simply be asked again.
func (a *Assistant) Send(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", newError(KindInvalidRequest, "empty message", nil)
	}

	contents := make([]*genai.Content, 0, len(a.history)+1)
	contents = append(contents, a.history...)
	contents = append(contents, genai.NewContentFromText(message, genai.RoleUser))

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(sahayakSystemPrompt, genai.RoleUser),
	}
	resp, err := a.c.generate(ctx, a.c.textModel, contents, cfg)
	if err != nil {
		return "", err
	}
	reply := strings.TrimSpace(resp.Text())
	if reply == "" {
		reply = emptyReply
	}

	a.history = append(a.history,
		genai.NewContentFromText(message, genai.RoleUser),
		genai.NewContentFromText(reply, genai.RoleModel),
	)
	return reply, nil
}
