// Package guru is the client for the Gemini-backed guru service: stage
// content, Maha-Pariksha exams, narration speech, stage illustrations, and
// the Gurukul Sahayak help assistant. Every call carries a bounded retry
// budget; failures come back classified so callers can tell the learner
// something useful.
package guru

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
	"google.golang.org/genai"

	"github.com/bharat-gurukul/gurukul/pkg/core/types"
)

// generator is the slice of the genai client the guru needs. Tests stub it.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client talks to the guru service.
type Client struct {
	models generator
	log    *slog.Logger

	textModel  string
	ttsModel   string
	imageModel string
	voice      string

	// backoff builds the per-call retry schedule: up to 3 retries with
	// exponential backoff starting at one second.
	backoff func() retry.Backoff
}

// Option customizes a Client.
type Option func(*Client)

// WithTextModel overrides the stage/exam/chat model.
func WithTextModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.textModel = model
		}
	}
}

// WithTTSModel overrides the narration model.
func WithTTSModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.ttsModel = model
		}
	}
}

// WithImageModel overrides the illustration model.
func WithImageModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.imageModel = model
		}
	}
}

// WithVoice overrides the narration voice.
func WithVoice(voice string) Option {
	return func(c *Client) {
		if voice != "" {
			c.voice = voice
		}
	}
}

// New connects a Client to the Gemini API.
func New(ctx context.Context, apiKey string, log *slog.Logger, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, newError(KindAuthentication, "no API key configured", nil)
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, classify(err)
	}
	return newClient(gc.Models, log, opts...), nil
}

func newClient(models generator, log *slog.Logger, opts ...Option) *Client {
	if log == nil {
		log = slog.Default()
	}
	c := &Client{
		models:     models,
		log:        log,
		textModel:  textModel,
		ttsModel:   ttsModel,
		imageModel: imageModel,
		voice:      guruVoice,
		backoff: func() retry.Backoff {
			return retry.WithMaxRetries(3, retry.NewExponential(1*time.Second))
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StageContent fetches and validates the lesson for one stage. For
// numerical courses that come back with an image prompt, an illustration is
// attached best-effort; its failure never fails the stage.
func (c *Client) StageContent(ctx context.Context, courseName string, stageNumber int, stageTitle, language string) (types.StageContent, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"explanation": {Type: genai.TypeString},
				"analogy":     {Type: genai.TypeString},
				"task":        {Type: genai.TypeString},
				"check":       {Type: genai.TypeString},
				"imagePrompt": {Type: genai.TypeString, Description: "Prompt for image generation if needed"},
			},
			Required: []string{"explanation", "analogy", "task", "check"},
		},
	}
	if isCACourse(courseName) {
		cfg.Tools = []*genai.Tool{{URLContext: &genai.URLContext{}}}
	}

	resp, err := c.generate(ctx, c.textModel, genai.Text(stagePrompt(courseName, stageNumber, stageTitle, language)), cfg)
	if err != nil {
		return types.StageContent{}, err
	}
	content, err := parseStageContent(resp.Text())
	if err != nil {
		return types.StageContent{}, err
	}

	if content.ImagePrompt != "" && isNumericalCourse(courseName) {
		url, err := c.illustration(ctx, courseName, content.ImagePrompt)
		if err != nil {
			c.log.Warn("stage illustration failed", "course", courseName, "stage", stageNumber, "err", err)
		} else {
			content.ImageURL = url
		}
	}
	return content, nil
}

// ExamContent fetches and validates a 50-question Maha-Pariksha for the
// given chapter level.
func (c *Client) ExamContent(ctx context.Context, courseName string, level int, language string) (types.ExamContent, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"title": {Type: genai.TypeString},
				"questions": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"question":      {Type: genai.TypeString},
							"options":       {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
							"correctAnswer": {Type: genai.TypeInteger},
							"explanation":   {Type: genai.TypeString},
						},
						Required: []string{"question", "options", "correctAnswer", "explanation"},
					},
				},
			},
			Required: []string{"title", "questions"},
		},
	}
	if isCACourse(courseName) {
		cfg.Tools = []*genai.Tool{{URLContext: &genai.URLContext{}}}
	}

	resp, err := c.generate(ctx, c.textModel, genai.Text(examPrompt(courseName, level, language, types.ExamQuestionCount)), cfg)
	if err != nil {
		return types.ExamContent{}, err
	}
	return parseExamContent(resp.Text(), types.ExamQuestionCount)
}

// Speech synthesizes narration as raw PCM16LE mono 24 kHz. A response with
// no audio yields (nil, nil); absence of narration is not an error.
func (c *Client) Speech(ctx context.Context, text, language string) ([]byte, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: c.voice},
			},
		},
	}
	resp, err := c.generate(ctx, c.ttsModel, genai.Text(speechPrompt(text, language)), cfg)
	if err != nil {
		return nil, err
	}
	return inlineData(resp), nil
}

// illustration renders the stage's image prompt and returns a data URL.
func (c *Client) illustration(ctx context.Context, courseName, imagePrompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		ImageConfig: &genai.ImageConfig{AspectRatio: "16:9"},
	}
	resp, err := c.generate(ctx, c.imageModel, genai.Text(illustrationPrompt(courseName, imagePrompt)), cfg)
	if err != nil {
		return "", err
	}
	data := inlineData(resp)
	if len(data) == 0 {
		return "", newError(KindBadContent, "no image in response", nil)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}

// generate runs one model call under the retry budget. Only retryable
// kinds are retried; an exhausted budget surfaces as unavailable with a
// learner-facing message.
func (c *Client) generate(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	var resp *genai.GenerateContentResponse
	attempt := 0
	err := retry.Do(ctx, c.backoff(), func(ctx context.Context) error {
		attempt++
		r, err := c.models.GenerateContent(ctx, model, contents, cfg)
		if err != nil {
			ge := classify(err)
			if ge.IsRetryable() {
				c.log.Warn("guru call failed, retrying",
					"model", model, "attempt", attempt, "kind", ge.Kind, "err", err)
				return retry.RetryableError(ge)
			}
			return ge
		}
		resp = r
		return nil
	})
	if err != nil {
		var ge *Error
		if !errors.As(err, &ge) {
			ge = classify(err)
		}
		if ge.IsRetryable() {
			return nil, newError(KindUnavailable, unavailableMessage, ge)
		}
		return nil, ge
	}
	if resp == nil {
		return nil, newError(KindBadContent, "empty response from the guru", nil)
	}
	return resp, nil
}

// inlineData pulls the first binary part out of a response.
func inlineData(resp *genai.GenerateContentResponse) []byte {
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data
			}
		}
	}
	return nil
}
