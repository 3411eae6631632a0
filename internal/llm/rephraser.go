package llm

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rephrase-app/rephrase/internal/config"
)

// Fixed sampling parameters. Low temperature favors deterministic rewrites.
const (
	samplingTemperature = 0.3
	maxOutputTokens     = 2048
)

// CredentialStore yields the API key used to authenticate requests.
// An empty key means no credential is configured.
type CredentialStore interface {
	APIKey() (string, error)
}

// Settings supplies the persisted defaults merged into each request.
type Settings interface {
	Model() string
	Tone() string
	Seniority() string
}

// Rephraser turns raw captured text plus persisted settings into one model
// request and a validated response. It owns the cached API client: at most
// one live client per credential value, replaced when the credential changes.
type Rephraser struct {
	creds    CredentialStore
	settings Settings
	logger   *zerolog.Logger

	newClient func(apiKey string) CompletionClient

	mu        sync.Mutex
	client    CompletionClient
	clientKey string
}

func NewRephraser(cfg *config.Config, creds CredentialStore, settings Settings, logger *zerolog.Logger) *Rephraser {
	return &Rephraser{
		creds:    creds,
		settings: settings,
		logger:   logger,
		newClient: func(apiKey string) CompletionClient {
			return NewOpenAI(apiKey, cfg.RateLimitRPS, logger)
		},
	}
}

// Rephrase parses raw into context, inline tone directive, and body text,
// builds the system prompt from persisted defaults, and issues one
// completion request. Failures come back as a classified *Error.
func (r *Rephraser) Rephrase(ctx context.Context, raw string) (string, error) {
	promptContext, afterContext := ParseContext(raw)

	inlineTone, cleanText := ParseInlineTone(afterContext)
	toneKey := inlineTone
	if toneKey == "" {
		toneKey = r.settings.Tone()
	}

	if strings.TrimSpace(cleanText) == "" {
		return "", newError(KindEmptyInput, "No text to rephrase")
	}

	seniorityKey := r.settings.Seniority()
	systemPrompt := BuildSystemPrompt(toneKey, seniorityKey, promptContext)
	model := r.settings.Model()

	r.logger.Debug().
		Str("tone", toneKey).
		Str("seniority", seniorityKey).
		Str("context", promptContext).
		Str("model", model).
		Msg("dispatching rephrase request")

	client, err := r.getClient()
	if err != nil {
		return "", err
	}

	result, err := client.CreateCompletion(ctx, CompletionRequest{
		Model:        model,
		SystemPrompt: systemPrompt,
		UserText:     cleanText,
		Temperature:  samplingTemperature,
		MaxTokens:    maxOutputTokens,
	})
	if err != nil {
		return "", classifyAPIError(err)
	}

	if strings.TrimSpace(result) == "" {
		return "", newError(KindEmptyResponse, "Empty response from API")
	}

	return strings.TrimSpace(result), nil
}

// getClient returns the cached client, creating or replacing it when the
// stored credential changed since the last call.
func (r *Rephraser) getClient() (CompletionClient, error) {
	apiKey, err := r.creds.APIKey()
	if err != nil {
		r.logger.Warn().Err(err).Msg("credential store read failed")
		apiKey = ""
	}

	if apiKey == "" {
		return nil, newError(KindMissingCredential, "API key not set. Run: rephrase -set-key")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client == nil || r.clientKey != apiKey {
		r.logger.Info().Msg("creating new OpenAI client")
		r.client = r.newClient(apiKey)
		r.clientKey = apiKey
	}

	return r.client, nil
}

// ResetClient drops the cached client; the next request recreates it.
func (r *Rephraser) ResetClient() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.client = nil
	r.clientKey = ""
}

// ForceNewClient rebuilds the client from the current credential. It returns
// false when no credential is configured.
func (r *Rephraser) ForceNewClient() bool {
	apiKey, err := r.creds.APIKey()
	if err != nil || apiKey == "" {
		r.logger.Warn().Msg("cannot recreate client: no API key set")

		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Info().Msg("forcing OpenAI client recreation")
	r.client = r.newClient(apiKey)
	r.clientKey = apiKey

	return true
}
