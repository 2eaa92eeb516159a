package ai

import (
	"fmt"
	"os"
	"strings"

	"github.com/lingobuddy/backend/internal/model/chat"
)

// Placeholder names recognized in the system prompt template.
const (
	placeholderLanguage       = "{{LANGUAGE}}"
	placeholderNativeLanguage = "{{NATIVE_LANGUAGE}}"
	placeholderScript         = "{{SCRIPT_PREFERENCE}}"
	placeholderFormality      = "{{FORMALITY_LEVEL}}"
)

// Defaults substituted when a settings field is absent or blank.
const (
	defaultTargetLanguage   = "Spanish"
	defaultNativeLanguage   = "English"
	defaultScriptPreference = "target"
	defaultFormality        = "casual"
)

// PromptEngine renders the system prompt from a static template loaded once
// at startup.
type PromptEngine struct {
	template string
}

// LoadPromptEngine reads the template file. A missing or unreadable template
// means no prompt can ever be constructed, so the caller must treat an error
// here as fatal rather than serve with an undefined prompt.
func LoadPromptEngine(path string) (*PromptEngine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading system prompt template %s: %w", path, err)
	}
	return &PromptEngine{template: string(data)}, nil
}

// NewPromptEngine wraps an already-resolved template text.
func NewPromptEngine(template string) *PromptEngine {
	return &PromptEngine{template: template}
}

// Render substitutes the per-conversation settings into the template,
// falling back to the documented defaults for blank fields. The result is
// plain text; its content is not validated further.
func (e *PromptEngine) Render(settings chat.Settings) string {
	replacer := strings.NewReplacer(
		placeholderLanguage, valueOrDefault(settings.TargetLanguage, defaultTargetLanguage),
		placeholderNativeLanguage, valueOrDefault(settings.NativeLanguage, defaultNativeLanguage),
		placeholderScript, valueOrDefault(settings.ScriptPreference, defaultScriptPreference),
		placeholderFormality, valueOrDefault(settings.Formality, defaultFormality),
	)
	return replacer.Replace(e.template)
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
