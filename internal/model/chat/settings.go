package chat

// Settings is the per-request language-learning configuration. It shapes
// the system prompt for the current exchange only and is never persisted.
type Settings struct {
	TargetLanguage   string `json:"targetLanguage"`
	NativeLanguage   string `json:"nativeLanguage"`
	ScriptPreference string `json:"scriptPreference"`
	Formality        string `json:"formality"`
}
