package model

// ================ Config ================

type ConversationConfig struct {
	TTL string `envconfig:"CONVERSATION_TTL" default:"24h"`
	// HistoryWindow caps how many trailing transcript entries feed the
	// response context and clinical feature extraction.
	HistoryWindow int `envconfig:"CONVERSATION_HISTORY_WINDOW" default:"10"`
}

type RiskConfig struct {
	// ModelPath points at the serialized classifier artifact. A missing or
	// unreadable artifact downgrades assessment to rule-based scoring; it is
	// never fatal.
	ModelPath string `envconfig:"RISK_MODEL_PATH" default:"./diabetes_model.json"`
}

type ResponseModelConfig struct {
	Model       string  `envconfig:"RESPONSE_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"RESPONSE_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"RESPONSE_TEMPERATURE" default:"0.4"`
}

type ResponsePromptConfig struct {
	AssistantName string `envconfig:"PROMPT_ASSISTANT_NAME" default:"MediCore"`
	Specialty     string `envconfig:"PROMPT_SPECIALTY" default:"general medicine"`
}
