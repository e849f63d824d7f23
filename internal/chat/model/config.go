package model

// ================ Config ================
type ConversationConfig struct {
	TTL string `envconfig:"CONVERSATION_TTL" default:"24h"`
}

type ClassifierModelConfig struct {
	Model       string  `envconfig:"CLASSIFIER_MODEL" default:"gemini-2.5-flash-lite"`
	MaxTokens   int32   `envconfig:"CLASSIFIER_MAX_TOKENS" default:"1024"`
	Temperature float32 `envconfig:"CLASSIFIER_TEMPERATURE" default:"0.1"`
}

type GeneratorModelConfig struct {
	Model       string  `envconfig:"GENERATOR_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int32   `envconfig:"GENERATOR_MAX_TOKENS" default:"4096"`
	Temperature float32 `envconfig:"GENERATOR_TEMPERATURE" default:"0.5"`
}
