package usecase

// SystemPrompt is exported for testing the embedded prompts
var SystemPrompt = systemPrompt
