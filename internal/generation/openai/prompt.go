package openai

import (
	_ "embed"
	"strings"

	"puente-backend/internal/generation"
)

var (
	//go:embed prompts/guide_system.txt
	guideSystemPrompt string
	//go:embed prompts/guide_user.txt
	guideUserPrompt string
)

// Message represents one chat message sent to the model.
type Message struct {
	Role    string
	Content string
}

// BuildPrompt creates the chat messages for a lesson-guide request.
func BuildPrompt(req generation.Request) []Message {
	user := strings.NewReplacer(
		"{{topic}}", req.Topic,
		"{{subject}}", req.Subject,
		"{{profile}}", req.StudentProfile,
	).Replace(guideUserPrompt)

	return []Message{
		{Role: "system", Content: strings.TrimSpace(guideSystemPrompt)},
		{Role: "user", Content: strings.TrimSpace(user)},
	}
}
