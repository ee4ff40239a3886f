package services

import (
	"fmt"
	"strings"

	"paperqa_backend/platform/cache"
)

const systemPrompt = "You are a concise research assistant. Use provided context chunks to answer the question. If the answer is not in the context, say you are unsure."

// BuildPrompt assembles the full generation prompt: system instructions,
// prior conversation turns, retrieved context, and the current question.
func BuildPrompt(history []cache.Turn, chunks []string, question string) string {
	var sb strings.Builder
	sb.WriteString(systemPrompt)
	sb.WriteString("\n\n")

	if memory := FormatMemory(history); memory != "" {
		sb.WriteString("Conversation so far:\n")
		sb.WriteString(memory)
		sb.WriteString("\n")
	}

	sb.WriteString("Context:\n")
	for i, chunk := range chunks {
		sb.WriteString(fmt.Sprintf("[%d] %s\n", i+1, chunk))
	}
	sb.WriteString("\nQuestion: ")
	sb.WriteString(question)
	sb.WriteString("\nAnswer:")
	return sb.String()
}

// FormatMemory renders prior turns as "Role: content" lines, one per turn.
func FormatMemory(history []cache.Turn) string {
	if len(history) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, t := range history {
		role := t.Role
		if role != "" {
			role = strings.ToUpper(role[:1]) + role[1:]
		}
		sb.WriteString(role)
		sb.WriteString(": ")
		sb.WriteString(t.Content)
		sb.WriteString("\n")
	}
	return sb.String()
}
