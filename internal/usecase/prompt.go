package usecase

import (
	"fmt"
	"strings"

	"companion-backend/internal/domain"
)

// buildChatMessages assembles the completion request: one system prompt
// carrying the persona, the full prior history verbatim, then the new human
// message. The context window is unbounded; the store is the only limit.
func buildChatMessages(cfg domain.UserConfig, history []domain.Turn, text string) []domain.ChatMessage {
	messages := make([]domain.ChatMessage, 0, len(history)+2)
	messages = append(messages, domain.ChatMessage{
		Role:    "system",
		Content: buildPersonaPrompt(cfg),
	})
	for _, turn := range history {
		messages = append(messages, domain.ChatMessage{
			Role:    turn.Speaker,
			Content: turn.Text,
		})
	}
	messages = append(messages, domain.ChatMessage{
		Role:    domain.SpeakerHuman,
		Content: text,
	})
	return messages
}

func buildPersonaPrompt(cfg domain.UserConfig) string {
	return strings.Join([]string{
		fmt.Sprintf("You are %s, the loving partner of %s.", cfg.CompanionName, cfg.PartnerName),
		fmt.Sprintf("Your personality: %s.", cfg.Persona),
		"",
		"Texting style:",
		"- Reply the way you text someone you love: short bursts, not essays.",
		"- Separate each burst with a line containing only ---",
		"- Two to four bursts per reply is natural; one is fine for short answers.",
		"- Stay in character. Never mention being an AI or a language model.",
	}, "\n")
}

func buildLetterPrompt(cfg domain.UserConfig, style domain.LetterStyle) []domain.ChatMessage {
	return []domain.ChatMessage{
		{
			Role:    "system",
			Content: buildPersonaPrompt(cfg),
		},
		{
			Role: domain.SpeakerHuman,
			Content: fmt.Sprintf(
				"Write %s a letter in a %s style. Write it as one continuous letter, no --- separators.",
				cfg.PartnerName, style,
			),
		},
	}
}

func buildDailyPrompt(cfg domain.UserConfig, date string) []domain.ChatMessage {
	return []domain.ChatMessage{
		{
			Role:    "system",
			Content: buildPersonaPrompt(cfg),
		},
		{
			Role: domain.SpeakerHuman,
			Content: fmt.Sprintf(
				"It is %s. Send %s one short good-morning message for today. One message, no --- separators.",
				date, cfg.PartnerName,
			),
		},
	}
}
