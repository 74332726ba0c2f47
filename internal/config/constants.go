package config

import "time"

const (
	// Purchases per listing page
	PageSize = 5

	// Free-conversation rolling history window (messages, not pairs)
	ChatHistoryWindow = 8

	// Timeout applied to AI and upload calls
	RequestTimeout = 90 * time.Second

	// Telegram limits
	MaxTelegramMessageLen = 4096

	// Models used per job
	ChatModel       = "google/gemini-2.0-flash-001"
	ExtractModel    = "google/gemini-2.0-flash-001"
	TranscribeModel = "google/gemini-2.0-flash-001"
	QueryModel      = "google/gemini-2.0-flash-001"

	// Budget alert thresholds (percent of category budget)
	BudgetWarnPercent     = 80
	BudgetExceededPercent = 100
)
