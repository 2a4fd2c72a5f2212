// Package notify delivers analysis digests via the Telegram Bot API. It
// formats the top-ranked patterns of a run into a MarkdownV2 message and
// handles delivery with retry logic for reliability.
package notify

import (
	"fmt"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/crimelens/crimelens/internal/models"
)

// Client handles Telegram notifications
type Client struct {
	bot            *tgbotapi.BotAPI
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
}

// NewClient creates a new Telegram client
func NewClient(botToken, chatID string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	chatIDInt, err := parseChatID(chatID)
	if err != nil {
		return nil, err
	}

	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}

	return &Client{
		bot:            bot,
		chatID:         chatIDInt,
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
	}, nil
}

func parseChatID(chatID string) (int64, error) {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid chat ID: %w", err)
	}
	return id, nil
}

// Send delivers a digest of the top-ranked patterns from one run.
func (c *Client) Send(result *models.AnalysisResult, topK int) error {
	patterns := result.Patterns
	if topK > 0 && len(patterns) > topK {
		patterns = patterns[:topK]
	}
	if len(patterns) == 0 {
		return nil
	}

	msg := tgbotapi.NewMessage(c.chatID, FormatDigest(result.Metadata, patterns))
	msg.ParseMode = "MarkdownV2"

	// Send with retry
	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		_, err := c.bot.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err
		time.Sleep(c.retryDelayBase * time.Duration(i+1))
	}

	return fmt.Errorf("failed to send message after %d retries: %w", c.maxRetries, lastErr)
}

// FormatDigest formats ranked patterns into a Telegram MarkdownV2 message.
func FormatDigest(meta models.RunMetadata, patterns []models.Pattern) string {
	message := "*Crime Pattern Digest*\n\n"
	message += fmt.Sprintf("Analyzed %d incidents \\(%s\\) at %s\n\n",
		meta.TotalIncidents,
		escapeMarkdownV2(meta.TimeRange),
		escapeMarkdownV2(meta.RunAt.Format("2006-01-02 15:04:05")),
	)

	for i, p := range patterns {
		riskMark := ""
		if p.RiskLevel == models.RiskHigh {
			riskMark = " \\[HIGH RISK\\]"
		}

		message += fmt.Sprintf("%d\\. *%s*%s\n", i+1, escapeMarkdownV2(string(p.Kind)), riskMark)
		message += fmt.Sprintf("   %s\n", escapeMarkdownV2(p.Description))
		message += fmt.Sprintf("   Confidence: %s, incidents: %d\n\n",
			escapeMarkdownV2(fmt.Sprintf("%.0f%%", p.Confidence*100)),
			len(p.RelatedIncidents),
		)
	}

	return message
}

// escapeMarkdownV2 escapes special characters for Telegram MarkdownV2
func escapeMarkdownV2(text string) string {
	result := ""
	for _, char := range text {
		switch char {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!':
			result += "\\" + string(char)
		default:
			result += string(char)
		}
	}
	return result
}
