package slack

import (
	"fmt"
	"unicode/utf8"

	"github.com/doc-forge-buddy/docforge/pkg/domain/model"
	"github.com/doc-forge-buddy/docforge/pkg/domain/types"
	"github.com/slack-go/slack"
)

const (
	maxHeaderBytes  = 150
	maxSectionBytes = 3000
)

var priorityEmoji = map[types.NotificationPriority]string{
	types.NotificationPriorityUrgent: ":rotating_light:",
	types.NotificationPriorityHigh:   ":warning:",
	types.NotificationPriorityNormal: ":information_source:",
}

// NotificationBlocks renders a notification as Block Kit blocks with a fallback text
func NotificationBlocks(n *model.Notification) ([]slack.Block, string) {
	title := truncateToMaxBytes(fmt.Sprintf("%s %s", priorityEmoji[n.Priority], n.Title), maxHeaderBytes)
	message := truncateToMaxBytes(n.Message, maxSectionBytes)

	contextText := fmt.Sprintf("*%s* · %s", n.Priority, n.Type)
	if n.Metadata.ContractID != "" {
		contextText += fmt.Sprintf(" · contract `%s`", n.Metadata.ContractID)
	}
	if n.Metadata.VistoriaID != "" {
		contextText += fmt.Sprintf(" · vistoria `%s`", n.Metadata.VistoriaID)
	}

	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, title, true, false)),
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, message, false, false), nil, nil),
		slack.NewContextBlock("", slack.NewTextBlockObject(slack.MarkdownType, contextText, false, false)),
	}

	return blocks, n.Title + "\n" + n.Message
}

// truncateToMaxBytes cuts s to at most maxBytes without splitting a UTF-8 sequence
func truncateToMaxBytes(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
