package extract

import (
	"context"
	"log/slog"
	"time"

	"github.com/mantle-data/genesys-export/internal/genesys"
)

// Record is one flattened conversation. Agents and WrapUpCodes keep
// traversal order (participants, then sessions, then segments) and keep
// duplicates; the downstream tables declare the primary keys, deduplication
// is the sink's concern. Empty timestamp strings mean the source record had
// no value.
type Record struct {
	ConversationID    string
	ConversationStart string
	ConversationEnd   string
	Agents            []string
	WrapUpCodes       []string
}

// Flatten reduces one raw conversation to a Record, resolving wrap-up codes
// to names and agent user IDs to emails as it walks the
// participants→sessions→segments tree.
func Flatten(ctx context.Context, conv genesys.Conversation, res Resolver, logger *slog.Logger) Record {
	rec := Record{
		ConversationID:    conv.ConversationID,
		ConversationStart: formatTimestamp(conv.ConversationStart, "conversation_start", conv.ConversationID, logger),
		ConversationEnd:   formatTimestamp(conv.ConversationEnd, "conversation_end", conv.ConversationID, logger),
	}

	for _, p := range conv.Participants {
		for _, session := range p.Sessions {
			for _, segment := range session.Segments {
				if segment.WrapUpCode == nil {
					continue
				}
				rec.WrapUpCodes = append(rec.WrapUpCodes, res.WrapUpCodeName(ctx, *segment.WrapUpCode))
			}
		}
		if p.Purpose == "agent" && p.UserID != nil {
			rec.Agents = append(rec.Agents, res.UserEmail(ctx, *p.UserID))
		}
	}

	return rec
}

// formatTimestamp renders a nullable timestamp at second precision. A
// missing value is an expected data-quality case, logged so the gap can be
// traced back to the conversation.
func formatTimestamp(t *time.Time, field, conversationID string, logger *slog.Logger) string {
	if t == nil {
		logger.Info("conversation timestamp missing",
			"field", field,
			"conversation_id", conversationID,
		)
		return ""
	}
	return t.UTC().Format(isoSeconds)
}
