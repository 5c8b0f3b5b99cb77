package extract

import (
	"bytes"
	"context"
	"log/slog"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/mantle-data/genesys-export/internal/genesys"
)

// mapResolver resolves from fixed maps, falling back to the raw ID like the
// real resolver does.
type mapResolver struct {
	codes map[string]string
	users map[string]string
}

func (m mapResolver) WrapUpCodeName(_ context.Context, id string) string {
	if v, ok := m.codes[id]; ok {
		return v
	}
	return id
}

func (m mapResolver) UserEmail(_ context.Context, id string) string {
	if v, ok := m.users[id]; ok {
		return v
	}
	return id
}

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func TestFlatten_TraversalOrder(t *testing.T) {
	conv := genesys.Conversation{
		ConversationID:    "conv-1",
		ConversationStart: timePtr(time.Date(2026, 3, 4, 9, 30, 0, 0, time.UTC)),
		ConversationEnd:   timePtr(time.Date(2026, 3, 4, 9, 41, 2, 0, time.UTC)),
		Participants: []genesys.Participant{
			{
				Purpose: "agent",
				UserID:  strPtr("u-1"),
				Sessions: []genesys.Session{
					{Segments: []genesys.Segment{{WrapUpCode: strPtr("c-1")}, {WrapUpCode: nil}}},
					{Segments: []genesys.Segment{{WrapUpCode: strPtr("c-2")}}},
				},
			},
			{
				Purpose: "agent",
				UserID:  strPtr("u-2"),
				Sessions: []genesys.Session{
					{Segments: []genesys.Segment{{WrapUpCode: strPtr("c-3")}}},
				},
			},
		},
	}
	res := mapResolver{
		codes: map[string]string{"c-1": "Resolved", "c-2": "Escalated", "c-3": "Callback"},
		users: map[string]string{"u-1": "anna@example.com", "u-2": "ben@example.com"},
	}

	rec := Flatten(context.Background(), conv, res, discardLogger())

	if rec.ConversationID != "conv-1" {
		t.Errorf("conversation_id = %q", rec.ConversationID)
	}
	if rec.ConversationStart != "2026-03-04T09:30:00" {
		t.Errorf("conversation_start = %q", rec.ConversationStart)
	}
	if rec.ConversationEnd != "2026-03-04T09:41:02" {
		t.Errorf("conversation_end = %q", rec.ConversationEnd)
	}
	if want := []string{"Resolved", "Escalated", "Callback"}; !reflect.DeepEqual(rec.WrapUpCodes, want) {
		t.Errorf("wrap_up_codes = %v, want %v", rec.WrapUpCodes, want)
	}
	if want := []string{"anna@example.com", "ben@example.com"}; !reflect.DeepEqual(rec.Agents, want) {
		t.Errorf("agents = %v, want %v", rec.Agents, want)
	}
}

func TestFlatten_NoWrapUpCodes(t *testing.T) {
	conv := genesys.Conversation{
		ConversationID:    "conv-2",
		ConversationStart: timePtr(time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)),
		ConversationEnd:   timePtr(time.Date(2026, 3, 4, 9, 5, 0, 0, time.UTC)),
		Participants: []genesys.Participant{
			{Purpose: "customer", Sessions: []genesys.Session{{Segments: []genesys.Segment{{}, {}}}}},
		},
	}

	rec := Flatten(context.Background(), conv, mapResolver{}, discardLogger())

	if len(rec.WrapUpCodes) != 0 {
		t.Errorf("wrap_up_codes = %v, want none", rec.WrapUpCodes)
	}
	if len(rec.Agents) != 0 {
		t.Errorf("agents = %v, want none", rec.Agents)
	}
}

func TestFlatten_SkipsNonAgentsAndNilUserIDs(t *testing.T) {
	conv := genesys.Conversation{
		ConversationID:    "conv-3",
		ConversationStart: timePtr(time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)),
		ConversationEnd:   timePtr(time.Date(2026, 3, 4, 9, 5, 0, 0, time.UTC)),
		Participants: []genesys.Participant{
			{Purpose: "customer", UserID: strPtr("u-cust")},
			{Purpose: "ivr"},
			{Purpose: "agent", UserID: nil}, // disconnected before assignment
			{Purpose: "agent", UserID: strPtr("u-9")},
		},
	}
	res := mapResolver{users: map[string]string{"u-9": "cleo@example.com", "u-cust": "cust@example.com"}}

	rec := Flatten(context.Background(), conv, res, discardLogger())

	if want := []string{"cleo@example.com"}; !reflect.DeepEqual(rec.Agents, want) {
		t.Errorf("agents = %v, want %v", rec.Agents, want)
	}
}

func TestFlatten_DuplicatesPreserved(t *testing.T) {
	conv := genesys.Conversation{
		ConversationID:    "conv-4",
		ConversationStart: timePtr(time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)),
		ConversationEnd:   timePtr(time.Date(2026, 3, 4, 9, 5, 0, 0, time.UTC)),
		Participants: []genesys.Participant{
			{
				Purpose: "agent",
				UserID:  strPtr("u-1"),
				Sessions: []genesys.Session{
					{Segments: []genesys.Segment{{WrapUpCode: strPtr("c-1")}, {WrapUpCode: strPtr("c-1")}}},
				},
			},
		},
	}
	res := mapResolver{codes: map[string]string{"c-1": "Resolved"}}

	rec := Flatten(context.Background(), conv, res, discardLogger())

	if want := []string{"Resolved", "Resolved"}; !reflect.DeepEqual(rec.WrapUpCodes, want) {
		t.Errorf("wrap_up_codes = %v, want %v", rec.WrapUpCodes, want)
	}
}

func TestFlatten_MissingStartLogsDiagnostic(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	conv := genesys.Conversation{
		ConversationID:  "conv-5",
		ConversationEnd: timePtr(time.Date(2026, 3, 4, 9, 5, 0, 0, time.UTC)),
	}

	rec := Flatten(context.Background(), conv, mapResolver{}, logger)

	if rec.ConversationStart != "" {
		t.Errorf("conversation_start = %q, want empty", rec.ConversationStart)
	}
	if rec.ConversationEnd == "" {
		t.Error("conversation_end lost")
	}

	lines := 0
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if strings.Contains(line, "conv-5") {
			lines++
		}
	}
	if lines != 1 {
		t.Errorf("diagnostic lines mentioning conv-5 = %d, want 1\nlog:\n%s", lines, buf.String())
	}
}
