package genesys

import "time"

// Conversation is one analytics conversation-detail record. Timestamps are
// nullable in the analytics API: an in-flight or malformed record can report
// neither a start nor an end.
type Conversation struct {
	ConversationID    string        `json:"conversationId"`
	ConversationStart *time.Time    `json:"conversationStart"`
	ConversationEnd   *time.Time    `json:"conversationEnd"`
	Participants      []Participant `json:"participants"`
}

// Participant is an entity taking part in a conversation. Purpose is the
// platform's role label ("agent", "customer", "ivr", ...). UserID is only
// set for participants backed by a platform user.
type Participant struct {
	Purpose  string    `json:"purpose"`
	UserID   *string   `json:"userId"`
	Sessions []Session `json:"sessions"`
}

// Session is a participant's connected duration within a conversation.
type Session struct {
	Segments []Segment `json:"segments"`
}

// Segment is a sub-interval of a session. WrapUpCode carries the ID of the
// disposition code an agent assigned at segment close, when there is one.
type Segment struct {
	WrapUpCode *string `json:"wrapUpCode"`
}

// AnalyticsQuery is the body of a conversation-details query.
type AnalyticsQuery struct {
	Interval string `json:"interval"`
	Paging   Paging `json:"paging"`
}

type Paging struct {
	PageSize   int `json:"pageSize"`
	PageNumber int `json:"pageNumber"`
}

// AnalyticsResponse is one page of conversation-details results.
// Conversations is nil when the window holds no data.
type AnalyticsResponse struct {
	TotalHits     int            `json:"totalHits"`
	Conversations []Conversation `json:"conversations"`
}
