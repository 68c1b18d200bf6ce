package entity

import "sort"

// Chat is a conversation between exactly two identities. The pair in
// Users is fixed at creation; membership is positional only in the
// sense that either slot may hold a user id or an organization id.
type Chat struct {
	ID       string             `json:"id,omitempty"`
	Name     string             `json:"name"`
	Users    [2]string          `json:"users"`
	Messages map[string]Message `json:"messages,omitempty"`
}

// HasParticipant reports whether id is one of the two participants.
func (c *Chat) HasParticipant(id string) bool {
	return c.Users[0] == id || c.Users[1] == id
}

// Counterpart returns the participant that is not id, or "" when id is
// not a participant.
func (c *Chat) Counterpart(id string) string {
	switch id {
	case c.Users[0]:
		return c.Users[1]
	case c.Users[1]:
		return c.Users[0]
	}
	return ""
}

// OrderedMessages returns the messages sorted by push key. Push keys
// are lexicographically ordered by the store, so this is chronological
// order as the store observed the appends.
func (c *Chat) OrderedMessages() []Message {
	if len(c.Messages) == 0 {
		return nil
	}

	keys := make([]string, 0, len(c.Messages))
	for k := range c.Messages {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	messages := make([]Message, 0, len(keys))
	for _, k := range keys {
		messages = append(messages, c.Messages[k])
	}
	return messages
}

// LatestMessage returns the message under the greatest push key, or
// nil for a chat with no messages yet.
func (c *Chat) LatestMessage() *Message {
	var latestKey string
	for k := range c.Messages {
		if latestKey == "" || k > latestKey {
			latestKey = k
		}
	}
	if latestKey == "" {
		return nil
	}
	m := c.Messages[latestKey]
	return &m
}
