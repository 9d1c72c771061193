package models

import (
	"encoding/json"
	"slices"
	"strconv"
	"time"
)

type Group struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Usernames []string `json:"usernames"`
}

// HasMember reports whether username belongs to the group.
func (g Group) HasMember(username string) bool {
	return slices.Contains(g.Usernames, username)
}

type MessageType string

const (
	MessageText MessageType = "text"
	MessageFile MessageType = "file"
)

// Message is one entry of a group transcript. For MessageFile the content
// is the decimal id of the shared file.
type Message struct {
	ID             int64       `json:"id"`
	GroupID        int64       `json:"groupId"`
	SenderUsername string      `json:"senderUsername"`
	Content        string      `json:"content"`
	Type           MessageType `json:"type"`
	Timestamp      time.Time   `json:"-"`
}

// FileID parses the content of a file message.
func (m Message) FileID() (int64, bool) {
	if m.Type != MessageFile {
		return 0, false
	}
	id, err := strconv.ParseInt(m.Content, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

type messageJSON struct {
	ID             int64           `json:"id"`
	GroupID        int64           `json:"groupId"`
	SenderUsername string          `json:"senderUsername"`
	Content        string          `json:"content"`
	Type           MessageType     `json:"type"`
	Timestamp      json.RawMessage `json:"timestamp,omitempty"`
}

// MarshalJSON writes the timestamp as unix milliseconds.
func (m Message) MarshalJSON() ([]byte, error) {
	var ts json.RawMessage
	if !m.Timestamp.IsZero() {
		ts = json.RawMessage(strconv.FormatInt(m.Timestamp.UnixMilli(), 10))
	}
	return json.Marshal(messageJSON{
		ID:             m.ID,
		GroupID:        m.GroupID,
		SenderUsername: m.SenderUsername,
		Content:        m.Content,
		Type:           m.Type,
		Timestamp:      ts,
	})
}

// UnmarshalJSON accepts the timestamp either as unix milliseconds or as an
// RFC 3339 string.
func (m *Message) UnmarshalJSON(b []byte) error {
	var raw messageJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*m = Message{
		ID:             raw.ID,
		GroupID:        raw.GroupID,
		SenderUsername: raw.SenderUsername,
		Content:        raw.Content,
		Type:           raw.Type,
	}

	if len(raw.Timestamp) == 0 || string(raw.Timestamp) == "null" {
		return nil
	}

	var ms int64
	if err := json.Unmarshal(raw.Timestamp, &ms); err == nil {
		m.Timestamp = time.UnixMilli(ms)
		return nil
	}

	var s string
	if err := json.Unmarshal(raw.Timestamp, &s); err != nil {
		return err
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return err
	}
	m.Timestamp = t
	return nil
}
