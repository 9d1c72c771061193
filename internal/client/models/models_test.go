package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_Active(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := Session{Identity: Identity{ID: 1, Username: "alice"}, ExpiresAt: now.Add(time.Minute)}

	assert.True(t, s.Active(now))
	assert.False(t, s.Active(now.Add(time.Minute)), "expiry instant is already expired")
	assert.False(t, s.Active(now.Add(time.Hour)))
}

func TestIdentity_Valid(t *testing.T) {
	assert.True(t, Identity{ID: 1, Username: "a"}.Valid())
	assert.False(t, Identity{ID: 0, Username: "a"}.Valid())
	assert.False(t, Identity{ID: 1}.Valid())
}

func TestParseSection(t *testing.T) {
	tests := map[string]Section{
		"all":        SectionAll,
		"My":         SectionAll,
		"recents":    SectionRecent,
		" fav ":      SectionFavourites,
		"favourites": SectionFavourites,
		"shared":     SectionShared,
	}
	for in, want := range tests {
		got, err := ParseSection(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseSection("trash")
	require.Error(t, err)
}

func TestRecent_TakesLastThree(t *testing.T) {
	all := []FileRecord{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}, {ID: 5}}
	got := Recent(all)
	assert.Equal(t, []FileRecord{{ID: 3}, {ID: 4}, {ID: 5}}, got)

	got[0].FileName = "changed"
	assert.Empty(t, all[2].FileName, "Recent must not alias the input")

	assert.Equal(t, []FileRecord{{ID: 1}}, Recent([]FileRecord{{ID: 1}}))
	assert.Empty(t, Recent(nil))
}

func TestFileRecord_DisplayNameAndFind(t *testing.T) {
	files := []FileRecord{{ID: 1, FileName: "a.txt"}, {ID: 2}}

	f, ok := FindFile(files, 2)
	require.True(t, ok)
	assert.Equal(t, "file-2", f.DisplayName())

	_, ok = FindFile(files, 9)
	assert.False(t, ok)
}

func TestFileRecord_DecodesServerJSON(t *testing.T) {
	var f FileRecord
	require.NoError(t, json.Unmarshal([]byte(`{"id":4,"fileName":"a.png","fileType":"image/png","isFavourite":true,"groupName":null}`), &f))
	assert.Equal(t, FileRecord{ID: 4, FileName: "a.png", FileType: "image/png", IsFavourite: true}, f)
}

func TestMessage_TimestampFormats(t *testing.T) {
	var m Message
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"groupId":2,"senderUsername":"bob","content":"7","type":"file","timestamp":1700000000000}`), &m))
	assert.Equal(t, int64(1700000000000), m.Timestamp.UnixMilli())
	id, ok := m.FileID()
	require.True(t, ok)
	assert.Equal(t, int64(7), id)

	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"type":"text","content":"hi","timestamp":"2026-01-02T03:04:05Z"}`), &m))
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), m.Timestamp.UTC())
	_, ok = m.FileID()
	assert.False(t, ok, "text messages carry no file id")

	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"type":"text","content":"hi","timestamp":null}`), &m))
	assert.True(t, m.Timestamp.IsZero())

	require.Error(t, json.Unmarshal([]byte(`{"timestamp":"yesterday"}`), &m))
}

func TestMessage_MarshalUsesMillis(t *testing.T) {
	m := Message{ID: 3, GroupID: 1, SenderUsername: "a", Content: "x", Type: MessageText, Timestamp: time.UnixMilli(42)}
	b, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":3,"groupId":1,"senderUsername":"a","content":"x","type":"text","timestamp":42}`, string(b))
}

func TestGroup_HasMember(t *testing.T) {
	g := Group{ID: 1, Usernames: []string{"alice", "bob"}}
	assert.True(t, g.HasMember("bob"))
	assert.False(t, g.HasMember("carol"))
}
