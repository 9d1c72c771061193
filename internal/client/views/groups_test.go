package views

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/mydrive/internal/client/client"
	"github.com/dmitrijs2005/mydrive/internal/client/models"
	"github.com/dmitrijs2005/mydrive/internal/logging"
	"github.com/dmitrijs2005/mydrive/internal/netx"
)

func newGroups(t *testing.T, fc *fakeClient) *Groups {
	t.Helper()
	return NewGroups(fc, alice, t.TempDir(), logging.Discard())
}

func mounted(t *testing.T, fc *fakeClient) *Groups {
	t.Helper()
	if fc.listGroups == nil {
		fc.listGroups = func(context.Context, string) ([]models.Group, error) {
			return []models.Group{{ID: 1, Name: "team", Usernames: []string{"alice"}}, {ID: 2, Name: "family"}}, nil
		}
	}
	if fc.listFiles == nil {
		fc.listFiles = func(context.Context, string, models.Section) ([]models.FileRecord, error) {
			return []models.FileRecord{{ID: 10, FileName: "notes.txt"}}, nil
		}
	}
	g := newGroups(t, fc)
	require.NoError(t, g.Mount(context.Background()))
	return g
}

func TestGroups_MountFetchesGroupsAndFiles(t *testing.T) {
	fc := &fakeClient{}
	g := mounted(t, fc)

	st := g.State()
	assert.Len(t, st.Groups, 2)
	assert.Len(t, st.Files, 1)
	assert.Nil(t, st.Selected)
	assert.ElementsMatch(t, []string{"ListGroups", "ListFiles:all"}, fc.Calls())
}

func TestGroups_MountGroupFailureClearsList(t *testing.T) {
	fc := &fakeClient{listGroups: func(context.Context, string) ([]models.Group, error) {
		return nil, &client.ServerError{StatusCode: 500, Message: "Error fetching groups: db down"}
	}}
	g := newGroups(t, fc)

	err := g.Mount(context.Background())
	require.EqualError(t, err, "Failed to load groups: Error fetching groups: db down")
	assert.Empty(t, g.State().Groups)
	assert.Len(t, g.State().Files, 0)
}

func TestGroups_MountFileFailure(t *testing.T) {
	fc := &fakeClient{listFiles: func(context.Context, string, models.Section) ([]models.FileRecord, error) {
		return nil, fmt.Errorf("%w: refused", client.ErrNoResponse)
	}}
	g := newGroups(t, fc)

	err := g.Mount(context.Background())
	require.EqualError(t, err, "Failed to load files: Network error")
}

func TestGroups_NoUsername(t *testing.T) {
	g := NewGroups(&fakeClient{}, staticSession{}, t.TempDir(), logging.Discard())

	require.EqualError(t, g.Mount(context.Background()), "No username available")
}

func TestGroups_SelectLoadsMessages(t *testing.T) {
	fc := &fakeClient{listMessages: func(_ context.Context, id int64) ([]models.Message, error) {
		return []models.Message{{ID: 1, GroupID: id, Content: "hi", Type: models.MessageText}}, nil
	}}
	g := mounted(t, fc)

	require.NoError(t, g.Select(context.Background(), 1))
	st := g.State()
	require.NotNil(t, st.Selected)
	assert.Equal(t, "team", st.Selected.Name)
	assert.Len(t, st.Messages, 1)

	err := g.Select(context.Background(), 99)
	require.Error(t, err)
}

func TestGroups_FailedSelectDropsPreviousTranscript(t *testing.T) {
	fc := &fakeClient{listMessages: func(_ context.Context, id int64) ([]models.Message, error) {
		if id == 2 {
			return nil, &client.ServerError{StatusCode: 500, Message: "down"}
		}
		return []models.Message{{ID: 1, GroupID: id, Content: "hi", Type: models.MessageText}}, nil
	}}
	g := mounted(t, fc)
	ctx := context.Background()
	require.NoError(t, g.Select(ctx, 1))

	require.EqualError(t, g.Select(ctx, 2), "Failed to load messages: down")

	st := g.State()
	require.NotNil(t, st.Selected)
	assert.Equal(t, int64(2), st.Selected.ID)
	assert.Empty(t, st.Messages, "team's messages must not show under family")
}

func TestGroups_SupersededMessagesDropped(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once

	fc := &fakeClient{listMessages: func(_ context.Context, id int64) ([]models.Message, error) {
		if id == 1 {
			once.Do(func() { close(started) })
			<-release
		}
		return []models.Message{{ID: id * 100, GroupID: id}}, nil
	}}
	g := mounted(t, fc)
	ctx := context.Background()

	done := make(chan error)
	go func() { done <- g.Select(ctx, 1) }()
	<-started

	require.NoError(t, g.Select(ctx, 2))
	close(release)
	require.NoError(t, <-done)

	st := g.State()
	assert.Equal(t, int64(2), st.Selected.ID)
	require.Len(t, st.Messages, 1)
	assert.Equal(t, int64(200), st.Messages[0].ID)
}

func TestGroups_CreateValidationAndAppend(t *testing.T) {
	fc := &fakeClient{createGroup: func(_ context.Context, name, pw, creator string) (models.Group, error) {
		assert.Equal(t, "alice", creator)
		return models.Group{ID: 3, Name: name, Usernames: []string{creator}}, nil
	}}
	g := mounted(t, fc)
	ctx := context.Background()

	_, err := g.Create(ctx, "", "pw")
	require.EqualError(t, err, "Group name and password are required")
	_, err = g.Create(ctx, "new", "")
	require.EqualError(t, err, "Group name and password are required")

	grp, err := g.Create(ctx, "new", "pw")
	require.NoError(t, err)
	assert.Equal(t, int64(3), grp.ID)
	assert.Len(t, g.State().Groups, 3)
	assert.Empty(t, g.Err(), "success clears the error")
}

func TestGroups_JoinValidation(t *testing.T) {
	tests := []struct {
		id, pw string
		want   string
	}{
		{"", "pw", "Group ID and password are required"},
		{"5", "", "Group ID and password are required"},
		{"abc", "pw", "Group ID must be a valid positive number"},
		{"0", "pw", "Group ID must be a valid positive number"},
		{"-4", "pw", "Group ID must be a valid positive number"},
		{"1.5", "pw", "Group ID must be a valid positive number"},
	}
	for _, tc := range tests {
		fc := &fakeClient{}
		g := newGroups(t, fc)
		_, err := g.Join(context.Background(), tc.id, tc.pw)
		require.EqualError(t, err, tc.want, "id=%q", tc.id)
		assert.Empty(t, fc.Calls())
	}
}

func TestGroups_JoinAppendsOnce(t *testing.T) {
	fc := &fakeClient{joinGroup: func(_ context.Context, id int64, _, _ string) (models.Group, error) {
		return models.Group{ID: id, Name: fmt.Sprint("g", id)}, nil
	}}
	g := mounted(t, fc)
	ctx := context.Background()

	_, err := g.Join(ctx, "1", "pw")
	require.NoError(t, err)
	assert.Len(t, g.State().Groups, 2, "already listed group is not duplicated")

	_, err = g.Join(ctx, " 7 ", "pw")
	require.NoError(t, err)
	assert.Len(t, g.State().Groups, 3)
}

func TestGroups_JoinErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"code not found", &client.ServerError{StatusCode: 400, Message: "whatever", Code: "group_not_found"}, "Group not found. Please check the group ID."},
		{"code bad password", &client.ServerError{StatusCode: 400, Message: "Invalid group ID", Code: "incorrect_password"}, "Incorrect password. Please try again."},
		{"code invalid id", &client.ServerError{StatusCode: 422, Code: "invalid_group_id"}, "Invalid group ID. Please check the group ID and try again."},
		{"400 invalid id text", &client.ServerError{StatusCode: 400, Message: "Invalid group ID: 5"}, "Invalid group ID. Please check the group ID and try again."},
		{"400 password text", &client.ServerError{StatusCode: 400, Message: "Incorrect password"}, "Incorrect password. Please try again."},
		{"400 empty body", &client.ServerError{StatusCode: http.StatusBadRequest}, "Invalid group ID. Please check the group ID and try again."},
		{"400 other text", &client.ServerError{StatusCode: 400, Message: "Group not found"}, "Group not found"},
		{"404", &client.ServerError{StatusCode: http.StatusNotFound}, "Group not found. Please check the group ID."},
		{"403", &client.ServerError{StatusCode: http.StatusForbidden, Message: "nope"}, "Incorrect password. Please try again."},
		{"500 raw", &client.ServerError{StatusCode: 500, Message: "kaboom"}, "kaboom"},
		{"no response", fmt.Errorf("%w: refused", client.ErrNoResponse), "No response from server. Please check your connection."},
		{"other", errors.New("weird"), "weird"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fc := &fakeClient{joinGroup: func(context.Context, int64, string, string) (models.Group, error) {
				return models.Group{}, tc.err
			}}
			g := newGroups(t, fc)

			_, err := g.Join(context.Background(), "5", "pw")
			require.EqualError(t, err, "Failed to join group: "+tc.want)
			assert.Equal(t, "Failed to join group: "+tc.want, g.Err())
		})
	}
}

func TestGroups_LeaveSelectedClearsTranscript(t *testing.T) {
	fc := &fakeClient{
		listMessages: func(context.Context, int64) ([]models.Message, error) {
			return []models.Message{{ID: 1}}, nil
		},
		leaveGroup: func(context.Context, int64, string) (string, error) {
			return "Group deleted as it has no members", nil
		},
	}
	g := mounted(t, fc)
	ctx := context.Background()
	require.NoError(t, g.Select(ctx, 1))

	msg, err := g.Leave(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Group deleted as it has no members", msg)

	st := g.State()
	assert.Nil(t, st.Selected)
	assert.Empty(t, st.Messages)
	assert.Len(t, st.Groups, 1)
}

func TestGroups_LeaveOtherKeepsSelection(t *testing.T) {
	g := mounted(t, &fakeClient{})
	ctx := context.Background()
	require.NoError(t, g.Select(ctx, 1))

	_, err := g.Leave(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, g.State().Selected)
	assert.Equal(t, int64(1), g.State().Selected.ID)
}

func TestGroups_LeaveFailure(t *testing.T) {
	fc := &fakeClient{leaveGroup: func(context.Context, int64, string) (string, error) {
		return "", &client.ServerError{StatusCode: 400, Message: "User is not a member of this group"}
	}}
	g := mounted(t, fc)

	_, err := g.Leave(context.Background(), 1)
	require.EqualError(t, err, "Failed to leave group: User is not a member of this group")
	assert.Len(t, g.State().Groups, 2)
}

func TestGroups_SendAndShare(t *testing.T) {
	var nextID int64
	fc := &fakeClient{sendMessage: func(_ context.Context, gid int64, sender, content string, typ models.MessageType) (models.Message, error) {
		nextID++
		return models.Message{ID: nextID, GroupID: gid, SenderUsername: sender, Content: content, Type: typ}, nil
	}}
	g := mounted(t, fc)
	ctx := context.Background()

	_, err := g.Send(ctx, "hello")
	require.Error(t, err, "no group selected")

	require.NoError(t, g.Select(ctx, 1))

	_, err = g.Send(ctx, "   ")
	require.Error(t, err)

	m, err := g.Send(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, models.MessageText, m.Type)

	m, err = g.Share(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, models.MessageFile, m.Type)
	assert.Equal(t, "10", m.Content)

	st := g.State()
	require.Len(t, st.Messages, 2)
	assert.Equal(t, "notes.txt", g.FileName(st.Messages[1].Content))
}

func TestGroups_SendFailure(t *testing.T) {
	fc := &fakeClient{sendMessage: func(context.Context, int64, string, string, models.MessageType) (models.Message, error) {
		return models.Message{}, &client.ServerError{StatusCode: 400, Message: "Group not found"}
	}}
	g := mounted(t, fc)
	ctx := context.Background()
	require.NoError(t, g.Select(ctx, 1))

	_, err := g.Send(ctx, "x")
	require.EqualError(t, err, "Failed to send message: Group not found")
	_, err = g.Share(ctx, 10)
	require.EqualError(t, err, "Failed to share file: Group not found")
	assert.Empty(t, g.State().Messages)
}

func TestGroups_FileName(t *testing.T) {
	g := mounted(t, &fakeClient{})

	assert.Equal(t, "notes.txt", g.FileName("10"))
	assert.Equal(t, "File not found", g.FileName("11"))
	assert.Equal(t, "File not found", g.FileName("abc"))
}

func TestGroups_Download(t *testing.T) {
	fc := &fakeClient{downloadFile: func(_ context.Context, id int64, w io.Writer, _ netx.ProgressFunc) (int64, error) {
		n, err := io.WriteString(w, "content")
		return int64(n), err
	}}
	dir := t.TempDir()
	g := NewGroups(fc, alice, dir, logging.Discard())
	fc.listFiles = func(context.Context, string, models.Section) ([]models.FileRecord, error) {
		return []models.FileRecord{{ID: 10, FileName: "notes.txt"}}, nil
	}
	require.NoError(t, g.Mount(context.Background()))

	p, err := g.Download(context.Background(), 10, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "notes.txt"), p)

	p, err = g.Download(context.Background(), 55, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "file-55"), p)

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "content", string(b))
}
