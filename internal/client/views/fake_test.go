package views

import (
	"context"
	"io"
	"sync"

	"github.com/dmitrijs2005/mydrive/internal/client/models"
	"github.com/dmitrijs2005/mydrive/internal/netx"
)

// fakeClient implements client.Client with overridable funcs. Unset funcs
// return zero values.
type fakeClient struct {
	mu    sync.Mutex
	calls []string

	listFiles    func(ctx context.Context, username string, section models.Section) ([]models.FileRecord, error)
	uploadFile   func(ctx context.Context, ownerID int64, name string, r io.Reader, size int64, onProgress netx.ProgressFunc) (models.FileRecord, error)
	downloadFile func(ctx context.Context, id int64, w io.Writer, onProgress netx.ProgressFunc) (int64, error)
	deleteFile   func(ctx context.Context, id int64) (string, error)
	setFavourite func(ctx context.Context, id int64, value bool) (string, error)
	listGroups   func(ctx context.Context, username string) ([]models.Group, error)
	createGroup  func(ctx context.Context, name, password, creator string) (models.Group, error)
	joinGroup    func(ctx context.Context, id int64, password, username string) (models.Group, error)
	leaveGroup   func(ctx context.Context, id int64, username string) (string, error)
	listMessages func(ctx context.Context, groupID int64) ([]models.Message, error)
	sendMessage  func(ctx context.Context, groupID int64, sender, content string, typ models.MessageType) (models.Message, error)
}

func (f *fakeClient) record(name string) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
}

func (f *fakeClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeClient) Login(context.Context, string, string) (models.Identity, error) {
	f.record("Login")
	return models.Identity{}, nil
}

func (f *fakeClient) Register(context.Context, string, string, string) (string, error) {
	f.record("Register")
	return "", nil
}

func (f *fakeClient) ListFiles(ctx context.Context, username string, section models.Section) ([]models.FileRecord, error) {
	f.record("ListFiles:" + string(section))
	if f.listFiles == nil {
		return []models.FileRecord{}, nil
	}
	return f.listFiles(ctx, username, section)
}

func (f *fakeClient) UploadFile(ctx context.Context, ownerID int64, name string, r io.Reader, size int64, onProgress netx.ProgressFunc) (models.FileRecord, error) {
	f.record("UploadFile")
	if f.uploadFile == nil {
		return models.FileRecord{}, nil
	}
	return f.uploadFile(ctx, ownerID, name, r, size, onProgress)
}

func (f *fakeClient) DownloadFile(ctx context.Context, id int64, w io.Writer, onProgress netx.ProgressFunc) (int64, error) {
	f.record("DownloadFile")
	if f.downloadFile == nil {
		return 0, nil
	}
	return f.downloadFile(ctx, id, w, onProgress)
}

func (f *fakeClient) DeleteFile(ctx context.Context, id int64) (string, error) {
	f.record("DeleteFile")
	if f.deleteFile == nil {
		return "Deleted Successfully", nil
	}
	return f.deleteFile(ctx, id)
}

func (f *fakeClient) SetFavourite(ctx context.Context, id int64, value bool) (string, error) {
	f.record("SetFavourite")
	if f.setFavourite == nil {
		return "Favourite status updated", nil
	}
	return f.setFavourite(ctx, id, value)
}

func (f *fakeClient) ListGroups(ctx context.Context, username string) ([]models.Group, error) {
	f.record("ListGroups")
	if f.listGroups == nil {
		return []models.Group{}, nil
	}
	return f.listGroups(ctx, username)
}

func (f *fakeClient) CreateGroup(ctx context.Context, name, password, creator string) (models.Group, error) {
	f.record("CreateGroup")
	if f.createGroup == nil {
		return models.Group{}, nil
	}
	return f.createGroup(ctx, name, password, creator)
}

func (f *fakeClient) JoinGroup(ctx context.Context, id int64, password, username string) (models.Group, error) {
	f.record("JoinGroup")
	if f.joinGroup == nil {
		return models.Group{}, nil
	}
	return f.joinGroup(ctx, id, password, username)
}

func (f *fakeClient) LeaveGroup(ctx context.Context, id int64, username string) (string, error) {
	f.record("LeaveGroup")
	if f.leaveGroup == nil {
		return "Successfully left the group", nil
	}
	return f.leaveGroup(ctx, id, username)
}

func (f *fakeClient) ListMessages(ctx context.Context, groupID int64) ([]models.Message, error) {
	f.record("ListMessages")
	if f.listMessages == nil {
		return []models.Message{}, nil
	}
	return f.listMessages(ctx, groupID)
}

func (f *fakeClient) SendMessage(ctx context.Context, groupID int64, sender, content string, typ models.MessageType) (models.Message, error) {
	f.record("SendMessage")
	if f.sendMessage == nil {
		return models.Message{}, nil
	}
	return f.sendMessage(ctx, groupID, sender, content, typ)
}

// staticSession always reports the same identity.
type staticSession struct{ id *models.Identity }

func (s staticSession) Current() *models.Identity { return s.id }

var alice = staticSession{id: &models.Identity{ID: 7, Username: "alice"}}
