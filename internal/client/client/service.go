package client

import (
	"context"
	"io"

	"github.com/dmitrijs2005/mydrive/internal/client/models"
	"github.com/dmitrijs2005/mydrive/internal/netx"
)

// Client is the contract of the MyDrive HTTP API as seen by the CLI.
type Client interface {
	Login(ctx context.Context, identifier, password string) (models.Identity, error)
	Register(ctx context.Context, username, email, password string) (string, error)

	ListFiles(ctx context.Context, username string, section models.Section) ([]models.FileRecord, error)
	UploadFile(ctx context.Context, ownerID int64, name string, r io.Reader, size int64, onProgress netx.ProgressFunc) (models.FileRecord, error)
	DownloadFile(ctx context.Context, id int64, w io.Writer, onProgress netx.ProgressFunc) (int64, error)
	DeleteFile(ctx context.Context, id int64) (string, error)
	SetFavourite(ctx context.Context, id int64, value bool) (string, error)

	ListGroups(ctx context.Context, username string) ([]models.Group, error)
	CreateGroup(ctx context.Context, name, password, creator string) (models.Group, error)
	JoinGroup(ctx context.Context, id int64, password, username string) (models.Group, error)
	LeaveGroup(ctx context.Context, id int64, username string) (string, error)
	ListMessages(ctx context.Context, groupID int64) ([]models.Message, error)
	SendMessage(ctx context.Context, groupID int64, sender, content string, typ models.MessageType) (models.Message, error)
}
