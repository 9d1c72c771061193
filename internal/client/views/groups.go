package views

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/mydrive/internal/client/client"
	"github.com/dmitrijs2005/mydrive/internal/client/models"
	"github.com/dmitrijs2005/mydrive/internal/logging"
	"github.com/dmitrijs2005/mydrive/internal/netx"
)

// Structured join error codes. When the server sends one of these the
// message text is not inspected.
const (
	CodeGroupNotFound     = "group_not_found"
	CodeIncorrectPassword = "incorrect_password"
	CodeInvalidGroupID    = "invalid_group_id"
)

const (
	msgInvalidGroupID    = "Invalid group ID. Please check the group ID and try again."
	msgIncorrectPassword = "Incorrect password. Please try again."
	msgGroupNotFound     = "Group not found. Please check the group ID."
	msgNoResponse        = "No response from server. Please check your connection."
	msgFileNotFound      = "File not found"
)

// GroupsState is a snapshot of the groups view for rendering.
type GroupsState struct {
	Groups   []models.Group
	Files    []models.FileRecord
	Selected *models.Group
	Messages []models.Message
	Err      string
}

// Groups manages the user's groups, the transcript of the selected group
// and the user's own files offered for sharing.
type Groups struct {
	client      client.Client
	session     SessionSource
	downloadDir string
	log         logging.Logger

	mu       sync.Mutex
	groups   []models.Group
	files    []models.FileRecord
	selected int64
	messages []models.Message
	msgGen   uint64
	err      string
}

func NewGroups(c client.Client, session SessionSource, downloadDir string, log logging.Logger) *Groups {
	return &Groups{client: c, session: session, downloadDir: downloadDir, log: log}
}

func (g *Groups) State() GroupsState {
	g.mu.Lock()
	defer g.mu.Unlock()

	st := GroupsState{
		Groups:   slices.Clone(g.groups),
		Files:    slices.Clone(g.files),
		Messages: slices.Clone(g.messages),
		Err:      g.err,
	}
	if i := g.indexOf(g.selected); i >= 0 {
		sel := g.groups[i]
		st.Selected = &sel
	}
	return st
}

func (g *Groups) Err() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.err
}

func (g *Groups) fail(e *Error) *Error {
	g.mu.Lock()
	g.err = e.Message
	g.mu.Unlock()
	return e
}

func (g *Groups) clearErr() {
	g.mu.Lock()
	g.err = ""
	g.mu.Unlock()
}

func (g *Groups) indexOf(id int64) int {
	if id == 0 {
		return -1
	}
	return slices.IndexFunc(g.groups, func(gr models.Group) bool { return gr.ID == id })
}

func (g *Groups) username() (string, *Error) {
	id := g.session.Current()
	if id == nil || id.Username == "" {
		return "", g.fail(message(msgNoUsername))
	}
	return id.Username, nil
}

// Mount fetches the group list and the user's files concurrently. Either
// failure becomes the view error; a failed group fetch empties the list.
func (g *Groups) Mount(ctx context.Context) error {
	user, e := g.username()
	if e != nil {
		return e
	}

	var (
		groups            []models.Group
		files             []models.FileRecord
		groupErr, fileErr error
	)

	// errors are collected per fetch so one failure does not cancel the other
	var eg errgroup.Group
	eg.Go(func() error {
		groups, groupErr = g.client.ListGroups(ctx, user)
		return nil
	})
	eg.Go(func() error {
		files, fileErr = g.client.ListFiles(ctx, user, models.SectionAll)
		return nil
	})
	_ = eg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()

	var result *Error
	if groupErr != nil {
		g.log.Warn(ctx, "list groups failed", "error", groupErr)
		g.groups = nil
		result = failure("Failed to load groups: ", groupErr)
	} else {
		g.groups = groups
	}

	if fileErr != nil {
		g.log.Warn(ctx, "list files failed", "error", fileErr)
		if result == nil {
			result = failure("Failed to load files: ", fileErr)
		}
	} else {
		g.files = files
	}

	if result != nil {
		g.err = result.Message
		return result
	}
	g.err = ""
	return nil
}

// Select opens group id and replaces the transcript with its messages.
// A response overtaken by a later Select is dropped.
func (g *Groups) Select(ctx context.Context, id int64) error {
	g.mu.Lock()
	if g.indexOf(id) < 0 {
		g.mu.Unlock()
		return g.fail(message("Group " + strconv.FormatInt(id, 10) + " is not in your list"))
	}
	if g.selected != id {
		g.messages = nil
	}
	g.selected = id
	g.msgGen++
	gen := g.msgGen
	g.mu.Unlock()

	msgs, err := g.client.ListMessages(ctx, id)

	g.mu.Lock()
	defer g.mu.Unlock()

	if gen != g.msgGen {
		g.log.Debug(ctx, "dropping superseded messages", "group_id", id, "generation", gen)
		return nil
	}
	if err != nil {
		e := failure("Failed to load messages: ", err)
		g.err = e.Message
		return e
	}
	g.messages = msgs
	return nil
}

// Refresh reloads the transcript of the selected group.
func (g *Groups) Refresh(ctx context.Context) error {
	g.mu.Lock()
	id := g.selected
	g.mu.Unlock()

	if id == 0 {
		return g.Mount(ctx)
	}
	return g.Select(ctx, id)
}

// Create makes a new group with the current user as creator.
func (g *Groups) Create(ctx context.Context, name, password string) (*models.Group, error) {
	if strings.TrimSpace(name) == "" || password == "" {
		return nil, g.fail(message("Group name and password are required"))
	}
	user, e := g.username()
	if e != nil {
		return nil, e
	}

	grp, err := g.client.CreateGroup(ctx, name, password, user)
	if err != nil {
		return nil, g.fail(failure("Failed to create group: ", err))
	}

	g.mu.Lock()
	g.groups = append(g.groups, grp)
	g.err = ""
	g.mu.Unlock()

	g.log.Info(ctx, "group created", "group_id", grp.ID, "name", grp.Name)
	return &grp, nil
}

// Join adds the current user to group idText. The group is appended to
// the list unless it is already there.
func (g *Groups) Join(ctx context.Context, idText, password string) (*models.Group, error) {
	idText = strings.TrimSpace(idText)
	if idText == "" || password == "" {
		return nil, g.fail(message("Group ID and password are required"))
	}
	id, err := strconv.ParseInt(idText, 10, 64)
	if err != nil || id <= 0 {
		return nil, g.fail(message("Group ID must be a valid positive number"))
	}
	user, e := g.username()
	if e != nil {
		return nil, e
	}

	grp, err := g.client.JoinGroup(ctx, id, password, user)
	if err != nil {
		g.log.Warn(ctx, "join group failed", "group_id", id, "error", err)
		return nil, g.fail(&Error{Message: "Failed to join group: " + joinMessage(err), Err: err})
	}

	g.mu.Lock()
	if g.indexOf(grp.ID) < 0 {
		g.groups = append(g.groups, grp)
	}
	g.err = ""
	g.mu.Unlock()

	return &grp, nil
}

// joinMessage explains a failed join. A structured code wins; otherwise
// the status and message text decide.
func joinMessage(err error) string {
	se, ok := client.AsServerError(err)
	if !ok {
		if errors.Is(err, client.ErrNoResponse) {
			return msgNoResponse
		}
		return client.Describe(err)
	}

	switch se.Code {
	case CodeGroupNotFound:
		return msgGroupNotFound
	case CodeIncorrectPassword:
		return msgIncorrectPassword
	case CodeInvalidGroupID:
		return msgInvalidGroupID
	}

	switch se.StatusCode {
	case http.StatusBadRequest:
		switch {
		case strings.Contains(se.Message, "Invalid group ID"):
			return msgInvalidGroupID
		case se.Message == "":
			// an empty 400 reads as "Invalid group ID or password"
			return msgInvalidGroupID
		case strings.Contains(se.Message, "password"):
			return msgIncorrectPassword
		}
		return se.Message
	case http.StatusNotFound:
		return msgGroupNotFound
	case http.StatusForbidden:
		return msgIncorrectPassword
	}
	return client.Describe(err)
}

// Leave removes the current user from group id and returns the server's
// confirmation. Leaving the open group closes it.
func (g *Groups) Leave(ctx context.Context, id int64) (string, error) {
	user, e := g.username()
	if e != nil {
		return "", e
	}

	msg, err := g.client.LeaveGroup(ctx, id, user)
	if err != nil {
		return "", g.fail(failure("Failed to leave group: ", err))
	}

	g.mu.Lock()
	g.groups = slices.DeleteFunc(g.groups, func(gr models.Group) bool { return gr.ID == id })
	if g.selected == id {
		g.selected = 0
		g.messages = nil
		g.msgGen++
	}
	g.err = ""
	g.mu.Unlock()

	return msg, nil
}

func (g *Groups) selectedID() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.selected
}

// Send posts a text message to the open group.
func (g *Groups) Send(ctx context.Context, text string) (*models.Message, error) {
	id := g.selectedID()
	if id == 0 {
		return nil, g.fail(message("Failed to send message: no group selected"))
	}
	if strings.TrimSpace(text) == "" {
		return nil, g.fail(message("Failed to send message: message is empty"))
	}
	return g.post(ctx, id, text, models.MessageText, "Failed to send message: ")
}

// Share posts file fileID to the open group.
func (g *Groups) Share(ctx context.Context, fileID int64) (*models.Message, error) {
	id := g.selectedID()
	if id == 0 {
		return nil, g.fail(message("Failed to share file: no group selected"))
	}
	return g.post(ctx, id, strconv.FormatInt(fileID, 10), models.MessageFile, "Failed to share file: ")
}

func (g *Groups) post(ctx context.Context, groupID int64, content string, typ models.MessageType, prefix string) (*models.Message, error) {
	user, e := g.username()
	if e != nil {
		return nil, e
	}

	m, err := g.client.SendMessage(ctx, groupID, user, content, typ)
	if err != nil {
		return nil, g.fail(failure(prefix, err))
	}

	g.mu.Lock()
	if g.selected == groupID {
		g.messages = append(g.messages, m)
	}
	g.err = ""
	g.mu.Unlock()

	return &m, nil
}

// FileName resolves the content of a file message against the fetched
// file list.
func (g *Groups) FileName(content string) string {
	id, err := strconv.ParseInt(strings.TrimSpace(content), 10, 64)
	if err != nil {
		return msgFileNotFound
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if f, ok := models.FindFile(g.files, id); ok {
		return f.DisplayName()
	}
	return msgFileNotFound
}

// Download saves shared file fileID into the download directory.
func (g *Groups) Download(ctx context.Context, fileID int64, onProgress netx.ProgressFunc) (string, error) {
	name := g.FileName(strconv.FormatInt(fileID, 10))
	if name == msgFileNotFound {
		name = ""
	}

	path, err := downloadTo(ctx, g.client, g.downloadDir, fileID, name, onProgress)
	if err != nil {
		return "", g.fail(failure("Failed to download file: ", err))
	}
	g.clearErr()
	return path, nil
}
