// Package storage keeps the dev server's users, files, groups and messages
// in memory. Everything is lost on restart.
package storage

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/dmitrijs2005/mydrive/internal/client/models"
	"github.com/dmitrijs2005/mydrive/internal/cryptox"
	"github.com/dmitrijs2005/mydrive/internal/timex"
)

type user struct {
	id       int64
	username string
	email    string
	hash     []byte
}

type file struct {
	id        int64
	ownerID   int64
	name      string
	mime      string
	data      []byte
	favourite bool
}

type group struct {
	id      int64
	name    string
	hash    []byte
	members []string
}

// Blob is a stored file body.
type Blob struct {
	Name string
	Type string
	Data []byte
}

type Memory struct {
	clock timex.Clock

	mu       sync.RWMutex
	nextID   int64
	users    map[int64]*user
	files    map[int64]*file
	groups   map[int64]*group
	messages map[int64][]models.Message
}

func NewMemory(clock timex.Clock) *Memory {
	return &Memory{
		clock:    clock,
		users:    make(map[int64]*user),
		files:    make(map[int64]*file),
		groups:   make(map[int64]*group),
		messages: make(map[int64][]models.Message),
	}
}

// newID hands out ids from one sequence shared by every entity kind.
// Callers hold mu.
func (m *Memory) newID() int64 {
	m.nextID++
	return m.nextID
}

func (m *Memory) userByName(username string) *user {
	for _, u := range m.users {
		if u.username == username {
			return u
		}
	}
	return nil
}

func (m *Memory) userByEmail(email string) *user {
	for _, u := range m.users {
		if strings.EqualFold(u.email, email) {
			return u
		}
	}
	return nil
}

// AddUser registers a user and returns its id. Usernames are checked
// before emails.
func (m *Memory) AddUser(_ context.Context, username, email, password string) (int64, error) {
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.userByName(username) != nil {
		return 0, ErrUsernameTaken
	}
	if m.userByEmail(email) != nil {
		return 0, ErrEmailTaken
	}

	u := &user{id: m.newID(), username: username, email: email, hash: hash}
	m.users[u.id] = u
	return u.id, nil
}

// Authenticate looks the user up by username, or by email when username is
// empty.
func (m *Memory) Authenticate(_ context.Context, username, email, password string) (models.Identity, error) {
	m.mu.RLock()
	var u *user
	if username != "" {
		u = m.userByName(username)
	} else {
		u = m.userByEmail(email)
	}
	m.mu.RUnlock()

	if u == nil {
		return models.Identity{}, ErrInvalidCredentials
	}
	ok, err := cryptox.CheckPassword(u.hash, password)
	if err != nil {
		return models.Identity{}, err
	}
	if !ok {
		return models.Identity{}, ErrInvalidCredentials
	}
	return models.Identity{ID: u.id, Username: u.username}, nil
}

func (f *file) record() models.FileRecord {
	return models.FileRecord{ID: f.id, FileName: f.name, FileType: f.mime, IsFavourite: f.favourite}
}

// AddFile stores an upload for owner ownerID.
func (m *Memory) AddFile(_ context.Context, ownerID int64, name, mime string, data []byte) (models.FileRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[ownerID]; !ok {
		return models.FileRecord{}, ErrUserNotFound
	}
	f := &file{id: m.newID(), ownerID: ownerID, name: name, mime: mime, data: slices.Clone(data)}
	m.files[f.id] = f
	return f.record(), nil
}

func (m *Memory) ownedBy(username string, keep func(*file) bool) ([]models.FileRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u := m.userByName(username)
	if u == nil {
		return nil, ErrUserNotFound
	}

	out := []models.FileRecord{}
	for _, f := range m.files {
		if f.ownerID == u.id && keep(f) {
			out = append(out, f.record())
		}
	}
	sortFiles(out)
	return out, nil
}

// sortFiles orders by id, which is upload order.
func sortFiles(files []models.FileRecord) {
	slices.SortFunc(files, func(a, b models.FileRecord) int {
		return cmp.Or(cmp.Compare(a.ID, b.ID), strings.Compare(a.GroupName, b.GroupName))
	})
}

// Files lists everything username uploaded, oldest first.
func (m *Memory) Files(_ context.Context, username string) ([]models.FileRecord, error) {
	return m.ownedBy(username, func(*file) bool { return true })
}

func (m *Memory) Favourites(_ context.Context, username string) ([]models.FileRecord, error) {
	return m.ownedBy(username, func(f *file) bool { return f.favourite })
}

// SharedFiles lists files shared into any group username belongs to,
// labelled with the group name. A file shared into two groups appears
// twice.
func (m *Memory) SharedFiles(_ context.Context, username string) ([]models.FileRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.userByName(username) == nil {
		return nil, ErrUserNotFound
	}

	type key struct{ file, group int64 }
	seen := make(map[key]bool)
	out := []models.FileRecord{}

	for _, g := range m.groups {
		if !slices.Contains(g.members, username) {
			continue
		}
		for _, msg := range m.messages[g.id] {
			id, ok := msg.FileID()
			if !ok || seen[key{id, g.id}] {
				continue
			}
			f, ok := m.files[id]
			if !ok {
				continue
			}
			seen[key{id, g.id}] = true
			rec := f.record()
			rec.GroupName = g.name
			out = append(out, rec)
		}
	}
	sortFiles(out)
	return out, nil
}

func (m *Memory) File(_ context.Context, id int64) (Blob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.files[id]
	if !ok {
		return Blob{}, ErrFileNotFound
	}
	return Blob{Name: f.name, Type: f.mime, Data: f.data}, nil
}

func (m *Memory) DeleteFile(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.files[id]; !ok {
		return ErrFileNotFound
	}
	delete(m.files, id)
	return nil
}

func (m *Memory) SetFavourite(_ context.Context, id int64, value bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.files[id]
	if !ok {
		return ErrFileNotFound
	}
	f.favourite = value
	return nil
}

func (g *group) view() models.Group {
	return models.Group{ID: g.id, Name: g.name, Usernames: slices.Clone(g.members)}
}

// Groups lists the groups username belongs to, oldest first.
func (m *Memory) Groups(_ context.Context, username string) ([]models.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.userByName(username) == nil {
		return nil, ErrUserNotFound
	}

	out := []models.Group{}
	for _, g := range m.groups {
		if slices.Contains(g.members, username) {
			out = append(out, g.view())
		}
	}
	slices.SortFunc(out, func(a, b models.Group) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

// CreateGroup makes a group whose only member is creator.
func (m *Memory) CreateGroup(_ context.Context, name, password, creator string) (models.Group, error) {
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return models.Group{}, fmt.Errorf("hash password: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.userByName(creator) == nil {
		return models.Group{}, ErrUserNotFound
	}
	g := &group{id: m.newID(), name: name, hash: hash, members: []string{creator}}
	m.groups[g.id] = g
	return g.view(), nil
}

// JoinGroup adds username to group id. Joining a group one already
// belongs to succeeds without change.
func (m *Memory) JoinGroup(_ context.Context, id int64, password, username string) (models.Group, error) {
	m.mu.RLock()
	g, ok := m.groups[id]
	var hash []byte
	if ok {
		hash = g.hash
	}
	known := m.userByName(username) != nil
	m.mu.RUnlock()

	if !ok {
		return models.Group{}, ErrGroupNotFound
	}
	if !known {
		return models.Group{}, ErrUserNotFound
	}
	match, err := cryptox.CheckPassword(hash, password)
	if err != nil {
		return models.Group{}, err
	}
	if !match {
		return models.Group{}, ErrIncorrectPassword
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// the group may have been dropped while the password was checked
	g, ok = m.groups[id]
	if !ok {
		return models.Group{}, ErrGroupNotFound
	}
	if !slices.Contains(g.members, username) {
		g.members = append(g.members, username)
	}
	return g.view(), nil
}

// LeaveGroup removes username from group id. The group and its messages
// are deleted with the last member; deleted reports that case.
func (m *Memory) LeaveGroup(_ context.Context, id int64, username string) (deleted bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.groups[id]
	if !ok {
		return false, ErrGroupNotFound
	}
	i := slices.Index(g.members, username)
	if i < 0 {
		return false, ErrNotMember
	}

	g.members = slices.Delete(g.members, i, i+1)
	if len(g.members) == 0 {
		delete(m.groups, id)
		delete(m.messages, id)
		return true, nil
	}
	return false, nil
}

func (m *Memory) Messages(_ context.Context, groupID int64) ([]models.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.groups[groupID]; !ok {
		return nil, ErrGroupNotFound
	}
	return append([]models.Message{}, m.messages[groupID]...), nil
}

// AddMessage appends to a group transcript. The sender must be a member;
// a file message must reference an existing file.
func (m *Memory) AddMessage(_ context.Context, groupID int64, sender, content string, typ models.MessageType) (models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.groups[groupID]
	if !ok {
		return models.Message{}, ErrGroupNotFound
	}
	if !slices.Contains(g.members, sender) {
		return models.Message{}, ErrNotMember
	}
	if typ == models.MessageFile {
		id, err := strconv.ParseInt(content, 10, 64)
		if err != nil {
			return models.Message{}, ErrFileNotFound
		}
		if _, ok := m.files[id]; !ok {
			return models.Message{}, ErrFileNotFound
		}
	}

	msg := models.Message{
		ID:             m.newID(),
		GroupID:        groupID,
		SenderUsername: sender,
		Content:        content,
		Type:           typ,
		Timestamp:      m.clock.Now(),
	}
	m.messages[groupID] = append(m.messages[groupID], msg)
	return msg, nil
}
