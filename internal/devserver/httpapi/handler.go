// Package httpapi serves the MyDrive HTTP API on top of dev server storage.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/mydrive/internal/client/models"
	"github.com/dmitrijs2005/mydrive/internal/devserver/storage"
	"github.com/dmitrijs2005/mydrive/internal/logging"
)

// MaxUploadSize caps a single multipart upload.
const MaxUploadSize = 64 << 20

// Storage is what the handlers need from the data layer.
type Storage interface {
	AddUser(ctx context.Context, username, email, password string) (int64, error)
	Authenticate(ctx context.Context, username, email, password string) (models.Identity, error)

	AddFile(ctx context.Context, ownerID int64, name, mime string, data []byte) (models.FileRecord, error)
	Files(ctx context.Context, username string) ([]models.FileRecord, error)
	Favourites(ctx context.Context, username string) ([]models.FileRecord, error)
	SharedFiles(ctx context.Context, username string) ([]models.FileRecord, error)
	File(ctx context.Context, id int64) (storage.Blob, error)
	DeleteFile(ctx context.Context, id int64) error
	SetFavourite(ctx context.Context, id int64, value bool) error

	Groups(ctx context.Context, username string) ([]models.Group, error)
	CreateGroup(ctx context.Context, name, password, creator string) (models.Group, error)
	JoinGroup(ctx context.Context, id int64, password, username string) (models.Group, error)
	LeaveGroup(ctx context.Context, id int64, username string) (bool, error)
	Messages(ctx context.Context, groupID int64) ([]models.Message, error)
	AddMessage(ctx context.Context, groupID int64, sender, content string, typ models.MessageType) (models.Message, error)
}

type Handler struct {
	store  Storage
	logger logging.Logger
}

func NewHandler(s Storage, l logging.Logger) *Handler {
	return &Handler{store: s, logger: l.With("module", "httpapi")}
}

// usernameParam returns the unescaped {username} path segment.
func usernameParam(r *http.Request) string {
	raw := chi.URLParam(r, "username")
	if u, err := url.PathUnescape(raw); err == nil {
		return u
	}
	return raw
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if statusOf(err) == http.StatusInternalServerError {
		h.logger.Error(r.Context(), op+" failed", "error", err)
	} else {
		h.logger.Debug(r.Context(), op+" rejected", "error", err)
	}
	writeError(w, err)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeValidate(r.Body, &req); err != nil {
		h.fail(w, r, "register", err)
		return
	}

	id, err := h.store.AddUser(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.fail(w, r, "register", err)
		return
	}

	h.logger.Info(r.Context(), "Registered", "username", req.Username, "id", id)
	writeText(w, http.StatusOK, fmt.Sprintf("User added successfully with ID: %d", id))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeValidate(r.Body, &req); err != nil {
		h.fail(w, r, "login", err)
		return
	}

	var username, email string
	if req.Username != nil {
		username = *req.Username
	}
	if req.Email != nil {
		email = *req.Email
	}

	id, err := h.store.Authenticate(r.Context(), username, email, req.Password)
	if err != nil {
		h.fail(w, r, "login", err)
		return
	}
	writeJSON(w, http.StatusOK, id)
}

func (h *Handler) listFiles(list func(context.Context, string) ([]models.FileRecord, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		files, err := list(r.Context(), usernameParam(r))
		if err != nil {
			h.fail(w, r, "list files", err)
			return
		}
		writeJSON(w, http.StatusOK, files)
	}
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := parseID(chi.URLParam(r, "ownerID"))
	if !ok {
		h.fail(w, r, "upload", badRequest("Invalid owner ID"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	f, hdr, err := r.FormFile("file")
	if err != nil {
		h.fail(w, r, "upload", badRequest("Missing file"))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		h.fail(w, r, "upload", badRequest("Error reading file"))
		return
	}

	name := filepath.Base(hdr.Filename)
	mt := hdr.Header.Get("Content-Type")
	if mt == "" || mt == "application/octet-stream" {
		if byExt := mime.TypeByExtension(filepath.Ext(name)); byExt != "" {
			mt = byExt
		} else {
			mt = http.DetectContentType(data)
		}
	}

	rec, err := h.store.AddFile(r.Context(), ownerID, name, mt, data)
	if err != nil {
		h.fail(w, r, "upload", err)
		return
	}

	h.logger.Info(r.Context(), "File uploaded", "id", rec.ID, "owner", ownerID, "size", len(data))
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		h.fail(w, r, "download", badRequest("Invalid file ID"))
		return
	}

	blob, err := h.store.File(r.Context(), id)
	if err != nil {
		h.fail(w, r, "download", err)
		return
	}

	ct := blob.Type
	if ct == "" {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Length", strconv.Itoa(len(blob.Data)))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": blob.Name}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(blob.Data)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		h.fail(w, r, "delete", badRequest("Invalid file ID"))
		return
	}
	if err := h.store.DeleteFile(r.Context(), id); err != nil {
		h.fail(w, r, "delete", err)
		return
	}
	writeText(w, http.StatusOK, "Deleted Successfully")
}

func (h *Handler) SetFavourite(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		h.fail(w, r, "favourite", badRequest("Invalid file ID"))
		return
	}
	value, err := strconv.ParseBool(chi.URLParam(r, "value"))
	if err != nil {
		h.fail(w, r, "favourite", badRequest("Invalid favourite value"))
		return
	}
	if err := h.store.SetFavourite(r.Context(), id, value); err != nil {
		h.fail(w, r, "favourite", err)
		return
	}
	writeText(w, http.StatusOK, "Favourite status updated")
}

func (h *Handler) Groups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.store.Groups(r.Context(), usernameParam(r))
	if err != nil {
		h.fail(w, r, "list groups", err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decodeValidate(r.Body, &req); err != nil {
		h.fail(w, r, "create group", err)
		return
	}

	g, err := h.store.CreateGroup(r.Context(), req.Name, req.Password, req.CreatorUsername)
	if err != nil {
		h.fail(w, r, "create group", err)
		return
	}

	h.logger.Info(r.Context(), "Group created", "id", g.ID, "creator", req.CreatorUsername)
	writeJSON(w, http.StatusOK, g)
}

// JoinGroup answers failures with a coded JSON body.
func (h *Handler) JoinGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeCodedError(w, http.StatusBadRequest, CodeInvalidGroupID, "Invalid group ID")
		return
	}

	var req joinGroupRequest
	if err := decodeValidate(r.Body, &req); err != nil {
		h.fail(w, r, "join group", err)
		return
	}

	g, err := h.store.JoinGroup(r.Context(), id, req.Password, req.Username)
	switch {
	case errors.Is(err, storage.ErrGroupNotFound):
		writeCodedError(w, http.StatusNotFound, CodeGroupNotFound, err.Error())
	case errors.Is(err, storage.ErrIncorrectPassword):
		writeCodedError(w, http.StatusForbidden, CodeIncorrectPassword, err.Error())
	case err != nil:
		h.fail(w, r, "join group", err)
	default:
		writeJSON(w, http.StatusOK, g)
	}
}

func (h *Handler) LeaveGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		h.fail(w, r, "leave group", badRequest("Invalid group ID"))
		return
	}

	var req usernameRequest
	if err := decodeValidate(r.Body, &req); err != nil {
		h.fail(w, r, "leave group", err)
		return
	}

	deleted, err := h.store.LeaveGroup(r.Context(), id, req.Username)
	if errors.Is(err, storage.ErrNotMember) || errors.Is(err, storage.ErrGroupNotFound) {
		h.fail(w, r, "leave group", badRequest(err.Error()))
		return
	}
	if err != nil {
		h.fail(w, r, "leave group", err)
		return
	}

	if deleted {
		writeText(w, http.StatusOK, "Group deleted as it has no members")
		return
	}
	writeText(w, http.StatusOK, "Successfully left the group")
}

func (h *Handler) Messages(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		h.fail(w, r, "list messages", badRequest("Invalid group ID"))
		return
	}

	msgs, err := h.store.Messages(r.Context(), id)
	if err != nil {
		h.fail(w, r, "list messages", err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		h.fail(w, r, "send message", badRequest("Invalid group ID"))
		return
	}

	var req messageRequest
	if err := decodeValidate(r.Body, &req); err != nil {
		h.fail(w, r, "send message", err)
		return
	}

	m, err := h.store.AddMessage(r.Context(), id, req.SenderUsername, req.Content, models.MessageType(req.Type))
	if err != nil {
		h.fail(w, r, "send message", err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}
