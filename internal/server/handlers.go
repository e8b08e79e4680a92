package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/debemdeboas/blog-wizard/internal/config"
	"github.com/debemdeboas/blog-wizard/internal/model"
	"github.com/debemdeboas/blog-wizard/internal/repository"
	"github.com/debemdeboas/blog-wizard/internal/repository/editor"
	"github.com/debemdeboas/blog-wizard/internal/routes"
	"github.com/debemdeboas/blog-wizard/internal/sse"
	"github.com/debemdeboas/blog-wizard/internal/util"
	"github.com/debemdeboas/blog-wizard/internal/wizard"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error  string                 `json:"error"`
	Fields map[model.Field]string `json:"fields,omitempty"`
}

type storageResponse struct {
	Durable bool   `json:"durable"`
	Backend string `json:"backend"`
	Posts   int    `json:"posts"`
}

type openSessionRequest struct {
	PostID model.PostID `json:"post_id"`
}

type fieldRequest struct {
	Value string `json:"value"`
	Touch bool   `json:"touch"`
}

type sessionResponse struct {
	ID         editor.SessionID       `json:"id"`
	PostID     model.PostID           `json:"post_id,omitempty"`
	Draft      model.Draft            `json:"draft"`
	Step       model.StepID           `json:"step"`
	Steps      []model.Step           `json:"steps"`
	Summary    []wizard.StepSummary   `json:"summary"`
	Errors     map[model.Field]string `json:"errors"`
	CanGoNext  bool                   `json:"can_go_next"`
	CanGoBack  bool                   `json:"can_go_back"`
	IsLastStep bool                   `json:"is_last_step"`

	// Set by navigation and field operations.
	Moved *bool  `json:"moved,omitempty"`
	Error string `json:"error,omitempty"`
}

type submitResponse struct {
	PostID  model.PostID    `json:"post_id"`
	Session sessionResponse `json:"session"`
}

func snapshot(id editor.SessionID, f *wizard.Form) sessionResponse {
	return sessionResponse{
		ID:         id,
		PostID:     f.PostID(),
		Draft:      f.Draft(),
		Step:       f.Current(),
		Steps:      f.Steps(),
		Summary:    f.Summary(),
		Errors:     f.Errors(),
		CanGoNext:  f.CanGoNext(),
		CanGoBack:  f.CanGoBack(),
		IsLastStep: f.IsLastStep(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(config.HCType, config.CTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		serverLogger.Error().Err(err).Msg("Error encoding response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeCacheable answers with an ETag of the encoded body, or 304 when the
// client already holds it.
func writeCacheable(w http.ResponseWriter, r *http.Request, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	etag := `"` + util.ContentHash(body) + `"`
	w.Header().Set(config.HETag, etag)
	if r.Header.Get(config.HIfNoneMatch) == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set(config.HCType, config.CTypeJSON)
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// serveListPosts lists posts newest first, optionally filtered by
// ?category=.
func (s *Server) serveListPosts(w http.ResponseWriter, r *http.Request) {
	posts := repository.SortNewestFirst(s.store.List())

	if raw := r.URL.Query().Get("category"); raw != "" {
		category, err := model.ParseCategory(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		posts = repository.FilterByCategory(posts, category)
	}

	writeCacheable(w, r, posts)
}

func (s *Server) serveGetPost(w http.ResponseWriter, r *http.Request) {
	post, ok := s.store.Get(model.PostID(r.PathValue(routes.ParamPostID)))
	if !ok {
		writeError(w, http.StatusNotFound, config.HTTPErrPostNotFound)
		return
	}
	writeCacheable(w, r, post)
}

func (s *Server) serveDeletePost(w http.ResponseWriter, r *http.Request) {
	if !s.store.Delete(model.PostID(r.PathValue(routes.ParamPostID))) {
		writeError(w, http.StatusNotFound, config.HTTPErrPostNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) serveStorage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, storageResponse{
		Durable: s.store.IsDurable(),
		Backend: s.store.BackendName(),
		Posts:   s.store.Len(),
	})
}

// serveEvents streams post changes. ?post= narrows the stream to one post.
func (s *Server) serveEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, config.HTTPErrStreaming)
		return
	}

	w.Header().Set(config.HCType, config.CTypeEventStream)
	w.Header().Set("Connection", "keep-alive")
	w.Header().Del("X-Content-Type-Options")

	client := &sse.Client{
		Msg:   make(chan string, 8),
		Topic: r.URL.Query().Get("post"),
	}
	s.clients.Add(client)
	defer s.clients.Delete(client)

	fmt.Fprintf(w, "event: connected\ndata: %s\n\n", s.siteName)
	flusher.Flush()

	serverLogger.Debug().Str("topic", client.Topic).Msg("Event stream opened")

	done := r.Context().Done()
	for {
		select {
		case msg := <-client.Msg:
			fmt.Fprintf(w, "event: post\ndata: %s\n\n", msg)
			flusher.Flush()
		case <-done:
			serverLogger.Debug().Str("topic", client.Topic).Msg("Event stream closed")
			return
		}
	}
}

func (s *Server) serveOpenSession(w http.ResponseWriter, r *http.Request) {
	var req openSessionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, config.HTTPErrBadRequest)
		return
	}

	form := wizard.New(s.store)
	if req.PostID != "" {
		post, ok := s.store.Get(req.PostID)
		if !ok {
			writeError(w, http.StatusNotFound, config.HTTPErrPostNotFound)
			return
		}
		form = wizard.NewEdit(s.store, post)
	}

	session, err := s.sessions.Open(form)
	if errors.Is(err, editor.ErrTooManySessions) {
		writeError(w, http.StatusServiceUnavailable, config.HTTPErrTooManySessions)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	serverLogger.Info().
		Str("session", string(session.ID)).
		Str("post_id", string(req.PostID)).
		Msg("Wizard session opened")

	var resp sessionResponse
	session.Do(func(f *wizard.Form) error {
		resp = snapshot(session.ID, f)
		return nil
	})
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) serveCloseSession(w http.ResponseWriter, r *http.Request) {
	if !s.sessions.Close(editor.SessionID(r.PathValue(routes.ParamSession))) {
		writeError(w, http.StatusNotFound, config.HTTPErrSessionNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type sessionHandler func(w http.ResponseWriter, r *http.Request, id editor.SessionID, f *wizard.Form)

// withSession resolves the {session} path value and runs h while holding
// the session lock.
func (s *Server) withSession(h sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := s.sessions.Get(editor.SessionID(r.PathValue(routes.ParamSession)))
		if err != nil {
			writeError(w, http.StatusNotFound, config.HTTPErrSessionNotFound)
			return
		}

		session.Do(func(f *wizard.Form) error {
			h(w, r, session.ID, f)
			return nil
		})
	}
}

func (s *Server) serveGetSession(w http.ResponseWriter, r *http.Request, id editor.SessionID, f *wizard.Form) {
	writeJSON(w, http.StatusOK, snapshot(id, f))
}

func (s *Server) serveUpdateField(w http.ResponseWriter, r *http.Request, id editor.SessionID, f *wizard.Form) {
	field, ok := model.ParseField(r.PathValue(routes.ParamField))
	if !ok {
		writeError(w, http.StatusNotFound, config.HTTPErrUnknownField)
		return
	}

	var req fieldRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, config.HTTPErrBadRequest)
		return
	}

	var msg string
	if req.Touch {
		msg = f.TouchField(field, req.Value)
	} else {
		f.UpdateField(field, req.Value)
		msg = f.Error(field)
	}

	resp := snapshot(id, f)
	resp.Error = msg
	writeJSON(w, http.StatusOK, resp)
}

func writeMoved(w http.ResponseWriter, id editor.SessionID, f *wizard.Form, moved bool) {
	resp := snapshot(id, f)
	resp.Moved = &moved
	writeJSON(w, http.StatusOK, resp)
}

// Navigation refused by a step gate is not an error: the response reports
// moved=false with the unchanged step.
func (s *Server) serveNext(w http.ResponseWriter, r *http.Request, id editor.SessionID, f *wizard.Form) {
	writeMoved(w, id, f, f.Next())
}

func (s *Server) servePrevious(w http.ResponseWriter, r *http.Request, id editor.SessionID, f *wizard.Form) {
	writeMoved(w, id, f, f.Previous())
}

func (s *Server) serveGoTo(w http.ResponseWriter, r *http.Request, id editor.SessionID, f *wizard.Form) {
	n, err := strconv.Atoi(r.PathValue(routes.ParamStep))
	if err != nil {
		writeError(w, http.StatusBadRequest, config.HTTPErrInvalidStep)
		return
	}
	writeMoved(w, id, f, f.GoTo(model.StepID(n)))
}

func (s *Server) serveReset(w http.ResponseWriter, r *http.Request, id editor.SessionID, f *wizard.Form) {
	f.Reset()
	writeJSON(w, http.StatusOK, snapshot(id, f))
}

func (s *Server) serveSubmit(w http.ResponseWriter, r *http.Request, id editor.SessionID, f *wizard.Form) {
	postID, err := f.Submit()

	var verr *wizard.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:  wizard.ErrValidationFailed.Error(),
			Fields: verr.Fields,
		})
		return
	case err != nil:
		serverLogger.Error().Err(err).Str("session", string(id)).Msg("Error submitting wizard")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, submitResponse{
		PostID:  postID,
		Session: snapshot(id, f),
	})
}
