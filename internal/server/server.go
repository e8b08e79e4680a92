// Package server exposes the post store and wizard sessions as a small JSON
// API.
package server

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/blog-wizard/internal/model"
	"github.com/debemdeboas/blog-wizard/internal/repository"
	"github.com/debemdeboas/blog-wizard/internal/repository/editor"
	"github.com/debemdeboas/blog-wizard/internal/routes"
	"github.com/debemdeboas/blog-wizard/internal/sse"
)

var serverLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	serverLogger = l
}

type Server struct {
	store    *repository.PostStore
	sessions *editor.Registry
	clients  *sse.SSEClients
	siteName string

	mux *http.ServeMux
}

func New(store *repository.PostStore, sessions *editor.Registry, siteName string) *Server {
	s := &Server{
		store:    store,
		sessions: sessions,
		clients:  sse.NewSSEClients(),
		siteName: siteName,
		mux:      http.NewServeMux(),
	}

	store.SetChangeNotifier(s.broadcastChange)
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc(routes.ListPosts, s.serveListPosts)
	s.mux.HandleFunc(routes.GetPost, s.serveGetPost)
	s.mux.HandleFunc(routes.DeletePost, s.serveDeletePost)
	s.mux.HandleFunc(routes.Storage, s.serveStorage)
	s.mux.HandleFunc(routes.Events, s.serveEvents)

	s.mux.HandleFunc(routes.OpenSession, s.serveOpenSession)
	s.mux.HandleFunc(routes.GetSession, s.withSession(s.serveGetSession))
	s.mux.HandleFunc(routes.CloseSession, s.serveCloseSession)
	s.mux.HandleFunc(routes.UpdateField, s.withSession(s.serveUpdateField))
	s.mux.HandleFunc(routes.NextStep, s.withSession(s.serveNext))
	s.mux.HandleFunc(routes.PreviousStep, s.withSession(s.servePrevious))
	s.mux.HandleFunc(routes.GoToStep, s.withSession(s.serveGoTo))
	s.mux.HandleFunc(routes.ResetSession, s.withSession(s.serveReset))
	s.mux.HandleFunc(routes.SubmitSession, s.withSession(s.serveSubmit))
}

// Handler returns the API wrapped in the standard middleware chain.
func (s *Server) Handler() http.Handler {
	return chain(s.mux, recoverPanic, requestID, logRequests, secureHeaders, noCache)
}

// broadcastChange runs under the store lock; Broadcast never blocks.
func (s *Server) broadcastChange(kind repository.ChangeKind, id model.PostID) {
	s.clients.Broadcast(string(id), string(kind)+":"+string(id))
}
