package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
)

//go:embed templates/*.html static/*
var content embed.FS

// NicknameCookie is the cookie mirroring the nickname held in the
// browser's localStorage, so the server can render the chat page with the
// active nickname on first paint.
const NicknameCookie = "chatNickname"

// Handler serves the embedded browser UI: a landing page, the chat page,
// and the static script that drives the conversation state machine.
type Handler struct {
	home *template.Template
	chat *template.Template
}

// NewHandler parses the embedded templates.
func NewHandler() (*Handler, error) {
	home, err := template.ParseFS(content, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse index template: %w", err)
	}
	chat, err := template.ParseFS(content, "templates/chat.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse chat template: %w", err)
	}
	return &Handler{home: home, chat: chat}, nil
}

// HandleHome renders the landing page.
func (h *Handler) HandleHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.home.Execute(w, nil); err != nil {
		log.Printf("Error rendering landing page: %v", err)
	}
}

// chatPageData carries the initial render state of the chat page.
type chatPageData struct {
	Nickname string
}

// HandleChatPage renders the chat page. The nickname cookie decides
// whether the page opens on the nickname form or the conversation view;
// the page script takes over from there.
func (h *Handler) HandleChatPage(w http.ResponseWriter, r *http.Request) {
	data := chatPageData{}
	if c, err := r.Cookie(NicknameCookie); err == nil {
		data.Nickname = c.Value
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.chat.Execute(w, data); err != nil {
		log.Printf("Error rendering chat page: %v", err)
	}
}

// Static returns a handler serving the embedded static assets under
// /static/.
func (h *Handler) Static() http.Handler {
	sub, err := fs.Sub(content, "static")
	if err != nil {
		// The embed directive guarantees the directory exists.
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
