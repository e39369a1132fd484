package handlers

import "net/http"

type ReadyHandler struct{}

func NewReadyHandler() *ReadyHandler {
	return &ReadyHandler{}
}

func (h *ReadyHandler) Handle(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(`Content-Type`, `text/plain; charset=utf-8`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
