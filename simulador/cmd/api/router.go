package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.Handshake)
	r.Post("/simulaciones", h.CrearBarrido)
	r.Get("/simulaciones", h.ListarBarridos)
	r.Get("/simulaciones/{id}", h.ObtenerBarrido)

	return r
}

func (h *Handler) Handshake(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Simulador round robin listo"))
}
