package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sisoputnfrba/tp-golang-rr/simulador/internal"
	"github.com/sisoputnfrba/tp-golang-rr/simulador/pkg/simulador"
	"github.com/sisoputnfrba/tp-golang-rr/utils/log"
)

// CrearBarrido corre un barrido completo y lo guarda. La respuesta llega cuando terminan
// todas las corridas.
func (h *Handler) CrearBarrido(w http.ResponseWriter, r *http.Request) {
	var solicitud simulador.SolicitudBarrido
	if r.Body != nil {
		// Un cuerpo vacío es válido: se usan los valores de la configuración.
		if err := json.NewDecoder(r.Body).Decode(&solicitud); err != nil && !errors.Is(err, io.EOF) {
			h.Log.Error("Error decodificando la solicitud de barrido", log.ErrAttr(err))
			http.Error(w, "Error decodificando la solicitud de barrido", http.StatusBadRequest)
			return
		}
	}

	probabilidades := solicitud.ProbabilidadesIO
	if len(probabilidades) == 0 {
		probabilidades = h.Config.ProbabilidadesIO
	}
	for _, p := range probabilidades {
		if p < 0 || p > 1 {
			h.Log.Error("Probabilidad de I/O fuera de rango", log.Float64Attr("probabilidad_io", p))
			http.Error(w, "probabilidad de I/O fuera de rango", http.StatusBadRequest)
			return
		}
	}

	semilla := solicitud.Semilla
	if semilla == 0 {
		semilla = h.Config.Semilla
	}

	h.Log.Info("Iniciando barrido",
		log.AnyAttr("probabilidades_io", probabilidades),
		log.IntAttr("semilla", int(semilla)),
	)

	h.muBarrido.Lock()
	resultados, err := h.Reportero.EjecutarBarrido(r.Context(), probabilidades, semilla)
	h.muBarrido.Unlock()
	if err != nil {
		h.Log.Error("Error ejecutando el barrido", log.ErrAttr(err))
		http.Error(w, "Error ejecutando el barrido", http.StatusInternalServerError)
		return
	}

	barrido := &simulador.Barrido{
		ID:       h.ids.GetUniqueID(),
		Corridas: internal.Corridas(resultados),
	}

	h.mu.Lock()
	h.barridos[barrido.ID] = barrido
	h.mu.Unlock()

	h.Log.Info("Barrido terminado",
		log.IntAttr("id", barrido.ID),
		log.IntAttr("corridas", len(barrido.Corridas)),
	)

	h.responderJSON(w, barrido)
}

func (h *Handler) ListarBarridos(w http.ResponseWriter, _ *http.Request) {
	h.mu.RLock()
	barridos := make([]*simulador.Barrido, 0, len(h.barridos))
	for _, b := range h.barridos {
		barridos = append(barridos, b)
	}
	h.mu.RUnlock()

	sort.Slice(barridos, func(i, j int) bool { return barridos[i].ID < barridos[j].ID })

	h.Log.Debug("Listando barridos",
		log.IntAttr("cantidad", len(barridos)),
		log.IntAttr("ultimo_id", h.ids.Ultimo()),
	)

	h.responderJSON(w, barridos)
}

func (h *Handler) ObtenerBarrido(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.Log.Error("ID de barrido inválido", log.ErrAttr(err))
		http.Error(w, "ID de barrido inválido", http.StatusBadRequest)
		return
	}

	h.mu.RLock()
	barrido, ok := h.barridos[id]
	h.mu.RUnlock()
	if !ok {
		h.Log.Debug("Barrido no encontrado", log.IntAttr("id", id))
		http.Error(w, "barrido no encontrado", http.StatusNotFound)
		return
	}

	h.responderJSON(w, barrido)
}

func (h *Handler) responderJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Log.Error("Error codificando respuesta", log.ErrAttr(err))
	}
}
