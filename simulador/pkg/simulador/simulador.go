package simulador

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sisoputnfrba/tp-golang-rr/utils/log"
)

// Simulador es el cliente HTTP de un simulador en modo servidor.
type Simulador struct {
	IP     string
	Puerto int
	Log    *slog.Logger
}

func NewSimulador(ip string, puerto int, logger *slog.Logger) *Simulador {
	return &Simulador{
		IP:     ip,
		Puerto: puerto,
		Log:    logger,
	}
}

// EjecutarBarrido pide un barrido nuevo y espera a que termine. Con probabilidades vacías o
// semilla 0 el simulador usa los valores de su configuración.
func (s *Simulador) EjecutarBarrido(ctx context.Context, probabilidades []float64, semilla int64) (*Barrido, error) {
	url := fmt.Sprintf("http://%s:%d/simulaciones", s.IP, s.Puerto)

	body, err := json.Marshal(SolicitudBarrido{ProbabilidadesIO: probabilidades, Semilla: semilla})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return s.pedirBarrido(req)
}

func (s *Simulador) ObtenerBarrido(ctx context.Context, id int) (*Barrido, error) {
	url := fmt.Sprintf("http://%s:%d/simulaciones/%d", s.IP, s.Puerto, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	return s.pedirBarrido(req)
}

func (s *Simulador) pedirBarrido(req *http.Request) (*Barrido, error) {
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		s.Log.Error("Error al contactar al simulador",
			log.ErrAttr(err),
			log.StringAttr("ip", s.IP),
			log.IntAttr("puerto", s.Puerto),
		)
		return nil, err
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		detalle, _ := io.ReadAll(resp.Body)
		s.Log.Error("El simulador respondió con error",
			log.StringAttr("ip", s.IP),
			log.IntAttr("puerto", s.Puerto),
			log.IntAttr("status_code", resp.StatusCode),
		)
		return nil, fmt.Errorf("simulador respondió con status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(detalle)))
	}

	var barrido Barrido
	if err := json.NewDecoder(resp.Body).Decode(&barrido); err != nil {
		return nil, fmt.Errorf("respuesta inválida del simulador: %w", err)
	}

	s.Log.Debug("Barrido recibido",
		log.IntAttr("id", barrido.ID),
		log.IntAttr("corridas", len(barrido.Corridas)),
	)

	return &barrido, nil
}
