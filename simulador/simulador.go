package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sisoputnfrba/tp-golang-rr/simulador/cmd/api"
	"github.com/sisoputnfrba/tp-golang-rr/simulador/internal/trabajadores"
	"github.com/sisoputnfrba/tp-golang-rr/utils/log"
)

const configPorDefecto = "configs/config.json"

// Uso:
//
//	simulador [config]             corre el barrido de probabilidades de I/O
//	simulador servidor [config]    expone el barrido por HTTP
//	simulador trabajador <id>      modo interno de los procesos trabajadores
func main() {
	args := os.Args[1:]

	if len(args) > 0 && args[0] == trabajadores.ArgumentoTrabajador {
		os.Exit(trabajador(args[1:]))
	}

	servidor := len(args) > 0 && args[0] == "servidor"
	if servidor {
		args = args[1:]
	}

	configFile := configPorDefecto
	if len(args) > 0 {
		configFile = args[0]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h := api.NewHandler(configFile)

	if servidor {
		if err := servir(ctx, h); err != nil {
			h.Log.Error("Error en el servidor", log.ErrAttr(err))
			stop()
			os.Exit(1)
		}
		return
	}

	h.Reportero.ImprimirBanner()
	if _, err := h.Reportero.EjecutarBarrido(ctx, h.Config.ProbabilidadesIO, h.Config.Semilla); err != nil {
		if errors.Is(err, trabajadores.ErrCreacion) {
			h.Log.Error("No se pudo crear un trabajador, se aborta la simulación", log.ErrAttr(err))
		} else {
			h.Log.Error("Error ejecutando el barrido", log.ErrAttr(err))
		}
		stop()
		os.Exit(1)
	}
}

func trabajador(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "uso: simulador trabajador <id>")
		return 2
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "id de trabajador inválido %q: %v\n", args[0], err)
		return 2
	}
	if err := trabajadores.EjecutarTrabajador(id, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func servir(ctx context.Context, h *api.Handler) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", h.Config.IpSimulador, h.Config.PuertoSimulador),
		Handler: h.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		h.Log.Info("Simulador escuchando", log.StringAttr("direccion", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	h.Log.Info("Apagando el simulador")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
