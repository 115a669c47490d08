package main

import (
	"context"
	"os"
	"strconv"

	"github.com/sisoputnfrba/tp-golang-rr/simulador/pkg/simulador"
	"github.com/sisoputnfrba/tp-golang-rr/utils/config"
	"github.com/sisoputnfrba/tp-golang-rr/utils/log"
)

const (
	configFilePath = "./configs/config.json"
)

type Config struct {
	IpSimulador      string    `json:"ip_simulador"`
	PuertoSimulador  int       `json:"puerto_simulador"`
	ProbabilidadesIO []float64 `json:"probabilidades_io"`
	Semilla          int64     `json:"semilla"`
	LogLevel         string    `json:"log_level"`
}

// Sin argumentos pide un barrido nuevo; con un id muestra uno ya corrido.
// "go run consola.go" o "go run consola.go 3"
func main() {
	c, ok := config.IniciarConfiguracion(configFilePath, &Config{}).(*Config)
	if !ok {
		panic("Error casting configuration")
	}

	logger := log.BuildLogger(c.LogLevel)
	cliente := simulador.NewSimulador(c.IpSimulador, c.PuertoSimulador, logger)
	ctx := context.Background()

	var (
		barrido *simulador.Barrido
		err     error
	)
	if len(os.Args) > 1 {
		id, errID := strconv.Atoi(os.Args[1])
		if errID != nil {
			logger.Error("ID de barrido inválido", log.StringAttr("id", os.Args[1]))
			os.Exit(2)
		}
		barrido, err = cliente.ObtenerBarrido(ctx, id)
	} else {
		barrido, err = cliente.EjecutarBarrido(ctx, c.ProbabilidadesIO, c.Semilla)
	}
	if err != nil {
		logger.Error("No se pudo obtener el barrido", log.ErrAttr(err))
		os.Exit(1)
	}

	logger.Info("Barrido recibido", log.IntAttr("id", barrido.ID))
	simulador.ImprimirResumen(os.Stdout, barrido.Corridas)
}
