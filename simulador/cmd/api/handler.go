package api

import (
	"log/slog"
	"os"
	"sync"

	"github.com/sisoputnfrba/tp-golang-rr/simulador/internal"
	"github.com/sisoputnfrba/tp-golang-rr/simulador/pkg/simulador"
	"github.com/sisoputnfrba/tp-golang-rr/utils/config"
	"github.com/sisoputnfrba/tp-golang-rr/utils/log"
	uniqueid "github.com/sisoputnfrba/tp-golang-rr/utils/unique-id"
)

type Handler struct {
	Log       *slog.Logger
	Config    *Config
	Reportero *internal.Reportero

	// Un solo barrido a la vez: dos barridos no pueden manejar trabajadores al mismo tiempo.
	muBarrido sync.Mutex

	mu       sync.RWMutex
	barridos map[int]*simulador.Barrido
	ids      *uniqueid.UniqueID
}

func NewHandler(configFile string) *Handler {
	c := config.IniciarConfiguracion(configFile, &Config{})
	if c == nil {
		panic("Error loading configuration")
	}

	// Cast the configuration to the specific type
	configStruct, ok := c.(*Config)
	if !ok {
		panic("Error casting configuration")
	}

	logger := log.BuildLogger(configStruct.LogLevel)

	supervisor, err := configStruct.NuevoSupervisor(logger)
	if err != nil {
		logger.Error("Error creando el supervisor de trabajadores", log.ErrAttr(err))
		panic(err)
	}

	reloj, err := configStruct.NuevoReloj()
	if err != nil {
		logger.Error("Error creando el reloj", log.ErrAttr(err))
		panic(err)
	}

	return &Handler{
		Config:    configStruct,
		Log:       logger,
		Reportero: internal.NewReportero(logger, configStruct.ConfigSimulacion(), supervisor, reloj, os.Stdout),
		barridos:  make(map[int]*simulador.Barrido),
		ids:       uniqueid.Init(),
	}
}
