package simulador

// SolicitudBarrido es el cuerpo de POST /simulaciones. Los campos vacíos toman el valor de la
// configuración del simulador.
type SolicitudBarrido struct {
	ProbabilidadesIO []float64 `json:"probabilidades_io,omitempty"`
	Semilla          int64     `json:"semilla,omitempty"`
}

type Barrido struct {
	ID       int       `json:"id"`
	Corridas []Corrida `json:"corridas"`
}

// Corrida es el resultado de simular todos los procesos con una probabilidad de I/O.
type Corrida struct {
	ProbabilidadIO  float64   `json:"probabilidad_io"`
	PromedioEspera  float64   `json:"promedio_espera"`
	PromedioRetorno float64   `json:"promedio_retorno"`
	TiempoTotal     int       `json:"tiempo_total"`
	Deadlock        bool      `json:"deadlock"`
	Procesos        []Proceso `json:"procesos"`
}

type Proceso struct {
	ID            int `json:"id"`
	Rafaga        int `json:"rafaga"`
	TiempoEspera  int `json:"tiempo_espera"`
	TiempoRetorno int `json:"tiempo_retorno"`
	TiempoFin     int `json:"tiempo_fin"`
}
