package internal

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
)

const separadorTicks = "-----------------------------------------------------------------------------------------"

func (s *Simulacion) imprimirInicio() {
	rafagas := make([]string, len(s.PCBs))
	for i, p := range s.PCBs {
		rafagas[i] = fmt.Sprintf("P%d=%d", p.ID, p.RafagaTotal)
	}

	_, _ = fmt.Fprintf(s.salida, "\n=== Simulation start (IO probability = %.2f) ===\n", s.ProbIO)
	_, _ = fmt.Fprintf(s.salida, "Initial CPU bursts: %s\n\n", strings.Join(rafagas, " "))
	_, _ = fmt.Fprintln(s.salida, separadorTicks)
	_, _ = fmt.Fprintln(s.salida, " time |  PID  | prc | state | rem | wait | io_left | readyQ | ioQ | event")
	_, _ = fmt.Fprintln(s.salida, separadorTicks)
}

func (s *Simulacion) imprimirTick(reg RegistroTick) {
	_, _ = fmt.Fprintln(s.salida, FormatearTick(reg))
}

func (s *Simulacion) imprimirSeparador() {
	_, _ = fmt.Fprintln(s.salida, separadorTicks)
}

// FormatearTick arma la fila de ancho fijo de un tick.
func FormatearTick(reg RegistroTick) string {
	ready := FormatearIDs(reg.ColaReady)
	cola := FormatearIDs(reg.ColaIO)

	if reg.Ejecutando < 0 {
		return fmt.Sprintf(" %4d |  ---- | --  | %-5s | --- | ---- | ------- | %-6s | %-3s | %s",
			reg.Tiempo, "idle", ready, cola, reg.Evento)
	}
	return fmt.Sprintf(" %4d | %5d | P%-2d | %-5s | %3d | %4d | %7d | %-6s | %-3s | %s",
		reg.Tiempo, reg.PID, reg.Ejecutando, reg.Estado, reg.Restante, reg.Espera, reg.TiempoIO,
		ready, cola, reg.Evento)
}

// ImprimirResultado escribe la tabla de procesos de una corrida con los promedios al pie.
func ImprimirResultado(w io.Writer, res Resultado) {
	_, _ = fmt.Fprintf(w, "\n[Result] IO probability = %.2f\n", res.ProbIO)

	filas := make([][]string, 0, len(res.Procesos))
	for _, p := range res.Procesos {
		filas = append(filas, []string{
			"P" + strconv.Itoa(p.ID),
			strconv.Itoa(p.RafagaTotal),
			strconv.Itoa(p.TiempoEspera),
			strconv.Itoa(p.TiempoRetorno),
		})
	}

	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Process", "burst", "waiting_time", "turnaround_time"})
	table.AppendBulk(filas)
	table.SetFooter([]string{"", "average",
		fmt.Sprintf("%.2f", res.PromedioEspera),
		fmt.Sprintf("%.2f", res.PromedioRetorno),
	})
	table.Render()

	if res.Deadlock {
		_, _ = fmt.Fprintln(w, "Run ended early: deadlock detected")
	}
	_, _ = fmt.Fprintf(w, "Average waiting time = %.2f\n\n", res.PromedioEspera)
}
