package simulador

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

// ImprimirResumen escribe la tabla de probabilidad de I/O contra espera promedio.
func ImprimirResumen(w io.Writer, corridas []Corrida) {
	_, _ = fmt.Fprintln(w, "==== Summary: effect of I/O probability on average waiting time ====")

	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"IO_prob", "avg_waiting_time", "avg_turnaround", "total_time"})
	for _, c := range corridas {
		espera := fmt.Sprintf("%.2f", c.PromedioEspera)
		if c.Deadlock {
			espera += " (deadlock)"
		}
		table.Append([]string{
			fmt.Sprintf("%.2f", c.ProbabilidadIO),
			espera,
			fmt.Sprintf("%.2f", c.PromedioRetorno),
			fmt.Sprint(c.TiempoTotal),
		})
	}
	table.Render()
	_, _ = fmt.Fprintln(w)
}
