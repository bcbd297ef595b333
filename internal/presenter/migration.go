package presenter

import (
	"fmt"
	"strings"

	"agencia/internal/migrator"
)

// RunReport prints one table per phase that produced outcomes.
func (c *Console) RunReport(r migrator.RunReport) {
	c.phase("ESQUEMA", r.Schema)
	c.phase("DATOS", r.Data)
	c.phase("SECUENCIAS", r.Sequences)
	fmt.Fprintf(c.w, "Estado: %s (%s)\n", r.State, r.Summary())
}

func (c *Console) phase(title string, outcomes []migrator.Outcome) {
	if len(outcomes) == 0 {
		return
	}
	fmt.Fprintf(c.w, "\n%s\n", title)
	fmt.Fprintf(c.w, "%-26s %-10s %8s %9s  %s\n", "TABLA", "ESTADO", "FILAS", "NUEVAS", "DETALLE")
	fmt.Fprintln(c.w, strings.Repeat("-", 72))
	for _, o := range outcomes {
		detail := o.Reason
		if o.NextID > 0 {
			detail = fmt.Sprintf("siguiente id %d", o.NextID)
		}
		fmt.Fprintf(c.w, "%-26s %-10s %8d %9d  %s\n", o.Table, o.Status, o.Rows, o.Inserted, detail)
	}
}
