package viz

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/san-kum/enginesim/internal/forcing"
	"github.com/san-kum/enginesim/internal/physics"
	"github.com/san-kum/enginesim/internal/sim"
)

// WriteParams prints the run header, loop parameters, derived coefficients
// and forcing profile as plain text.
func WriteParams(w io.Writer, integrator string, p physics.Params, profile forcing.Profile, cfg sim.Config) error {
	c := p.Coefficients()

	var b strings.Builder
	fmt.Fprintf(&b, "method:   %s\n", integrator)
	fmt.Fprintf(&b, "interval: [%.6g, %.6g]\n", cfg.TStart, cfg.TEnd)
	fmt.Fprintf(&b, "step:     h = %.6g (%d steps)\n", cfg.Step, cfg.Steps())
	b.WriteString("\n")
	fmt.Fprintf(&b, "T  = %.6g (time constant)\n", p.T)
	fmt.Fprintf(&b, "r  = %.6g (feedback coefficient)\n", p.R)
	fmt.Fprintf(&b, "k1 = %.6g (transfer coefficient 1)\n", p.K1)
	fmt.Fprintf(&b, "k2 = %.6g (transfer coefficient 2)\n", p.K2)
	fmt.Fprintf(&b, "k3 = %.6g (transfer coefficient 3)\n", p.K3)
	b.WriteString("\n")
	fmt.Fprintf(&b, "C1 = %.6g (T·k1·k2·k3)\n", c.C1)
	fmt.Fprintf(&b, "C2 = %.6g (1 + r·T·k2)\n", c.C2)
	fmt.Fprintf(&b, "C3 = %.6g (T)\n", c.C3)
	b.WriteString("\n")
	fmt.Fprintf(&b, "forcing: %s\n", profile.Name())

	params := profile.Params()
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "  %-10s= %.6g\n", k, params[k])
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderParams is WriteParams inside a titled panel.
func RenderParams(integrator string, p physics.Params, profile forcing.Profile, cfg sim.Config) string {
	var b strings.Builder
	_ = WriteParams(&b, integrator, p, profile, cfg)
	body := TitleStyle.Render("Engine control loop") + "\n\n" + strings.TrimRight(b.String(), "\n")
	return PanelStyle.Render(body)
}

// WriteMetrics prints metrics sorted by name.
func WriteMetrics(w io.Writer, metrics map[string]float64) error {
	keys := make([]string, 0, len(metrics))
	for k := range metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if _, err := fmt.Fprintf(w, "%-16s %.6g\n", k, metrics[k]); err != nil {
			return err
		}
	}
	return nil
}
