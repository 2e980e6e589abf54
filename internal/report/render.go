package report

import (
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Renderer prints markdown through glamour when writing to a terminal and
// as-is otherwise, so piped output stays greppable.
type Renderer struct {
	w       io.Writer
	md      *glamour.TermRenderer
	profile termenv.Profile
}

// NewRenderer inspects w once. plain forces unstyled output.
func NewRenderer(w io.Writer, plain bool) *Renderer {
	r := &Renderer{w: w, profile: termenv.Ascii}
	f, ok := w.(*os.File)
	if plain || !ok || !term.IsTerminal(int(f.Fd())) {
		return r
	}
	md, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)
	if err != nil {
		return r
	}
	r.md = md
	r.profile = termenv.NewOutput(f).Profile
	return r
}

// Pretty reports whether styling is applied.
func (r *Renderer) Pretty() bool { return r.md != nil }

// Markdown writes a markdown document.
func (r *Renderer) Markdown(doc string) error {
	out := doc
	if r.md != nil {
		rendered, err := r.md.Render(doc)
		if err != nil {
			return err
		}
		out = rendered
	}
	_, err := io.WriteString(r.w, out)
	return err
}

// Simulation writes the verdict of a sampled trigger, green on a hit and red
// on a whiff when the terminal supports color.
func (r *Renderer) Simulation(hit bool) error {
	text := SimulationText(hit)
	if r.md == nil {
		_, err := io.WriteString(r.w, text+"\n")
		return err
	}
	color := "#dc2626"
	if hit {
		color = "#16a34a"
	}
	s := termenv.String(text).Foreground(r.profile.Color(color)).Bold()
	_, err := io.WriteString(r.w, s.String()+"\n")
	return err
}
