package plot

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Each SVG element is a templ.Component so the document can be composed and
// rendered straight to any writer.

func svgDocument(width, height float64, children ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f" font-family="sans-serif">`+"\n",
			width, height, width, height); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, `<rect width="%.0f" height="%.0f" fill="white"/>`+"\n", width, height); err != nil {
			return err
		}
		for _, c := range children {
			if err := c.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</svg>\n")
		return err
	})
}

func group(class string, children ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<g class="%s">`+"\n", templ.EscapeString(class)); err != nil {
			return err
		}
		for _, c := range children {
			if err := c.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</g>\n")
		return err
	})
}

type stroke struct {
	color   string
	width   float64
	opacity float64
	dash    string
}

func line(x1, y1, x2, y2 float64, s stroke) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		dash := ""
		if s.dash != "" {
			dash = fmt.Sprintf(` stroke-dasharray="%s"`, s.dash)
		}
		_, err := fmt.Fprintf(w,
			`<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.1f" stroke-opacity="%.2f"%s/>`+"\n",
			x1, y1, x2, y2, s.color, s.width, s.opacity, dash)
		return err
	})
}

func circle(cx, cy, r float64, fill string, opacity float64, title string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<circle cx="%.2f" cy="%.2f" r="%.1f" fill="%s" fill-opacity="%.2f" stroke="black" stroke-width="0.5"><title>%s</title></circle>`+"\n",
			cx, cy, r, fill, opacity, templ.EscapeString(title))
		return err
	})
}

type textStyle struct {
	anchor string
	size   float64
	color  string
}

func text(x, y float64, st textStyle, s string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<text x="%.2f" y="%.2f" text-anchor="%s" font-size="%.0f" fill="%s">%s</text>`+"\n",
			x, y, st.anchor, st.size, st.color, templ.EscapeString(s))
		return err
	})
}
