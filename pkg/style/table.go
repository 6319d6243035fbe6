package style

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func NewDefaultTableStyle() *table.Style {
	style := table.Style{
		Name:    "StyleRounded",
		Box:     table.StyleBoxRounded,
		Format:  table.FormatOptionsDefault,
		HTML:    table.DefaultHTMLOptions,
		Options: table.OptionsDefault,
		Title:   table.TitleOptionsDefault,
		Color:   table.ColorOptionsYellowWhiteOnBlack,
	}
	style.Color.Row = text.Colors{text.FgHiYellow, text.BgHiBlack}
	style.Color.RowAlternate = text.Colors{text.FgYellow, text.BgBlack}
	return &style
}

// NewTableWriter returns a table writer with the default style that renders
// to w.
func NewTableWriter(w io.Writer, title string, header ...interface{}) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(*NewDefaultTableStyle())
	if len(title) > 0 {
		t.SetTitle(title)
	}
	if len(header) > 0 {
		t.AppendHeader(table.Row(header))
	}
	return t
}
