package signup

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const introMarkdown = `# Welcome to My App

Enter your name below. New names are added to the registry, returning ones are welcomed back.`

// noMarginStyle removes glamour's document margins so the header lines up with the table.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// renderHeader renders the intro for the given width, falling back to plain text.
func renderHeader(width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return plainHeader()
	}
	out, err := r.Render(introMarkdown)
	if err != nil {
		return plainHeader()
	}
	return strings.TrimRight(out, "\n")
}

func plainHeader() string {
	return labelStyle.Render("Welcome to My App")
}
