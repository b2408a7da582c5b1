package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"vinav/config"
	"vinav/input"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
)

var bannerRows = []struct {
	keys []config.Binding
	what string
}{
	{[]config.Binding{config.BindLeft, config.BindDown, config.BindUp, config.BindRight}, "move (hold to accelerate)"},
	{[]config.Binding{config.BindClick}, "left click"},
	{[]config.Binding{config.BindRightClick}, "right click"},
	{[]config.Binding{config.BindSelectToggle}, "start/end selection drag"},
	{[]config.Binding{config.BindGotoTop}, "jump to top edge"},
	{[]config.Binding{config.BindGotoBottom}, "jump to bottom edge"},
	{[]config.Binding{config.BindYank}, "copy"},
	{[]config.Binding{config.BindPaste}, "paste"},
	{[]config.Binding{config.BindToggleMode}, "switch navigation/typing"},
}

// renderBanner is printed once at startup when the status view is off.
func renderBanner(cfg *config.Config, width, height int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("vinav "+version) + "\n")
	fmt.Fprintf(&b, "display %dx%d, config %s\n\n", width, height, sourceName(cfg.Source))

	for _, row := range bannerRows {
		names := make([]string, len(row.keys))
		for i, k := range row.keys {
			names[i] = cfg.KeyName(k)
		}
		fmt.Fprintf(&b, "  %s  %s\n", keyStyle.Render(fmt.Sprintf("%-12s", strings.Join(names, " "))), row.what)
	}
	fmt.Fprintf(&b, "  %s  %s\n", keyStyle.Render(fmt.Sprintf("%-12s", "shift+move")), "scroll")
	fmt.Fprintf(&b, "  %s  %s\n", keyStyle.Render(fmt.Sprintf("%-12s", "space")), "hold for precision movement")
	b.WriteString("\n")

	if cfg.Unbounded() {
		b.WriteString(warnStyle.Render("max_move_step is not set: held keys accelerate without limit") + "\n")
	}
	fmt.Fprintf(&b, "Starts in navigation mode. Press %s to type normally, ctrl+c here to quit.\n",
		cfg.KeyName(config.BindToggleMode))
	fmt.Fprintf(&b, "Copy and paste are sent as %s+%s and %s+%s.\n",
		input.Accelerator(), input.KeyC, input.Accelerator(), input.KeyV)
	return b.String()
}

func sourceName(src string) string {
	if src == "" {
		return "built-in defaults"
	}
	return src
}
