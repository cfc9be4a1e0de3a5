package views

import (
	"fmt"
	"strings"

	"imagesort/internal/tui/common"
	"imagesort/internal/tui/components"
	"imagesort/internal/tui/styles"

	"github.com/dustin/go-humanize"
)

func RenderMainView(m common.ModelReader) string {
	var sb strings.Builder

	sb.WriteString(styles.Theme.Title.Render("imagesort") + "\n")
	sb.WriteString(styles.Theme.Help.Render("Directory: "+m.CurrentDir()) + "\n")
	if term := m.SearchTerm(); term != "" {
		sb.WriteString(styles.Theme.Help.Render("Filter: "+term) + "\n")
	}
	sb.WriteString("\n")

	fileList := components.NewFileList(15)
	fileList.SetImages(m.Images(), m.Cursor())
	sb.WriteString(fileList.View())

	switch m.Mode() {
	case common.Search:
		sb.WriteString("\n" + styles.Theme.Input.Render("Search: "+m.Input()) + "\n")
	case common.Rename:
		sb.WriteString("\n" + styles.Theme.Input.Render("Rename to: "+m.Input()) + "\n")
	}

	if line := renderHistoryLine(m.LastAction()); line != "" {
		sb.WriteString("\n" + line)
	}

	status := components.NewStatusBar()
	if err := m.Err(); err != nil {
		status.SetError(err)
	} else {
		status.SetText(m.Status())
	}
	if v := status.View(); v != "" {
		sb.WriteString("\n" + v)
	}

	if m.ShowHelp() {
		sb.WriteString("\n" + RenderHelp(m.Targets()))
	}
	sb.WriteString("\n" + m.KeyHelp())

	return styles.Theme.App.Render(sb.String())
}

func renderHistoryLine(entry *common.ActionEntry) string {
	if entry == nil {
		return ""
	}
	line := fmt.Sprintf("Last: %s (%s)", entry.Name, humanize.Time(entry.At))
	if entry.CanRedo {
		line += "  [redo available]"
	}
	return styles.Theme.Status.Render(line)
}

func RenderHelp(targets []common.Target) string {
	var sb strings.Builder
	sb.WriteString("Move targets:\n")
	if len(targets) == 0 {
		sb.WriteString("  (none configured, add browse.move_targets to the config file)\n")
	}
	for _, t := range targets {
		sb.WriteString(fmt.Sprintf("  [%s] %s\n", t.Key, t.Folder))
	}
	sb.WriteString("Esc clears the search filter.\n")
	return styles.Theme.Help.Render(sb.String())
}
