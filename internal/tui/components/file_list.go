package components

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"imagesort/internal/tui/styles"

	"github.com/dustin/go-humanize"
)

// FileList renders a window of the visible images around the cursor.
type FileList struct {
	images []string
	cursor int
	height int
}

func NewFileList(height int) *FileList {
	if height < 1 {
		height = 15
	}
	return &FileList{cursor: -1, height: height}
}

func (fl *FileList) SetImages(images []string, cursor int) {
	fl.images = images
	fl.cursor = cursor
}

// window returns the half-open range of rows to draw.
func (fl *FileList) window() (int, int) {
	if len(fl.images) <= fl.height {
		return 0, len(fl.images)
	}
	start := fl.cursor - fl.height/2
	if start < 0 {
		start = 0
	}
	end := start + fl.height
	if end > len(fl.images) {
		end = len(fl.images)
		start = end - fl.height
	}
	return start, end
}

func (fl *FileList) View() string {
	var s strings.Builder

	if len(fl.images) == 0 {
		s.WriteString(styles.Theme.Unselected.Render("No images found") + "\n")
		return s.String()
	}

	start, end := fl.window()
	for i := start; i < end; i++ {
		path := fl.images[i]
		style := styles.Theme.Unselected
		cursor := " "
		if i == fl.cursor {
			style = styles.Theme.Selected
			cursor = ">"
		}

		details := ""
		if info, err := os.Stat(path); err == nil {
			details = fmt.Sprintf(" %8s", humanize.Bytes(uint64(info.Size())))
		}

		s.WriteString(fmt.Sprintf("%s %s%s\n",
			cursor,
			style.Render(filepath.Base(path)),
			style.Render(details)))
	}

	s.WriteString(styles.Theme.Help.Render(fmt.Sprintf("%d/%d", fl.cursor+1, len(fl.images))) + "\n")
	return s.String()
}
