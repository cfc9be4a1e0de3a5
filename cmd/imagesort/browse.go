package main

import (
	"io"

	"imagesort/internal/log"
	"imagesort/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// NewBrowseCmd creates the interactive browse command
func NewBrowseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse [directory]",
		Short: "Browse and sort images interactively",
		Long: `Open a folder in the terminal browser. Use the arrow keys to step through
images, / to search, r to rename, 1-9 to move to a configured target, u to
undo and ctrl+r to redo.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := folderArg(args, cfg)
			if err != nil {
				return err
			}

			// Log lines would tear the alternate screen apart
			if cfg.Log.File == "" {
				log.Configure(log.WithOutput(io.Discard))
			} else {
				log.Configure(log.WithOutput(io.Discard), log.WithFile(cfg.Log.File))
			}

			b := newBrowser(cfg, true)
			defer b.Close()

			if err := b.SwitchDirectory(cmd.Context(), dir); err != nil {
				return err
			}

			p := tea.NewProgram(tui.New(b, cfg.Browse.MoveTargets), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}

	return cmd
}
