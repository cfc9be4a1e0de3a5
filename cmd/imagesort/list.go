package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

// NewListCmd creates the one-shot list command
func NewListCmd() *cobra.Command {
	var (
		search string
		names  bool
	)

	cmd := &cobra.Command{
		Use:   "list [directory]",
		Short: "Print the images of a folder",
		Long:  `Print the images of a folder in browsing order, filtered by --search.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := folderArg(args, cfg)
			if err != nil {
				return err
			}

			b := newBrowser(cfg, false)
			defer b.Close()

			if err := b.SwitchDirectory(cmd.Context(), dir); err != nil {
				return err
			}
			if err := b.SetSearchTerm(search); err != nil {
				return err
			}

			printImages(cmd, b.Images(), names)
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Only list images whose path contains this text")
	cmd.Flags().BoolVarP(&names, "names", "n", false, "Print file names instead of full paths")

	return cmd
}

func printImages(cmd *cobra.Command, images []string, names bool) {
	out := cmd.OutOrStdout()
	for _, img := range images {
		if names {
			img = filepath.Base(img)
		}
		fmt.Fprintln(out, img)
	}
}
