package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"imagesort/internal/view"

	"github.com/spf13/cobra"
)

// NewWatchCmd creates the watch command
func NewWatchCmd() *cobra.Command {
	var (
		search string
		names  bool
	)

	cmd := &cobra.Command{
		Use:   "watch [directory]",
		Short: "Print a folder's images every time they change",
		Long: `Watch a folder and print its images, filtered by --search, after every
change until interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := folderArg(args, cfg)
			if err != nil {
				return err
			}
			if !cfg.Watch.Enabled {
				return fmt.Errorf("watching is disabled in the configuration (watch.enabled)")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			b := newBrowser(cfg, true)
			defer b.Close()

			if err := b.SwitchDirectory(ctx, dir); err != nil {
				return err
			}
			if err := b.SetSearchTerm(search); err != nil {
				return err
			}

			changed := make(chan struct{}, 1)
			unsubscribe, err := b.Subscribe(func(c view.Change) {
				if c.Kind != view.ImagesChanged {
					return
				}
				select {
				case changed <- struct{}{}:
				default:
				}
			})
			if err != nil {
				return err
			}
			defer unsubscribe()

			out := cmd.OutOrStdout()
			fmt.Fprintln(cmd.ErrOrStderr(), infoText(fmt.Sprintf("Watching %s. Press Ctrl+C to stop.", dir)))
			printBlock := func() {
				images := b.Images()
				fmt.Fprintln(out, headerText(fmt.Sprintf("%d images", len(images))))
				printImages(cmd, images, names)
			}
			printBlock()

			errs := b.Errors()
			for {
				select {
				case <-changed:
					printBlock()
				case err, ok := <-errs:
					if !ok {
						errs = nil
						continue
					}
					fmt.Fprintln(cmd.ErrOrStderr(), warningText(fmt.Sprintf("Watch error: %v", err)))
				case <-ctx.Done():
					fmt.Fprintln(cmd.ErrOrStderr(), successText("Stopped watching"))
					return nil
				}
			}
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Only show images whose path contains this text")
	cmd.Flags().BoolVarP(&names, "names", "n", false, "Print file names instead of full paths")

	return cmd
}
