package main

import (
	"fmt"
	"path/filepath"

	"imagesort/internal/browser"
	"imagesort/internal/config"
	"imagesort/internal/fsport"
	"imagesort/internal/log"
	"imagesort/internal/watch"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
	cfg     *config.Config
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfgFile, debug, cfg = "", false, nil

	rootCmd := &cobra.Command{
		Use:   "imagesort",
		Short: "Browse a folder of images and sort them with undo",
		Long: `imagesort shows the images of one folder, keeps the list current while
other programs change the folder, and moves or renames images with full
undo and redo.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var configErr error
			if cfgFile != "" {
				cfg, configErr = config.LoadConfigFile(cfgFile)
			} else {
				cfg, configErr = config.LoadConfig()
			}

			if configErr != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), warningText(fmt.Sprintf("Warning: %v", configErr)))
				fmt.Fprintln(cmd.ErrOrStderr(), infoText("Using default settings."))
				cfg = config.New()
			}

			configureLogging(cmd, cfg)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/imagesort/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(NewBrowseCmd())
	rootCmd.AddCommand(NewListCmd())
	rootCmd.AddCommand(NewWatchCmd())

	return rootCmd
}

func configureLogging(cmd *cobra.Command, cfg *config.Config) {
	opts := []log.Option{log.WithOutput(cmd.ErrOrStderr())}
	if cfg.Log.JSON {
		opts = append(opts, log.WithJSON())
	}
	if cfg.Log.File != "" {
		opts = append(opts, log.WithFile(cfg.Log.File))
	}
	log.Configure(opts...)
	log.SetDebug(debug || cfg.Log.Debug)
}

// newBrowser builds a browser over the local filesystem. Watching follows
// the configuration unless follow is false.
func newBrowser(cfg *config.Config, follow bool) *browser.Browser {
	var source watch.Source
	if follow && cfg.Watch.Enabled {
		source = watch.NewFSNotify(cfg.Watch.Buffer)
	}
	return browser.New(fsport.NewOS(), source,
		browser.WithHistoryLimit(cfg.History.Limit),
		browser.WithErrorBuffer(cfg.Watch.ErrorBuffer),
	)
}

// folderArg picks the folder from args, falling back to the configured
// default.
func folderArg(args []string, cfg *config.Config) (string, error) {
	dir := cfg.Browse.DefaultFolder
	if len(args) > 0 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("error resolving directory %s: %w", dir, err)
	}
	return abs, nil
}
