package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/seamcarve/pkg/buildinfo"
	"github.com/matzehuels/seamcarve/pkg/observability"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:   appName,
		Short: "Content-aware image resizing by seam carving",
		Long: `seamcarve resizes images by removing or duplicating low-energy seams,
so that the salient parts of the picture keep their proportions.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			explicit := configPath != ""
			path := configPath
			if !explicit {
				p, err := defaultConfigPath()
				if err == nil {
					path = p
				}
			}
			if path != "" {
				cfg, unknown, err := loadConfig(path, explicit)
				if err != nil {
					return err
				}
				c.Config = cfg
				for _, key := range unknown {
					c.Logger.Warn("unknown config key", "key", key, "file", path)
				}
			}
			c.Config.path = path

			level := LogInfo
			if verbose || c.Config.Verbose {
				level = LogDebug
				observability.NewLogHooks(c.Logger).Install()
			}
			c.SetLogLevel(level)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/seamcarve/config.toml)")

	root.AddCommand(c.resizeCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}
