package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/rcd/pkg/buildinfo"
	"github.com/matzehuels/rcd/pkg/config"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Persistent flags:
//
//	--config, -c   TOML experiment file (see package config)
//	--verbose, -v  debug logging
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "rcd learns causal skeletons by recursive variable elimination",
		Long: `rcd recovers the undirected skeleton of a causal graph from observational data.

Variables are eliminated one at a time, smallest Markov boundary first, with
either L-MARVEL (no structural assumptions) or RSL-W (clique number bound).
Results are cached per dataset and options.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			c.out = newPrinter(cmd.OutOrStdout())
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			if c.configPath != "" {
				c.Logger.Debug("loaded config", "path", c.configPath)
			}
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "TOML experiment file")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.learnCommand())
	root.AddCommand(c.benchCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())
	registerFlagCompletions(root)

	return root
}
