// FILE: layerconf/cmd/layerconf/main.go

// Command layerconf inspects layered configuration directories: it
// prints the merged result of a named configuration and lists the
// scripts resolvable in a directory.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"layerconf"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "layerconf",
		Short: "Inspect layered application configuration",
		Long: `layerconf loads a named configuration from a directory of layered files
(master, local, environment, overrides), deep-merges them, and prints
the result. Merge conflicts between layers are reported with the
offending file and key path.`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.AddCommand(newShowCommand(), newScriptsCommand())
	return rootCmd
}

func newShowCommand() *cobra.Command {
	var (
		rootDir string
		env     string
		strict  bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Print the merged configuration for a name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
				With().Timestamp().Logger()
			if !verbose {
				logger = logger.Level(zerolog.WarnLevel)
			}

			opts := layerconf.DefaultLoadOptions()
			opts.Environment = env
			opts.Logger = logger
			if strict {
				opts.Merge = layerconf.MergeExisting
			}

			cfg, err := layerconf.NewLoader(rootDir, opts).Load(args[0])
			if err != nil {
				return err
			}

			for _, src := range cfg.Sources() {
				logger.Debug().Str("path", src.Path).Str("layer", string(src.Layer)).Msg("merged")
			}

			out, err := json.MarshalIndent(cfg.Map(), "", "  ")
			if err != nil {
				return fmt.Errorf("failed to render merged configuration: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&rootDir, "root", "r", ".", "configuration root directory")
	cmd.Flags().StringVarP(&env, "env", "e", "", "environment tag selecting the <name>.<env> layer")
	cmd.Flags().BoolVar(&strict, "strict", false, "only merge keys present in the master file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log each source as it is applied")
	return cmd
}

func newScriptsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scripts <dir>",
		Short: "List the script files in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := layerconf.ListScripts(args[0])
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
