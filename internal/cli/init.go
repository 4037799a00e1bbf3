package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phobologic/minidoc/internal/config"
	"github.com/phobologic/minidoc/internal/logging"
)

const configHeader = `# minidoc configuration.
# Paths are relative to the project root; include and exclude are regular
# expressions matched against slash-separated relative paths.`

// initFlags holds the flags for the init command.
type initFlags struct {
	dryRun bool
	force  bool
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a default configuration file",
		Long: `Write a .minidoc.yaml file holding every setting at its default value.
path defaults to ./.minidoc.yaml. An existing file is kept unless --force is
given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.FileName
			if len(args) > 0 {
				path = args[0]
			}
			return runInit(cmd, path, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "print the file without writing it")
	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing file")

	return cmd
}

func runInit(cmd *cobra.Command, path string, flags *initFlags) error {
	data, err := config.Default().ToYAML(configHeader)
	if err != nil {
		return err
	}

	if flags.dryRun {
		_, _ = cmd.OutOrStdout().Write(data)
		return nil
	}

	if _, err := os.Stat(path); err == nil && !flags.force {
		return fmt.Errorf("%s already exists; use --force to overwrite", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", path, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	logging.FromContext(cmd.Context()).Info("wrote configuration", logging.FieldPath, path)
	return nil
}
