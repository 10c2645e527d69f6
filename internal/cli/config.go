package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type ConfigOptions struct {
	GlobalOptions
}

func DefaultConfigOptions() *ConfigOptions {
	return &ConfigOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

// NewCmdConfig writes the resolved server url and token to the config file.
func NewCmdConfig() *cobra.Command {
	o := DefaultConfigOptions()
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Save the server url and token for later commands.",
		Example: "config --server-url http://tracker.example.com:8000 --token $(tracker-api token)",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Run(args)
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *ConfigOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)
}

func (o *ConfigOptions) Run(args []string) error {
	if err := o.config().Persist(o.ConfigFilePath); err != nil {
		return err
	}
	fmt.Fprintf(o.out, "configuration written to %s\n", o.ConfigFilePath)
	return nil
}
