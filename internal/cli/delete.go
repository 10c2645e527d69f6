package cli

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type DeleteOptions struct {
	GlobalOptions
}

func DefaultDeleteOptions() *DeleteOptions {
	return &DeleteOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdDelete() *cobra.Command {
	o := DefaultDeleteOptions()
	cmd := &cobra.Command{
		Use:   "delete job/ID",
		Short: "Delete a job and its trigger links.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), args)
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *DeleteOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)
}

func (o *DeleteOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	return validateJobArg(args[0])
}

func (o *DeleteOptions) Run(ctx context.Context, args []string) error {
	c, err := o.Client()
	if err != nil {
		return errors.Wrap(err, "creating client")
	}

	_, id, _ := parseAndValidateKindId(args[0])
	if err := c.DeleteJob(ctx, id); err != nil {
		return err
	}

	fmt.Fprintf(o.out, "job/%s deleted\n", id)
	return nil
}

// validateJobArg accepts only job/ID.
func validateJobArg(arg string) error {
	kind, id, err := parseAndValidateKindId(arg)
	if err != nil {
		return err
	}
	if kind != JobKind || id == "" {
		return fmt.Errorf("expected job/ID, got %q", arg)
	}
	return nil
}
