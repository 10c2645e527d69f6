package cli

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type RetryOptions struct {
	GlobalOptions
}

func DefaultRetryOptions() *RetryOptions {
	return &RetryOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdRetry() *cobra.Command {
	o := DefaultRetryOptions()
	cmd := &cobra.Command{
		Use:   "retry job/ID",
		Short: "Move a failed or pending job back to pending.",
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

func (o *RetryOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	return validateJobArg(args[0])
}

func (o *RetryOptions) Run(ctx context.Context, args []string) error {
	c, err := o.Client()
	if err != nil {
		return errors.Wrap(err, "creating client")
	}

	_, id, _ := parseAndValidateKindId(args[0])
	job, err := c.RetryJob(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(o.out, "job/%s %s\n", job.Id, job.Status)
	return nil
}
