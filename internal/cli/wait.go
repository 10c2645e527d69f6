package cli

import (
	"context"
	"fmt"
	"time"

	api "github.com/forecast-ops/job-tracker/api/v1alpha1"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type WaitOptions struct {
	GlobalOptions

	Interval time.Duration
	Timeout  time.Duration
}

func DefaultWaitOptions() *WaitOptions {
	return &WaitOptions{
		GlobalOptions: DefaultGlobalOptions(),
		Interval:      2 * time.Second,
		Timeout:       10 * time.Minute,
	}
}

func NewCmdWait() *cobra.Command {
	o := DefaultWaitOptions()
	cmd := &cobra.Command{
		Use:   "wait job/ID",
		Short: "Wait until a job is completed or failed.",
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

func (o *WaitOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.DurationVar(&o.Interval, "interval", o.Interval, "Polling interval")
	fs.DurationVar(&o.Timeout, "timeout", o.Timeout, "Give up after this long")
}

func (o *WaitOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	if o.Interval <= 0 {
		return fmt.Errorf("--interval must be positive")
	}
	return validateJobArg(args[0])
}

func (o *WaitOptions) Run(ctx context.Context, args []string) error {
	c, err := o.Client()
	if err != nil {
		return errors.Wrap(err, "creating client")
	}

	ctx, cancel := context.WithTimeout(ctx, o.Timeout)
	defer cancel()

	_, id, _ := parseAndValidateKindId(args[0])

	spinner := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(o.err),
		progressbar.OptionSetDescription(fmt.Sprintf("waiting for job/%s", id)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	defer func() {
		_ = spinner.Finish()
	}()

	ticker := time.NewTicker(o.Interval)
	defer ticker.Stop()

	for {
		job, err := c.GetJob(ctx, id)
		if err != nil {
			return err
		}
		_ = spinner.Add(1)

		if job.Status.Terminal() {
			_ = spinner.Finish()
			fmt.Fprintf(o.out, "job/%s %s\n", job.Id, job.Status)
			if job.Status == api.JobStatusFailed {
				msg := "no error message"
				if job.ErrorMessage != nil {
					msg = *job.ErrorMessage
				}
				return fmt.Errorf("job/%s failed: %s", job.Id, msg)
			}
			return nil
		}

		select {
		case <-ctx.Done():
			return errors.Wrapf(ctx.Err(), "waiting for job/%s", id)
		case <-ticker.C:
		}
	}
}
