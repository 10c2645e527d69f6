package cli

import (
	"context"
	"encoding/json"
	"fmt"

	api "github.com/forecast-ops/job-tracker/api/v1alpha1"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func NewCmdCreate() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a resource",
	}
	cmd.AddCommand(NewCmdCreateJob())
	cmd.AddCommand(NewCmdCreatePipeline())
	return cmd
}

type CreateJobOptions struct {
	GlobalOptions

	Pipeline string
	Type     string
	Args     string
	Triggers []string
}

func DefaultCreateJobOptions() *CreateJobOptions {
	return &CreateJobOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdCreateJob() *cobra.Command {
	o := DefaultCreateJobOptions()
	cmd := &cobra.Command{
		Use:     "job",
		Short:   "Create a job",
		Example: `create job --pipeline pipeline_1a2b3c4d5e --type tideForecast --args '{"station": "9414290"}' --trigger job_0f1e2d3c4b`,
		Args:    cobra.NoArgs,
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

func (o *CreateJobOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVar(&o.Pipeline, "pipeline", o.Pipeline, "ID of the pipeline owning the job")
	fs.StringVar(&o.Type, "type", o.Type, "Job type")
	fs.StringVar(&o.Args, "args", o.Args, "Job arguments as a JSON object")
	fs.StringArrayVar(&o.Triggers, "trigger", o.Triggers, "ID of a job whose completion triggered this one (repeatable)")
}

func (o *CreateJobOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	if o.Pipeline == "" {
		return fmt.Errorf("--pipeline is required")
	}
	if !api.JobType(o.Type).Valid() {
		return fmt.Errorf("invalid job type %q", o.Type)
	}
	if o.Args == "" {
		return fmt.Errorf("--args is required")
	}
	if !json.Valid([]byte(o.Args)) {
		return fmt.Errorf("--args is not valid JSON")
	}
	return nil
}

func (o *CreateJobOptions) Run(ctx context.Context, args []string) error {
	c, err := o.Client()
	if err != nil {
		return errors.Wrap(err, "creating client")
	}

	body := api.JobCreate{
		PipelineId: o.Pipeline,
		Type:       api.JobType(o.Type),
		Args:       json.RawMessage(o.Args),
	}
	if len(o.Triggers) > 0 {
		body.TriggerIds = &o.Triggers
	}

	job, err := c.CreateJob(ctx, body)
	if err != nil {
		return err
	}

	fmt.Fprintln(o.out, job.Id)
	return nil
}

type CreatePipelineOptions struct {
	GlobalOptions

	Name        string
	Description string
	Status      string
	Metadata    string
}

func DefaultCreatePipelineOptions() *CreatePipelineOptions {
	return &CreatePipelineOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdCreatePipeline() *cobra.Command {
	o := DefaultCreatePipelineOptions()
	cmd := &cobra.Command{
		Use:     "pipeline",
		Short:   "Create a pipeline",
		Example: `create pipeline --name "Bay Area Forecast Pipeline" --metadata '{"region": "West Coast"}'`,
		Args:    cobra.NoArgs,
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

func (o *CreatePipelineOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVar(&o.Name, "name", o.Name, "Pipeline name")
	fs.StringVar(&o.Description, "description", o.Description, "Pipeline description")
	fs.StringVar(&o.Status, "status", o.Status, "Initial status (default active)")
	fs.StringVar(&o.Metadata, "metadata", o.Metadata, "Metadata as a JSON object")
}

func (o *CreatePipelineOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	if o.Name == "" {
		return fmt.Errorf("--name is required")
	}
	if o.Status != "" && !api.PipelineStatus(o.Status).Valid() {
		return fmt.Errorf("invalid pipeline status %q", o.Status)
	}
	return nil
}

func (o *CreatePipelineOptions) Run(ctx context.Context, args []string) error {
	c, err := o.Client()
	if err != nil {
		return errors.Wrap(err, "creating client")
	}

	body := api.PipelineCreate{Name: o.Name}
	if o.Description != "" {
		body.Description = &o.Description
	}
	if o.Status != "" {
		status := api.PipelineStatus(o.Status)
		body.Status = &status
	}
	if o.Metadata != "" {
		metadata := map[string]interface{}{}
		if err := json.Unmarshal([]byte(o.Metadata), &metadata); err != nil {
			return errors.Wrap(err, "--metadata must be a JSON object")
		}
		body.Metadata = &metadata
	}

	pipeline, err := c.CreatePipeline(ctx, body)
	if err != nil {
		return err
	}

	fmt.Fprintln(o.out, pipeline.Id)
	return nil
}
