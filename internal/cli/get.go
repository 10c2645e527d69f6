package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	api "github.com/forecast-ops/job-tracker/api/v1alpha1"
	"github.com/forecast-ops/job-tracker/internal/client"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thoas/go-funk"
	"sigs.k8s.io/yaml"
)

const (
	jsonFormat = "json"
	yamlFormat = "yaml"
)

var (
	legalOutputTypes = []string{jsonFormat, yamlFormat}
)

type GetOptions struct {
	GlobalOptions

	Output   string
	Type     string
	Status   string
	Pipeline string
	Sort     string
	Desc     bool
	NoColor  bool
}

func DefaultGetOptions() *GetOptions {
	return &GetOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdGet() *cobra.Command {
	o := DefaultGetOptions()
	cmd := &cobra.Command{
		Use:   "get (TYPE | TYPE/ID)",
		Short: "Display one or many resources.",
		Example: "get jobs --status failed --sort updated --desc\n" +
			"get job/job_1a2b3c4d5e -o yaml\n" +
			"get pipelines",
		Args: cobra.ExactArgs(1),
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

func (o *GetOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVarP(&o.Output, "output", "o", o.Output, fmt.Sprintf("Output format. One of: (%s).", strings.Join(legalOutputTypes, ", ")))
	fs.StringVar(&o.Type, "type", o.Type, "Only show jobs of this type")
	fs.StringVar(&o.Status, "status", o.Status, "Only show resources in this status")
	fs.StringVar(&o.Pipeline, "pipeline", o.Pipeline, "Only show jobs of this pipeline")
	fs.StringVar(&o.Sort, "sort", o.Sort, fmt.Sprintf("Sort key. One of: (%s).", strings.Join(legalSortKeys, ", ")))
	fs.BoolVar(&o.Desc, "desc", o.Desc, "Sort in descending order")
	fs.BoolVar(&o.NoColor, "no-color", o.NoColor, "Do not color statuses")
}

func (o *GetOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}

	kind, _, err := parseAndValidateKindId(args[0])
	if err != nil {
		return err
	}

	if len(o.Output) > 0 && !funk.Contains(legalOutputTypes, o.Output) {
		return fmt.Errorf("output format must be one of %s", strings.Join(legalOutputTypes, ", "))
	}

	if len(o.Sort) > 0 && !funk.Contains(legalSortKeys, o.Sort) {
		return fmt.Errorf("sort key must be one of %s", strings.Join(legalSortKeys, ", "))
	}

	if kind == PipelineKind && (o.Type != "" || o.Pipeline != "") {
		return fmt.Errorf("--type and --pipeline only apply to jobs")
	}

	return nil
}

func (o *GetOptions) Run(ctx context.Context, args []string) error {
	c, err := o.Client()
	if err != nil {
		return errors.Wrap(err, "creating client")
	}

	kind, id, err := parseAndValidateKindId(args[0])
	if err != nil {
		return err
	}

	switch {
	case kind == JobKind && id != "":
		job, err := c.GetJob(ctx, id)
		if err != nil {
			return err
		}
		return o.print(job, func(w io.Writer) { o.printJobsTable(w, true, *job) })
	case kind == JobKind:
		jobs, err := o.listJobs(ctx, c)
		if err != nil {
			return err
		}
		return o.print(jobs, func(w io.Writer) { o.printJobsTable(w, false, jobs...) })
	case kind == PipelineKind && id != "":
		pipeline, err := c.GetPipeline(ctx, id)
		if err != nil {
			return err
		}
		return o.print(pipeline, func(w io.Writer) { o.printPipelinesTable(w, true, *pipeline) })
	default:
		pipelines, err := c.ListPipelines(ctx, "")
		if err != nil {
			return err
		}
		list := FilterPipelines(pipelines, o.Status)
		if err := SortPipelines(list, o.Sort, o.Desc); err != nil {
			return err
		}
		return o.print(list, func(w io.Writer) { o.printPipelinesTable(w, false, list...) })
	}
}

// listJobs fetches every job and filters and sorts them locally.
func (o *GetOptions) listJobs(ctx context.Context, c *client.Client) ([]api.Job, error) {
	jobs, err := c.ListJobs(ctx, client.JobListParams{})
	if err != nil {
		return nil, err
	}

	list := JobFilter{Type: o.Type, Status: o.Status, PipelineID: o.Pipeline}.Apply(jobs)
	if err := SortJobs(list, o.Sort, o.Desc); err != nil {
		return nil, err
	}
	return list, nil
}

func (o *GetOptions) print(resource any, table func(w io.Writer)) error {
	switch o.Output {
	case jsonFormat:
		marshalled, err := json.MarshalIndent(resource, "", "  ")
		if err != nil {
			return errors.Wrap(err, "marshalling resource")
		}
		fmt.Fprintf(o.out, "%s\n", string(marshalled))
	case yamlFormat:
		marshalled, err := yaml.Marshal(resource)
		if err != nil {
			return errors.Wrap(err, "marshalling resource")
		}
		fmt.Fprintf(o.out, "%s", string(marshalled))
	default:
		w := tabwriter.NewWriter(o.out, 0, 8, 2, ' ', 0)
		table(w)
		return w.Flush()
	}
	return nil
}

func (o *GetOptions) printJobsTable(w io.Writer, withTriggers bool, jobs ...api.Job) {
	header := "ID\tPIPELINE\tTYPE\tSTATUS\tCREATED\tUPDATED\tERROR"
	if withTriggers {
		header += "\tTRIGGERS"
	}
	fmt.Fprintln(w, header)

	for _, j := range jobs {
		errMsg := "-"
		if j.ErrorMessage != nil && *j.ErrorMessage != "" {
			errMsg = *j.ErrorMessage
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s",
			j.Id, j.PipelineId, j.Type, colorize(string(j.Status), !o.NoColor),
			humanTime(j.CreatedAt), humanTime(j.UpdatedAt), errMsg)
		if withTriggers {
			fmt.Fprintf(w, "\t%s", triggerIDs(j))
		}
		fmt.Fprintln(w)
	}
}

func (o *GetOptions) printPipelinesTable(w io.Writer, withCounts bool, pipelines ...api.Pipeline) {
	header := "ID\tNAME\tSTATUS\tCREATED\tUPDATED"
	if withCounts {
		for _, s := range api.JobStatuses() {
			header += "\t" + strings.ToUpper(string(s))
		}
	}
	fmt.Fprintln(w, header)

	for _, p := range pipelines {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s",
			p.Id, p.Name, colorize(string(p.Status), !o.NoColor), humanTime(p.CreatedAt), humanTime(p.UpdatedAt))
		if withCounts && p.JobCounts != nil {
			for _, s := range api.JobStatuses() {
				fmt.Fprintf(w, "\t%d", (*p.JobCounts)[string(s)])
			}
		}
		fmt.Fprintln(w)
	}
}

func triggerIDs(j api.Job) string {
	if j.Triggers == nil || len(*j.Triggers) == 0 {
		return "-"
	}
	ids := funk.Map(*j.Triggers, func(t api.Job) string { return t.Id }).([]string)
	return strings.Join(ids, ",")
}

func humanTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
