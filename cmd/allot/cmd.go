package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"conference-webapp/allotment"
	"conference-webapp/client"
	"conference-webapp/config"
)

type options struct {
	api        string
	conference string
	login      string
	password   string
	file       string
	strict     bool
	server     bool
	dryRun     bool
	timeout    time.Duration
}

func parseFlags(args []string) (options, error) {
	var opts options

	fs := flag.NewFlagSet("allot", flag.ContinueOnError)
	fs.StringVar(&opts.api, "api", "http://localhost", "Base URL of the conference API")
	fs.StringVar(&opts.conference, "conference", "", "Conference id")
	fs.StringVar(&opts.login, "login", "", "Organiser login")
	fs.StringVar(&opts.file, "file", "", "JSON file with a list of {participant_id, committee, portfolio}")
	fs.BoolVar(&opts.strict, "strict", false, "Also refuse seats already held by participants outside the file")
	fs.BoolVar(&opts.server, "server", false, "Send the whole batch in one request instead of one request per participant")
	fs.BoolVar(&opts.dryRun, "dry-run", false, "Check the proposals without writing anything")
	fs.DurationVar(&opts.timeout, "timeout", 10*time.Second, "Timeout of every API request")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.conference == "" || opts.login == "" || opts.file == "" {
		fs.Usage()
		return options{}, flag.ErrHelp
	}

	password, err := config.GetSecret("ALLOT_PASSWORD")
	if err != nil {
		return options{}, fmt.Errorf("password: %v", err)
	}
	opts.password = password
	return opts, nil
}

func loadProposals(path string) (*allotment.Batch, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var proposals []allotment.Proposal
	if err := json.Unmarshal(raw, &proposals); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	batch := allotment.NewBatch()
	for _, p := range proposals {
		if strings.TrimSpace(p.ParticipantId) == "" {
			return nil, fmt.Errorf("%s: proposal without participant_id", path)
		}
		batch.Set(strings.TrimSpace(p.ParticipantId), strings.TrimSpace(p.Committee), strings.TrimSpace(p.Portfolio))
	}
	return batch, nil
}

type command struct {
	opts   options
	client *client.Client
	batch  *allotment.Batch
}

func newCommand(opts options, clientOpts ...client.Option) (*command, error) {
	batch, err := loadProposals(opts.file)
	if err != nil {
		return nil, err
	}
	if opts.timeout > 0 {
		clientOpts = append([]client.Option{client.WithTimeout(opts.timeout)}, clientOpts...)
	}
	return &command{opts: opts, client: client.New(opts.api, clientOpts...), batch: batch}, nil
}

func (cmd *command) execute(ctx context.Context, out io.Writer) error {
	if err := cmd.client.Login(ctx, cmd.opts.login, cmd.opts.password); err != nil {
		return err
	}
	conf, err := cmd.client.Conference(ctx, cmd.opts.conference)
	if err != nil {
		return fmt.Errorf("conference %s: %v", cmd.opts.conference, err)
	}
	participants, err := cmd.client.Participants(ctx, cmd.opts.conference)
	if err != nil {
		return fmt.Errorf("participants of %s: %v", cmd.opts.conference, err)
	}

	if invalid := allotment.InvalidProposals(conf.CommitteeMatrix, cmd.batch); len(invalid) > 0 {
		return fmt.Errorf("portfolio does not belong to the chosen committee for %s", strings.Join(invalid, ", "))
	}

	ids := make([]string, 0, len(participants))
	persisted := []allotment.Proposal{}
	for _, p := range participants {
		ids = append(ids, p.Id.Hex())
		if p.IsAllotted() {
			persisted = append(persisted, allotment.Proposal{ParticipantId: p.Id.Hex(), Committee: p.Committee, Portfolio: p.Portfolio})
		}
	}

	var seed []allotment.Proposal
	if cmd.opts.strict {
		seed = persisted
	}
	if conflicts := allotment.DetectConflicts(cmd.batch, seed...); len(conflicts) > 0 {
		return &allotment.ConflictError{ParticipantIds: conflicts}
	}
	if cmd.opts.dryRun {
		fmt.Fprintf(out, "%d proposals for %s, no conflicts\n", cmd.batch.Len(), conf.Name)
		return nil
	}

	report, err := cmd.submit(ctx, ids, persisted)
	if err != nil {
		return err
	}

	printReport(out, report)
	return nil
}

// submit writes the batch. Once it starts it runs to the end even if ctx is
// canceled, so an interrupt cannot leave half the rows marked failed.
func (cmd *command) submit(ctx context.Context, ids []string, persisted []allotment.Proposal) (*allotment.Report, error) {
	ctx = context.WithoutCancel(ctx)
	if cmd.opts.server {
		return cmd.client.SubmitBatch(ctx, cmd.opts.conference, cmd.batch.Proposals(), cmd.opts.strict)
	}
	return allotment.NewSubmitter(cmd.client.Updater(cmd.opts.conference), nil).
		Submit(ctx, ids, cmd.batch, allotment.SubmitOptions{Persisted: persisted, Strict: cmd.opts.strict})
}

func printReport(out io.Writer, report *allotment.Report) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICIPANT\tCOMMITTEE\tPORTFOLIO\tSTATUS\tERROR")
	for _, row := range report.Rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", row.ParticipantId, row.Committee, row.Portfolio, row.Status, row.Error)
	}
	w.Flush()
	fmt.Fprintf(out, "Allotments submitted! %d submitted, %d failed, %d skipped\n", report.Submitted, report.Failed, report.Skipped)
}
