package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"matchwatch/internal/alert"
	"matchwatch/internal/app"
	"matchwatch/internal/config"
	"matchwatch/internal/ledger"
)

func onceCmd(cfgPath *string) *cobra.Command {
	var send bool
	cmd := &cobra.Command{
		Use:   "once",
		Short: "Run a single fetch/evaluate pass and print the matching records",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			parts, err := app.BuildParts(cfg)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()
			return runOnce(ctx, parts, os.Stdout, send)
		},
	}
	cmd.Flags().BoolVar(&send, "send", false, "send an alert for every matching record")
	return cmd
}

func runOnce(ctx context.Context, p app.Parts, out io.Writer, send bool) error {
	res, err := p.Feed.Fetch(ctx)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Match ID", "Teams", "Date", "Kickoff", "Stadium", "Term", "Sent"})

	now := time.Now()
	seen := ledger.New()
	var payloads []alert.Payload
	matched := 0
	for _, rec := range res.Records {
		term, ok := p.Terms.FirstMatch(rec)
		if !ok {
			continue
		}
		matched++
		d := alert.Resolve(rec)
		id := rec.ID()
		if seen.Seen(id) {
			t.AppendRow(table.Row{d.ID, d.Team1 + " vs " + d.Team2, d.Date, d.Kickoff, d.Stadium, term, "duplicate"})
			continue
		}
		seen.Mark(id)
		pl := p.Format.Format(rec, now)
		payloads = append(payloads, pl)

		status := "-"
		if send {
			if err := p.Notifier.Send(ctx, pl); err != nil {
				status = "failed: " + err.Error()
			} else {
				status = "yes"
			}
		}
		t.AppendRow(table.Row{d.ID, d.Team1 + " vs " + d.Team2, d.Date, d.Kickoff, d.Stadium, term, status})
	}
	t.Render()
	fmt.Fprintf(out, "%d of %d records matched", matched, len(res.Records))
	if res.Skipped > 0 {
		fmt.Fprintf(out, " (%d malformed entries skipped)", res.Skipped)
	}
	fmt.Fprintln(out)

	for _, pl := range payloads {
		fmt.Fprintf(out, "\n%s\n", pl.Text)
	}
	return nil
}
