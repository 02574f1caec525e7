package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"go-away-stress/client"
	"go-away-stress/config"
	appLogger "go-away-stress/logger"
	"go-away-stress/model"
)

const usage = `usage: surveyctl <command> [flags]

commands:
  submit   send one survey response to the collector
  stats    print the collector's statistics`

// listFlag collects a repeatable string flag in order
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, usage)
		return 2
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "failed to load configuration: %v\n", err)
		return 1
	}
	appLogger.Initialize(cfg.Log.Level)

	switch args[0] {
	case "submit":
		return runSubmit(cfg, args[1:], stdout, stderr)
	case "stats":
		return runStats(cfg, args[1:], stdout, stderr)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n%s\n", args[0], usage)
		return 2
	}
}

func runSubmit(cfg config.Config, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("submit", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var situations, actions, contents, trusted listFlag
	fs.Var(&situations, "situation", "stress situation (repeatable)")
	fs.Var(&actions, "action", "stress relief action (repeatable)")
	fs.Var(&contents, "content", "wanted content or service (repeatable)")
	fs.Var(&trusted, "trust", "trusted collector origin (repeatable, replaces the configured list)")
	situationEtc := fs.String("situation-etc", "", "free text for the other situation")
	actionEtc := fs.String("action-etc", "", "free text for the other action")
	contentEtc := fs.String("content-etc", "", "free text for the other content")
	bestTime := fs.String("best-time", "", "best time for stress relief")
	method := fs.String("method", "", "special stress relief method")
	level := fs.String("level", "", "stress level")
	detached := fs.Bool("detached", false, "submit in the background and only log the outcome")
	frameURL := fs.String("url", cfg.Transport.URL, "collector frame URL")
	appendURL := fs.String("append-url", cfg.Transport.AppendURL, "endpoint the bridge forwards records to")
	strategy := fs.String("strategy", cfg.Transport.Strategy, "handshake or form")
	timeout := fs.Duration("timeout", time.Duration(cfg.Transport.TimeoutSeconds)*time.Second, "confirmation timeout")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	rules := model.DefaultSelectionRules()
	if cfg.Survey.MaxSituation > 0 {
		rules.MaxSelections[model.FieldStressSituation] = cfg.Survey.MaxSituation
	}
	if cfg.Collector.OtherTag != "" {
		rules.OtherTag = cfg.Collector.OtherTag
	}

	form := url.Values{}
	for field, values := range map[string]listFlag{
		model.FieldStressSituation: situations,
		model.FieldStressAction:    actions,
		model.FieldContentService:  contents,
	} {
		for _, v := range values {
			if !model.Toggle(form, field, v, true, rules) {
				fmt.Fprintf(stderr, "ignoring %s %q: at most %d selections\n", field, v, rules.Cap(field))
			}
		}
	}
	setIf(form, model.FieldStressSituationEtc, *situationEtc)
	setIf(form, model.FieldStressActionEtc, *actionEtc)
	setIf(form, model.FieldContentServiceEtc, *contentEtc)
	setIf(form, model.FieldBestTime, *bestTime)
	setIf(form, model.FieldSpecialMethod, *method)
	setIf(form, model.FieldStressLevel, *level)

	rec := model.BuildRecord(form, rules)
	if err := rec.Validate(); err != nil {
		fmt.Fprintf(stderr, "invalid response: %v\n", err)
		return 1
	}

	tcfg := client.TransportConfigFrom(cfg.Transport)
	tcfg.URL = *frameURL
	tcfg.Strategy = client.Strategy(*strategy)
	tcfg.Timeout = *timeout
	if len(trusted) > 0 {
		tcfg.TrustedOrigins = trusted
	}

	tr, err := client.NewTransport(tcfg, client.NewHTTPFrameOpener(&http.Client{}, *appendURL))
	if err != nil {
		fmt.Fprintf(stderr, "transport: %v\n", err)
		return 1
	}

	if *detached {
		tr.SubmitDetached(rec)
		fmt.Fprintln(stdout, "Submitting in the background...")
		tr.Wait()
		return 0
	}

	result, err := tr.Submit(context.Background(), rec)
	switch {
	case err == nil:
		fmt.Fprintln(stdout, "Response recorded. Thank you!")
		return 0
	case client.IsDeliveryUnknown(err):
		fmt.Fprintf(stderr, "%v\nThe response may still have been recorded; check the statistics before retrying.\n", err)
		return 1
	case errors.Is(err, client.ErrRejected):
		fmt.Fprintf(stderr, "collector rejected the response: %s\n", result.Message)
		return 1
	default:
		fmt.Fprintf(stderr, "submission failed: %v\n", err)
		return 1
	}
}

func setIf(form url.Values, field, value string) {
	if value != "" {
		form.Set(field, value)
	}
}

func runStats(cfg config.Config, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	fs.SetOutput(stderr)
	statsURL := fs.String("url", cfg.Transport.StatsURL, "collector statistics endpoint")
	timeout := fs.Duration("timeout", 10*time.Second, "request timeout")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	stats, err := client.NewStatsClient(*statsURL, &http.Client{}).GetStats(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}

	printStats(stdout, stats)
	return 0
}

func printStats(w io.Writer, stats *model.AggregateStats) {
	if stats.Total == 0 {
		fmt.Fprintln(w, "No responses yet.")
		return
	}

	fmt.Fprintf(w, "Total responses: %d\n", stats.Total)
	printSeries(w, "Stress situations", model.BarSeries(stats.Q1, stats.Total))
	printSeries(w, "Stress relief actions", model.BarSeries(stats.Q2, stats.Total))
	printSeries(w, "Best time", model.PieSeries(stats.Q3))
	printSeries(w, "Wanted content", model.PieSeries(stats.Q4))
	if len(stats.Q6) > 0 {
		printSeries(w, "Stress level", model.PieSeries(stats.Q6))
	}

	fmt.Fprintln(w, "\nSpecial methods:")
	if len(stats.Q5) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, m := range stats.Q5 {
		fmt.Fprintf(w, "  - %s\n", m)
	}
}

func printSeries(w io.Writer, title string, points []model.SeriesPoint) {
	fmt.Fprintf(w, "\n%s:\n", title)
	if len(points) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for _, p := range points {
		bar := strings.Repeat("#", int(p.Percent/5))
		fmt.Fprintf(w, "  %-28s %4d %5.1f%% %s\n", p.Label, p.Count, p.Percent, bar)
	}
}
