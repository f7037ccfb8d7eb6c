package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"analytics-report-backend/config"
	"analytics-report-backend/internal/dto"
	"analytics-report-backend/internal/fields"
	"analytics-report-backend/internal/reporting"
	"analytics-report-backend/internal/service"
)

var rootCmd = &cobra.Command{
	Use:   "report",
	Short: "Run analytics reporting queries from the command line",
	Long: `Runs one report query against the reporting API, follows every page
and writes the resulting table to stdout.

Credentials and the endpoint are read from .env or the environment
(REPORTING_ACCESS_TOKEN, REPORTING_ENDPOINT).

Examples:
  # Users per day for the last week as CSV
  report query --view 123456 --start 7DaysAgo --end yesterday --metrics ga:users --dimensions ga:date

  # Show the request body without calling the API
  report body --view 123456 --start 2020-03-01 --end 2020-03-31 --metrics ga:sessions`,
	SilenceUsage: true,
}

var (
	viewID     string
	startDate  string
	endDate    string
	metricList []string
	dimList    []string
	filters    string
	pageSize   int
	parseDates bool
	format     string
	verbose    bool
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&viewID, "view", "", "View ID to query (required)")
	flags.StringVar(&startDate, "start", "", "Start date: today, yesterday, NDaysAgo or YYYY-MM-DD (required)")
	flags.StringVar(&endDate, "end", "", "End date: today, yesterday, NDaysAgo or YYYY-MM-DD (required)")
	flags.StringSliceVar(&metricList, "metrics", nil, "Comma-separated metric expressions (required)")
	flags.StringSliceVar(&dimList, "dimensions", nil, "Comma-separated dimension names")
	flags.StringVar(&filters, "filters", "", "Filters expression, e.g. ga:browser==Firefox")
	flags.IntVar(&pageSize, "page-size", 0, "Rows per page, 0 uses the configured default")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log each fetched page")
	for _, name := range []string{"view", "start", "end", "metrics"} {
		_ = rootCmd.MarkPersistentFlagRequired(name)
	}

	queryCmd := &cobra.Command{
		Use:   "query",
		Short: "Run the query and print the table",
		RunE:  runQuery,
	}
	queryCmd.Flags().BoolVar(&parseDates, "parse-dates", true, "Convert date-like dimensions to timestamps")
	queryCmd.Flags().StringVarP(&format, "format", "f", "csv", "Output format: csv|json")

	bodyCmd := &cobra.Command{
		Use:   "body",
		Short: "Print the batchGet request body without calling the API",
		RunE:  runBody,
	}

	rootCmd.AddCommand(queryCmd, bodyCmd)
}

func buildRequest() dto.ReportQueryRequest {
	req := dto.ReportQueryRequest{
		ViewID:    viewID,
		StartDate: startDate,
		EndDate:   endDate,
		Metrics:   fields.Strings(metricList...),
		Filters:   filters,
		PageSize:  pageSize,
	}
	if len(dimList) > 0 {
		req.Dimensions = fields.Strings(dimList...)
	}
	return req
}

func newQueryService() (service.ReportQueryService, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, err
	}
	return service.NewReportQueryService(reporting.NewHTTPClient(cfg), cfg), nil
}

func runQuery(cmd *cobra.Command, _ []string) error {
	if format != "csv" && format != "json" {
		return fmt.Errorf("unsupported format %q", format)
	}
	svc, err := newQueryService()
	if err != nil {
		return err
	}

	req := buildRequest()
	req.ParseDates = &parseDates

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	table, err := svc.Query(ctx, req)
	if err != nil {
		return err
	}

	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(table)
	}
	return table.WriteCSV(os.Stdout)
}

func runBody(_ *cobra.Command, _ []string) error {
	svc, err := newQueryService()
	if err != nil {
		return err
	}
	body, err := svc.BuildBody(buildRequest())
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(body)
}

func main() {
	// Table output goes to stdout, logs to stderr.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	rootCmd.PersistentPreRun = func(*cobra.Command, []string) {
		if verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
	}

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("Report command failed")
		os.Exit(1)
	}
}
