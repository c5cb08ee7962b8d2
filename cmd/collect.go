// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/repo-metrics/internal/config"
	"github.com/naka-gawa/repo-metrics/internal/domain"
	"github.com/naka-gawa/repo-metrics/internal/gateway"
	"github.com/naka-gawa/repo-metrics/internal/metrics"
	"github.com/naka-gawa/repo-metrics/internal/usecase"
)

var collectCmd = &cobra.Command{
	Use:   "collect [repository-url...]",
	Short: "Collects repository metrics and writes a JSON report",
	Long: `Collects activity metrics for the given repository URLs and writes the
result as a pretty-printed JSON array. When no URLs are given, they are
read from a newline-delimited input file instead.

A GitHub access token is required, taken from --token or from the
GITHUB_TOKEN environment variable (optionally seeded from a dotenv file
via --env-file). Per-repository failures are logged and skipped; the
report always contains whatever was collected.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Get the verbose flag from the root command to set up the logger.
		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		level := log.WarnLevel
		if verbose {
			level = log.DebugLevel
		}
		logger := log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05",
			Level:           level,
		})

		// Get other flags.
		envFile, _ := cmd.Flags().GetString("env-file")
		tokenFlag, _ := cmd.Flags().GetString("token")
		opts := config.Options{}
		opts.InputFile, _ = cmd.Flags().GetString("input")
		opts.Output, _ = cmd.Flags().GetString("output")
		opts.Sound, _ = cmd.Flags().GetBool("sound")
		opts.Concurrency, _ = cmd.Flags().GetInt("concurrency")
		opts.GitLabHosts, _ = cmd.Flags().GetStringSlice("gitlab-host")

		// Resolve the credential before anything else: a missing
		// credential source or key aborts the whole run up front.
		token := tokenFlag
		if token == "" {
			store, err := config.LoadStore(envFile)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			token, err = store.Get(config.TokenKey)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}

		urls := args
		if len(urls) == 0 {
			var err error
			urls, err = readURLFile(opts.InputFile)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: failed to read %s: %v\n", opts.InputFile, err)
				os.Exit(1)
			}
		}
		if len(urls) == 0 {
			fmt.Fprintln(os.Stderr, "Error: no repository URLs given.")
			os.Exit(1)
		}

		// Inject dependencies and run the main business logic.
		registry, err := gateway.NewRegistry(token, opts.GitLabHosts, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to create host registry: %v\n", err)
			os.Exit(1)
		}
		aggregator := usecase.NewAggregator(registry, logger, opts)
		aggregator.Status = printStatus

		report := aggregator.Run(cmd.Context(), urls)

		output := opts.Output
		if output == "" {
			output = usecase.DefaultOutputPath(urls)
		}
		if err := usecase.WriteReport(report, output, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if output != "-" {
			fmt.Printf("Output written to %s\n", output)
		}

		if summary, ok := usecase.SummarizeInactivity(report); ok {
			logger.Info("inactivity across repositories",
				"repos", summary.Samples,
				"mean_days", summary.Mean,
				"median_days", summary.Median)
		}

		if opts.Sound {
			fmt.Print("\a")
		}
	},
}

// printStatus writes one human-readable line per repository attempt.
func printStatus(rawURL string, record *domain.RepoMetrics, err error) {
	if err != nil {
		fmt.Printf("%s %s: %v\n", color.RedString("✗"), rawURL, err)
		return
	}
	fmt.Printf("%s %s  contributors=%s mttu=%s mttc=%s protected=%s inactive=%s\n",
		color.GreenString("✓"),
		record.Name,
		formatCount(record.Contributors),
		metrics.FormatDays(record.MeanTimeToUpdate),
		metrics.FormatDays(record.MeanTimeToCommit),
		formatFlag(record.BranchProtected),
		formatDayCount(record.InactiveDays),
	)
}

func formatCount(m domain.Metric[int]) string {
	if v, ok := m.Value(); ok {
		return strconv.Itoa(v)
	}
	return "n/a"
}

func formatFlag(m domain.Metric[bool]) string {
	if v, ok := m.Value(); ok {
		return strconv.FormatBool(v)
	}
	return "n/a"
}

func formatDayCount(m domain.Metric[int]) string {
	if v, ok := m.Value(); ok {
		return metrics.FormatDays(domain.Known(float64(v)))
	}
	return "n/a"
}

// readURLFile reads a newline-delimited list of repository URLs,
// skipping blank lines.
func readURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			urls = append(urls, line)
		}
	}
	return urls, scanner.Err()
}

func init() {
	rootCmd.AddCommand(collectCmd)
	collectCmd.Flags().StringP("token", "t", "", "Hosting-service access token (overrides the environment)")
	collectCmd.Flags().String("env-file", "", "Dotenv file to load credentials from")
	collectCmd.Flags().StringP("input", "i", "input.txt", "File with repository URLs, one per line, used when no URLs are given")
	collectCmd.Flags().StringP("output", "o", "", "Report path; '-' writes to stdout (default derives from the input)")
	collectCmd.Flags().Bool("sound", false, "Ring the terminal bell when the report is written")
	collectCmd.Flags().Int("concurrency", 1, "How many repositories to process at once")
	collectCmd.Flags().StringSlice("gitlab-host", config.DefaultGitLabHosts, "GitLab-compatible hosts")
}
