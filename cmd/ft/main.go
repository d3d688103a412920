package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"ft-go/internal/app"
	"ft-go/internal/config"
	"ft-go/internal/ft"
	"ft-go/internal/report"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
)

var errNoFiles = errors.New("no files found to process")

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, ft.ErrCancelled) {
			fmt.Fprintln(os.Stderr, "\nOperation cancelled by user.")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// loadConfig reads the config file, falling back to defaults when it does not exist.
func loadConfig() (*config.Config, map[string]string, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadOrDefault(defaults["config_path"], config.NewConfig(defaults["base_dir"]))
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}
	return cfg, defaults, nil
}

// newApp reads the config and creates an FTApp. The caller must defer app.Close().
// opts.Operation identifies the CLI command being run (e.g. "FindDuplicates", "Organize").
func newApp(opts app.Options) (*app.FTApp, *config.Config, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	a, err := app.NewFTApp(cfg, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, cfg, nil
}

// interruptible returns a context cancelled on SIGINT or SIGTERM.
func interruptible(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

var rootCmd = &cobra.Command{
	Use:   "ft",
	Short: "Find duplicate files and move them out of the way",
	Long: `ft scans a source folder, groups files by SHA-256 content digest and moves
every copy but one into a destination folder, mirroring the source layout.
Files are never overwritten and never deleted.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDedupe,
}

func runDedupe(cmd *cobra.Command, args []string) error {
	source, _ := cmd.Flags().GetString("source-folder")
	dest, _ := cmd.Flags().GetString("dest-folder")
	csvLog, _ := cmd.Flags().GetString("csv-log")
	quiet, _ := cmd.Flags().GetBool("quiet")
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	if csvLog == "" {
		csvLog = cfg.Dedupe.CSVLog
	}

	out := cmd.OutOrStdout()
	a, err := app.NewFTApp(cfg, app.Options{
		Operation: "FindDuplicates",
		CSVLog:    csvLog,
		Verbose:   verbose,
		Quiet:     quiet,
		Out:       out,
	})
	if err != nil {
		return fmt.Errorf("initializing app: %w", err)
	}
	defer a.Close()

	ctx, stop := interruptible(cmd)
	defer stop()

	rc, _, err := a.FindDuplicates(ctx, source, dest, quiet)
	if rc.Stage == ft.StageFailed && !errors.Is(err, ft.ErrCancelled) {
		return err
	}

	printDedupeSummary(out, rc.Stats)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "Done")
	return nil
}

func printDedupeSummary(w io.Writer, s ft.RunStats) {
	fmt.Fprintln(w, "\nSummary:")
	fmt.Fprintf(w, "  Unique files found: %d\n", s.Unique)
	fmt.Fprintf(w, "  Duplicates found: %d\n", s.Duplicates)
	fmt.Fprintf(w, "  Duplicates moved: %d\n", s.Moved)
	fmt.Fprintf(w, "  Already organized: %d\n", s.AlreadyOrganized)
	fmt.Fprintf(w, "  Conflicts: %d\n", s.Conflicts)
	fmt.Fprintf(w, "  Skipped: %d\n", s.Skipped)
	fmt.Fprintf(w, "  Errors: %d\n", s.Errors)
}

// created command
var createdCmd = &cobra.Command{
	Use:   "created PATH...",
	Short: "Show file creation timestamps",
	Long: `Print the creation time of each file, falling back to the modification time
where the filesystem does not record one. Directories are expanded recursively
unless --no-recursive is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		formatName, _ := cmd.Flags().GetString("format")
		noRecursive, _ := cmd.Flags().GetBool("no-recursive")
		maxDepth, _ := cmd.Flags().GetInt("max-depth")
		include, _ := cmd.Flags().GetStringSlice("include")
		exclude, _ := cmd.Flags().GetStringSlice("exclude")
		countOnly, _ := cmd.Flags().GetBool("count")
		quiet, _ := cmd.Flags().GetBool("quiet")

		a, cfg, err := newApp(app.Options{Operation: "Created", Quiet: quiet, Out: cmd.OutOrStdout()})
		if err != nil {
			return err
		}
		defer a.Close()

		if !cmd.Flags().Changed("format") {
			formatName = cfg.Created.Format
		}
		format, err := report.ParseFormat(formatName)
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("exclude") {
			exclude = cfg.Created.Exclude
		}

		errOut := cmd.ErrOrStderr()
		files, warnings := a.CollectFiles(args, ft.CollectOptions{
			Recursive: !noRecursive,
			MaxDepth:  maxDepth,
			Include:   include,
			Exclude:   exclude,
		})
		if !quiet {
			for _, w := range warnings {
				fmt.Fprintf(errOut, "Warning: %v\n", w)
			}
		}

		if len(files) == 0 {
			return errNoFiles
		}
		if countOnly {
			fmt.Fprintf(cmd.OutOrStdout(), "Found %d files to process.\n", len(files))
			return nil
		}

		r := report.NewReporter(format, cmd.OutOrStdout(), errOut, quiet, report.StderrIsTerminal())
		_, err = r.Run(files, a.CreationInfo)
		return err
	},
}

// organize command
var organizeCmd = &cobra.Command{
	Use:   "organize SOURCE DEST",
	Short: "Move files into YYYY-MM folders by date",
	Long: `Move every file below SOURCE into DEST/YYYY-MM, using the creation date
(or the modification date with --date-source modified). Existing files are
never overwritten; name clashes get a numeric suffix.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		include, _ := cmd.Flags().GetStringSlice("include")
		exclude, _ := cmd.Flags().GetStringSlice("exclude")
		quiet, _ := cmd.Flags().GetBool("quiet")
		dateSource, _ := cmd.Flags().GetString("date-source")
		csvLog, _ := cmd.Flags().GetString("csv-log")
		verbose, _ := cmd.Flags().GetBool("verbose")

		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("date-source") {
			dateSource = cfg.Organize.DateSource
		}
		if dateSource != string(ft.DateCreated) && dateSource != string(ft.DateModified) {
			return fmt.Errorf("invalid date source %q (want created or modified)", dateSource)
		}
		if !cmd.Flags().Changed("exclude") {
			exclude = cfg.Organize.Exclude
		}
		if csvLog == "" && !dryRun {
			csvLog = cfg.Organize.CSVLog
		}

		out := cmd.OutOrStdout()
		a, err := app.NewFTApp(cfg, app.Options{
			Operation: "Organize",
			CSVLog:    csvLog,
			Verbose:   verbose,
			Quiet:     quiet,
			Out:       out,
		})
		if err != nil {
			return fmt.Errorf("initializing app: %w", err)
		}
		defer a.Close()

		ctx, stop := interruptible(cmd)
		defer stop()

		_, res, err := a.Organize(ctx, args[0], args[1], ft.OrganizeOptions{
			DryRun:     dryRun,
			DateSource: ft.DateSource(dateSource),
			Include:    include,
			Exclude:    exclude,
		}, quiet)
		if res != nil && !quiet {
			printOrganizeSummary(out, res, dryRun)
		}
		return err
	},
}

func printOrganizeSummary(w io.Writer, res *ft.OrganizeResult, dryRun bool) {
	fmt.Fprintln(w, "\nSummary:")
	fmt.Fprintf(w, "  Files processed: %d\n", res.Total)
	if dryRun {
		fmt.Fprintf(w, "  Files Would be moved: %d\n", res.Moved)
	} else {
		fmt.Fprintf(w, "  Files moved: %d\n", res.Moved)
	}
	fmt.Fprintf(w, "  Errors: %d\n", res.Errors)
	fmt.Fprintf(w, "  Date folders created: %d\n", len(res.Folders))
	if len(res.Folders) > 0 {
		fmt.Fprintf(w, "  Folders: %s\n", strings.Join(res.Folders, ", "))
	}
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, defaults, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Base Dir:      %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:       %s\n", cfg.LogDir)
		fmt.Printf("Log Level:     %s\n", cfg.LogLevel)
		fmt.Printf("Chunk Size:    %d\n", cfg.Hash.ChunkSize)
		fmt.Printf("Dedupe Log:    %s\n", cfg.Dedupe.CSVLog)
		fmt.Printf("Ignore:        %s\n", strings.Join(cfg.Filesystem.Ignore, ", "))
		fmt.Printf("Created Fmt:   %s\n", cfg.Created.Format)
		fmt.Printf("Date Source:   %s\n", cfg.Organize.DateSource)
		fmt.Printf("Organize Log:  %s\n", cfg.Organize.CSVLog)
		return nil
	},
}

func init() {
	// root (duplicate finder)
	rootCmd.Flags().String("source-folder", "", "Folder to scan for duplicates")
	rootCmd.Flags().String("dest-folder", "", "Folder that receives the duplicates")
	rootCmd.Flags().String("csv-log", "", "Append an audit row per file to this CSV file")
	rootCmd.Flags().Bool("quiet", false, "Suppress progress output")
	rootCmd.Flags().Bool("verbose", false, "Mirror the operational log to stderr")
	_ = rootCmd.MarkFlagRequired("source-folder")
	_ = rootCmd.MarkFlagRequired("dest-folder")

	// config
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)

	// created
	createdCmd.Flags().StringP("format", "f", "readable", "Output format: "+strings.Join(report.FormatNames, ", "))
	createdCmd.Flags().BoolP("recursive", "r", true, "Recurse into directories (default)")
	createdCmd.Flags().Bool("no-recursive", false, "Do not recurse into directories")
	createdCmd.Flags().Int("max-depth", -1, "Maximum recursion depth (-1 for unlimited)")
	createdCmd.Flags().StringSlice("include", nil, "Only include files matching these patterns")
	createdCmd.Flags().StringSlice("exclude", nil, "Exclude files matching these patterns")
	createdCmd.Flags().Bool("count", false, "Only print the number of files found")
	createdCmd.Flags().BoolP("quiet", "q", false, "Suppress progress and warnings")
	rootCmd.AddCommand(createdCmd)

	// organize
	organizeCmd.Flags().Bool("dry-run", false, "Show what would be moved without moving")
	organizeCmd.Flags().StringSlice("include", nil, "Only include files matching these patterns")
	organizeCmd.Flags().StringSlice("exclude", nil, "Exclude files matching these patterns")
	organizeCmd.Flags().BoolP("quiet", "q", false, "Suppress progress output")
	organizeCmd.Flags().String("date-source", string(ft.DateCreated), "Date used for the folder: created or modified")
	organizeCmd.Flags().String("csv-log", "", "Append an audit row per file to this CSV file")
	organizeCmd.Flags().Bool("verbose", false, "Mirror the operational log to stderr")
	rootCmd.AddCommand(organizeCmd)
}
