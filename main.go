package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const appName = "zurich-perspectives"

// Version is set at build time with -ldflags "-X main.Version=..."
var Version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// cli carries what the persistent flags resolve to before a command runs
type cli struct {
	configFile string
	logLevel   string
	config     *Config
}

func rootCmd() *cobra.Command {
	app := &cli{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Explore Zurich's tax system through three residents",
		Long: `Zurich Perspectives follows three residents of the canton of Zurich
through taxation, public spending, political influence and voter engagement.

Without a subcommand it opens the desktop window. Use "serve" to run the web
server for an external browser.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(app.config)
		},
	}

	cmd.PersistentFlags().StringVarP(&app.configFile, "config", "c", "config.yaml", "Configuration file (YAML)")
	cmd.PersistentFlags().StringVar(&app.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		app.serveCmd(),
		app.uiCmd(),
		app.taxCmd(),
		app.compareCmd(),
		app.interactiveCmd(),
		app.reportCmd(),
		app.validateCmd(),
		app.configCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
			},
		},
	)
	return cmd
}

// init loads the configuration and the logger
func (app *cli) init() error {
	config, err := LoadConfig(app.configFile)
	if err != nil {
		return err
	}
	if app.logLevel != "" {
		config.Logging.Level = app.logLevel
	}
	if _, err := InitLogger(config.Logging); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	app.config = config
	return nil
}

// loadStore reads the configured fixtures
func (app *cli) loadStore(ctx context.Context) (*Store, error) {
	store, err := LoadStore(ctx, DataSource(app.config.Data))
	if err != nil {
		return nil, fmt.Errorf("load data: %w", err)
	}
	return store, nil
}

func (app *cli) serveCmd() *cobra.Command {
	var (
		addr string
		open bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				app.config.Server.Addr = addr
			}
			if open {
				app.config.Server.OpenBrowser = true
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.serve(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")
	cmd.Flags().BoolVar(&open, "open", false, "Open the system browser")
	return cmd
}

// serve runs the web server and, when configured, the fixture watcher until
// ctx is cancelled or one of them fails
func (app *cli) serve(ctx context.Context) error {
	store, err := app.loadStore(ctx)
	if err != nil {
		return err
	}
	holder := NewStoreHolder(store)
	metrics := NewMetrics()

	ws, err := NewWebServer(app.config, holder, metrics)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ws.Start(ctx)
	})
	if app.config.Data.Watch && app.config.Data.Dir != "" {
		watcher := NewFixtureWatcher(app.config.Data.Dir, app.config.Data.GetDebounce(), holder, metrics)
		g.Go(func() error {
			return watcher.Run(ctx)
		})
	}
	return g.Wait()
}

func (app *cli) uiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the desktop window",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(app.config)
		},
	}
}

func (app *cli) taxCmd() *cobra.Command {
	var (
		personaID    string
		income       float64
		municipality string
	)
	cmd := &cobra.Command{
		Use:   "tax",
		Short: "Print a tax breakdown for a persona or any income",
		Example: `  zurich-perspectives tax --persona anna
  zurich-perspectives tax --income 120000 --municipality Winterthur`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.loadStore(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if personaID != "" {
				p, err := NewPerspective(store, personaID, PageTaxation)
				if err != nil {
					return err
				}
				PrintTaxDetail(out, fmt.Sprintf("%s, %s", p.Persona.FullName, p.Persona.Occupation), p.Detail)
				return nil
			}
			if !cmd.Flags().Changed("income") {
				return errors.New("either --persona or --income is required")
			}
			if math.IsNaN(income) || math.IsInf(income, 0) {
				return fmt.Errorf("invalid income %v", income)
			}
			detail := ComputeTaxDetail(income, municipality, store.Tax)
			PrintTaxDetail(out, fmt.Sprintf("%s in %s", FormatCHF(income), municipality), detail)
			return nil
		},
	}
	cmd.Flags().StringVarP(&personaID, "persona", "p", "", "Persona id (anna, leo, millionaire)")
	cmd.Flags().Float64Var(&income, "income", 0, "Gross annual income in CHF")
	cmd.Flags().StringVar(&municipality, "municipality", "Zurich City", "Municipality of residence")
	cmd.MarkFlagsMutuallyExclusive("persona", "income")
	return cmd
}

func (app *cli) compareCmd() *cobra.Command {
	var highlight string
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare the tax burden of all personas",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.loadStore(cmd.Context())
			if err != nil {
				return err
			}
			PrintComparison(cmd.OutOrStdout(), CompareTax(store.Personas(), store.Tax), highlight)
			return nil
		},
	}
	cmd.Flags().StringVar(&highlight, "highlight", "", "Persona id to highlight")
	return cmd
}

func (app *cli) interactiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Calculate taxes for incomes entered at the prompt",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.loadStore(cmd.Context())
			if err != nil {
				return err
			}
			return NewInteractiveCalculator(store, cmd.InOrStdin(), cmd.OutOrStdout()).Run()
		},
	}
}

func (app *cli) reportCmd() *cobra.Command {
	var (
		html      bool
		pdfID     string
		outputDir string
		open      bool
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export the site as static HTML and/or a persona's PDF tax report",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !html && pdfID == "" {
				return errors.New("nothing to do: pass --html and/or --pdf <persona>")
			}
			if outputDir != "" {
				app.config.Report.OutputDir = outputDir
			}
			store, err := app.loadStore(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if html {
				index, err := GenerateHTMLReports(store, app.config.Report.GetOutputDir())
				if err != nil {
					return fmt.Errorf("HTML export: %w", err)
				}
				fmt.Fprintf(out, "HTML export written to %s\n", filepath.Dir(index))
				if open {
					openBrowser(index)
				}
			}

			if pdfID != "" {
				p, err := NewPerspective(store, pdfID, PageTaxation)
				if err != nil {
					return err
				}
				data, err := GenerateTaxPDFReport(p)
				if err != nil {
					return err
				}
				dir := app.config.Report.GetOutputDir()
				if err := os.MkdirAll(dir, 0755); err != nil {
					return fmt.Errorf("failed to create output directory: %w", err)
				}
				path := filepath.Join(dir, sanitizeFilename("tax-report-"+p.Persona.ID+".pdf"))
				if err := os.WriteFile(path, data, 0644); err != nil {
					return err
				}
				fmt.Fprintf(out, "PDF report written to %s\n", path)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&html, "html", false, "Export the whole site as static HTML")
	cmd.Flags().StringVar(&pdfID, "pdf", "", "Persona id to write a PDF tax report for")
	cmd.Flags().StringVarP(&outputDir, "out", "o", "", "Output folder (overrides config)")
	cmd.Flags().BoolVar(&open, "open", false, "Open the HTML export in the browser")
	return cmd
}

func (app *cli) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load and validate the fixtures",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.loadStore(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %d personas, %d federal brackets, %d municipalities\n",
				len(store.Personas()), len(store.Tax.TaxRates.Federal), len(store.Municipalities()))
			return nil
		},
	}
}

func (app *cli) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration to the --config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(app.configFile); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", app.configFile)
			}
			defaults, err := LoadDefaultConfig()
			if err != nil {
				return err
			}
			if err := SaveConfig(defaults, app.configFile); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", app.configFile)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	cmd.AddCommand(initCmd)
	return cmd
}

// openBrowser opens a URL or file in the default browser
func openBrowser(target string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "linux":
		cmd = exec.Command("xdg-open", target)
	case "darwin":
		cmd = exec.Command("open", target)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", target)
	default:
		Log.Warn("Cannot open browser", zap.String("os", runtime.GOOS))
		return
	}

	if err := cmd.Start(); err != nil {
		Log.Warn("Error opening browser", zap.String("target", target), zap.Error(err))
	}
}
