// Command cascade sends one prompt through an ordered cascade of model
// backends and prints the first answer.
//
// Usage:
//
//	PERPLEXITY_API_KEY=pplx-... cascade [flags] [prompt...]
//	echo "prompt" | cascade [flags]
//
// Keys may also be placed in a .env file in the working directory.
//
// Flags:
//
//	-provider string       Provider: perplexity, anthropic, gemini (auto-detected from env vars if omitted)
//	-api-key string        API key (overrides provider's env var)
//	-catalog string        Path to a YAML catalog (default: provider's built-in catalog)
//	-order string          Comma-separated backend IDs to try, in order
//	-timeout duration      Per-attempt timeout (default 60s)
//	-request string        Path to a JSON request file (replaces the prompt)
//	-system-prompt string  Path to system prompt file
//	-max-tokens int        Maximum output tokens (default: provider default)
//	-temperature float     Sampling temperature in [0, 2] (default: provider default)
//	-recency string        Web search recency hint: day, week, month
//	-json                  Print the result as JSON
//	-out string            Also save the JSON result to this path
//	-log-level string      debug, info, warn, error (default "warn")
//	-metrics-file string   Write attempt metrics in Prometheus text format to this path
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/fwojciec/cascade"
	cascadejson "github.com/fwojciec/cascade/json"
	cascadeprom "github.com/fwojciec/cascade/prometheus"
	cascadeyaml "github.com/fwojciec/cascade/yaml"
	cascadezap "github.com/fwojciec/cascade/zap"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "cascade: load .env: %v\n", err)
		os.Exit(1)
	}

	// Handle OS signals for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	env := envKeys{
		perplexity: os.Getenv("PERPLEXITY_API_KEY"),
		anthropic:  os.Getenv("ANTHROPIC_API_KEY"),
		gemini:     os.Getenv("GEMINI_API_KEY"),
	}
	if err := run(ctx, os.Args[1:], env, os.Stdin, os.Stdout, os.Stderr); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "cascade: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	provider     string
	apiKey       string
	catalogPath  string
	order        string
	timeout      time.Duration
	requestPath  string
	systemPrompt string
	maxTokens    int
	temperature  float64
	recency      string
	jsonOut      bool
	outPath      string
	logLevel     string
	metricsPath  string
}

// noTemperature marks the -temperature flag as unset.
const noTemperature = -1

func parseFlags(args []string, stderr io.Writer) (options, []string, error) {
	var o options
	fset := flag.NewFlagSet("cascade", flag.ContinueOnError)
	fset.SetOutput(stderr)
	fset.StringVar(&o.provider, "provider", "", "Provider: perplexity, anthropic, gemini (auto-detected from env vars if omitted)")
	fset.StringVar(&o.apiKey, "api-key", "", "API key (overrides provider's env var)")
	fset.StringVar(&o.catalogPath, "catalog", "", "Path to a YAML catalog (default: provider's built-in catalog)")
	fset.StringVar(&o.order, "order", "", "Comma-separated backend IDs to try, in order")
	fset.DurationVar(&o.timeout, "timeout", cascade.DefaultAttemptTimeout, "Per-attempt timeout")
	fset.StringVar(&o.requestPath, "request", "", "Path to a JSON request file (replaces the prompt)")
	fset.StringVar(&o.systemPrompt, "system-prompt", "", "Path to system prompt file")
	fset.IntVar(&o.maxTokens, "max-tokens", 0, "Maximum output tokens (default: provider default)")
	fset.Float64Var(&o.temperature, "temperature", noTemperature, "Sampling temperature in [0, 2] (default: provider default)")
	fset.StringVar(&o.recency, "recency", "", "Web search recency hint: day, week, month")
	fset.BoolVar(&o.jsonOut, "json", false, "Print the result as JSON")
	fset.StringVar(&o.outPath, "out", "", "Also save the JSON result to this path")
	fset.StringVar(&o.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	fset.StringVar(&o.metricsPath, "metrics-file", "", "Write attempt metrics in Prometheus text format to this path")
	if err := fset.Parse(args); err != nil {
		return options{}, nil, err
	}
	return o, fset.Args(), nil
}

func run(ctx context.Context, args []string, env envKeys, stdin io.Reader, stdout, stderr io.Writer) error {
	opts, prompt, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	logger, err := cascadezap.NewLogger(opts.logLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	p, err := resolveProvider(ctx, opts.provider, opts.apiKey, env)
	if err != nil {
		return err
	}
	catalog := p.catalog
	if opts.catalogPath != "" {
		catalog, err = cascadeyaml.LoadCatalog(opts.catalogPath)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
	}

	req, err := buildRequest(opts, prompt, stdin)
	if err != nil {
		return err
	}

	runOpts := []cascade.RunOption{
		cascade.WithAttemptTimeout(opts.timeout),
		cascade.WithEventHandler(cascadezap.EventHandler(logger)),
	}
	if ids := parseOrder(opts.order); ids != nil {
		runOpts = append(runOpts, cascade.WithBackendOrder(ids...))
	}
	var reg *prometheus.Registry
	if opts.metricsPath != "" {
		reg = prometheus.NewRegistry()
		runOpts = append(runOpts, cascade.WithEventHandler(cascadeprom.NewMetrics(reg).Handle))
	}

	result, runErr := cascade.New(catalog, p.transport).Run(ctx, req, runOpts...)

	if reg != nil {
		if err := prometheus.WriteToTextfile(opts.metricsPath, reg); err != nil {
			logger.Warn("write metrics", zap.String("path", opts.metricsPath), zap.Error(err))
		}
	}
	if runErr != nil {
		return reportFailure(stderr, runErr)
	}
	if opts.outPath != "" {
		if err := cascadejson.SaveResult(opts.outPath, result); err != nil {
			return fmt.Errorf("save result: %w", err)
		}
	}
	return writeResult(stdout, result, opts.jsonOut)
}

// buildRequest reads the request file, or builds a single-turn request from
// the prompt arguments or stdin, then applies flag overrides.
func buildRequest(opts options, prompt []string, stdin io.Reader) (cascade.Request, error) {
	var req cascade.Request
	if opts.requestPath != "" {
		r, err := cascadejson.LoadRequest(opts.requestPath)
		if err != nil {
			return cascade.Request{}, fmt.Errorf("load request: %w", err)
		}
		req = r
	} else {
		text := strings.Join(prompt, " ")
		if text == "" {
			data, err := io.ReadAll(stdin)
			if err != nil {
				return cascade.Request{}, fmt.Errorf("read stdin: %w", err)
			}
			text = string(data)
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return cascade.Request{}, errors.New("no prompt: pass it as arguments, on stdin, or with -request")
		}
		req.Messages = []cascade.Message{{Role: cascade.RoleUser, Content: text}}
	}

	if opts.systemPrompt != "" {
		data, err := os.ReadFile(opts.systemPrompt)
		if err != nil {
			return cascade.Request{}, fmt.Errorf("read system prompt: %w", err)
		}
		req.SystemPrompt = string(data)
	}
	if opts.maxTokens != 0 {
		req.MaxTokens = opts.maxTokens
	}
	if opts.temperature != noTemperature {
		t := opts.temperature
		req.Temperature = &t
	}
	if opts.recency != "" {
		req.SearchRecency = opts.recency
	}
	return req, req.Validate()
}

// parseOrder splits a comma-separated ID list. An empty flag means no
// override.
func parseOrder(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var ids []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func writeResult(w io.Writer, r cascade.Result, asJSON bool) error {
	if asJSON {
		data, err := cascadejson.MarshalResult(r)
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	}
	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(r.Content))
	sb.WriteString("\n")
	if len(r.Citations) > 0 {
		sb.WriteString("\nSources:\n")
		for i, c := range r.Citations {
			fmt.Fprintf(&sb, "[%d] %s\n", i+1, c)
		}
	}
	fmt.Fprintf(&sb, "\n(%s, attempt %d/%d)\n", r.DisplayName, r.Attempt, r.TotalAttempts)
	_, err := io.WriteString(w, sb.String())
	return err
}

// reportFailure writes the JSON failure report and returns runErr.
func reportFailure(w io.Writer, runErr error) error {
	data, err := cascadejson.MarshalReport(runErr)
	if err != nil {
		return errors.Join(runErr, err)
	}
	if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
		return errors.Join(runErr, err)
	}
	return runErr
}
