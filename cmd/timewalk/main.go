package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hrygo/timewalk/internal/profile"
	"github.com/hrygo/timewalk/plugin/nlp/codec"
	"github.com/hrygo/timewalk/plugin/nlp/output"
	"github.com/hrygo/timewalk/plugin/nlp/resolve"
	"github.com/hrygo/timewalk/server"
	"github.com/hrygo/timewalk/server/service/resolution"
	"github.com/hrygo/timewalk/store"
	"github.com/hrygo/timewalk/store/db"
)

var (
	rootCmd = &cobra.Command{
		Use:   "timewalk",
		Short: "Resolution stage for recognized natural-language entities",
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the resolution HTTP server",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runServe()
		},
	}

	resolveCmd = &cobra.Command{
		Use:   "resolve [file]",
		Short: "Resolve declarative values from a file or stdin and print the outputs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runResolve(args)
		},
	}

	referenceSecs int64
	timezoneName  string
)

func init() {
	serveCmd.Flags().String("addr", "", "binding address")
	serveCmd.Flags().Int("port", 8230, "binding port")
	serveCmd.Flags().String("data", ".", "data directory")
	serveCmd.Flags().String("driver", "sqlite", "audit store driver (sqlite or none)")
	serveCmd.Flags().String("dsn", "", "audit store DSN")
	serveCmd.Flags().String("mode", "dev", "dev or prod")

	_ = viper.BindPFlag("addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("data", serveCmd.Flags().Lookup("data"))
	_ = viper.BindPFlag("driver", serveCmd.Flags().Lookup("driver"))
	_ = viper.BindPFlag("dsn", serveCmd.Flags().Lookup("dsn"))
	_ = viper.BindPFlag("mode", serveCmd.Flags().Lookup("mode"))
	viper.SetEnvPrefix("timewalk")
	viper.AutomaticEnv()

	resolveCmd.Flags().Int64Var(&referenceSecs, "reference-secs", time.Now().Unix(), "reference time as epoch seconds")
	resolveCmd.Flags().StringVar(&timezoneName, "timezone", "UTC", "IANA timezone for the reference clock")

	rootCmd.AddCommand(serveCmd, resolveCmd)
}

func loadProfile() (*profile.Profile, error) {
	p := &profile.Profile{
		Mode:   viper.GetString("mode"),
		Addr:   viper.GetString("addr"),
		Port:   viper.GetInt("port"),
		Data:   viper.GetString("data"),
		DSN:    viper.GetString("dsn"),
		Driver: viper.GetString("driver"),
	}
	p.FromEnv()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func runServe() error {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	p, err := loadProfile()
	if err != nil {
		return err
	}

	var st *store.Store
	if p.Driver != "none" {
		driver, err := db.NewDBDriver(p)
		if err != nil {
			return err
		}
		st = store.New(driver, p)
		if err := st.Migrate(context.Background()); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.NewServer(p, st, logger).Start(ctx)
}

// cliRequest is the resolve subcommand's input document: the same
// declarative values the HTTP API accepts.
type cliRequest struct {
	Values []json.RawMessage `json:"values"`
}

type cliResult struct {
	Resolved bool          `json:"resolved"`
	Kind     string        `json:"kind,omitempty"`
	Output   output.Output `json:"output,omitempty"`
}

func runResolve(args []string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	reader := io.Reader(os.Stdin)
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		reader = f
	}

	var req cliRequest
	if err := json.NewDecoder(reader).Decode(&req); err != nil {
		return fmt.Errorf("decode input: %w", err)
	}

	loc, err := time.LoadLocation(timezoneName)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", timezoneName, err)
	}

	dims, err := codec.DecodeValues(req.Values)
	if err != nil {
		return err
	}
	values := make([]resolution.Value, len(dims))
	for i, dim := range dims {
		values[i] = resolution.Value{Dimension: dim, Payload: string(req.Values[i])}
	}

	rctx := resolve.FromSecs(referenceSecs, loc)
	svc := resolution.NewService(resolution.Options{Logger: logger})
	results := svc.ResolveBatch(context.Background(), rctx, values)

	out := make([]cliResult, len(results))
	for i, r := range results {
		out[i] = cliResult{Resolved: r.Resolved}
		if r.Resolved {
			out[i].Kind = output.KindName(r.Output)
			out[i].Output = r.Output
		}
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
