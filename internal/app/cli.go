package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/vothnha26/final-sub001/internal/api/client"
	"github.com/vothnha26/final-sub001/internal/infrastructure/config"
)

// Exit codes returned by Run.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

const usageText = `Usage: storeadmin [flags] <command> [args]

Commands:
  get <path> [key=value ...]            send a GET request
  delete <path> [key=value ...]         send a DELETE request
  post <path> <body> [key=value ...]    send a POST request
  put <path> <body> [key=value ...]     send a PUT request
  patch <path> <body> [key=value ...]   send a PATCH request
  download <path> <dst>                 save a response body to a file
  url <path> [key=value ...]            print the request URL without sending
  login <token>                         store the bearer token
  logout                                forget the bearer token

A path is a string or a JSON value such as {"duongDanHinhAnh":"/uploads/a.png"}.
A body is JSON, or sent verbatim when it does not parse.

Flags:
`

type usageError string

func (e usageError) Error() string { return string(e) }

type headerFlags map[string]string

func (h headerFlags) String() string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+":"+h[k])
	}
	return strings.Join(parts, ",")
}

func (h headerFlags) Set(v string) error {
	key, value, ok := strings.Cut(v, ":")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return fmt.Errorf("header %q must be key:value", v)
	}
	h[key] = strings.TrimSpace(value)
	return nil
}

// Run executes one storeadmin command configured from the environment and
// returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return ExitError
	}
	return run(ctx, cfg, args, stdout, stderr)
}

func run(ctx context.Context, cfg *config.Config, args []string, stdout, stderr io.Writer, opts ...client.Option) int {
	fs := flag.NewFlagSet("storeadmin", flag.ContinueOnError)
	fs.SetOutput(stderr)
	asTable := fs.Bool("table", false, "render JSON lists of records as a table")
	showMetrics := fs.Bool("metrics", false, "print request metrics after the command")
	metricsFormat := fs.String("metrics-format", "table", "metrics output: table or prometheus")
	headers := headerFlags{}
	fs.Var(headers, "H", "extra request header as key:value (repeatable)")
	fs.Usage = func() {
		fmt.Fprint(stderr, usageText)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}
		return ExitUsage
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return ExitUsage
	}
	if *metricsFormat != "table" && *metricsFormat != "prometheus" {
		fmt.Fprintf(stderr, "error: unknown metrics format %q\n", *metricsFormat)
		return ExitUsage
	}

	a, err := New(cfg, opts...)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return ExitError
	}
	defer a.Close()

	c := &command{app: a, stdout: stdout, table: *asTable, headers: headers}
	err = c.run(ctx, fs.Arg(0), fs.Args()[1:])

	if *showMetrics {
		if merr := renderMetrics(stdout, a.Registry, *metricsFormat); merr != nil {
			fmt.Fprintf(stderr, "error: %v\n", merr)
		}
	}

	var uerr usageError
	var httpErr *client.HTTPError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &uerr):
		fmt.Fprintf(stderr, "error: %v\nRun 'storeadmin -h' for usage.\n", err)
		return ExitUsage
	case errors.As(err, &httpErr):
		fmt.Fprintf(stderr, "error: %v\n", httpErr)
		_ = renderPayload(stderr, httpErr.Data, false)
		return ExitError
	default:
		fmt.Fprintf(stderr, "error: %v\n", err)
		return ExitError
	}
}

type command struct {
	app     *App
	stdout  io.Writer
	table   bool
	headers headerFlags
}

func (c *command) run(ctx context.Context, name string, args []string) error {
	switch name {
	case "get", "delete":
		if len(args) < 1 {
			return usageError(name + " needs a path")
		}
		opts, err := c.options(args[1:])
		if err != nil {
			return err
		}
		method := client.MethodGet
		if name == "delete" {
			method = client.MethodDelete
		}
		return c.send(ctx, method, args[0], opts)

	case "post", "put", "patch":
		if len(args) < 2 {
			return usageError(name + " needs a path and a body")
		}
		opts, err := c.options(args[2:])
		if err != nil {
			return err
		}
		opts.Body = parseBody(args[1])
		return c.send(ctx, client.Method(strings.ToUpper(name)), args[0], opts)

	case "download":
		if len(args) != 2 {
			return usageError("download needs a path and a destination")
		}
		blob, err := c.app.Client.DownloadFile(ctx, parsePath(args[0]), args[1], client.Options{Headers: c.headers})
		if err != nil {
			return err
		}
		fmt.Fprintf(c.stdout, "saved %d bytes (%s) to %s\n", len(blob.Data), blob.Detected, args[1])
		return nil

	case "url":
		if len(args) < 1 {
			return usageError("url needs a path")
		}
		q, err := parseQuery(args[1:])
		if err != nil {
			return err
		}
		fmt.Fprintln(c.stdout, c.app.Client.BuildURL(parsePath(args[0]), q))
		return nil

	case "login":
		if len(args) != 1 {
			return usageError("login needs a token")
		}
		if err := c.app.Login(args[0]); err != nil {
			return err
		}
		fmt.Fprintln(c.stdout, "token saved")
		return nil

	case "logout":
		if err := c.app.Logout(); err != nil {
			return err
		}
		fmt.Fprintln(c.stdout, "token removed")
		return nil

	default:
		return usageError(fmt.Sprintf("unknown command %q", name))
	}
}

func (c *command) options(queryArgs []string) (client.Options, error) {
	q, err := parseQuery(queryArgs)
	if err != nil {
		return client.Options{}, err
	}
	opts := client.Options{Query: q}
	if len(c.headers) > 0 {
		opts.Headers = c.headers
	}
	return opts, nil
}

func (c *command) send(ctx context.Context, method client.Method, path string, opts client.Options) error {
	payload, err := c.app.Client.Do(ctx, method, parsePath(path), opts)
	if err != nil {
		return err
	}
	return renderPayload(c.stdout, payload, c.table)
}

// parsePath reads JSON objects and arrays as record and list paths.
func parsePath(arg string) client.Path {
	trimmed := strings.TrimSpace(arg)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		var v any
		if err := sonic.ConfigStd.UnmarshalFromString(trimmed, &v); err == nil {
			return client.PathOf(v)
		}
	}
	return client.Literal(arg)
}

func parseBody(arg string) any {
	var v any
	if err := sonic.ConfigStd.UnmarshalFromString(arg, &v); err == nil {
		return v
	}
	return arg
}

func parseQuery(args []string) (client.Query, error) {
	q := make(client.Query, 0, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, usageError(fmt.Sprintf("query argument %q must be key=value", arg))
		}
		q = append(q, client.QueryParam{Key: key, Value: value})
	}
	return q, nil
}
