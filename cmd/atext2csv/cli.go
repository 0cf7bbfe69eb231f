package main

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/hpungsan/atext2csv/internal/config"
	"github.com/hpungsan/atext2csv/internal/errors"
	"github.com/hpungsan/atext2csv/internal/mcp"
	"github.com/hpungsan/atext2csv/internal/ops"
	"github.com/hpungsan/atext2csv/internal/web"
)

// newCLIApp creates the CLI application with all commands. Running it with
// no command exports the given (or discovered) data file.
func newCLIApp(cfg *config.Config, out io.Writer) *cli.App {
	app := &cli.App{
		Name:      "atext2csv",
		Usage:     "Recover aText snippets into CSV, JSON, Espanso and more",
		ArgsUsage: "[Data.atext]",
		Version:   Version,
		Writer:    out,
		Flags:     append(logFlags(), exportFlags()...),
		Action:    exportAction(cfg),
		Commands: []*cli.Command{
			exportCmd(cfg),
			searchCmd(cfg),
			groupsCmd(cfg),
			infoCmd(cfg),
			packCmd(),
			serveCmd(cfg),
			mcpCmd(cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

func logFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "Only log warnings and errors"},
		&cli.BoolFlag{Name: "verbose", Usage: "Log debug details"},
	}
}

// applyLogFlags raises or lowers the log level for --quiet/--verbose.
func applyLogFlags(c *cli.Context) {
	switch {
	case c.Bool("verbose"):
		setupLogging(slog.LevelDebug)
	case c.Bool("quiet"):
		setupLogging(slog.LevelWarn)
	}
}

// formatFlagNames are the per-format export switches, in output order.
var formatFlagNames = []string{"csv", "json", "espanso", "txt", "markdown", "html", "sqlite"}

func exportFlags() []cli.Flag {
	flags := make([]cli.Flag, 0, len(formatFlagNames)+3)
	for _, name := range formatFlagNames {
		flags = append(flags, &cli.BoolFlag{Name: name, Usage: fmt.Sprintf("Write %s output", name)})
	}
	return append(flags,
		&cli.StringSliceFlag{Name: "format", Aliases: []string{"f"}, Usage: "Output formats (repeatable or comma-separated)"},
		&cli.StringFlag{Name: "output-dir", Aliases: []string{"o"}, Usage: "Directory for output files (default: current directory)"},
		&cli.StringFlag{Name: "prefix", Usage: "Output file name prefix (default: atext)"},
	)
}

// exportCmd creates the export command.
func exportCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Decode a data file and write the selected formats (default command)",
		ArgsUsage: "[Data.atext]",
		Flags:     append(logFlags(), exportFlags()...),
		Action:    exportAction(cfg),
	}
}

func exportAction(cfg *config.Config) cli.ActionFunc {
	return func(c *cli.Context) error {
		applyLogFlags(c)

		formats, err := selectedFormats(c)
		if err != nil {
			return outputError(err)
		}

		loaded, err := ops.Load(c.Context, cfg, c.Args().First())
		if err != nil {
			return outputError(err)
		}
		slog.Info("parsed",
			"path", loaded.Source.Path,
			"size", humanize.IBytes(uint64(loaded.Source.Size)),
			"snippets", len(loaded.Records),
		)

		output, err := ops.Export(c.Context, cfg, ops.ExportInput{
			Records:   loaded.Records,
			Source:    loaded.Source.Path,
			OutputDir: c.String("output-dir"),
			Prefix:    c.String("prefix"),
			Formats:   formats,
		})
		if err != nil {
			return outputError(err)
		}

		printExportSummary(c.App.Writer, output)
		return nil
	}
}

// selectedFormats collects format switches and --format values. None
// selected returns nil so the configured defaults apply.
func selectedFormats(c *cli.Context) ([]ops.Format, error) {
	var names []string
	for _, name := range formatFlagNames {
		if c.Bool(name) {
			names = append(names, name)
		}
	}
	for _, v := range c.StringSlice("format") {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
	}
	if len(names) == 0 {
		return nil, nil
	}
	return ops.ParseFormats(names)
}

func printExportSummary(w io.Writer, output *ops.ExportOutput) {
	if output.Warning != "" {
		slog.Warn(output.Warning)
		fmt.Fprintln(w, output.Warning)
		return
	}
	fmt.Fprintf(w, "Found %s snippets in %s groups\n", humanize.Comma(int64(output.Count)), humanize.Comma(int64(output.Groups)))
	for _, f := range output.Files {
		fmt.Fprintf(w, "  %-8s %s (%s, %d entries)\n", f.Format, f.Path, humanize.IBytes(uint64(f.Size)), f.Entries)
	}
}

// searchCmd creates the search command.
func searchCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search snippets by trigger, name, tags or content",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "Data file or .db export (default: discovered data file)"},
			&cli.StringFlag{Name: "group", Aliases: []string{"g"}, Usage: "Filter by exact group name"},
			&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Usage: "Filter by type code or label"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultSearchLimit, Usage: "Maximum items to return"},
			&cli.IntFlag{Name: "offset", Value: 0, Usage: "Items to skip"},
		},
		Action: func(c *cli.Context) error {
			applyLogFlags(c)

			query := strings.Join(c.Args().Slice(), " ")
			if strings.TrimSpace(query) == "" {
				return outputError(errors.NewInvalidRequest("query is required"))
			}

			loaded, err := ops.Load(c.Context, cfg, c.String("input"))
			if err != nil {
				return outputError(err)
			}

			input := ops.SearchInput{
				Query:  query,
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			}
			if c.IsSet("group") {
				group := c.String("group")
				input.Group = &group
			}
			if typ := c.String("type"); typ != "" {
				input.Type = &typ
			}

			output, err := ops.Search(loaded.Records, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// groupsCmd creates the groups command.
func groupsCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "groups",
		Usage:     "List groups with snippet counts in document order",
		ArgsUsage: "[Data.atext]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name-prefix", Usage: "Filter by group name prefix"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultGroupsLimit, Usage: "Maximum items to return"},
			&cli.IntFlag{Name: "offset", Value: 0, Usage: "Items to skip"},
		},
		Action: func(c *cli.Context) error {
			applyLogFlags(c)

			loaded, err := ops.Load(c.Context, cfg, c.Args().First())
			if err != nil {
				return outputError(err)
			}

			input := ops.GroupsInput{
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			}
			if prefix := c.String("name-prefix"); prefix != "" {
				input.NamePrefix = &prefix
			}

			return outputJSON(c.App.Writer, ops.Groups(loaded.Records, input))
		},
	}
}

// infoCmd creates the info command.
func infoCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "Describe a data file: container layout, header and counts",
		ArgsUsage: "[Data.atext]",
		Action: func(c *cli.Context) error {
			applyLogFlags(c)

			output, err := ops.Info(c.Context, cfg, c.Args().First())
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// packCmd creates the pack command.
func packCmd() *cli.Command {
	return &cli.Command{
		Name:      "pack",
		Usage:     "Wrap a JSON snippet document into a data file",
		ArgsUsage: "<input.json> <output.atext>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "header", Usage: "Header text written before the compressed frame"},
		},
		Action: func(c *cli.Context) error {
			applyLogFlags(c)

			if c.NArg() != 2 {
				return outputError(errors.NewInvalidRequest("pack needs an input JSON file and an output path"))
			}

			output, err := ops.Pack(ops.PackInput{
				Input:  c.Args().Get(0),
				Output: c.Args().Get(1),
				Header: c.String("header"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "serve",
		Usage:     "Browse snippets in a local web UI",
		ArgsUsage: "[Data.atext]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Address to bind"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 8080, Usage: "Port to listen on"},
		},
		Action: func(c *cli.Context) error {
			applyLogFlags(c)

			loaded, err := ops.Load(c.Context, cfg, c.Args().First())
			if err != nil {
				return outputError(err)
			}

			srv, err := web.NewServer(loaded, cfg, Version, c.String("bind"), c.Int("port"))
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			if err := web.Run(srv); err != nil {
				return outputError(errors.NewInternal(err))
			}
			return nil
		},
	}
}

// mcpCmd creates the mcp command.
func mcpCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Run the MCP server on stdio",
		Action: func(c *cli.Context) error {
			applyLogFlags(c)

			if unknown := mcp.ValidateDisabledTools(cfg.DisabledTools); len(unknown) > 0 {
				slog.Warn("unknown tools in disabled_tools", "tools", unknown, "valid", mcp.AllToolNames())
			}

			if err := mcp.Run(cfg, Version); err != nil {
				return outputError(errors.NewInternal(err))
			}
			return nil
		},
	}
}

// Helper functions

// outputJSON writes v as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	var aErr *errors.AtextError
	if stderrors.As(err, &aErr) {
		return cli.Exit(fmt.Sprintf("[%s] %s", aErr.Code, aErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
