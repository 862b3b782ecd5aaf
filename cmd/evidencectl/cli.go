package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/robertobuso/legal-evidence-organizer/internal/aggregate"
	"github.com/robertobuso/legal-evidence-organizer/internal/db"
	"github.com/robertobuso/legal-evidence-organizer/internal/extractor"
	"github.com/robertobuso/legal-evidence-organizer/internal/ingest"
	"github.com/robertobuso/legal-evidence-organizer/internal/mailbox"
	"github.com/robertobuso/legal-evidence-organizer/internal/models"
	"github.com/robertobuso/legal-evidence-organizer/internal/repository"
	"github.com/robertobuso/legal-evidence-organizer/internal/utils"
)

const dateLayout = "2006-01-02"

// newCLIApp creates the CLI application with all commands. Results are
// written to out as JSON.
func newCLIApp(out io.Writer) *cli.App {
	app := &cli.App{
		Name:    "evidencectl",
		Usage:   "Offline maintenance for the legal evidence store",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db", Value: "./data/legal_evidence.db", EnvVars: []string{"DATABASE_URL"}, Usage: "SQLite database file"},
			&cli.StringFlag{Name: "log-level", Value: "warn", EnvVars: []string{"LOG_LEVEL"}, Usage: "debug|info|warn|error"},
		},
		Commands: []*cli.Command{
			migrateCmd(out),
			ingestChatCmd(out),
			ingestPDFCmd(out),
			fetchEmailsCmd(out),
			aggregateCmd(out),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

func logger(c *cli.Context) *utils.Logger {
	return utils.NewLoggerTo(os.Stderr, c.String("log-level"))
}

// withRepo opens the database, runs fn and closes it again.
func withRepo(c *cli.Context, fn func(repository.Repository) error) error {
	conn, err := db.Open(c.String("db"))
	if err != nil {
		return err
	}
	defer conn.Close()
	return fn(repository.NewRepository(conn))
}

func outputJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func readFileArg(c *cli.Context) (string, []byte, error) {
	if c.NArg() != 1 {
		return "", nil, fmt.Errorf("expected exactly one FILE argument")
	}
	path := filepath.Clean(c.Args().First())
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("read %s: %w", path, err)
	}
	return filepath.ToSlash(path), data, nil
}

func dateRange(c *cli.Context) (models.DateRange, error) {
	var r models.DateRange
	if s := c.String("start"); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return r, fmt.Errorf("invalid --start %q: use YYYY-MM-DD", s)
		}
		r.Start = &t
	}
	if s := c.String("end"); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return r, fmt.Errorf("invalid --end %q: use YYYY-MM-DD", s)
		}
		t = t.Add(24*time.Hour - time.Nanosecond)
		r.End = &t
	}
	return r, nil
}

var rangeFlags = []cli.Flag{
	&cli.StringFlag{Name: "start", Usage: "Start date (YYYY-MM-DD)"},
	&cli.StringFlag{Name: "end", Usage: "End date (YYYY-MM-DD), inclusive"},
}

func migrateCmd(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply schema migrations",
		Action: func(c *cli.Context) error {
			if err := db.RunMigrations(c.String("db")); err != nil {
				return err
			}
			return outputJSON(out, map[string]string{"status": "ok", "db": c.String("db")})
		},
	}
}

func ingestChatCmd(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "ingest-chat",
		Usage:     "Parse a WhatsApp .txt export and store its messages",
		ArgsUsage: "FILE",
		Action: func(c *cli.Context) error {
			path, data, err := readFileArg(c)
			if err != nil {
				return err
			}
			if !strings.EqualFold(filepath.Ext(path), ".txt") {
				return fmt.Errorf("%s: only .txt chat exports are supported", path)
			}
			if err := extractor.ValidateText(data); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			log := logger(c)
			return withRepo(c, func(repo repository.Repository) error {
				res, err := ingest.NewChatIngestor(extractor.NewChatParser(log), repo, log).Ingest(c.Context, data, path)
				if err != nil {
					return err
				}
				return outputJSON(out, res)
			})
		},
	}
}

func ingestPDFCmd(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "ingest-pdf",
		Usage:     "Extract text from a PDF and store it",
		ArgsUsage: "FILE",
		Action: func(c *cli.Context) error {
			path, data, err := readFileArg(c)
			if err != nil {
				return err
			}
			if !strings.EqualFold(filepath.Ext(path), ".pdf") {
				return fmt.Errorf("%s: only .pdf files are supported", path)
			}

			log := logger(c)
			return withRepo(c, func(repo repository.Repository) error {
				doc, err := ingest.NewPDFIngestor(repo, log).Ingest(c.Context, data, path)
				if err != nil {
					return err
				}
				if doc == nil {
					return fmt.Errorf("%s: no text could be extracted", path)
				}
				return outputJSON(out, map[string]any{"id": doc.ID, "file_name": doc.FileName, "file_path": doc.FilePath})
			})
		},
	}
}

func fetchEmailsCmd(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "fetch-emails",
		Usage: "Fetch emails to or from the given addresses through Gmail",
		Flags: append([]cli.Flag{
			&cli.StringSliceFlag{Name: "address", Aliases: []string{"a"}, Required: true, Usage: "Email address (repeatable)"},
			&cli.StringFlag{Name: "credentials", Value: "credentials.json", EnvVars: []string{"GMAIL_CREDENTIALS_FILE"}, Usage: "OAuth client credentials JSON"},
			&cli.StringFlag{Name: "token", Value: "token.json", EnvVars: []string{"GMAIL_TOKEN_FILE"}, Usage: "Stored OAuth token JSON"},
		}, rangeFlags...),
		Action: func(c *cli.Context) error {
			r, err := dateRange(c)
			if err != nil {
				return err
			}

			log := logger(c)
			provider, err := mailbox.NewGmailProvider(c.Context, c.String("credentials"), c.String("token"), log)
			if err != nil {
				return err
			}

			return withRepo(c, func(repo repository.Repository) error {
				res, err := ingest.NewMailIngestor(provider, repo, log).Ingest(c.Context, c.StringSlice("address"), r)
				if err != nil {
					return err
				}
				return outputJSON(out, res)
			})
		},
	}
}

func aggregateCmd(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "aggregate",
		Usage: "Print the chronologically merged source items",
		Flags: rangeFlags,
		Action: func(c *cli.Context) error {
			r, err := dateRange(c)
			if err != nil {
				return err
			}

			return withRepo(c, func(repo repository.Repository) error {
				items, err := aggregate.NewAggregator(repo).Aggregate(c.Context, r)
				if err != nil {
					return err
				}
				return outputJSON(out, items)
			})
		},
	}
}
