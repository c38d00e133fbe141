package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/tmercier/pressroom/internal/errors"
	"github.com/tmercier/pressroom/internal/httpx"
	"github.com/tmercier/pressroom/internal/ops"
	"github.com/tmercier/pressroom/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(env *ops.Env, hc *httpx.Client) *cli.App {
	app := &cli.App{
		Name:    "pressroom",
		Usage:   "Local-first content production pipeline",
		Version: Version,
		Commands: []*cli.Command{
			loginCmd(env, hc),
			addCmd(env),
			listCmd(env),
			showCmd(env),
			updateCmd(env),
			archiveCmd(env),
			syncCmd(env),
			analyzeCmd(env),
			interviewCmd(env),
			draftCmd(env),
			personasCmd(env),
			modelsCmd(env),
			webCmd(env),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// loginCmd creates the login command.
func loginCmd(env *ops.Env, hc *httpx.Client) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Authenticate against the relay (password via --password or piped stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "Relay account username"},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Relay account password"},
		},
		Action: func(c *cli.Context) error {
			input := ops.LoginInput{
				Username: c.String("username"),
				Password: c.String("password"),
			}

			if input.Password == "" && stdinHasData() {
				pw, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				input.Password = pw
			}

			output, err := ops.Login(c.Context, env, hc, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// addCmd creates the add command.
func addCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Capture a new idea by title",
		ArgsUsage: "<title>",
		Action: func(c *cli.Context) error {
			title := strings.Join(c.Args().Slice(), " ")
			if title == "" && stdinHasData() {
				text, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				title = text
			}

			output, err := ops.QuickAdd(c.Context, env, ops.QuickAddInput{Title: title})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List mirrored content items",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "status", Aliases: []string{"s"}, Usage: "Filter by pipeline stage"},
			&cli.StringFlag{Name: "platform", Aliases: []string{"p"}, Usage: "Filter by target platform"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Maximum items to return"},
			&cli.IntFlag{Name: "offset", Usage: "Items to skip"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ListInput{
				Status:   c.String("status"),
				Platform: c.String("platform"),
				Limit:    c.Int("limit"),
				Offset:   c.Int("offset"),
			}

			output, err := ops.List(env, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// showCmd creates the show command.
func showCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one content item (accepts an id prefix)",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.Show(env, ops.ShowInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// updateCmd creates the update command.
func updateCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Update a content item (optionally reads body from stdin)",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "New title"},
			&cli.StringFlag{Name: "status", Aliases: []string{"s"}, Usage: "New pipeline stage"},
			&cli.StringFlag{Name: "platforms", Usage: "Comma-separated platforms (empty clears)"},
			&cli.StringFlag{Name: "notes", Usage: "New notes"},
			&cli.StringFlag{Name: "schedule", Usage: "Publication instant, RFC 3339"},
			&cli.BoolFlag{Name: "clear-schedule", Usage: "Remove the scheduled publication"},
		},
		Action: func(c *cli.Context) error {
			input := ops.UpdateInput{
				ID:            c.Args().First(),
				ClearSchedule: c.Bool("clear-schedule"),
			}

			// Read body from stdin if piped
			if stdinHasData() {
				text, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				if text != "" {
					input.Body = &text
				}
			}

			if title := c.String("title"); title != "" {
				input.Title = &title
			}
			if status := c.String("status"); status != "" {
				input.Status = &status
			}
			if notes := c.String("notes"); notes != "" {
				input.Notes = &notes
			}
			if c.IsSet("platforms") {
				platforms := parseList(c.String("platforms"))
				if platforms == nil {
					platforms = []string{}
				}
				input.Platforms = platforms
			}
			if schedule := c.String("schedule"); schedule != "" {
				at, err := time.Parse(time.RFC3339, schedule)
				if err != nil {
					return outputError(errors.NewInvalidRequest("schedule must be RFC 3339"))
				}
				input.ScheduledAt = &at
			}

			output, err := ops.Update(c.Context, env, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// archiveCmd creates the archive command.
func archiveCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "archive",
		Usage:     "Archive a content item remotely and drop it from the mirror",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.Archive(c.Context, env, ops.ArchiveInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// syncCmd creates the sync command.
func syncCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Reconcile the local mirror with the remote collections",
		Action: func(c *cli.Context) error {
			output, err := ops.Sync(c.Context, env)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// analyzeCmd creates the analyze command.
func analyzeCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "Run the editorial analysis on an idea",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "persona", Usage: "Persona id or name"},
			&cli.StringFlag{Name: "model", Usage: "Model id or code"},
		},
		Action: func(c *cli.Context) error {
			input := ops.AnalyzeInput{
				ID:      c.Args().First(),
				Persona: c.String("persona"),
				Model:   c.String("model"),
			}

			output, err := ops.Analyze(c.Context, env, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// interviewCmd creates the interview command.
func interviewCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "interview",
		Usage:     "Generate interview questions, or record answers piped via stdin",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "persona", Usage: "Persona id or name"},
			&cli.StringFlag{Name: "model", Usage: "Model id or code"},
			&cli.StringFlag{Name: "answers", Usage: "Interview answers (alternative to stdin)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.InterviewInput{
				ID:      c.Args().First(),
				Persona: c.String("persona"),
				Model:   c.String("model"),
			}

			if answers := c.String("answers"); answers != "" {
				input.Answers = &answers
			} else if stdinHasData() {
				text, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				if text != "" {
					input.Answers = &text
				}
			}

			output, err := ops.Interview(c.Context, env, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// draftCmd creates the draft command.
func draftCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "draft",
		Usage:     "Generate a structured draft for an analyzed item",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "Output format (defaults to the analyzed target)"},
			&cli.StringFlag{Name: "persona", Usage: "Persona id or name"},
			&cli.StringFlag{Name: "model", Usage: "Model id or code"},
		},
		Action: func(c *cli.Context) error {
			input := ops.DraftInput{
				ID:      c.Args().First(),
				Format:  c.String("format"),
				Persona: c.String("persona"),
				Model:   c.String("model"),
			}

			output, err := ops.Draft(c.Context, env, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// personasCmd creates the personas command with its subcommands.
func personasCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "personas",
		Usage: "Manage AI personas",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List mirrored personas",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Usage: "Filter by category"},
				},
				Action: func(c *cli.Context) error {
					output, err := ops.ListPersonas(env, ops.ListPersonasInput{Category: c.String("category")})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:  "create",
				Usage: "Create a persona (description via --description or piped stdin)",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Persona name"},
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "System instruction text"},
					&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Usage: "Persona category"},
				},
				Action: func(c *cli.Context) error {
					input := ops.CreatePersonaInput{
						Name:        c.String("name"),
						Description: c.String("description"),
						Category:    c.String("category"),
					}

					if input.Description == "" && stdinHasData() {
						text, err := readStdin()
						if err != nil {
							return outputError(errors.NewInternal(err))
						}
						input.Description = text
					}

					output, err := ops.CreatePersona(c.Context, env, input)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:      "update",
				Usage:     "Update a persona",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "New name"},
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "New system instruction text"},
					&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Usage: "New category"},
				},
				Action: func(c *cli.Context) error {
					input := ops.UpdatePersonaInput{ID: c.Args().First()}

					if name := c.String("name"); name != "" {
						input.Name = &name
					}
					if desc := c.String("description"); desc != "" {
						input.Description = &desc
					}
					if category := c.String("category"); category != "" {
						input.Category = &category
					}

					output, err := ops.UpdatePersona(c.Context, env, input)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
		},
	}
}

// modelsCmd creates the models command.
func modelsCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "models",
		Usage: "List available model profiles",
		Action: func(c *cli.Context) error {
			output, err := ops.ListModels(env)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// webCmd creates the web command.
func webCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Serve the read-only dashboard over the local mirror",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Value: 8787, Usage: "Listen port"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(env, Version, c.String("bind"), c.Int("port"))
			if err := web.Run(srv); err != nil {
				return outputError(err)
			}
			return nil
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if pErr, ok := err.(*errors.PressError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", pErr.Code, pErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// parseList splits a comma-separated string into a slice of values.
func parseList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		v := strings.TrimSpace(p)
		if v != "" {
			values = append(values, v)
		}
	}
	return values
}
