package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/palavraria/palavraria-t/internal/api"
	"github.com/palavraria/palavraria-t/internal/catalog"
	"github.com/palavraria/palavraria-t/internal/config"
	"github.com/palavraria/palavraria-t/internal/logger"
	"github.com/palavraria/palavraria-t/internal/ui"
	"github.com/palavraria/palavraria-t/internal/ui/terminal"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Erro: %v\n", err)
		code := 1
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		os.Exit(code)
	}
}

// env is what every command needs, filled in by the app's Before hook
type env struct {
	cfg        *config.Config
	log        *slog.Logger
	out        io.Writer
	catalogURL string
}

func (e *env) backend() *api.Client {
	return api.NewClient(e.cfg.ServerURL, e.cfg.Token, e.log)
}

func (e *env) catalog() *catalog.Client {
	return catalog.NewClient(e.catalogURL, e.log)
}

func newApp(stdout, stderr io.Writer) *cli.App {
	e := &env{out: stdout}

	return &cli.App{
		Name:      "palavraria",
		Usage:     "registre e acompanhe suas leituras pelo terminal",
		Writer:    stdout,
		ErrWriter: stderr,
		// main reports errors and picks the exit code
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Usage:   "URL do servidor (salva na configuração)",
			},
			&cli.StringFlag{
				Name:  "catalog",
				Usage: "URL da API de catálogo (somente nesta execução)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "mostra a configuração e a sessão atuais",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "registra as requisições no stderr",
			},
		},
		Before: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return errors.Wrap(err, "load config")
			}

			if server := c.String("server"); server != "" {
				cfg.ServerURL = strings.TrimRight(server, "/")
				if err := cfg.Save(); err != nil {
					fmt.Fprintf(stderr, "Aviso: não foi possível salvar a URL do servidor: %v\n", err)
				}
			}

			e.cfg = cfg
			e.catalogURL = cfg.CatalogURL
			if u := c.String("catalog"); u != "" {
				e.catalogURL = u
			}

			level := slog.LevelWarn
			if c.Bool("verbose") {
				level = logger.ParseLevel(cfg.LogLevel)
			}
			e.log = logger.New(logger.Config{Writer: stderr, Format: logger.FormatText, Level: level})
			return nil
		},
		Action: func(c *cli.Context) error {
			if c.Bool("debug") {
				printDebug(e)
				return nil
			}
			if c.Args().Present() {
				return cli.Exit(fmt.Sprintf("comando desconhecido: %s", c.Args().First()), 2)
			}
			return runTUI(e)
		},
		Commands: []*cli.Command{
			searchCommand(e),
			addCommand(e),
			listCommand(e),
			statsCommand(e),
			loginCommand(e),
			registerCommand(e),
			logoutCommand(e),
		},
	}
}

// runTUI starts the interactive client. Logs go to a file because the
// alternate screen owns the terminal.
func runTUI(e *env) error {
	cfg := e.cfg
	logFile, err := logger.OpenFile(cfg.Dir())
	if err != nil {
		return err
	}
	defer logFile.Close()

	log := logger.New(logger.Config{
		Writer: logFile,
		Format: logger.FormatJSON,
		Level:  logger.ParseLevel(cfg.LogLevel),
	})

	app := ui.NewApp(cfg, ui.Options{
		Backend:  api.NewClient(cfg.ServerURL, cfg.Token, log),
		Catalog:  catalog.NewClient(e.catalogURL, log),
		TermMode: terminal.DetectTerminalMode(),
		Logger:   log,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return errors.Wrap(err, "run program")
	}
	return nil
}
