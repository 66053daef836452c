package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/palavraria/palavraria-t/internal/api"
	"github.com/palavraria/palavraria-t/internal/catalog"
	"github.com/palavraria/palavraria-t/internal/forms"
	"github.com/palavraria/palavraria-t/internal/library"
	"github.com/palavraria/palavraria-t/pkg/models"
)

var errNotLoggedIn = cli.Exit("Sessão não encontrada. Entre com: palavraria login --email <email> --password <senha>", 1)

func (e *env) requireSession() error {
	if !e.cfg.IsAuthenticated() {
		return errNotLoggedIn
	}
	return nil
}

// search runs a validated catalog query
func (e *env) search(c *cli.Context) ([]models.CatalogVolume, error) {
	form := &forms.SearchForm{Query: strings.Join(c.Args().Slice(), " ")}
	if err := forms.Validate(c.Context, form); err != nil {
		return nil, cli.Exit(err.Error(), 2)
	}
	return e.catalog().Search(c.Context, form.Query)
}

func searchCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "busca livros no catálogo",
		ArgsUsage: "<termos>",
		Action: func(c *cli.Context) error {
			vols, err := e.search(c)
			if err != nil {
				return err
			}
			if len(vols) == 0 {
				fmt.Fprintln(e.out, "Nenhum livro encontrado.")
				return nil
			}
			for i, vol := range vols {
				title, byline := catalog.Headline(vol)
				fmt.Fprintf(e.out, "%2d. %s\n    %s\n", i+1, title, byline)
			}
			return nil
		},
	}
}

func addCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "busca e registra um livro na sua biblioteca",
		ArgsUsage: "<termos>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "pick",
				Usage: "posição do resultado a registrar",
				Value: 1,
			},
			&cli.StringFlag{
				Name:  "pages",
				Usage: "número de páginas (substitui o do catálogo)",
			},
			&cli.StringFlag{
				Name:  "notes",
				Usage: "observações",
			},
		},
		Action: func(c *cli.Context) error {
			if err := e.requireSession(); err != nil {
				return err
			}

			form := &forms.AddBookForm{Pages: c.String("pages"), Notes: c.String("notes")}
			if err := forms.Validate(c.Context, form); err != nil {
				return cli.Exit(err.Error(), 2)
			}

			vols, err := e.search(c)
			if err != nil {
				return err
			}
			pick := c.Int("pick")
			if pick < 1 || pick > len(vols) {
				return cli.Exit(fmt.Sprintf("--pick deve estar entre 1 e %d", len(vols)), 2)
			}

			record := library.Normalize(vols[pick-1], form.Overrides())
			book, err := e.backend().CreateBook(c.Context, record)
			if err != nil {
				return cli.Exit(api.UserMessage(err), 1)
			}

			fmt.Fprintf(e.out, "Livro \"%s\" adicionado\n", book.Title)
			if details := library.RecordDetails(*book); details != "" {
				fmt.Fprintf(e.out, "    %s\n", details)
			}
			return nil
		},
	}
}

func listCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "lista os livros da sua biblioteca",
		Action: func(c *cli.Context) error {
			if err := e.requireSession(); err != nil {
				return err
			}
			books, err := e.backend().ListBooks(c.Context)
			if err != nil {
				return cli.Exit(api.UserMessage(err), 1)
			}
			if len(books) == 0 {
				fmt.Fprintln(e.out, "Sua biblioteca está vazia.")
				return nil
			}
			for _, b := range books {
				line := fmt.Sprintf("%s - %s", b.Title, b.Author)
				if b.Status != "" {
					line += " [" + library.StatusLabel(b.Status) + "]"
				}
				fmt.Fprintln(e.out, line)
				if details := library.RecordDetails(b); details != "" {
					fmt.Fprintf(e.out, "    %s\n", details)
				}
			}
			return nil
		},
	}
}

func statsCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "mostra quantos livros você leu e está lendo",
		Action: func(c *cli.Context) error {
			if err := e.requireSession(); err != nil {
				return err
			}
			books, err := e.backend().ListBooks(c.Context)
			if err != nil {
				return cli.Exit(api.UserMessage(err), 1)
			}
			fmt.Fprintln(e.out, library.Aggregate(books).Summary())
			return nil
		},
	}
}

func loginCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "entra na sua conta",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Usage: "email da conta"},
			&cli.StringFlag{Name: "password", Usage: "senha"},
		},
		Action: func(c *cli.Context) error {
			form := &forms.LoginForm{Email: c.String("email"), Password: c.String("password")}
			if err := forms.Validate(c.Context, form); err != nil {
				return cli.Exit(err.Error(), 2)
			}

			resp, err := e.backend().Login(c.Context, form.Email, form.Password)
			if err != nil {
				return cli.Exit(api.AuthMessage(err, api.MsgLoginFailed), 1)
			}

			name, email := "", form.Email
			if resp.User != nil {
				name = resp.User.Name
				if resp.User.Email != "" {
					email = resp.User.Email
				}
			}
			if err := e.cfg.SetSession(name, email, resp.Token); err != nil {
				return err
			}
			fmt.Fprintln(e.out, "Login bem-sucedido!")
			return nil
		},
	}
}

func registerCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "cria uma conta",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Usage: "seu nome"},
			&cli.StringFlag{Name: "email", Usage: "email da conta"},
			&cli.StringFlag{Name: "password", Usage: "senha (mínimo 6 caracteres)"},
			&cli.StringFlag{Name: "confirm", Usage: "confirmação da senha"},
		},
		Action: func(c *cli.Context) error {
			form := &forms.RegisterForm{
				Name:            c.String("name"),
				Email:           c.String("email"),
				Password:        c.String("password"),
				ConfirmPassword: c.String("confirm"),
			}
			if err := forms.Validate(c.Context, form); err != nil {
				return cli.Exit(err.Error(), 2)
			}

			if _, err := e.backend().Register(c.Context, form.Name, form.Email, form.Password); err != nil {
				return cli.Exit(api.AuthMessage(err, api.MsgRegisterFailed), 1)
			}
			fmt.Fprintln(e.out, "Cadastro realizado com sucesso!")
			return nil
		},
	}
}

func logoutCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "encerra a sessão salva",
		Action: func(c *cli.Context) error {
			if err := e.cfg.ClearSession(); err != nil {
				return err
			}
			fmt.Fprintln(e.out, "Sessão encerrada.")
			return nil
		},
	}
}

func printDebug(e *env) {
	cfg := e.cfg
	fmt.Fprintf(e.out, "Config path: %s\n", cfg.Path())
	fmt.Fprintf(e.out, "Server URL: %s\n", cfg.ServerURL)
	fmt.Fprintf(e.out, "Catalog URL: %s\n", e.catalogURL)
	fmt.Fprintf(e.out, "Theme: %s\n", cfg.Theme)
	fmt.Fprintf(e.out, "Authenticated: %v\n", cfg.IsAuthenticated())
	if cfg.Email != "" {
		fmt.Fprintf(e.out, "User: %s <%s>\n", cfg.DisplayName(), cfg.Email)
	}
	if cfg.MemberSince != nil {
		fmt.Fprintf(e.out, "Member since: %s\n", humanize.Time(*cfg.MemberSince))
	}
	if exp, ok := cfg.TokenExpiry(); ok {
		fmt.Fprintf(e.out, "Token expires: %s (%s)\n", humanize.Time(exp), exp.Format("2006-01-02 15:04"))
	}
}
