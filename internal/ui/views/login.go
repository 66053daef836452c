package views

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/palavraria/palavraria-t/internal/api"
	"github.com/palavraria/palavraria-t/internal/config"
	"github.com/palavraria/palavraria-t/internal/forms"
	"github.com/palavraria/palavraria-t/internal/ui/styles"
	"github.com/palavraria/palavraria-t/pkg/models"
)

// Success notices
const (
	MsgLoginSuccess    = "Login bem-sucedido!"
	MsgRegisterSuccess = "Cadastro realizado com sucesso!"
)

// loginResultMsg is the result of a login/register attempt
type loginResultMsg struct {
	registering bool
	email       string
	resp        *models.AuthResponse
	err         error
}

func (loginResultMsg) Owner() ViewType { return ViewLogin }

// LoginView handles login and registration
type LoginView struct {
	client Backend
	config *config.Config

	// Form inputs
	nameInput     textinput.Model
	emailInput    textinput.Model
	passwordInput textinput.Model
	confirmInput  textinput.Model

	// State
	focusIndex    int
	isRegistering bool
	loading       bool
	err           error
	notice        string

	// Dimensions
	width  int
	height int
}

func newPasswordInput(placeholder string) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.EchoMode = textinput.EchoPassword
	in.EchoCharacter = '•'
	in.CharLimit = 100
	in.Width = 30
	return in
}

// NewLoginView creates a new login view
func NewLoginView(client Backend, cfg *config.Config) *LoginView {
	nameInput := textinput.New()
	nameInput.Placeholder = "Seu nome"
	nameInput.CharLimit = 80
	nameInput.Width = 30

	emailInput := textinput.New()
	emailInput.Placeholder = "email@exemplo.com"
	emailInput.CharLimit = 100
	emailInput.Width = 30
	emailInput.SetValue(cfg.Email)
	emailInput.Focus()

	v := &LoginView{
		client:        client,
		config:        cfg,
		nameInput:     nameInput,
		emailInput:    emailInput,
		passwordInput: newPasswordInput("Senha"),
		confirmInput:  newPasswordInput("Confirmar senha"),
		width:         80,
		height:        24,
	}
	return v
}

// Init implements View
func (v *LoginView) Init() tea.Cmd {
	return textinput.Blink
}

// Capturing implements InputCapturer
func (v *LoginView) Capturing() bool {
	return v.focusedInput() != nil
}

// Registering reports whether the registration form is shown
func (v *LoginView) Registering() bool {
	return v.isRegistering
}

// Update implements View
func (v *LoginView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			v.navigateFocus(msg.String())
			return v, nil

		case "enter":
			if v.loading {
				return v, nil
			}
			submit := len(v.inputs())
			switch v.focusIndex {
			case submit:
				return v, v.submit()
			case submit + 1:
				v.toggleMode()
				return v, nil
			}
			// Enter on the last field submits, like the keyboard "done" key
			if v.focusIndex == submit-1 {
				return v, v.submit()
			}
			v.navigateFocus("tab")
			return v, nil

		case "ctrl+r":
			v.toggleMode()
			return v, nil
		}

	case loginResultMsg:
		return v, v.handleResult(msg)
	}

	// Update focused input
	var cmd tea.Cmd
	if in := v.focusedInput(); in != nil {
		*in, cmd = in.Update(msg)
	}
	return v, cmd
}

func (v *LoginView) handleResult(msg loginResultMsg) tea.Cmd {
	v.loading = false

	if msg.err != nil {
		v.err = errors.New(v.failureMessage(msg.err, msg.registering))
		return nil
	}

	if msg.registering {
		v.toggleMode()
		v.emailInput.SetValue(msg.email)
		v.notice = MsgRegisterSuccess
		return SendStatus(MsgRegisterSuccess)
	}

	user := models.User{Email: msg.email}
	token := ""
	if msg.resp != nil {
		token = msg.resp.Token
		if msg.resp.User != nil {
			user = *msg.resp.User
			if user.Email == "" {
				user.Email = msg.email
			}
		}
	}

	if err := v.config.SetSession(user.Name, user.Email, token); err != nil {
		v.err = err
		return nil
	}
	v.passwordInput.SetValue("")

	return tea.Batch(
		func() tea.Msg {
			return LoginSuccessMsg{User: user, Token: token}
		},
		SendStatus(MsgLoginSuccess),
	)
}

// failureMessage prefers the backend's text and falls back per form
func (v *LoginView) failureMessage(err error, registering bool) string {
	var formErr *forms.Error
	if errors.As(err, &formErr) {
		return formErr.Message
	}

	if registering {
		return api.AuthMessage(err, api.MsgRegisterFailed)
	}
	return api.AuthMessage(err, api.MsgLoginFailed)
}

// View implements View
func (v *LoginView) View() string {
	var b strings.Builder

	title := "Entrar na Palavraria"
	if v.isRegistering {
		title = "Criar conta"
	}
	titleStyle := styles.DialogTitle.Width(40).Align(lipgloss.Center)
	b.WriteString(titleStyle.Render(title) + "\n\n")

	labels := []string{"Email", "Senha"}
	if v.isRegistering {
		labels = []string{"Nome", "Email", "Senha", "Confirmar senha"}
	}
	for i, in := range v.inputs() {
		b.WriteString(styles.InputLabel.Render(labels[i]) + "\n")
		b.WriteString(v.styleInput(*in, i) + "\n\n")
	}

	submitIndex := len(v.inputs())
	buttonText := "Entrar"
	if v.isRegistering {
		buttonText = "Cadastrar"
	}
	if v.loading {
		buttonText = "Aguarde..."
	}
	button := styles.Button.Render(buttonText)
	if v.focusIndex == submitIndex {
		button = styles.ButtonFocused.Render(buttonText)
	}
	b.WriteString(button + "\n\n")

	toggleText := "Não tem conta? Cadastre-se"
	if v.isRegistering {
		toggleText = "Já tem conta? Entrar"
	}
	toggleStyle := styles.Help
	if v.focusIndex == submitIndex+1 {
		toggleStyle = styles.HelpKey
	}
	b.WriteString(toggleStyle.Render(toggleText) + "\n")

	if v.err != nil {
		b.WriteString("\n" + styles.ErrorStyle.Render(v.err.Error()))
	} else if v.notice != "" {
		b.WriteString("\n" + styles.SuccessStyle.Render(v.notice))
	}

	dialog := styles.Dialog.Width(44).Render(b.String())

	return lipgloss.Place(
		v.width,
		v.height,
		lipgloss.Center,
		lipgloss.Center,
		dialog,
	)
}

// SetSize implements View
func (v *LoginView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// inputs returns the fields of the active form in focus order
func (v *LoginView) inputs() []*textinput.Model {
	if v.isRegistering {
		return []*textinput.Model{&v.nameInput, &v.emailInput, &v.passwordInput, &v.confirmInput}
	}
	return []*textinput.Model{&v.emailInput, &v.passwordInput}
}

func (v *LoginView) focusedInput() *textinput.Model {
	ins := v.inputs()
	if v.focusIndex < len(ins) {
		return ins[v.focusIndex]
	}
	return nil
}

func (v *LoginView) styleInput(input textinput.Model, index int) string {
	style := styles.InputField
	if v.focusIndex == index {
		style = styles.InputFieldFocused
	}
	return style.Render(input.View())
}

// navigateFocus moves focus between the fields, the button and the toggle
func (v *LoginView) navigateFocus(key string) {
	maxIndex := len(v.inputs()) + 1

	if key == "up" || key == "shift+tab" {
		v.focusIndex--
		if v.focusIndex < 0 {
			v.focusIndex = maxIndex
		}
	} else {
		v.focusIndex++
		if v.focusIndex > maxIndex {
			v.focusIndex = 0
		}
	}

	v.updateFocus()
}

func (v *LoginView) updateFocus() {
	v.nameInput.Blur()
	v.emailInput.Blur()
	v.passwordInput.Blur()
	v.confirmInput.Blur()

	if in := v.focusedInput(); in != nil {
		in.Focus()
	}
}

// toggleMode switches between login and registration
func (v *LoginView) toggleMode() {
	v.isRegistering = !v.isRegistering
	v.err = nil
	v.notice = ""
	v.focusIndex = 0
	v.passwordInput.SetValue("")
	v.confirmInput.SetValue("")
	v.updateFocus()
}

// submit validates the form and starts the API call
func (v *LoginView) submit() tea.Cmd {
	v.err = nil
	v.notice = ""
	ctx := context.Background()

	if v.isRegistering {
		form := &forms.RegisterForm{
			Name:            v.nameInput.Value(),
			Email:           v.emailInput.Value(),
			Password:        v.passwordInput.Value(),
			ConfirmPassword: v.confirmInput.Value(),
		}
		if err := forms.Validate(ctx, form); err != nil {
			v.err = errors.New(v.failureMessage(err, true))
			return nil
		}
		v.loading = true
		return v.doRegister(form.Name, form.Email, form.Password)
	}

	form := &forms.LoginForm{
		Email:    v.emailInput.Value(),
		Password: v.passwordInput.Value(),
	}
	if err := forms.Validate(ctx, form); err != nil {
		v.err = errors.New(v.failureMessage(err, false))
		return nil
	}
	v.loading = true
	return v.doLogin(form.Email, form.Password)
}

func (v *LoginView) doLogin(email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		resp, err := v.client.Login(ctx, email, password)
		return loginResultMsg{email: email, resp: resp, err: err}
	}
}

func (v *LoginView) doRegister(name, email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		resp, err := v.client.Register(ctx, name, email, password)
		return loginResultMsg{registering: true, email: email, resp: resp, err: err}
	}
}
