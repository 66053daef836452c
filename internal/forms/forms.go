// Package forms cleans and validates what the user types before anything is
// sent to the backend or the catalog.
package forms

import (
	"context"

	"github.com/go-playground/mold/v4"
	"github.com/go-playground/mold/v4/modifiers"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/palavraria/palavraria-t/internal/library"
)

// User-facing validation messages
const (
	MsgFillAll          = "Por favor, preencha todos os campos."
	MsgPasswordMismatch = "As senhas não coincidem."
	MsgPasswordTooShort = "A senha deve ter pelo menos 6 caracteres."
	MsgInvalidPages     = "Número de páginas inválido."
	MsgEmptySearch      = "Digite algo para buscar"
)

// MinPasswordLength is enforced on registration only
const MinPasswordLength = 6

// tagMessages is checked in order; the first failing tag decides the message
var tagMessages = []struct {
	tag string
	msg string
}{
	{"required", MsgFillAll},
	{"eqfield", MsgPasswordMismatch},
	{"min", MsgPasswordTooShort},
	{"number", MsgInvalidPages},
}

// Error is a validation failure carrying the message to show
type Error struct {
	Message string
	Fields  []string
}

func (e *Error) Error() string {
	return e.Message
}

// LoginForm is the login screen
type LoginForm struct {
	Email    string `mod:"trim" validate:"required"`
	Password string `validate:"required"`
}

// RegisterForm is the account creation screen
type RegisterForm struct {
	Name            string `mod:"trim" validate:"required"`
	Email           string `mod:"trim" validate:"required"`
	Password        string `validate:"required,min=6"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
}

// AddBookForm is the "add to library" dialog
type AddBookForm struct {
	Pages string `mod:"trim" validate:"omitempty,number"`
	Notes string `mod:"trim"`
}

// Overrides converts the dialog to normalizer input
func (f AddBookForm) Overrides() library.Overrides {
	return library.Overrides{PageCount: f.Pages, Notes: f.Notes}
}

// SearchForm is the catalog search box
type SearchForm struct {
	Query string `mod:"trim" validate:"required"`
}

func (SearchForm) requiredMessage() string { return MsgEmptySearch }

type requiredMessager interface {
	requiredMessage() string
}

// Validator trims and validates forms
type Validator struct {
	conform  *mold.Transformer
	validate *validator.Validate
}

// New creates a Validator
func New() *Validator {
	return &Validator{
		conform:  modifiers.New(),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

var std = New()

// Validate cleans and validates form with the package validator
func Validate(ctx context.Context, form interface{}) error {
	return std.Validate(ctx, form)
}

// Validate trims the form in place and checks it. form must be a pointer.
// Validation failures are returned as *Error.
func (v *Validator) Validate(ctx context.Context, form interface{}) error {
	if err := v.conform.Struct(ctx, form); err != nil {
		return errors.Wrap(err, "clean form")
	}

	err := v.validate.StructCtx(ctx, form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.WithStack(err)
	}

	failed := make(map[string]bool, len(verrs))
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		failed[fe.Tag()] = true
		fields = append(fields, fe.Field())
	}

	for _, tm := range tagMessages {
		if !failed[tm.tag] {
			continue
		}
		msg := tm.msg
		if tm.tag == "required" {
			if rm, ok := form.(requiredMessager); ok {
				msg = rm.requiredMessage()
			}
		}
		return &Error{Message: msg, Fields: fields}
	}
	return &Error{Message: verrs[0].Error(), Fields: fields}
}
