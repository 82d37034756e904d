package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/uptrace/bun/migrate"
)

// NewUser is the input of the user bootstrap form.
type NewUser struct {
	Username string
	Email    string
	Password string
	Verified bool
}

// Complete reports whether every required field is set, so the form can be
// skipped.
func (u *NewUser) Complete() bool {
	return u.Username != "" && u.Email != "" && u.Password != ""
}

// RunUserForm asks for the fields of u that are still empty.
func RunUserForm(u *NewUser) error {
	var fields []huh.Field
	if u.Username == "" {
		fields = append(fields, huh.NewInput().
			Title("Username").
			Value(&u.Username).
			Validate(required("username")))
	}
	if u.Email == "" {
		fields = append(fields, huh.NewInput().
			Title("Email").
			Placeholder("someone@example.com").
			Value(&u.Email).
			Validate(required("email")))
	}
	if u.Password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&u.Password).
			Validate(required("password")))
	}
	fields = append(fields, huh.NewConfirm().
		Title("Mark the email as verified?").
		Value(&u.Verified))

	return huh.NewForm(huh.NewGroup(fields...)).WithTheme(huh.ThemeCatppuccin()).Run()
}

// Confirm asks a yes/no question and defaults to no.
func Confirm(question string) (bool, error) {
	var ok bool
	err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(question).
			Affirmative("Yes").
			Negative("No").
			Value(&ok),
	)).WithTheme(huh.ThemeCatppuccin()).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}

// PrintMigrationStatus prints every migration with whether it is applied.
func PrintMigrationStatus(ms migrate.MigrationSlice) {
	fmt.Println(titleStyle.Render("Migrations"))
	for _, m := range ms {
		state := subtleStyle.Render("pending")
		if m.IsApplied() {
			state = successStyle.Render(fmt.Sprintf("applied (group #%d)", m.GroupID))
		}
		fmt.Printf("  %s  %s\n", m.String(), state)
	}
	if len(ms.Unapplied()) == 0 {
		fmt.Println(subtleStyle.Render("  database is up to date"))
	}
	fmt.Println()
}

// PrintGroup reports the outcome of a migrate or rollback run.
func PrintGroup(verb string, group *migrate.MigrationGroup) {
	if group == nil || group.IsZero() {
		fmt.Println(subtleStyle.Render("Nothing to " + verb))
		return
	}
	fmt.Println(successStyle.Render(fmt.Sprintf("%s %s", strings.ToUpper(verb[:1])+verb[1:], group)))
}

// PrintSuccess prints a success line.
func PrintSuccess(msg string) {
	fmt.Println(successStyle.Render(msg))
}

// PrintWarning prints a warning line.
func PrintWarning(msg string) {
	fmt.Println(warnStyle.Render(msg))
}

// PrintError prints an error message.
func PrintError(msg string) {
	fmt.Println(errorStyle.Render("Error: " + msg))
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
