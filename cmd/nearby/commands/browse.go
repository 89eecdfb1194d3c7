package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/fivetwenty-io/nearby-client/internal/constants"
	"github.com/fivetwenty-io/nearby-client/pkg/form"
	"github.com/fivetwenty-io/nearby-client/pkg/ui"
	"github.com/fivetwenty-io/nearby-client/pkg/view"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	choiceQuit = "Quit"
)

// Prompter asks the user to pick an option or type a value.
type Prompter interface {
	Select(ctx context.Context, message string, options []string) (int, error)
	Input(ctx context.Context, message, defaultValue string, required bool) (string, error)
}

type surveyPrompter struct{}

func (surveyPrompter) Select(ctx context.Context, message string, options []string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var index int

	err := survey.AskOne(&survey.Select{Message: message, Options: options}, &index)
	if err != nil {
		return 0, err
	}

	return index, nil
}

func (surveyPrompter) Input(ctx context.Context, message, defaultValue string, required bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var opts []survey.AskOpt
	if required {
		opts = append(opts, survey.WithValidator(survey.Required))
	}

	var out string

	err := survey.AskOne(&survey.Input{Message: message, Default: defaultValue}, &out, opts...)
	if err != nil {
		return "", err
	}

	return out, nil
}

// NewBrowseCommand creates the browse command.
func NewBrowseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the API interactively",
		Long: `Start at the areas collection and navigate by choosing links. When the
current page has a form it can be filled in and submitted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return constants.ErrNotInteractive
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			return browse(commandContext(cmd), a, surveyPrompter{})
		},
	}
}

// browse runs the interactive loop until the user quits or interrupts.
func browse(ctx context.Context, a *app, prompter Prompter) error {
	err := a.session.Start(ctx, a.entry)
	if err != nil {
		return err
	}

	for {
		state := a.session.State()

		err = a.projector.Project(state)
		if err != nil {
			return fmt.Errorf("failed to render output: %w", err)
		}

		links, options := choices(state)
		if len(links) == 0 && (state.Page == nil || state.Page.Form == nil) {
			if a.failed() {
				return fmt.Errorf("%w: %s", constants.ErrOperationFailed, state.Notification.Message)
			}

			return constants.ErrNoActionsAvailable
		}

		index, err := prompter.Select(ctx, "Choose an action", options)
		if errors.Is(err, terminal.InterruptErr) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("prompt failed: %w", err)
		}

		switch {
		case index < len(links):
			err = a.session.Follow(ctx, links[index])
		case options[index] == choiceQuit:
			return nil
		default:
			err = fillForm(ctx, a.session, state.Page.Form, prompter)
		}

		if errors.Is(err, terminal.InterruptErr) {
			return nil
		}

		if errors.Is(err, form.ErrRequiredField) {
			a.logger.Warn("form not submitted", map[string]interface{}{"error": err.Error()})

			continue
		}

		if err != nil {
			return err
		}
	}
}

// choices lists the links of the page followed by the form and quit
// entries. The returned links line up with the first options.
func choices(state ui.State) ([]view.Link, []string) {
	var links []view.Link
	if state.Page != nil {
		links = state.Page.Links()
	}

	options := make([]string, 0, len(links)+2)
	for _, l := range links {
		options = append(options, fmt.Sprintf("%s (%s)", l.Label, l.Control.Href))
	}

	if state.Page != nil && state.Page.Form != nil {
		title := state.Page.Form.Title
		if title == "" {
			title = string(state.Page.Form.Intent)
		}

		options = append(options, "Form: "+title)
	}

	options = append(options, choiceQuit)

	return links, options
}

func fillForm(ctx context.Context, session *ui.Session, descriptor *form.Descriptor, prompter Prompter) error {
	values := make(map[string]string)

	for _, field := range descriptor.Editable() {
		label := field.Label
		if label == "" {
			label = field.Name
		}

		value, err := prompter.Input(ctx, label, field.Value, field.Required)
		if err != nil {
			return err
		}

		values[field.Name] = value
	}

	return session.Submit(ctx, values)
}
