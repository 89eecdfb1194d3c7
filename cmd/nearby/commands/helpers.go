package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/fivetwenty-io/nearby-client/internal/constants"
	"github.com/fivetwenty-io/nearby-client/internal/events"
	"github.com/fivetwenty-io/nearby-client/internal/logging"
	"github.com/fivetwenty-io/nearby-client/pkg/mason"
	"github.com/fivetwenty-io/nearby-client/pkg/masonclient"
	"github.com/fivetwenty-io/nearby-client/pkg/navigator"
	"github.com/fivetwenty-io/nearby-client/pkg/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config keys shared between flags, the config file and the environment.
const (
	keyAPI           = "api"
	keyEntryPoint    = "entry_point"
	keyOutput        = "output"
	keyLogLevel      = "log_level"
	keyVerbose       = "verbose"
	keyTimeout       = "timeout"
	keyRetryMax      = "retry_max"
	keyNATSURL       = "events.nats_url"
	keySubjectPrefix = "events.subject_prefix"
)

// app bundles everything a command needs to drive one session.
type app struct {
	session   *ui.Session
	projector *ui.Projector
	publisher events.Publisher
	logger    *logging.Logger
	entry     string
}

// Close releases the event publisher.
func (a *app) Close() {
	err := a.publisher.Close()
	if err != nil {
		a.logger.Warn("closing event publisher failed", map[string]interface{}{"error": err.Error()})
	}
}

// render writes the current session state and reports a failed operation
// as an error so the process exits non-zero.
func (a *app) render() error {
	state := a.session.State()

	err := a.projector.Project(state)
	if err != nil {
		return fmt.Errorf("failed to render output: %w", err)
	}

	if a.failed() {
		return fmt.Errorf("%w: %s", constants.ErrOperationFailed, state.Notification.Message)
	}

	return nil
}

// failed reports whether the last transition ended in an error notification.
func (a *app) failed() bool {
	n := a.session.State().Notification

	return n != nil && n.Level == navigator.LevelError
}

func newLogger(w io.Writer) *logging.Logger {
	level := viper.GetString(keyLogLevel)
	if viper.GetBool(keyVerbose) {
		level = "debug"
	}

	return logging.New(w, level, true)
}

func clientConfig(logger mason.Logger) *mason.Config {
	endpoint := viper.GetString(keyAPI)
	if endpoint == "" {
		endpoint = constants.DefaultAPIEndpoint
	}

	return &mason.Config{
		APIEndpoint:  endpoint,
		EntryPoint:   viper.GetString(keyEntryPoint),
		HTTPTimeout:  viper.GetDuration(keyTimeout),
		RetryMax:     viper.GetInt(keyRetryMax),
		RetryWaitMin: constants.DefaultRetryWaitMin,
		RetryWaitMax: constants.ExtendedRetryWaitMax,
		Debug:        viper.GetBool(keyVerbose),
		Logger:       logger,
	}
}

func newPublisher(logger *logging.Logger) (events.Publisher, error) {
	url := viper.GetString(keyNATSURL)
	if url == "" {
		return events.Nop{}, nil
	}

	publisher, err := events.NewNATSPublisher(events.NATSConfig{
		URL:           url,
		Name:          constants.NATSClientName,
		SubjectPrefix: viper.GetString(keySubjectPrefix),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect event publisher: %w", err)
	}

	logger.Debug("publishing session events", map[string]interface{}{"url": url})

	return publisher, nil
}

// newApp wires transport, navigator, session and projector from the
// current configuration. Output goes to the command's stdout and logs to
// its stderr.
func newApp(cmd *cobra.Command) (*app, error) {
	logger := newLogger(cmd.ErrOrStderr())

	projector, err := ui.NewProjector(cmd.OutOrStdout(), viper.GetString(keyOutput))
	if err != nil {
		return nil, err
	}

	config := clientConfig(logger.With("http"))

	transport, err := masonclient.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	publisher, err := newPublisher(logger)
	if err != nil {
		return nil, err
	}

	nav := navigator.New(transport, navigator.WithLogger(logger.With("navigator")))
	session := ui.NewSession(nav,
		ui.WithPublisher(publisher),
		ui.WithSessionLogger(logger.With("session")),
	)

	entry := config.EntryPoint
	if entry == "" {
		entry = constants.DefaultEntryPoint
	}

	return &app{
		session:   session,
		projector: projector,
		publisher: publisher,
		logger:    logger,
		entry:     entry,
	}, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}
