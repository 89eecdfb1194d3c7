package commands

import (
	"fmt"

	"github.com/fivetwenty-io/nearby-client/internal/constants"
	"github.com/fivetwenty-io/nearby-client/pkg/view"
	"github.com/spf13/cobra"
)

// NewAreasCommand creates the areas command.
func NewAreasCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "areas",
		Aliases: []string{"ls"},
		Short:   "List areas",
		Long:    "Load the API entry point and display the areas collection",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			err = a.session.Start(commandContext(cmd), a.entry)
			if err != nil {
				return err
			}

			return a.render()
		},
	}
}

// NewShowCommand creates the show command.
func NewShowCommand() *cobra.Command {
	var as string

	cmd := &cobra.Command{
		Use:   "show HREF",
		Short: "Display any resource",
		Long:  "Load a resource by href and display it as the given view (areas, area or measurements)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := view.ParseKind(as)
			if err != nil {
				return fmt.Errorf("%w: %q", constants.ErrInvalidViewKind, as)
			}

			return openAndRender(cmd, args[0], kind)
		},
	}

	cmd.Flags().StringVar(&as, "as", string(view.AreaDetail), "view to render the resource with")

	return cmd
}

// NewMeasurementsCommand creates the measurements command.
func NewMeasurementsCommand() *cobra.Command {
	var pages int

	cmd := &cobra.Command{
		Use:   "measurements HREF",
		Short: "List measurements of an area",
		Long:  "Display one page of measurements, optionally following next links for more pages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := commandContext(cmd)

			err = a.session.Open(ctx, args[0], view.MeasurementsList)
			if err != nil {
				return err
			}

			for i := 1; i < pages; i++ {
				err = a.render()
				if err != nil {
					return err
				}

				next, ok := pagerLink(a.session.State().Page, "next")
				if !ok {
					return nil
				}

				err = a.session.Follow(ctx, next)
				if err != nil {
					return err
				}
			}

			return a.render()
		},
	}

	cmd.Flags().IntVar(&pages, "pages", 1, "number of pages to display")

	return cmd
}

func openAndRender(cmd *cobra.Command, href string, kind view.Kind) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	err = a.session.Open(commandContext(cmd), href, kind)
	if err != nil {
		return err
	}

	return a.render()
}

func pagerLink(page *view.Page, label string) (view.Link, bool) {
	if page == nil {
		return view.Link{}, false
	}

	for _, l := range page.Pager {
		if l.Label == label {
			return l, true
		}
	}

	return view.Link{}, false
}
