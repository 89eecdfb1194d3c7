package commands

import (
	"github.com/fivetwenty-io/nearby-client/pkg/view"
	"github.com/spf13/cobra"
)

// NewAddAreaCommand creates the add-area command.
func NewAddAreaCommand() *cobra.Command {
	var (
		name     string
		location string
	)

	cmd := &cobra.Command{
		Use:   "add-area",
		Short: "Create an area",
		Long:  "Submit the add-area form of the areas collection and display the collection with the new row",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := commandContext(cmd)

			err = a.session.Start(ctx, a.entry)
			if err != nil {
				return err
			}

			if a.failed() {
				return a.render()
			}

			values := map[string]string{"name": name}
			if cmd.Flags().Changed("location") {
				values["location"] = location
			}

			err = a.session.Submit(ctx, values)
			if err != nil {
				return err
			}

			return a.render()
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "area name (required)")
	cmd.Flags().StringVarP(&location, "location", "l", "", "area location")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

// NewEditAreaCommand creates the edit-area command.
func NewEditAreaCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "edit-area HREF",
		Short: "Rename an area",
		Long:  "Submit the edit form of an area and display the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := commandContext(cmd)

			err = a.session.Open(ctx, args[0], view.AreaDetail)
			if err != nil {
				return err
			}

			if a.failed() {
				return a.render()
			}

			err = a.session.Submit(ctx, map[string]string{"name": name})
			if err != nil {
				return err
			}

			return a.render()
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "new area name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
