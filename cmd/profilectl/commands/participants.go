package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func (c *cli) participantsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "participants",
		Short: "Manage the default participants of new sheets",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List default participants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.printNames(cmd.OutOrStdout(), c.app.Participants.List(cmd.Context()))
		},
	}

	add := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a default participant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := c.app.Participants.Add(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.printNames(cmd.OutOrStdout(), names)
		},
	}

	remove := &cobra.Command{
		Use:   "remove [name]",
		Short: "Remove a default participant; the profile is kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := c.app.Participants.Remove(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.printNames(cmd.OutOrStdout(), names)
		},
	}

	cmd.AddCommand(list, add, remove)
	return cmd
}

func (c *cli) printNames(w io.Writer, names []string) error {
	if c.asJSON {
		return c.printJSON(w, names)
	}
	for _, n := range names {
		fmt.Fprintln(w, n)
	}
	return nil
}
