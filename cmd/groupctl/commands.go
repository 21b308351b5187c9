package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/asakaida/groupperm/internal/entities"
	"github.com/asakaida/groupperm/internal/services"
	"github.com/spf13/cobra"
)

// serviceOpener returns a group service and a function releasing it
type serviceOpener func(env string) (services.GroupServiceInterface, func(), error)

type cli struct {
	open    serviceOpener
	env     string
	service services.GroupServiceInterface
}

func newRootCmd(open serviceOpener) *cobra.Command {
	c := &cli{open: open}

	rootCmd := &cobra.Command{
		Use:   "groupctl",
		Short: "Load and save permission groups",
		Long: `groupctl reads and writes permission groups in the group store.
Each group maps a name to a set of permissions stored as one boolean
column per permission.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&c.env, "env", "e", "dev", "Environment to use (dev, test, prod)")

	rootCmd.AddCommand(c.getCmd())
	rootCmd.AddCommand(c.setCmd())
	rootCmd.AddCommand(c.deleteCmd())
	rootCmd.AddCommand(c.listCmd())
	rootCmd.AddCommand(permsCmd())

	return rootCmd
}

// withService opens the store for the duration of one command
func (c *cli) withService(run func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		service, closeFn, err := c.open(c.env)
		if err != nil {
			return fmt.Errorf("failed to open group store: %w", err)
		}
		defer closeFn()

		c.service = service
		return run(cmd, args)
	}
}

func (c *cli) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <name>",
		Short:   "Show a group's permissions and mask",
		Args:    cobra.ExactArgs(1),
		RunE: c.withService(func(cmd *cobra.Command, args []string) error {
			group, err := c.service.GetGroup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printGroups(cmd.OutOrStdout(), group)
			return nil
		}),
	}
}

func (c *cli) setCmd() *cobra.Command {
	var (
		mask     uint32
		noUpsert bool
	)

	cmd := &cobra.Command{
		Use:   "set <name> [permission...]",
		Short: "Save a group's permissions",
		Long: `Save a group's permissions, given either as permission names or as a
bitmask with --mask. An existing group is overwritten unless --no-upsert
is set, in which case saving an existing name fails.`,
		Args:    cobra.MinimumNArgs(1),
		RunE: c.withService(func(cmd *cobra.Command, args []string) error {
			name, names := args[0], args[1:]
			upsert := !noUpsert

			var group *entities.Group
			if cmd.Flags().Changed("mask") {
				if len(names) > 0 {
					return errors.New("permissions and --mask are mutually exclusive")
				}
				saved, err := c.service.SaveMask(cmd.Context(), name, mask, upsert)
				if err != nil {
					return err
				}
				group = saved
			} else {
				perms, err := entities.ParsePermissionSet(names)
				if err != nil {
					return err
				}
				group = &entities.Group{Name: name, Permissions: perms}
				if err := c.service.SaveGroup(cmd.Context(), group, upsert); err != nil {
					return err
				}
			}

			printGroups(cmd.OutOrStdout(), group)
			return nil
		}),
	}
	cmd.Flags().Uint32Var(&mask, "mask", 0, "permission bitmask (undefined bits are ignored)")
	cmd.Flags().BoolVar(&noUpsert, "no-upsert", false, "fail if the group already exists")

	return cmd
}

func (c *cli) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <name>",
		Short:   "Delete a group",
		Args:    cobra.ExactArgs(1),
		RunE: c.withService(func(cmd *cobra.Command, args []string) error {
			deleted, err := c.service.DeleteGroup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !deleted {
				return fmt.Errorf("%w: %s", services.ErrGroupNotFound, args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		}),
	}
}

func (c *cli) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List all groups",
		Args:    cobra.NoArgs,
		RunE: c.withService(func(cmd *cobra.Command, args []string) error {
			groups, err := c.service.ListGroups(cmd.Context())
			if err != nil {
				return err
			}
			printGroups(cmd.OutOrStdout(), groups...)
			return nil
		}),
	}
}

func permsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "perms",
		Short: "Show the permission bit table",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "BIT\tVALUE\tNAME\tCOLUMN")
			for _, p := range entities.AllPermissions() {
				fmt.Fprintf(tw, "%d\t%d\t%s\t%s\n", p, p.Bit(), p, p.Column())
			}
			tw.Flush()
		},
	}
}

func printGroups(w io.Writer, groups ...*entities.Group) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tMASK\tPERMISSIONS")
	for _, group := range groups {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", group.Name, group.Mask(), group.Permissions)
	}
	tw.Flush()
}
