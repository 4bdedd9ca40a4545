package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aanand-mishra/deals-registry/internal/registry"
	"github.com/aanand-mishra/deals-registry/internal/render"
	"github.com/aanand-mishra/deals-registry/internal/types"
)

func newStudentsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "students",
		Short: "List, register and delete students",
	}
	cmd.AddCommand(newStudentsListCmd(a), newStudentsAddCmd(a), newStudentsRmCmd(a))
	return cmd
}

func newStudentsListCmd(a *app) *cobra.Command {
	var term string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List students, optionally filtered by name, code or email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, closeStore, err := a.openRegistry()
			if err != nil {
				return err
			}
			defer closeStore()

			res := reg.Search(term)
			printStudents(cmd.OutOrStdout(), render.Students(res.Students, res.Total))
			return nil
		},
	}
	cmd.Flags().StringVarP(&term, "query", "q", "", "search term")
	return cmd
}

func printStudents(out io.Writer, listing render.StudentListing) {
	if len(listing.Cards) == 0 {
		fmt.Fprintln(out, listing.Message)
		return
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tNAME\tEMAIL\tCAREER\tSEMESTER\tREGISTERED")
	for _, c := range listing.Cards {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n", c.ID, c.Name, c.Email, c.Career, c.Semester, c.RegistrationDate)
	}
	tw.Flush()
	fmt.Fprintf(out, "Total: %d\n", listing.Total)
}

func newStudentsAddCmd(a *app) *cobra.Command {
	var in types.StudentInput
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a student",
		Long: `Register a student. Every field is validated; nothing is stored unless
all of them pass.

Careers: systems-engineering, software-engineering, computer-science, web-development

Example:
  registryctl students add --id A001 --name "Ana Ruiz" --email ana@x.com \
    --career systems-engineering --semester 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, closeStore, err := a.openRegistry()
			if err != nil {
				return err
			}
			defer closeStore()

			student, res := reg.Register(in)
			if !res.Valid {
				for _, f := range registry.Fields() {
					if msg := res.Error(f); msg != "" {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", f, msg)
					}
				}
				return errors.New("student not registered")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "registered %s (%s) on %s\n", student.Name, student.ID, student.RegistrationDate)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.ID, "id", "", "student code")
	cmd.Flags().StringVar(&in.Name, "name", "", "full name")
	cmd.Flags().StringVar(&in.Email, "email", "", "email address")
	cmd.Flags().StringVar(&in.Career, "career", "", "career code")
	cmd.Flags().IntVar(&in.Semester, "semester", 0, "semester, 1 to 10")
	return cmd
}

func newStudentsRmCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a student after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, closeStore, err := a.openRegistry()
			if err != nil {
				return err
			}
			defer closeStore()

			s, err := reg.Get(args[0])
			if err != nil {
				return err
			}

			confirmed := yes
			if !confirmed {
				fmt.Fprintf(cmd.OutOrStdout(), "Delete %s (%s)? [y/N] ", s.Name, s.ID)
				confirmed = readYes(cmd.InOrStdin())
			}

			if err := reg.Delete(s.ID, confirmed); err != nil {
				if errors.Is(err, registry.ErrConfirmationRequired) {
					fmt.Fprintln(cmd.OutOrStdout(), "cancelled")
					return nil
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", s.ID)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func readYes(in io.Reader) bool {
	line, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
