package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tasklist/internal/task"
	"tasklist/internal/view"
)

func newAddCommand(s *session) *cobra.Command {
	var opts struct {
		Priority string
		Due      string
		Category string
	}

	cmd := &cobra.Command{
		Use:   "add <title>...",
		Short: "Add a task",
		Example: `  todo add Buy milk
  todo add "Quarterly report" --priority high --due 2025-03-31 --category Work`,
		Args: cobra.MinimumNArgs(1),
		RunE: withSession(s, func(cmd *cobra.Command, args []string) error {
			if err := s.writable(); err != nil {
				return err
			}
			priority, err := task.ParsePriority(opts.Priority)
			if err != nil {
				return err
			}
			due, err := parseDue(opts.Due)
			if err != nil {
				return err
			}
			t, err := s.store.Create(cmd.Context(), task.Draft{
				Title:    strings.Join(args, " "),
				Priority: priority,
				DueDate:  due,
				Category: opts.Category,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s\n", shortID(t.ID), t.Title)
			s.noteCategory(cmd, t.Category)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&opts.Priority, "priority", "p", "medium", "low, medium or high")
	cmd.Flags().StringVarP(&opts.Due, "due", "d", "", "due date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&opts.Category, "category", "c", "", "category (default from config)")
	return cmd
}

func newListCommand(s *session) *cobra.Command {
	var opts struct {
		Search   string
		Priority string
		Category string
		Sort     string
	}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Example: `  todo list --sort priority
  todo list --search milk --category Shopping`,
		Args: cobra.NoArgs,
		RunE: withSession(s, func(cmd *cobra.Command, _ []string) error {
			if s.loadErr != nil {
				return s.loadErr
			}
			priority, err := view.ParsePriorityFilter(opts.Priority)
			if err != nil {
				return err
			}
			sortFlag := opts.Sort
			if !cmd.Flags().Changed("sort") {
				sortFlag = s.cfg.DefaultSort
			}
			sortMode, err := view.ParseSort(sortFlag)
			if err != nil {
				return err
			}
			category := strings.TrimSpace(opts.Category)
			if category == "" {
				category = view.All
			}

			tasks := view.Project(s.store.Tasks(), view.Criteria{
				Search:   strings.TrimSpace(opts.Search),
				Priority: priority,
				Category: category,
				Sort:     sortMode,
			})
			return printTasks(cmd.OutOrStdout(), tasks)
		}),
	}

	cmd.Flags().StringVarP(&opts.Search, "search", "s", "", "only titles containing this text")
	cmd.Flags().StringVarP(&opts.Priority, "priority", "p", view.All, "all, low, medium or high")
	cmd.Flags().StringVarP(&opts.Category, "category", "c", view.All, "all or a category")
	cmd.Flags().StringVar(&opts.Sort, "sort", "none", "none, due or priority")
	return cmd
}

func newEditCommand(s *session) *cobra.Command {
	var opts struct {
		Title    string
		Priority string
		Due      string
		NoDue    bool
		Category string
	}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a task's title, priority, due date or category",
		Example: `  todo edit 3f2a --priority high
  todo edit 3f2a --no-due --title "Call the bank"`,
		Args: cobra.ExactArgs(1),
		RunE: withSession(s, func(cmd *cobra.Command, args []string) error {
			if err := s.writable(); err != nil {
				return err
			}
			t, err := resolveID(s.store, args[0])
			if err != nil {
				return err
			}
			d := task.DraftOf(t)
			flags := cmd.Flags()
			if flags.Changed("title") {
				d.Title = opts.Title
			}
			if flags.Changed("priority") {
				if d.Priority, err = task.ParsePriority(opts.Priority); err != nil {
					return err
				}
			}
			if flags.Changed("due") {
				if d.DueDate, err = parseDue(opts.Due); err != nil {
					return err
				}
			}
			if opts.NoDue {
				d.DueDate = nil
			}
			if flags.Changed("category") {
				d.Category = opts.Category
			}
			if _, err := s.store.Update(cmd.Context(), t.ID, d); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", shortID(t.ID))
			if flags.Changed("category") {
				s.noteCategory(cmd, strings.TrimSpace(d.Category))
			}
			return nil
		}),
	}

	cmd.Flags().StringVarP(&opts.Title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&opts.Priority, "priority", "p", "", "low, medium or high")
	cmd.Flags().StringVarP(&opts.Due, "due", "d", "", "due date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&opts.NoDue, "no-due", false, "remove the due date")
	cmd.Flags().StringVarP(&opts.Category, "category", "c", "", "category")
	cmd.MarkFlagsMutuallyExclusive("due", "no-due")
	return cmd
}

func newToggleCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:     "toggle <id>",
		Aliases: []string{"done"},
		Short:   "Flip a task between open and completed",
		Args:    cobra.ExactArgs(1),
		RunE: withSession(s, func(cmd *cobra.Command, args []string) error {
			if err := s.writable(); err != nil {
				return err
			}
			t, err := resolveID(s.store, args[0])
			if err != nil {
				return err
			}
			if _, err := s.store.ToggleCompleted(cmd.Context(), t.ID); err != nil {
				return err
			}
			state := "completed"
			if t.Completed {
				state = "reopened"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", strings.ToUpper(state[:1])+state[1:], shortID(t.ID), t.Title)
			return nil
		}),
	}
}

func newRemoveCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: withSession(s, func(cmd *cobra.Command, args []string) error {
			if err := s.writable(); err != nil {
				return err
			}
			t, err := resolveID(s.store, args[0])
			if err != nil {
				return err
			}
			if _, err := s.store.Delete(cmd.Context(), t.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", shortID(t.ID), t.Title)
			return nil
		}),
	}
}

func parseDue(v string) (*task.Date, error) {
	if strings.TrimSpace(v) == "" {
		return nil, nil
	}
	d, err := task.ParseDate(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", task.ErrInvalidInput, err)
	}
	return &d, nil
}

func printTasks(out io.Writer, tasks []task.Task) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(out, "No tasks found")
		return err
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDONE\tPRIORITY\tTITLE\tCATEGORY\tDUE")
	for _, t := range tasks {
		done := " "
		if t.Completed {
			done = "x"
		}
		due := "-"
		if t.DueDate != nil {
			due = t.DueDate.String()
		}
		fmt.Fprintf(w, "%s\t[%s]\t%s\t%s\t%s\t%s\n", shortID(t.ID), done, t.Priority, t.Title, t.Category, due)
	}
	return w.Flush()
}
