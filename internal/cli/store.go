package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/topicmap/pkg/hierarchy"
	"github.com/matzehuels/topicmap/pkg/pipeline"
	"github.com/matzehuels/topicmap/pkg/store"
)

// storeCommand creates the hierarchy store management command.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage stored hierarchies",
		Long: `Manage stored hierarchies.

Stored hierarchies can be laid out by ID through the HTTP API
(GET /api/v1/hierarchies/{id}/layout). The backend is chosen in the config
file: a directory of JSON files (default) or a MongoDB collection.`,
	}

	cmd.AddCommand(c.storeAddCommand())
	cmd.AddCommand(c.storeListCommand())
	cmd.AddCommand(c.storeShowCommand())
	cmd.AddCommand(c.storeRemoveCommand())

	return cmd
}

// withStore opens the configured store for the duration of fn.
func (c *CLI) withStore(ctx context.Context, fn func(store.Store) error) error {
	st, err := c.newStore(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()
	return fn(st)
}

func (c *CLI) storeAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add [hierarchy.json|yaml|toml]",
		Short: "Validate and store a hierarchy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			h, err := pipeline.DecodeSource(ctx, args[0])
			if err != nil {
				return fmt.Errorf("load hierarchy %s: %w", args[0], err)
			}
			return c.withStore(ctx, func(st store.Store) error {
				rec, err := st.Create(ctx, h)
				if err != nil {
					return err
				}
				printSuccess("Stored %s", StyleValue.Render(rec.Title))
				printKeyValue("ID", rec.ID)
				printKeyValue("Nodes", strconv.Itoa(rec.Stats.Nodes()))
				return nil
			})
		},
	}
}

func (c *CLI) storeListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored hierarchies, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(st store.Store) error {
				list, err := st.List(ctx)
				if err != nil {
					return err
				}
				if len(list) == 0 {
					printInfo("No stored hierarchies")
					return nil
				}
				fmt.Println(summaryTable(list))
				return nil
			})
		},
	}
}

// summaryTable renders stored hierarchies as a bordered table.
func summaryTable(list []store.Summary) string {
	rows := make([][]string, 0, len(list))
	for _, s := range list {
		rows = append(rows, []string{
			s.ID,
			s.Title,
			strconv.Itoa(s.Stats.Topics),
			strconv.Itoa(s.Stats.Nodes()),
			s.CreatedAt.Local().Format(time.DateTime),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Title", "Topics", "Nodes", "Created").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 || col == 4 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		}).
		String()
}

func (c *CLI) storeShowCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show a stored hierarchy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(st store.Store) error {
				rec, err := st.Get(ctx, args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return hierarchy.WriteJSON(cmd.OutOrStdout(), rec.Hierarchy)
				}
				printKeyValue("ID", rec.ID)
				printKeyValue("Title", rec.Title)
				printKeyValue("Created", rec.CreatedAt.Local().Format(time.DateTime))
				printKeyValue("Topics", strconv.Itoa(rec.Stats.Topics))
				printKeyValue("Subtopics", strconv.Itoa(rec.Stats.Subtopics))
				printKeyValue("Key points", strconv.Itoa(rec.Stats.KeyPoints+rec.Stats.SubKeyPoints))
				printNewline()
				for i, t := range rec.Hierarchy.Topics() {
					printInfo("%s %s", StyleDim.Render(fmt.Sprintf("t%d", i)), t.Title)
					for j, sub := range t.Subtopics {
						printDetail("t%d-s%d %s", i, j, sub.Title)
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the hierarchy as JSON")
	return cmd
}

func (c *CLI) storeRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm [id]",
		Aliases: []string{"remove", "delete"},
		Short:   "Remove a stored hierarchy",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(st store.Store) error {
				if err := st.Delete(ctx, args[0]); err != nil {
					return err
				}
				printSuccess("Removed %s", args[0])
				return nil
			})
		},
	}
}
