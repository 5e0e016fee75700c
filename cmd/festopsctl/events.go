package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"festops/internal/domain"
)

const (
	FlagStatus = "status"
	FlagSearch = "search"
	FlagPage   = "page"
	FlagLimit  = "limit"
)

// GetEventsCmd returns the events command group.
func GetEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "List and manage events",
	}
	cmd.AddCommand(getEventsListCmd())
	cmd.AddCommand(getEventsSetStatusCmd("confirm", domain.EventConfirmed))
	cmd.AddCommand(getEventsSetStatusCmd("cancel", domain.EventCancelled))
	return cmd
}

func getEventsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events",
		Run: func(cmd *cobra.Command, args []string) {
			c, err := loginFromFlags(cmd)
			if err != nil {
				log.Fatal(err)
			}

			q := listQueryFromFlags(cmd, "date")
			if status, _ := cmd.Flags().GetString(FlagStatus); status != "" {
				q = q.WithFilter(domain.FilterStatus, status)
			}

			events := c.Events()
			if err := events.Fetch(context.Background(), q); err != nil {
				log.Fatalf("fetch events: %v", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDATE\tSTATUS\tTITLE\tGUESTS\tTOTAL")
			for _, e := range events.Items() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
					e.ID, e.Date.Format("2006-01-02"), e.Status, e.Title, e.Guests, formatCents(e.TotalValue))
			}
			w.Flush()
			printPageFooter(events.Pagination())
		},
	}
	cmd.Flags().String(FlagStatus, "", "filter by status: pending | confirmed | completed | cancelled")
	addListFlags(cmd)
	return cmd
}

// getEventsSetStatusCmd builds "confirm" and "cancel", which only differ in
// the status they patch in.
func getEventsSetStatusCmd(use string, status domain.EventStatus) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <event-id>",
		Short: fmt.Sprintf("Mark an event %s", status),
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			c, err := loginFromFlags(cmd)
			if err != nil {
				log.Fatal(err)
			}

			events := c.Events()
			updated, err := events.Update(context.Background(), args[0], domain.UpdateEventRequest{Status: &status})
			if err != nil {
				log.Fatalf("update event: %v", err)
			}
			fmt.Printf("%s: %s (%s)\n", updated.ID, updated.Title, updated.Status)
		},
	}
}

func addListFlags(cmd *cobra.Command) {
	cmd.Flags().String(FlagSearch, "", "search term")
	cmd.Flags().Int(FlagPage, 1, "page number")
	cmd.Flags().Int(FlagLimit, domain.DefaultLimit, "page size")
}

func listQueryFromFlags(cmd *cobra.Command, sortBy string) domain.ListQuery {
	page, _ := cmd.Flags().GetInt(FlagPage)
	limit, _ := cmd.Flags().GetInt(FlagLimit)
	search, _ := cmd.Flags().GetString(FlagSearch)
	return domain.ListQuery{
		Page:      page,
		Limit:     limit,
		Search:    search,
		SortBy:    sortBy,
		SortOrder: domain.SortAsc,
	}
}

func printPageFooter(p domain.Pagination) {
	fmt.Printf("page %d/%d, %d total\n", p.Page, p.TotalPages, p.Total)
}

// formatCents renders an int64 cents amount as reais.
func formatCents(v int64) string {
	return fmt.Sprintf("R$ %d.%02d", v/100, v%100)
}

func init() {
	rootCmd.AddCommand(GetEventsCmd())
}
