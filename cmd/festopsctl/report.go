package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

const (
	FlagFrom = "from"
	FlagTo   = "to"
)

// GetReportCmd returns the cash-flow report command.
func GetReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the cash-flow report",
		Run: func(cmd *cobra.Command, args []string) {
			c, err := loginFromFlags(cmd)
			if err != nil {
				log.Fatal(err)
			}

			from, err := parseDateFlag(cmd, FlagFrom)
			if err != nil {
				log.Fatal(err)
			}
			to, err := parseDateFlag(cmd, FlagTo)
			if err != nil {
				log.Fatal(err)
			}

			report, err := c.CashFlow(context.Background(), from, to)
			if err != nil {
				log.Fatalf("cash-flow report: %v", err)
			}

			fmt.Printf("Cash flow %s .. %s\n",
				report.From.Format("2006-01-02"), report.To.Format("2006-01-02"))
			fmt.Printf("  paid:     %s\n", formatCents(report.TotalPaid))
			fmt.Printf("  pending:  %s\n", formatCents(report.TotalPending))
			fmt.Printf("  overdue:  %s\n", formatCents(report.TotalOverdue))
			fmt.Printf("  upcoming events: %d\n", report.UpcomingEvents)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "MONTH\tINCOME\tEXPECTED")
			for _, m := range report.Months {
				fmt.Fprintf(w, "%s\t%s\t%s\n",
					m.Month, formatCents(m.Income), formatCents(m.Expected))
			}
			w.Flush()
		},
	}
	cmd.Flags().String(FlagFrom, "", "range start (YYYY-MM-DD, default: server window)")
	cmd.Flags().String(FlagTo, "", "range end (YYYY-MM-DD)")
	return cmd
}

func parseDateFlag(cmd *cobra.Command, name string) (time.Time, error) {
	v, err := cmd.Flags().GetString(name)
	if err != nil || v == "" {
		return time.Time{}, err
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s flag: %w", name, err)
	}
	return t, nil
}

func init() {
	rootCmd.AddCommand(GetReportCmd())
}
