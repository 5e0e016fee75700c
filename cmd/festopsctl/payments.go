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

const FlagEventID = "event-id"

// GetPaymentsCmd returns the payments command group.
func GetPaymentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payments",
		Short: "List payments and mark them paid",
	}
	cmd.AddCommand(getPaymentsListCmd())
	cmd.AddCommand(getPaymentsPayCmd())
	return cmd
}

func getPaymentsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List payments",
		Run: func(cmd *cobra.Command, args []string) {
			c, err := loginFromFlags(cmd)
			if err != nil {
				log.Fatal(err)
			}

			q := listQueryFromFlags(cmd, "dueDate")
			if status, _ := cmd.Flags().GetString(FlagStatus); status != "" {
				q = q.WithFilter(domain.FilterStatus, status)
			}
			if eventID, _ := cmd.Flags().GetString(FlagEventID); eventID != "" {
				q = q.WithFilter(domain.FilterEventID, eventID)
			}

			payments := c.Payments()
			if err := payments.Fetch(context.Background(), q); err != nil {
				log.Fatalf("fetch payments: %v", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDUE\tSTATUS\tMETHOD\tAMOUNT")
			for _, p := range payments.Items() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					p.ID, p.DueDate.Format("2006-01-02"), p.Status, p.Method, formatCents(p.Amount))
			}
			w.Flush()
			printPageFooter(payments.Pagination())
		},
	}
	cmd.Flags().String(FlagStatus, "", "filter by status: pending | paid | overdue")
	cmd.Flags().String(FlagEventID, "", "filter by event")
	addListFlags(cmd)
	return cmd
}

func getPaymentsPayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pay <payment-id>",
		Short: "Mark a payment paid",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			c, err := loginFromFlags(cmd)
			if err != nil {
				log.Fatal(err)
			}

			status := domain.PaymentPaid
			payments := c.Payments()
			updated, err := payments.Update(context.Background(), args[0], domain.UpdatePaymentRequest{Status: &status})
			if err != nil {
				log.Fatalf("update payment: %v", err)
			}
			paidAt := "now"
			if updated.PaidAt != nil {
				paidAt = updated.PaidAt.Format("2006-01-02")
			}
			fmt.Printf("%s: %s paid at %s\n", updated.ID, formatCents(updated.Amount), paidAt)
		},
	}
}

func init() {
	rootCmd.AddCommand(GetPaymentsCmd())
}
