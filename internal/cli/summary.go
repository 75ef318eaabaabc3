package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"sales_ledger/internal/config"
	"sales_ledger/internal/report"
)

// NewSummaryCommand creates the summary command.
func NewSummaryCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print the ledger totals and tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			all, err := a.service.ListSales(cmd.Context())
			if err != nil {
				return err
			}
			return writeSummary(cmd.OutOrStdout(), rootOpts.Format, report.Summarize(all, cfg.Catalog))
		},
	}
}

func writeSummary(w io.Writer, format string, sum report.Summary) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	}

	fmt.Fprintf(w, "Total:      R$ %s\n", report.Money(sum.TotalRevenue))
	fmt.Fprintf(w, "Net profit: R$ %s\n", report.Money(sum.NetProfit))
	fmt.Fprintf(w, "Pending:    R$ %s\n\n", report.Money(sum.PendingRevenue))
	fmt.Fprintf(w, "Pending (%d)\n%s\n\n", len(sum.Pending), report.FormatTable(sum.Pending))
	fmt.Fprintf(w, "Last %d delivered (%d)\n%s\n", report.RecentDeliveredLimit, len(sum.Delivered),
		report.FormatTable(sum.RecentDelivered(report.RecentDeliveredLimit)))
	return nil
}
