package cli

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/diewo77/offermaster/client"
	"github.com/diewo77/offermaster/internal/quoteview"
)

func newQuotesCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quotes",
		Short: "List and create quotes",
	}
	cmd.AddCommand(newQuotesListCommand(e), newQuotesCreateCommand(e))
	return cmd
}

func newQuotesListCommand(e *env) *cobra.Command {
	var project, from, to, sortField, order string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show quotes, filtered and sorted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			q := url.Values{}
			for k, v := range map[string]string{"project": project, "from": from, "to": to, "sort": sortField, "order": order} {
				if v != "" {
					q.Set(k, v)
				}
			}
			f, s, err := quoteview.FromQuery(q, nil)
			if err != nil {
				return fmt.Errorf("invalid filter: %w", err)
			}

			c, err := e.client()
			if err != nil {
				return err
			}
			screen := client.NewQuotesScreen(c)
			screen.SetSort(s)
			if err := screen.SetFilter(cmd.Context(), f); err != nil {
				return e.fail(err)
			}

			tw := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tPROJECT\tITEMS\tDISCOUNT\tTOTAL")
			for _, qt := range screen.Visible() {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s%%\t%s\n",
					qt.ID,
					qt.CreatedAt.Local().Format("2006-01-02 15:04"),
					screen.ProjectName(qt.ProjectID),
					len(qt.Items),
					qt.Discount.StringFixed(2),
					screen.Total(qt).StringFixed(2),
				)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&project, "project", "all", "all, none or a project ID")
	cmd.Flags().StringVar(&from, "from", "", "first creation day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last creation day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&sortField, "sort", "", "createdAt, id or totalAmount")
	cmd.Flags().StringVar(&order, "order", "", "asc or desc")
	return cmd
}

// parseItem reads an "articleID:quantity" flag value.
func parseItem(raw string) (uint, string, error) {
	id, qty, ok := strings.Cut(raw, ":")
	if !ok {
		qty = "1"
	}
	n, err := strconv.ParseUint(strings.TrimSpace(id), 10, 64)
	if err != nil || n == 0 {
		return 0, "", fmt.Errorf("invalid item %q: want articleID:quantity", raw)
	}
	return uint(n), strings.TrimSpace(qty), nil
}

// selectionFromItems builds a Selection; repeated articles add up.
func selectionFromItems(items []string) (*quoteview.Selection, error) {
	sel := &quoteview.Selection{}
	for _, raw := range items {
		id, qty, err := parseItem(raw)
		if err != nil {
			return nil, err
		}
		n, err := strconv.Atoi(qty)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid quantity in %q", raw)
		}
		sel.SetQuantity(id, strconv.Itoa(sel.Quantity(id)+n))
	}
	return sel, nil
}

func newQuotesCreateCommand(e *env) *cobra.Command {
	var items []string
	var discount, description string
	var projectID uint
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Submit a new quote",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sel, err := selectionFromItems(items)
			if err != nil {
				return err
			}
			draft := client.QuoteDraft{Description: description}
			if discount != "" {
				d, err := decimal.NewFromString(discount)
				if err != nil {
					return fmt.Errorf("invalid discount %q", discount)
				}
				draft.Discount = &d
			}
			if projectID != 0 {
				draft.ProjectID = &projectID
			}

			c, err := e.client()
			if err != nil {
				return err
			}
			id, _, err := client.NewQuoteSubmitter(c).Submit(cmd.Context(), sel, draft)
			if err != nil {
				return e.fail(err)
			}
			fmt.Fprintf(e.out, "Created quote %d\n", id)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&items, "item", nil, "articleID:quantity, repeatable")
	cmd.Flags().StringVar(&discount, "discount", "", "discount percentage 0-100")
	cmd.Flags().UintVar(&projectID, "project", 0, "file the quote under this project")
	cmd.Flags().StringVar(&description, "description", "", "free text shown on the PDF")
	_ = cmd.MarkFlagRequired("item")
	return cmd
}
