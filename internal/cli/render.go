package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/angelmondragon/pos-register/internal/payment"
	"github.com/angelmondragon/pos-register/internal/session"
	"github.com/angelmondragon/pos-register/pkg/enums"
	"github.com/angelmondragon/pos-register/pkg/types"
)

func renderSnapshot(out io.Writer, snap session.Snapshot) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	if len(snap.Lines) == 0 {
		fmt.Fprintln(tw, "  (cart empty)")
	} else {
		fmt.Fprintln(tw, "  LINE\tITEM\tQTY\tPRICE\tSUBTOTAL")
		for _, line := range snap.Lines {
			marker := " "
			if line.ID == snap.FocusedLineID {
				marker = "*"
			}
			fmt.Fprintf(tw, "%s %s\t%s\t%d\t%s\t%s\n",
				marker, line.ID, line.Name, line.Quantity, line.Price.StringFixed(2), line.Subtotal().StringFixed(2))
		}
	}
	_ = tw.Flush()

	fmt.Fprintf(out, "total %s | loyalty %d pts\n", snap.Total.StringFixed(2), snap.LoyaltyPoints)
	if snap.EntryTarget != enums.EntryTargetNone && snap.EntryTarget != "" {
		fmt.Fprintf(out, "entry %s [%s]: %q\n", snap.FocusedLineID, snap.EntryTarget, snap.EntryText)
	}
	if snap.Payment.Status == enums.PaymentStatusPending {
		fmt.Fprintf(out, "payment pending: %s %s\n", snap.Payment.Tender, snap.Payment.Amount.StringFixed(2))
	}
}

func renderMenu(out io.Writer, products []types.Product) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, p := range products {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", p.ID, p.Name, p.Price.StringFixed(2))
	}
	_ = tw.Flush()
}

func renderReceipt(out io.Writer, r payment.Receipt) {
	fmt.Fprintf(out, "paid %s by %s, +%d pts (balance %d)\n",
		r.Amount.StringFixed(2), r.Tender, r.PointsCredited, r.LoyaltyBalance)
}
