package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/angelmondragon/pos-register/internal/numpad"
	"github.com/angelmondragon/pos-register/pkg/enums"
	pkgerrors "github.com/angelmondragon/pos-register/pkg/errors"
)

// commands builds a fresh tree per line so flag state never carries over.
func (t *Terminal) commands() *cobra.Command {
	root := &cobra.Command{
		Use:           "register",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(t.out)
	root.SetErr(t.out)
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(
		&cobra.Command{
			Use:   "menu",
			Short: "List the catalog",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				products, err := t.svc.Catalog(cmd.Context())
				if err != nil {
					return err
				}
				renderMenu(t.out, products)
				return nil
			},
		},
		&cobra.Command{
			Use:   "add PRODUCT_ID",
			Short: "Add one unit of a product",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := t.svc.SelectProduct(cmd.Context(), args[0])
				return err
			},
		},
		&cobra.Command{
			Use:   "focus LINE_ID [quantity|price|none]",
			Short: "Point the keypad at a line field",
			Args:  cobra.RangeArgs(1, 2),
			RunE: func(cmd *cobra.Command, args []string) error {
				target := enums.EntryTargetQuantity
				if len(args) == 2 {
					parsed, err := enums.ParseEntryTarget(args[1])
					if err != nil {
						return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid entry target")
					}
					target = parsed
				}
				_, err := t.svc.FocusLine(cmd.Context(), args[0], target)
				return err
			},
		},
		&cobra.Command{
			Use:   "key KEY...",
			Short: "Press keypad keys (digits, '.', backspace, clear)",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				keys, err := parseKeys(args)
				if err != nil {
					return err
				}
				for _, k := range keys {
					if _, err := t.svc.NumpadKey(cmd.Context(), k); err != nil {
						return err
					}
				}
				return nil
			},
		},
		&cobra.Command{
			Use:     "enter",
			Aliases: []string{"commit"},
			Short:   "Commit the keypad entry",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				_, err := t.svc.CommitEntry(cmd.Context())
				return err
			},
		},
		&cobra.Command{
			Use:   "qty LINE_ID QUANTITY",
			Short: "Set a line quantity directly",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				quantity, err := strconv.Atoi(args[1])
				if err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeParse, err, "quantity must be a whole number")
				}
				_, err = t.svc.SetQuantity(cmd.Context(), args[0], quantity)
				return err
			},
		},
		&cobra.Command{
			Use:   "rm LINE_ID",
			Short: "Remove a line",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := t.svc.RemoveLine(cmd.Context(), args[0])
				return err
			},
		},
		&cobra.Command{
			Use:   "pay TENDER",
			Short: "Start a payment session",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				result, err := t.svc.InitiatePayment(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(t.out, "awaiting %s payment of %s (session %s)\n",
					result.Session.Tender, result.Session.Amount.StringFixed(2), result.Session.ID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "ack",
			Short: "Acknowledge the pending payment as complete",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				result, err := t.svc.AcknowledgePaymentComplete(cmd.Context())
				if err != nil {
					return err
				}
				renderReceipt(t.out, result.Receipt)
				return nil
			},
		},
		&cobra.Command{
			Use:   "cancel",
			Short: "Cancel the pending payment",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				_, err := t.svc.CancelPayment(cmd.Context())
				return err
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the current register state",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				renderSnapshot(t.out, t.svc.Snapshot(cmd.Context()))
				return nil
			},
		},
		&cobra.Command{
			Use:     "quit",
			Aliases: []string{"exit"},
			Short:   "Leave the register",
			Args:    cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				return errQuit
			},
		},
	)
	return root
}

// parseKeys accepts labels and runs of digits and points such as "3.99".
func parseKeys(args []string) ([]numpad.Key, error) {
	var keys []numpad.Key
	for _, arg := range args {
		if k, err := numpad.ParseKey(arg); err == nil {
			keys = append(keys, k)
			continue
		}
		if strings.Trim(arg, "0123456789.") != "" {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "unknown keypad key %q", arg)
		}
		for i := 0; i < len(arg); i++ {
			k, err := numpad.ParseKey(arg[i : i+1])
			if err != nil {
				return nil, err
			}
			keys = append(keys, k)
		}
	}
	return keys, nil
}
