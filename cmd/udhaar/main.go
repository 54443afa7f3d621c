package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/finbook/udhaar/internal/adapter/rest"
	"github.com/finbook/udhaar/internal/currency"
	"github.com/finbook/udhaar/internal/domain"
	"github.com/finbook/udhaar/internal/infrastructure/config"
)

var (
	baseURL      string
	token        string
	timeout      time.Duration
	retryElapsed time.Duration
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if err := newRootCmd(cfg).Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Environment configuration seeds the
// flag defaults, so flags always win over FINANCE_API_URL and friends.
func newRootCmd(cfg *config.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "udhaar",
		Short: "Borrowing and lending ledger CLI",
		Long:  `A command line interface for tracking money borrowed from and lent to others.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", cfg.FinanceAPIURL, "Base URL of the finance API")
	rootCmd.PersistentFlags().StringVar(&token, "token", cfg.AuthToken, "Bearer token for authentication")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", cfg.HTTPTimeout, "Request timeout")
	rootCmd.PersistentFlags().DurationVar(&retryElapsed, "retry", cfg.RetryElapsed, "Retry transient read failures for up to this long (0 disables)")

	rootCmd.AddCommand(kindCommands(domain.KindBorrowing))
	rootCmd.AddCommand(kindCommands(domain.KindLending))

	return rootCmd
}

// kindNouns holds the user-facing vocabulary for one side of the ledger.
type kindNouns struct {
	use       string
	short     string
	person    string
	eventVerb string
	eventNoun string
	dateFlag  string
}

func nounsFor(kind domain.Kind) kindNouns {
	if kind == domain.KindLending {
		return kindNouns{
			use:       "lendings",
			short:     "Money lent to others",
			person:    "borrower",
			eventVerb: "collect",
			eventNoun: "collection",
			dateFlag:  "collected on",
		}
	}
	return kindNouns{
		use:       "borrowings",
		short:     "Money borrowed from others",
		person:    "lender",
		eventVerb: "repay",
		eventNoun: "repayment",
		dateFlag:  "repaid on",
	}
}

func newClient(kind domain.Kind) *rest.Client {
	var opts []rest.TransportOption
	if retryElapsed > 0 {
		opts = append(opts, rest.WithRetry(retryElapsed))
	}
	httpClient := rest.NewHTTPClient(rest.StaticSession(token), timeout, opts...)
	if kind == domain.KindLending {
		return rest.NewLendings(baseURL, httpClient)
	}
	return rest.NewBorrowings(baseURL, httpClient)
}

func kindCommands(kind domain.Kind) *cobra.Command {
	nouns := nounsFor(kind)

	cmd := &cobra.Command{
		Use:   nouns.use,
		Short: nouns.short,
	}

	var (
		statusFilter string
		nameFilter   string
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List agreements",
		RunE: func(cmd *cobra.Command, args []string) error {
			agreements, err := newClient(kind).List(cmd.Context(), domain.ListFilter{
				Status:       domain.Status(statusFilter),
				Counterparty: nameFilter,
			})
			if err != nil {
				return err
			}
			printList(agreements, nouns)
			return nil
		},
	}
	listCmd.Flags().StringVar(&statusFilter, "status", "", "Filter by status")
	listCmd.Flags().StringVar(&nameFilter, nouns.person, "", "Filter by "+nouns.person+" name")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one agreement with its " + nouns.eventNoun + "s",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detail, err := newClient(kind).Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printDetail(detail, nouns)
			return nil
		},
	}

	var (
		addPerson  string
		addAmount  string
		addCcy     string
		addDate    string
		addDue     string
		addPurpose string
	)
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new agreement",
		RunE: func(cmd *cobra.Command, args []string) error {
			principal, err := decimal.NewFromString(addAmount)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", addAmount, err)
			}
			start, err := parseDateFlag(addDate)
			if err != nil {
				return err
			}

			in := domain.AgreementInput{
				Counterparty: addPerson,
				Principal:    principal,
				Currency:     addCcy,
				StartDate:    start,
				Purpose:      addPurpose,
			}
			if addDue != "" {
				due, err := domain.ParseDate(addDue)
				if err != nil {
					return fmt.Errorf("invalid due date %q: %w", addDue, err)
				}
				in.DueDate = &due
			}

			a, err := newClient(kind).Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Printf("Created agreement %s (%s)\n", a.ID, currency.Format(a.Principal, a.Currency))
			return nil
		},
	}
	addCmd.Flags().StringVar(&addPerson, nouns.person, "", "Name of the "+nouns.person)
	addCmd.Flags().StringVar(&addAmount, "amount", "", "Principal amount")
	addCmd.Flags().StringVar(&addCcy, "currency", "INR", "Currency code")
	addCmd.Flags().StringVar(&addDate, "date", "", "Start date (YYYY-MM-DD, defaults to today)")
	addCmd.Flags().StringVar(&addDue, "due", "", "Due date (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&addPurpose, "purpose", "", "Purpose")
	addCmd.MarkFlagRequired(nouns.person)
	addCmd.MarkFlagRequired("amount")

	var (
		payAmount string
		payDate   string
		payMethod string
		payClose  bool
	)
	payCmd := &cobra.Command{
		Use:   nouns.eventVerb + " <id>",
		Short: "Record a " + nouns.eventNoun,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(payAmount)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", payAmount, err)
			}
			date, err := parseDateFlag(payDate)
			if err != nil {
				return err
			}

			client := newClient(kind)
			if _, err := client.CreateEvent(cmd.Context(), args[0], domain.EventInput{
				Amount:         amount,
				Date:           date,
				PaymentMethod:  payMethod,
				CloseAgreement: payClose,
			}); err != nil {
				return err
			}

			// Refetch so the printed totals are the server's, not ours.
			detail, err := client.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Recorded %s of %s, remaining %s (%s)\n",
				nouns.eventNoun,
				currency.Format(amount, detail.Currency),
				currency.Format(detail.DisplayRemaining(), detail.Currency),
				detail.Status)
			return nil
		},
	}
	payCmd.Flags().StringVar(&payAmount, "amount", "", "Amount")
	payCmd.Flags().StringVar(&payDate, "date", "", "Date "+nouns.dateFlag+" (YYYY-MM-DD, defaults to today)")
	payCmd.Flags().StringVar(&payMethod, "method", "", "Payment method")
	payCmd.Flags().BoolVar(&payClose, "close", false, "Close the agreement after recording")
	payCmd.MarkFlagRequired("amount")

	closeCmd := &cobra.Command{
		Use:   "close <id>",
		Short: "Close an agreement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newClient(kind).Close(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Closed %s (remaining %s)\n", a.ID, currency.Format(a.DisplayRemaining(), a.Currency))
			return nil
		},
	}

	reopenCmd := &cobra.Command{
		Use:   "reopen <id>",
		Short: "Reopen a closed agreement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newClient(kind).Reopen(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Reopened %s (%s)\n", a.ID, a.Status)
			return nil
		},
	}

	rmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an agreement and all its " + nouns.eventNoun + "s",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newClient(kind).Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(listCmd, showCmd, addCmd, payCmd, closeCmd, reopenCmd, rmCmd)
	return cmd
}

func parseDateFlag(value string) (domain.Date, error) {
	if value == "" {
		return domain.Today(), nil
	}
	d, err := domain.ParseDate(value)
	if err != nil {
		return domain.Date{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return d, nil
}

func printList(agreements []domain.Agreement, nouns kindNouns) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "ID\t%s\tPRINCIPAL\tREMAINING\tSTATUS\n", strings.ToUpper(nouns.person))
	for i := range agreements {
		a := &agreements[i]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			a.ID,
			a.Counterparty,
			currency.Format(a.Principal, a.Currency),
			currency.Format(a.DisplayRemaining(), a.Currency),
			a.Status)
	}
	w.Flush()
}

func printDetail(detail *domain.AgreementDetail, nouns kindNouns) {
	a := &detail.Agreement
	fmt.Printf("%s: %s\n", nouns.person, a.Counterparty)
	fmt.Printf("Principal: %s\n", currency.Format(a.Principal, a.Currency))
	fmt.Printf("Settled:   %s\n", currency.Format(a.TotalSettled, a.Currency))
	fmt.Printf("Remaining: %s\n", currency.Format(a.DisplayRemaining(), a.Currency))
	fmt.Printf("Status:    %s\n", a.Status)
	fmt.Printf("Start:     %s\n", a.StartDate)
	if a.DueDate != nil {
		fmt.Printf("Due:       %s\n", a.DueDate)
	}
	if a.Purpose != "" {
		fmt.Printf("Purpose:   %s\n", a.Purpose)
	}

	if len(detail.Events) == 0 {
		return
	}
	fmt.Printf("\n%ss:\n", nouns.eventNoun)
	for _, e := range detail.Events {
		line := fmt.Sprintf("  %s  %s", e.Date, currency.Format(e.Amount, a.Currency))
		if e.PaymentMethod != "" {
			line += "  (" + e.PaymentMethod + ")"
		}
		fmt.Println(line)
	}
}
