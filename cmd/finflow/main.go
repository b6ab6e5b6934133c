// Command finflow is a terminal client for the FinFlow backend. It owns a
// full client-side session: the credential is restored from the token file
// on startup, and every command runs against the resulting session state.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"finflow-gateway/internal/adapters/backend"
	"finflow-gateway/internal/core/domain"
	"finflow-gateway/internal/core/query"
	"finflow-gateway/internal/core/session"
	"finflow-gateway/internal/pkg/token"

	"golang.org/x/term"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage(stdout io.Writer) {
	fmt.Fprintln(stdout, "Usage: finflow <command> [flags]")
	fmt.Fprintln(stdout, "Commands:")
	fmt.Fprintln(stdout, "  login        -email <email> [-password <password>]")
	fmt.Fprintln(stdout, "  register     -name <name> -email <email> [-password <password>]")
	fmt.Fprintln(stdout, "  logout")
	fmt.Fprintln(stdout, "  whoami")
	fmt.Fprintln(stdout, "  accounts")
	fmt.Fprintln(stdout, "  categories")
	fmt.Fprintln(stdout, "  transactions [-search s] [-type all|income|expense] [-account id] [-category id] [-from date] [-to date]")
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		usage(stdout)
		return fmt.Errorf("missing command")
	}

	apiURL := os.Getenv("FINFLOW_API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:4000"
	}

	store := token.NewFileStore(tokenPath())
	client := backend.New(apiURL, 15*time.Second)
	manager := session.NewManager(store, client, client)

	ctx := context.Background()
	manager.Initialize(ctx)

	switch args[0] {
	case "login":
		return cmdLogin(ctx, manager, args[1:], stdin, stdout, stderr)
	case "register":
		return cmdRegister(ctx, manager, args[1:], stdin, stdout, stderr)
	case "logout":
		manager.Logout()
		fmt.Fprintln(stdout, "Logged out.")
		return nil
	case "whoami":
		return cmdWhoami(manager, stdout)
	case "accounts":
		return cmdAccounts(ctx, manager, client, stdout)
	case "categories":
		return cmdCategories(ctx, manager, client, stdout)
	case "transactions":
		return cmdTransactions(ctx, manager, client, args[1:], stdout, stderr)
	default:
		usage(stdout)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func cmdLogin(ctx context.Context, manager *session.Manager, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(stderr)
	email := fs.String("email", "", "E-mail address")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return fmt.Errorf("missing required flag: email")
	}

	password, err := obtainPassword(*passwordFlag, stdin, stdout)
	if err != nil {
		return err
	}

	if err := manager.Login(ctx, *email, password); err != nil {
		return err
	}

	snap := manager.Snapshot()
	fmt.Fprintf(stdout, "Logged in as %s <%s>\n", snap.User.Name, snap.User.Email)
	return nil
}

func cmdRegister(ctx context.Context, manager *session.Manager, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	fs.SetOutput(stderr)
	name := fs.String("name", "", "Display name")
	email := fs.String("email", "", "E-mail address")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" || *email == "" {
		return fmt.Errorf("missing required flags: name, email")
	}

	password, err := obtainPassword(*passwordFlag, stdin, stdout)
	if err != nil {
		return err
	}

	if err := manager.Register(ctx, *name, *email, password); err != nil {
		return err
	}

	snap := manager.Snapshot()
	fmt.Fprintf(stdout, "Registered and logged in as %s <%s>\n", snap.User.Name, snap.User.Email)
	return nil
}

func cmdWhoami(manager *session.Manager, stdout io.Writer) error {
	snap := manager.Snapshot()
	if !snap.Authenticated() {
		fmt.Fprintln(stdout, "Not logged in.")
		return nil
	}
	fmt.Fprintf(stdout, "%s <%s>\n", snap.User.Name, snap.User.Email)
	return nil
}

func cmdAccounts(ctx context.Context, manager *session.Manager, client *backend.Client, stdout io.Writer) error {
	snap, err := requireSession(manager)
	if err != nil {
		return err
	}

	accounts, err := client.ListAccounts(ctx, snap.Credential)
	if err != nil {
		return fmt.Errorf("failed to load accounts: %w", err)
	}

	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tBALANCE")
	for _, a := range accounts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\n", a.ID, a.Name, a.Type, a.Balance)
	}
	return w.Flush()
}

func cmdCategories(ctx context.Context, manager *session.Manager, client *backend.Client, stdout io.Writer) error {
	snap, err := requireSession(manager)
	if err != nil {
		return err
	}

	categories, err := client.ListCategories(ctx, snap.Credential)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}

	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE")
	for _, cat := range categories {
		fmt.Fprintf(w, "%s\t%s\t%s\n", cat.ID, cat.Name, cat.Type)
	}
	return w.Flush()
}

func cmdTransactions(ctx context.Context, manager *session.Manager, client *backend.Client, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("transactions", flag.ContinueOnError)
	fs.SetOutput(stderr)
	search := fs.String("search", "", "Substring match on description, notes, account and category names")
	typeFlag := fs.String("type", domain.TypeAll, "all, income or expense")
	account := fs.String("account", "", "Exact account id filter")
	category := fs.String("category", "", "Exact category id filter")
	from := fs.String("from", "", "Inclusive lower date bound (YYYY-MM-DD)")
	to := fs.String("to", "", "Inclusive upper date bound (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filter, err := buildFilter(*search, *typeFlag, *account, *category, *from, *to)
	if err != nil {
		return err
	}

	snap, err := requireSession(manager)
	if err != nil {
		return err
	}

	transactions, err := client.ListTransactions(ctx, snap.Credential)
	if err != nil {
		return fmt.Errorf("failed to load transactions: %w", err)
	}
	accounts, err := client.ListAccounts(ctx, snap.Credential)
	if err != nil {
		return fmt.Errorf("failed to load accounts: %w", err)
	}
	categories, err := client.ListCategories(ctx, snap.Credential)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}

	views := query.Apply(transactions, filter, accounts, categories)
	stats := query.Summarize(transactions, filter, accounts, categories)

	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tTITLE\tTYPE\tAMOUNT\tACCOUNT\tCATEGORY")
	for _, v := range views {
		accountName, categoryName := "-", "-"
		if v.Account != nil {
			accountName = v.Account.Name
		}
		if v.Category != nil {
			categoryName = v.Category.Name
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\t%s\n",
			v.Date.Format("2006-01-02"), v.Title, v.Type, v.Amount, accountName, categoryName)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "\n%d transactions | income %.2f | expense %.2f | balance %.2f\n",
		stats.Count, stats.TotalIncome, stats.TotalExpense, stats.Balance)
	return nil
}

// buildFilter validates the flag values into a FilterSpec
func buildFilter(search, typeFlag, account, category, from, to string) (domain.FilterSpec, error) {
	filter := domain.FilterSpec{
		Search:     search,
		Type:       typeFlag,
		AccountID:  account,
		CategoryID: category,
	}

	if typeFlag != domain.TypeAll && !domain.TransactionType(typeFlag).Valid() {
		return filter, fmt.Errorf("invalid -type %q (want all, income or expense)", typeFlag)
	}

	if from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return filter, fmt.Errorf("invalid -from %q (want YYYY-MM-DD)", from)
		}
		filter.DateFrom = t
	}
	if to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return filter, fmt.Errorf("invalid -to %q (want YYYY-MM-DD)", to)
		}
		// A plain date covers its whole day; the bound stays inclusive
		filter.DateTo = t.Add(24*time.Hour - time.Nanosecond)
	}

	return filter, nil
}

// requireSession returns the snapshot of an authenticated session
func requireSession(manager *session.Manager) (session.Snapshot, error) {
	snap := manager.Snapshot()
	if !snap.Authenticated() {
		return snap, fmt.Errorf("not logged in (run: finflow login -email <email>)")
	}
	return snap, nil
}

func obtainPassword(flagValue string, stdin io.Reader, stdout io.Writer) (string, error) {
	password := flagValue
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		var err error
		password, err = readPassword(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}
	if strings.TrimSpace(password) == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	return password, nil
}

func readPassword(stdin io.Reader) (string, error) {
	// Check if stdin is a terminal
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// Fallback for non-terminal (e.g. tests, pipes)
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// tokenPath is the fixed token slot, overridable for tests
func tokenPath() string {
	if path := os.Getenv("FINFLOW_TOKEN_FILE"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".finflow-token"
	}
	return filepath.Join(home, ".config", "finflow", "token")
}
