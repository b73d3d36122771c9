// Package shell is the terminal front end of the POS. Each screen is a
// route; typed commands stand in for the buttons and inputs of that screen.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"golang.org/x/term"

	"pharmapos/domain"
	"pharmapos/internal/apiclient"
	"pharmapos/internal/billing"
	"pharmapos/internal/catalog"
	"pharmapos/internal/inventory"
	"pharmapos/internal/login"
	"pharmapos/internal/nav"
	"pharmapos/internal/receipt"
	"pharmapos/internal/sales"
	"pharmapos/internal/session"
	"pharmapos/internal/views"
)

// App owns every piece of client state and routes commands to it.
type App struct {
	client   *apiclient.Client
	printer  *receipt.Renderer
	in       *bufio.Reader
	inFd     int
	out      io.Writer
	logger   *log.Logger
	route    string
	quitting bool
	pending  chan lineResult
	// ctx is the context of the running loop. Navigator callbacks from the
	// session guard and login controller carry no context, so Navigate uses it.
	ctx context.Context

	guard       *session.Guard
	login       *login.Controller
	catalog     *catalog.Cache
	bill        *billing.Bill
	suggestions *billing.Suggestions
	submitter   *sales.Submitter
	history     *sales.History
	inventory   *inventory.Manager
	summary     domain.Summary
}

// New wires the screens around client. Input is read from in; when in is a
// terminal the password prompt is masked.
func New(client *apiclient.Client, printer *receipt.Renderer, in io.Reader, out io.Writer, logger *log.Logger) *App {
	a := &App{
		client:  client,
		printer: printer,
		in:      bufio.NewReader(in),
		inFd:    -1,
		out:     out,
		logger:  logger,
		ctx:     context.Background(),
	}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		a.inFd = int(f.Fd())
	}

	a.guard = session.NewGuard(client, a, logger)
	a.login = login.NewController(client, a)
	a.catalog = catalog.New(client)
	a.bill = billing.New()
	a.bill.OnChange(func(b *billing.Bill) {
		if a.route == nav.Billing {
			a.render(views.Bill(a.out, b))
		}
	})
	a.suggestions = billing.NewSuggestions(a.catalog, a.bill)
	a.submitter = sales.NewSubmitter(client, a.bill, a, logger, a.catalog.Refresh, a.refreshSummary)
	a.history = sales.NewHistory(client)
	a.inventory = inventory.NewManager(client, a.catalog.Refresh, a.refreshSummary, logger)
	return a
}

// Route is the current screen.
func (a *App) Route() string {
	return a.route
}

// Navigate switches screens under the run context. It satisfies
// nav.Navigator for callers that have no context of their own.
func (a *App) Navigate(target string) {
	a.NavigateContext(a.ctx, target)
}

// NavigateContext switches screens and runs the new screen's load step.
func (a *App) NavigateContext(ctx context.Context, target string) {
	route, fragment := nav.Split(target)
	a.route = route
	a.load(ctx, route, fragment)
}

// Run opens the dashboard and reads commands until quit, end of input or
// ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.ctx = ctx
	a.NavigateContext(ctx, nav.Dashboard)
	for !a.quitting {
		if ctx.Err() != nil {
			fmt.Fprintln(a.out)
			return nil
		}
		line, err := a.prompt(a.route + "> ")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if ctx.Err() != nil {
			fmt.Fprintln(a.out)
			return nil
		}
		if err != nil {
			return err
		}
		a.Dispatch(ctx, line)
	}
	return nil
}

func (a *App) load(ctx context.Context, route, fragment string) {
	if route == nav.Login {
		fmt.Fprintf(a.out, "== %s ==\n", title(route))
		a.render(views.PasswordToggle(a.out, a.login.Toggle()))
		return
	}
	if !a.guard.CheckOrRedirect(ctx) {
		return
	}
	fmt.Fprintf(a.out, "== %s ==\n", title(route))

	switch route {
	case nav.Dashboard:
		a.showDashboard(ctx)
	case nav.Inventory:
		a.loadCatalog(ctx)
		a.render(views.Inventory(a.out, a.catalog.All()))
	case nav.Billing:
		a.loadCatalog(ctx)
		a.render(views.Bill(a.out, a.bill))
	case nav.Sales:
		a.listSales(ctx)
		if id, ok := nav.PrintFragment(fragment); ok {
			a.printSale(ctx, id)
		}
	}
}

func (a *App) showDashboard(ctx context.Context) {
	if err := a.refreshSummary(ctx); err != nil {
		a.logger.Printf("summary unavailable: %v", err)
	}
	a.render(views.Dashboard(a.out, a.summary, a.identity()))
}

func (a *App) refreshSummary(ctx context.Context) error {
	s, err := a.client.Summary(ctx)
	if err != nil {
		return err
	}
	a.summary = s
	return nil
}

func (a *App) loadCatalog(ctx context.Context) {
	if err := a.catalog.Refresh(ctx); err != nil {
		a.logger.Printf("catalog refresh failed: %v", err)
	}
}

func (a *App) identity() string {
	claims, ok := session.Identity(a.client.Token())
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s (%s)", claims.Username, claims.Role)
}

func (a *App) listSales(ctx context.Context) {
	rows, err := a.history.List(ctx)
	if err != nil {
		a.alert("Error loading sales: " + apiclient.Message(err))
		return
	}
	a.render(views.SalesList(a.out, rows))
}

func (a *App) printSale(ctx context.Context, id int64) {
	err := a.printer.Print(ctx, id)
	switch {
	case err == nil:
		fmt.Fprintf(a.out, "Bill #%d sent to printer\n", id)
	case errors.Is(err, receipt.ErrPopupBlocked):
		a.alert(receipt.ErrPopupBlocked.Error())
	default:
		a.alert("Unable to print bill: " + apiclient.Message(err))
	}
}

func (a *App) alert(msg string) {
	fmt.Fprintf(a.out, "! %s\n", msg)
}

func (a *App) render(err error) {
	if err != nil {
		a.logger.Printf("render failed: %v", err)
	}
}

func title(route string) string {
	switch route {
	case nav.Login:
		return "Login"
	case nav.Dashboard:
		return "Dashboard"
	case nav.Inventory:
		return "Inventory"
	case nav.Billing:
		return "Billing"
	case nav.Sales:
		return "Sales"
	}
	return strings.TrimPrefix(route, "/")
}
