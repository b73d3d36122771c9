package shell

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"pharmapos/domain"
	"pharmapos/internal/apiclient"
	"pharmapos/internal/inventory"
	"pharmapos/internal/nav"
	"pharmapos/internal/sales"
	"pharmapos/internal/views"
)

type command func(a *App, ctx context.Context, args []string)

var globalCommands = map[string]command{
	"dashboard": goTo(nav.Dashboard),
	"inventory": goTo(nav.Inventory),
	"billing":   goTo(nav.Billing),
	"sales":     goTo(nav.Sales),
	"logout":    (*App).cmdLogout,
	"help":      (*App).cmdHelp,
	"quit":      (*App).cmdQuit,
	"exit":      (*App).cmdQuit,
}

var routeCommands = map[string]map[string]command{
	nav.Login: {
		"login": (*App).cmdLogin,
		"show":  (*App).cmdTogglePassword,
	},
	nav.Dashboard: {
		"refresh": (*App).cmdRefreshDashboard,
	},
	nav.Inventory: {
		"list":   (*App).cmdListInventory,
		"add":    (*App).cmdAddMedicine,
		"edit":   (*App).cmdEditMedicine,
		"delete": (*App).cmdDeleteMedicine,
		"import": (*App).cmdImport,
	},
	nav.Billing: {
		"search":   (*App).cmdSearch,
		"qty":      (*App).cmdStepper,
		"pick":     (*App).cmdPick,
		"inc":      (*App).cmdIncrement,
		"dec":      (*App).cmdDecrement,
		"remove":   (*App).cmdRemove,
		"clear":    (*App).cmdClearBill,
		"finalize": (*App).cmdFinalize,
	},
	nav.Sales: {
		"list":  (*App).cmdListSales,
		"view":  (*App).cmdViewSale,
		"print": (*App).cmdPrintSale,
	},
}

var usage = map[string]string{
	nav.Login:     "login | show",
	nav.Dashboard: "refresh",
	nav.Inventory: "list | add | edit <id> | delete <id> | import <file.csv>",
	nav.Billing:   "search <text> | qty <row> <n> | pick <row> | inc <id> | dec <id> | remove <id> | clear | finalize [customer]",
	nav.Sales:     "list | view <id> | print <id>",
}

func goTo(route string) command {
	return func(a *App, ctx context.Context, _ []string) {
		a.NavigateContext(ctx, route)
	}
}

// Dispatch runs one command line against the current screen.
func (a *App) Dispatch(ctx context.Context, line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}
	a.ctx = ctx
	name, args := strings.ToLower(fields[0]), fields[1:]

	if cmd, ok := routeCommands[a.route][name]; ok {
		cmd(a, ctx, args)
		return
	}
	if cmd, ok := globalCommands[name]; ok {
		if a.route == nav.Login && name != "help" && name != "quit" && name != "exit" {
			a.alert("Please log in first")
			return
		}
		cmd(a, ctx, args)
		return
	}
	a.alert(fmt.Sprintf("Unknown command %q, type help", name))
}

func (a *App) cmdHelp(_ context.Context, _ []string) {
	fmt.Fprintf(a.out, "%s\n", usage[a.route])
	if a.route != nav.Login {
		fmt.Fprintln(a.out, "dashboard | inventory | billing | sales | logout | quit")
	}
}

func (a *App) cmdQuit(_ context.Context, _ []string) {
	a.quitting = true
}

func (a *App) cmdLogout(ctx context.Context, _ []string) {
	a.guard.Logout(ctx, a.client)
}

func (a *App) cmdLogin(ctx context.Context, _ []string) {
	username, err := a.prompt("Username: ")
	if err != nil {
		return
	}
	password, err := a.readPassword("Password: ")
	if err != nil {
		return
	}
	form := url.Values{"username": {username}, "password": {password}}
	if err := a.login.Submit(ctx, form); err != nil {
		a.alert(a.login.ErrorText)
	}
}

func (a *App) cmdTogglePassword(_ context.Context, _ []string) {
	a.render(views.PasswordToggle(a.out, a.login.TogglePassword()))
}

func (a *App) cmdRefreshDashboard(ctx context.Context, _ []string) {
	a.showDashboard(ctx)
}

func (a *App) cmdListInventory(ctx context.Context, _ []string) {
	a.loadCatalog(ctx)
	a.render(views.Inventory(a.out, a.catalog.All()))
}

func (a *App) cmdAddMedicine(ctx context.Context, _ []string) {
	in, ok := a.promptMedicine(domain.Medicine{})
	if !ok {
		return
	}
	if _, err := a.inventory.Add(ctx, in.Input()); err != nil {
		a.alert(err.Error())
		return
	}
	a.alert(inventory.MsgAdded)
	a.render(views.Inventory(a.out, a.catalog.All()))
}

func (a *App) cmdEditMedicine(ctx context.Context, args []string) {
	id, ok := a.argID(args)
	if !ok {
		return
	}
	current, found := a.catalog.Find(id)
	if !found {
		return
	}
	edited, ok := a.promptMedicine(current)
	if !ok {
		return
	}
	edited.ID = id
	if err := a.inventory.Update(ctx, edited); err != nil {
		a.alert(err.Error())
		return
	}
	a.alert(inventory.MsgUpdated)
	a.render(views.Inventory(a.out, a.catalog.All()))
}

func (a *App) cmdDeleteMedicine(ctx context.Context, args []string) {
	id, ok := a.argID(args)
	if !ok {
		return
	}
	deleted, err := a.inventory.Delete(ctx, id, a.confirm)
	if err != nil {
		a.alert(err.Error())
		return
	}
	if deleted {
		a.alert(inventory.MsgDeleted)
		a.render(views.Inventory(a.out, a.catalog.All()))
	}
}

func (a *App) cmdImport(ctx context.Context, args []string) {
	if len(args) != 1 {
		a.alert("Usage: import <file.csv>")
		return
	}
	f, err := os.Open(args[0])
	if err != nil {
		a.alert("Error importing: " + err.Error())
		return
	}
	defer f.Close()

	res, err := a.inventory.Import(ctx, f)
	if err != nil {
		a.alert("Error importing: " + err.Error())
		return
	}
	a.alert(res.String())
	a.render(views.Inventory(a.out, a.catalog.All()))
}

func (a *App) cmdSearch(_ context.Context, args []string) {
	rows := a.suggestions.Show(strings.Join(args, " "))
	a.render(views.Suggestions(a.out, rows))
}

func (a *App) cmdStepper(_ context.Context, args []string) {
	if len(args) != 2 {
		a.alert("Usage: qty <row> <n>")
		return
	}
	row, err := strconv.Atoi(args[0])
	if err != nil || !a.suggestions.SetQuantity(row-1, args[1]) {
		a.alert("Invalid row")
		return
	}
	a.render(views.Suggestions(a.out, a.suggestions.Rows()))
}

func (a *App) cmdPick(_ context.Context, args []string) {
	if len(args) != 1 {
		a.alert("Usage: pick <row>")
		return
	}
	row, err := strconv.Atoi(args[0])
	if err != nil || !a.suggestions.Add(row-1) {
		a.alert("Invalid row")
	}
}

func (a *App) cmdIncrement(_ context.Context, args []string) {
	if id, ok := a.argID(args); ok {
		a.bill.ChangeQuantity(id, 1)
	}
}

func (a *App) cmdDecrement(_ context.Context, args []string) {
	if id, ok := a.argID(args); ok {
		a.bill.ChangeQuantity(id, -1)
	}
}

func (a *App) cmdRemove(_ context.Context, args []string) {
	if id, ok := a.argID(args); ok {
		a.bill.Remove(id)
	}
}

func (a *App) cmdClearBill(_ context.Context, _ []string) {
	a.bill.Clear()
}

func (a *App) cmdFinalize(ctx context.Context, args []string) {
	_, err := a.submitter.Finalize(ctx, strings.Join(args, " "))
	switch {
	case err == nil:
	case errors.Is(err, sales.ErrEmptyBill):
		a.alert(err.Error())
	default:
		a.alert("Error finalizing sale: " + apiclient.Message(err))
	}
}

func (a *App) cmdListSales(ctx context.Context, _ []string) {
	a.listSales(ctx)
}

func (a *App) cmdViewSale(ctx context.Context, args []string) {
	id, ok := a.argID(args)
	if !ok {
		return
	}
	d, err := a.history.Detail(ctx, id)
	if err != nil {
		a.alert("Error: " + apiclient.Message(err))
		return
	}
	a.render(views.SaleDetail(a.out, d))
}

func (a *App) cmdPrintSale(ctx context.Context, args []string) {
	if id, ok := a.argID(args); ok {
		a.printSale(ctx, id)
	}
}

func (a *App) argID(args []string) (int64, bool) {
	if len(args) != 1 {
		a.alert("An id is required")
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		a.alert(fmt.Sprintf("Invalid id %q", args[0]))
		return 0, false
	}
	return id, true
}

// promptMedicine asks for every field, offering the current value. An empty
// name cancels.
func (a *App) promptMedicine(cur domain.Medicine) (domain.Medicine, bool) {
	ask := func(label, def string) (string, bool) {
		text := label + ": "
		if def != "" {
			text = fmt.Sprintf("%s [%s]: ", label, def)
		}
		v, err := a.prompt(text)
		if err != nil {
			return "", false
		}
		if v == "" {
			return def, true
		}
		return v, true
	}

	m := cur
	var ok bool
	if m.Name, ok = ask("Name", cur.Name); !ok || m.Name == "" {
		return m, false
	}
	if m.Manufacturer, ok = ask("Manufacturer", cur.Manufacturer); !ok {
		return m, false
	}
	if m.BatchNo, ok = ask("Batch No", cur.BatchNo); !ok {
		return m, false
	}
	if m.ExpiryDate, ok = ask("Expiry Date (YYYY-MM-DD)", cur.ExpiryDate); !ok {
		return m, false
	}
	qty, ok := ask("Quantity", strconv.FormatInt(cur.Quantity, 10))
	if !ok {
		return m, false
	}
	price, ok := ask("Price", cur.Price.String())
	if !ok {
		return m, false
	}
	m.Quantity = parseCount(qty)
	m.Price = parsePrice(price)
	return m, true
}

// parseCount reads a stock count; anything unreadable is 0.
func parseCount(raw string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func parsePrice(raw string) decimal.Decimal {
	p, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || p.IsNegative() {
		return decimal.Zero
	}
	return p
}
