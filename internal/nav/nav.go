// Package nav holds the route names of the POS and the navigation contract
// between them.
package nav

import (
	"strconv"
	"strings"
)

const (
	Login     = "/static/login.html"
	Dashboard = "/static/index.html"
	Inventory = "/static/inventory.html"
	Billing   = "/static/billing.html"
	Sales     = "/static/sales.html"
)

// Navigator changes the current route. A target may carry a fragment.
type Navigator interface {
	Navigate(target string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(target string)

func (f NavigatorFunc) Navigate(target string) { f(target) }

// PrintSale is the sales route asking for sale id to be printed on load.
func PrintSale(id int64) string {
	return Sales + "#print=" + strconv.FormatInt(id, 10)
}

// Split separates a target into its route and fragment.
func Split(target string) (route, fragment string) {
	route, fragment, _ = strings.Cut(target, "#")
	return route, fragment
}

// PrintFragment extracts the sale id from a "print={id}" fragment.
func PrintFragment(fragment string) (int64, bool) {
	raw, ok := strings.CutPrefix(fragment, "print=")
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
