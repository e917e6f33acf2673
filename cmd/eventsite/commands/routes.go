package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"git.home.luguber.info/inful/eventsite/internal/routes"
	"git.home.luguber.info/inful/eventsite/internal/site"
)

// RoutesCmd prints the route table that a build would render.
type RoutesCmd struct {
	JSON bool `help:"Print routes as JSON"`
}

func (r *RoutesCmd) Run(g *Global, root *CLI) error {
	cfg, err := setup(g, root)
	if err != nil {
		return err
	}
	table, err := site.NewBuilder(siteOptions(cfg), g.Logger).Routes(context.Background())
	if err != nil {
		return err
	}
	return printRoutes(g, table, r.JSON)
}

func printRoutes(g *Global, table routes.Table, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(g.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(table)
	}
	tw := tabwriter.NewWriter(g.Stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "PATH\tCOMPONENT\tEVENT")
	for _, rt := range table {
		id, _ := rt.EventID()
		if id == "" {
			id = "-"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", rt.Path, rt.Component, id)
	}
	return tw.Flush()
}
