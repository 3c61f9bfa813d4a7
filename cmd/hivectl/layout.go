package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/hivekit/hive/alloc"
)

var (
	layoutPolicy string
	layoutPages  int
)

func init() {
	cmd := newLayoutCmd()
	cmd.Flags().StringVarP(&layoutPolicy, "policy", "p", "",
		"Capacity policy: default, compact, throughput or fixed:N (default: from config)")
	cmd.Flags().IntVar(&layoutPages, "pages", 8, "Number of pages to show")
	rootCmd.AddCommand(cmd)
}

func newLayoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Show the page capacity schedule of a policy",
		Long: `The layout command prints the capacity of each page a pool would
allocate under a policy, with the running total of slots.

Example:
  hivectl layout
  hivectl layout --policy compact --pages 12
  hivectl layout --policy fixed:128 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout()
		},
	}
	return cmd
}

// LayoutRow is one page of the layout output.
type LayoutRow struct {
	Page     int `json:"page"`
	Capacity int `json:"capacity"`
	Total    int `json:"total"`
}

// parsePolicy resolves a policy name to a page configuration.
func parsePolicy(name string) (alloc.PageConfig, error) {
	switch n := strings.ToLower(strings.TrimSpace(name)); {
	case n == "":
		return cfg.Pages, nil
	case n == "default":
		return alloc.ConfigDefault, nil
	case n == "compact":
		return alloc.ConfigCompact, nil
	case n == "throughput":
		return alloc.ConfigThroughput, nil
	case strings.HasPrefix(n, "fixed:"):
		size, err := strconv.Atoi(strings.TrimPrefix(n, "fixed:"))
		if err != nil {
			return alloc.PageConfig{}, fmt.Errorf("invalid fixed policy %q: %w", name, err)
		}
		c := alloc.ConfigFixed(size)
		return c, c.Validate()
	default:
		return alloc.PageConfig{}, fmt.Errorf("unknown policy %q", name)
	}
}

func runLayout() error {
	pc, err := parsePolicy(layoutPolicy)
	if err != nil {
		return err
	}
	if layoutPages < 1 {
		return fmt.Errorf("--pages must be at least 1")
	}

	rows := make([]LayoutRow, 0, layoutPages)
	total := 0
	for i, c := range pc.Schedule(layoutPages) {
		total += c
		rows = append(rows, LayoutRow{Page: i, Capacity: c, Total: total})
	}

	if jsonOut {
		return printJSON(struct {
			Policy string      `json:"policy"`
			Pages  []LayoutRow `json:"pages"`
		}{pc.String(), rows})
	}

	p := message.NewPrinter(language.English)
	printInfo("Policy: %s\n", pc)
	printInfo("%-6s %12s %14s\n", "PAGE", "CAPACITY", "TOTAL")
	for _, r := range rows {
		printInfo("%s", p.Sprintf("%-6d %12d %14d\n", r.Page, r.Capacity, r.Total))
	}
	return nil
}
