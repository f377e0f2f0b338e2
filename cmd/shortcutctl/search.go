package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/shortcuts/internal/search/matcher"
	"github.com/dshills/shortcuts/internal/search/searcher"
)

func newSearchCmd(c *cli) *cobra.Command {
	var (
		modules       []string
		fields        string
		exactOrder    bool
		noFuzzy       bool
		caseSensitive bool
		limit         int
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search actions by name, tooltip, path, ID or keys",
		Long: `Searches the action assets. Every word of the query must match; words
may come in any order unless --exact-order is set, and are matched
fuzzily unless --no-fuzzy is set.

Fields: name, tooltip, path, id, keys.

Examples:
  shortcutctl search copy
  shortcutctl search --fields keys ctrl+c
  shortcutctl search --modules Paint --fields name,path brush`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, unknown := searcher.ParseFields(fields)
			if len(unknown) > 0 {
				return fmt.Errorf("unknown fields: %s", strings.Join(unknown, ", "))
			}

			m := c.manager()
			included := m.ModuleIDs()
			if len(modules) > 0 {
				included = included[:0]
				for _, arg := range modules {
					moduleID, err := moduleArg(arg)
					if err != nil {
						return err
					}
					included = append(included, moduleID)
				}
			}

			s := searcher.New(m,
				searcher.WithLogger(c.app.Logger().WithField("component", "search")),
				searcher.WithMatcher(matcher.New(
					matcher.WithExactWordOrder(exactOrder),
					matcher.WithFuzzyWords(!noFuzzy),
					matcher.WithCaseSensitive(caseSensitive),
				)),
			)
			s.SetFields(f)
			s.IncludeDisabledActions(true)
			s.SetIncludedModules(included...)
			s.SetQuery(strings.Join(args, " "))

			out := cmd.OutOrStdout()
			results := s.Results()
			if len(results) == 0 {
				fmt.Fprintln(out, dimStyle.Render("no match"))
				return nil
			}
			if limit > 0 && len(results) > limit {
				results = results[:limit]
			}

			lang := c.language()
			t := newTable("Action", "Keys", "Name", "Cost")
			for _, r := range results {
				t.Row(r.ActionID(), keysText(m.KeySequence(r.ModuleID, r.InModuleID)), r.Item.BestName(lang), strconv.FormatFloat(r.Cost, 'f', 0, 64))
			}
			fmt.Fprintln(out, t.Render())
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&modules, "modules", "m", nil, "modules to search (default: all)")
	cmd.Flags().StringVar(&fields, "fields", "name,tooltip", "fields to match")
	cmd.Flags().BoolVar(&exactOrder, "exact-order", false, "words must match in query order")
	cmd.Flags().BoolVar(&noFuzzy, "no-fuzzy", false, "match words literally")
	cmd.Flags().BoolVar(&caseSensitive, "case-sensitive", false, "match case")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "show at most this many results")
	return cmd
}
