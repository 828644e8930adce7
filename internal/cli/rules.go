package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mithrel/quill/internal/present/format"
	"github.com/mithrel/quill/internal/preview"
	"github.com/mithrel/quill/internal/render"
	"github.com/mithrel/quill/internal/util"
	"github.com/mithrel/quill/pkg/api"
)

func newRulesCmd() *cobra.Command {
	var safe, asJSON, noHeaders bool
	cmd := &cobra.Command{
		Use:   "rules [query]",
		Short: "List the rendering rules in the order they run",
		Long: `List the rendering rules in the order they run.

A query fuzzy-matches rule names and lists the hits best match first; the
position column still shows where each rule runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rules := getApp(cmd).Preview.Rules(safe)
			if len(args) == 1 {
				rules = filterRules(rules, args[0])
				if len(rules) == 0 {
					return fmt.Errorf("no rule matches %q", args[0])
				}
			}
			if asJSON {
				return format.WriteJSON(cmd.OutOrStdout(), rules, true)
			}
			return format.WritePlainRules(cmd.OutOrStdout(), rules, !noHeaders)
		},
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return util.ScoreCompletions(toComplete, ruleNames(preview.DescribeRules(render.Rules(render.Options{}))), 0), cobra.ShellCompDirectiveNoFileComp
		},
	}
	cmd.Flags().BoolVar(&safe, "safe", false, "show the rule table used with escaping and code protection")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	cmd.Flags().BoolVar(&noHeaders, "no-headers", false, "omit the header row")
	return cmd
}

func ruleNames(rules []api.RuleInfo) []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Name
	}
	return names
}

func filterRules(rules []api.RuleInfo, query string) []api.RuleInfo {
	idx := util.RankIndexes(query, ruleNames(rules))
	out := make([]api.RuleInfo, len(idx))
	for i, j := range idx {
		out[i] = rules[j]
	}
	return out
}
