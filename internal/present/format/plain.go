package format

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mithrel/quill/internal/render"
	"github.com/mithrel/quill/pkg/api"
)

var rulesHeader = "#\tname\tanchor\tlazy\tdotall\tpattern\n"

func esc(field string) string {
	field = strings.ReplaceAll(field, "\t", "\\t")
	field = strings.ReplaceAll(field, "\n", "\\n")
	return field
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "-"
}

// WritePlainRules writes the rule table as aligned columns.
func WritePlainRules(w io.Writer, rules []api.RuleInfo, headers bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if headers {
		_, _ = io.WriteString(tw, rulesHeader)
	}
	for _, r := range rules {
		line := fmt.Sprintf("%d\t%s\t%s\t%s\t%s\t%s\n",
			r.Position, esc(r.Name), r.Anchor, yesNo(r.Lazy), yesNo(r.DotAll), esc(r.Pattern))
		_, _ = io.WriteString(tw, line)
	}
	return tw.Flush()
}

// WritePlainStats writes cache statistics as key/value lines.
func WritePlainStats(w io.Writer, st api.CacheStats) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	oldest := "-"
	if !st.Oldest.IsZero() {
		oldest = st.Oldest.Local().Format("2006-01-02 15:04:05")
	}
	fmt.Fprintf(tw, "entries\t%d\n", st.Entries)
	fmt.Fprintf(tw, "hits\t%d\n", st.Hits)
	fmt.Fprintf(tw, "bytes\t%d\n", st.Bytes)
	fmt.Fprintf(tw, "oldest\t%s\n", oldest)
	return tw.Flush()
}

// WritePlainTrace writes one line per rule that changed the text, with the
// length of the text before and after it ran.
func WritePlainTrace(w io.Writer, steps []render.TraceEvent) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = io.WriteString(tw, "#\trule\tbefore\tafter\n")
	for _, s := range steps {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\n", s.Position, s.Rule, len(s.Before), len(s.After))
	}
	if len(steps) == 0 {
		_, _ = io.WriteString(tw, "-\tno rule matched\t\t\n")
	}
	return tw.Flush()
}
