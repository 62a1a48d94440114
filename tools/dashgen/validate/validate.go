// Package validate checks generated dashboards and rule files for PromQL
// syntax errors and references to metrics reddit-top does not export.
package validate

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/prometheus/prometheus/promql/parser"

	"github.com/donaldgifford/reddit-top/tools/dashgen/rules"
)

// Result collects validation findings. Errors are PromQL that does not parse;
// warnings are selectors naming unknown metrics.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether no errors were found.
func (r Result) Ok() bool {
	return len(r.Errors) == 0
}

// Expr parses a single PromQL expression and reports the metric names it
// selects that are not in known.
func Expr(where, expr string, known map[string]bool, r *Result) {
	node, err := parser.ParseExpr(expr)
	if err != nil {
		r.Errors = append(r.Errors, fmt.Sprintf("%s: %v", where, err))
		return
	}

	var unknown []string
	parser.Inspect(node, func(n parser.Node, _ []parser.Node) error {
		vs, ok := n.(*parser.VectorSelector)
		if ok && vs.Name != "" && !known[vs.Name] {
			unknown = append(unknown, vs.Name)
		}
		return nil
	})

	sort.Strings(unknown)
	for _, name := range unknown {
		r.Warnings = append(r.Warnings, fmt.Sprintf("%s: unknown metric %q", where, name))
	}
}

type panelJSON struct {
	Title   string `json:"title"`
	Targets []struct {
		Expr string `json:"expr"`
	} `json:"targets"`
	Panels []panelJSON `json:"panels"`
}

// Dashboard validates every Prometheus target of dash, including the
// panels nested in rows.
func Dashboard(dash dashboard.Dashboard, known map[string]bool) Result {
	var r Result

	data, err := json.Marshal(dash)
	if err != nil {
		r.Errors = append(r.Errors, fmt.Sprintf("marshaling dashboard: %v", err))
		return r
	}

	var root struct {
		Panels []panelJSON `json:"panels"`
	}
	if err := json.Unmarshal(data, &root); err != nil {
		r.Errors = append(r.Errors, fmt.Sprintf("decoding dashboard: %v", err))
		return r
	}

	var walk func(ps []panelJSON)
	walk = func(ps []panelJSON) {
		for _, p := range ps {
			for i, t := range p.Targets {
				if t.Expr == "" {
					continue
				}
				Expr(fmt.Sprintf("panel %q target %d", p.Title, i), t.Expr, known, &r)
			}
			walk(p.Panels)
		}
	}
	walk(root.Panels)

	return r
}

// Rules validates the expression of every rule in cr. Names recorded by cr
// count as known for the rules that follow them.
func Rules(cr rules.PrometheusRule, known map[string]bool) Result {
	var r Result

	seen := make(map[string]bool, len(known))
	for k, v := range known {
		seen[k] = v
	}

	for _, g := range cr.Spec.Groups {
		for _, rule := range g.Rules {
			name := rule.Record
			if name == "" {
				name = rule.Alert
			}
			Expr(fmt.Sprintf("group %q rule %q", g.Name, name), rule.Expr, seen, &r)
			if rule.Record != "" {
				seen[rule.Record] = true
			}
		}
	}

	return r
}
