package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/donaldgifford/reddit-top/tools/dashgen/rules"
)

func TestExpr(t *testing.T) {
	t.Parallel()

	known := map[string]bool{"reddit_top_operations_total": true}

	tests := []struct {
		name         string
		expr         string
		wantErrors   int
		wantWarnings int
	}{
		{
			name: "known metric",
			expr: `sum(rate(reddit_top_operations_total[5m])) by (kind)`,
		},
		{
			name:         "unknown metric",
			expr:         `rate(reddit_top_missing_total[5m])`,
			wantWarnings: 1,
		},
		{
			name:       "syntax error",
			expr:       `sum(rate(reddit_top_operations_total[5m]`,
			wantErrors: 1,
		},
		{
			name: "function without selector",
			expr: `time()`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var r Result
			Expr("test", tt.expr, known, &r)
			assert.Len(t, r.Errors, tt.wantErrors)
			assert.Len(t, r.Warnings, tt.wantWarnings)
			assert.Equal(t, tt.wantErrors == 0, r.Ok())
		})
	}
}

func TestRules_RecordedNamesBecomeKnown(t *testing.T) {
	t.Parallel()

	cr := rules.PrometheusRule{
		Spec: rules.PrometheusRuleSpec{
			Groups: []rules.RuleGroup{{
				Name: "g",
				Rules: []rules.Rule{
					{Record: "job:up:sum", Expr: `sum(up)`},
					{Alert: "Down", Expr: `job:up:sum == 0`},
				},
			}},
		},
	}

	r := Rules(cr, map[string]bool{"up": true})
	assert.True(t, r.Ok(), "errors: %v", r.Errors)
	assert.Empty(t, r.Warnings)
}
