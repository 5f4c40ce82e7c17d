// Package format renders classified batches as text. The batch processor
// returns structured Outcomes; joining them for display happens here.
package format

import (
	"strings"

	"github.com/samber/lo"

	"github.com/lguimbarda/min-fizzbuzz/fizzbuzz/core"
)

// DefaultSeparator is placed between answers by Joined.
const DefaultSeparator = ", "

// Strings returns the canonical text of each Outcome, in order.
func Strings(outcomes []core.Outcome) []string {
	return lo.Map(outcomes, func(o core.Outcome, _ int) string {
		return o.String()
	})
}

// Join concatenates the canonical text of each Outcome with sep.
func Join(outcomes []core.Outcome, sep string) string {
	return strings.Join(Strings(outcomes), sep)
}

// Joined concatenates the Outcomes with DefaultSeparator:
// "1, 2, fizz, 4, buzz".
func Joined(outcomes []core.Outcome) string {
	return Join(outcomes, DefaultSeparator)
}

// Lines renders one answer per line, each terminated by a newline. An empty
// batch renders as the empty string.
func Lines(outcomes []core.Outcome) string {
	var sb strings.Builder
	for _, o := range outcomes {
		sb.WriteString(o.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Count tallies Outcomes by kind.
func Count(outcomes []core.Outcome) map[core.Kind]int {
	return lo.CountValuesBy(outcomes, core.Outcome.Kind)
}
