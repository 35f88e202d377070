package notifyerr

import (
	"sort"
	"strings"
)

// SinkFailure is one failed sink's contribution to a fan-out aggregate,
// keyed by its position in the hub's sink vector so failures can be
// reported in a deterministic order (spec invariant: ascending sink index).
type SinkFailure struct {
	Index int
	Name  string
	Err   error
}

// Aggregate joins sink failures into the hub's single awaitable-send error:
// first line "one or more sinks failed:", then one "- {name}: {err}" line
// per failure in ascending Index order (the caller's slice is not
// modified). The per-failure error text uses the alternate (full cause
// chain) form when the error is an *Error, matching "{err:#}" in the
// original design.
func Aggregate(failures []SinkFailure) error {
	if len(failures) == 0 {
		return nil
	}
	sorted := append([]SinkFailure(nil), failures...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })
	var b strings.Builder
	b.WriteString("one or more sinks failed:")
	for _, f := range sorted {
		b.WriteString("\n- ")
		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(alternateText(f.Err))
	}
	return New(CategoryInternal, CodeAggregate, b.String())
}

func alternateText(err error) string {
	if err == nil {
		return ""
	}
	if e, ok := err.(*Error); ok {
		return e.Alternate()
	}
	return err.Error()
}
