package patch

import (
	"fmt"

	"github.com/tidwall/sjson"
)

// JSON renders the result as a JSON report for machine consumers.
func (r DiffResult) JSON() string {
	out := "{}"
	out, _ = sjson.Set(out, "strategy", string(r.Strategy))
	out, _ = sjson.Set(out, "applied", emptyNotNil(r.Applied))
	out, _ = sjson.Set(out, "rejected", emptyNotNil(r.Rejected))
	out, _ = sjson.Set(out, "warnings", emptyNotNil(r.Warnings))
	out, _ = sjson.SetRaw(out, "conflicts", "[]")
	for i, c := range r.Conflicts {
		base := fmt.Sprintf("conflicts.%d", i)
		out, _ = sjson.Set(out, base+".file", c.File)
		out, _ = sjson.Set(out, base+".line", c.Line)
		out, _ = sjson.Set(out, base+".kind", string(c.Kind))
		out, _ = sjson.Set(out, base+".message", c.Message)
		if c.Original != "" || c.Incoming != "" {
			out, _ = sjson.Set(out, base+".original", c.Original)
			out, _ = sjson.Set(out, base+".incoming", c.Incoming)
		}
	}
	return out
}

func emptyNotNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
