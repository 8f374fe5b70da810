package evacuation

import (
	"fmt"
	"strings"
)

// Report renders a plain-text summary: aggregate statistics followed by one
// line per evacuation in scheduling order.
func (s *Scheduler) Report() string {
	st := s.Statistics()

	var b strings.Builder
	fmt.Fprintf(&b, "Evacuations: %d pending, %d in progress, %d completed\n",
		st.Pending, st.InProgress, st.Completed)
	fmt.Fprintf(&b, "People evacuated: %d/%d (%.1f%%)\n",
		st.TotalEvacuated, st.TotalToEvacuate, st.OverallProgress)

	for _, e := range s.List() {
		fmt.Fprintf(&b, "  %-12s %-9s p=%-3d %-11s %d/%d (%.1f%%)",
			e.ZoneID, Level(e.Priority), e.Priority, e.State,
			e.Evacuated, e.Headcount, e.Progress)
		if e.Team != "" {
			fmt.Fprintf(&b, " team=%s", e.Team)
		}
		b.WriteByte('\n')
	}

	return b.String()
}
