package evacuation_test

import (
	"fmt"

	"github.com/katalvlaran/relief/evacuation"
)

func ExampleScheduler() {
	s := evacuation.NewScheduler()
	_, _ = s.Schedule("Low", 30, 100)
	_, _ = s.Schedule("High", 90, 200)
	_, _ = s.Schedule("Mid", 60, 150)

	e, _ := s.BeginNext("Rescate Alfa")
	_, _ = s.UpdateProgress(e.ID, 200)

	next, _ := s.PeekNext()
	st := s.Statistics()
	fmt.Println(next.ZoneID, st.Completed, st.Pending)
	// Output: Mid 1 2
}
