// Package export renders solved schedules for downstream consumers.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/yardworks/shunter/core/compile"
	"github.com/yardworks/shunter/core/timetable"
)

// WriteJSON writes the schedule to w in JSON format.
func WriteJSON(w io.Writer, s *compile.Schedule) error {
	enc := json.NewEncoder(w)
	return enc.Encode(s)
}

// WriteCSV writes the task placements to w in CSV format. Times are
// rendered as day and clock of the planning week.
func WriteCSV(w io.Writer, s *compile.Schedule) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"side", "task", "train", "start", "end"}); err != nil {
		return err
	}
	for _, tt := range s.Tasks {
		rec := []string{
			tt.Side.String(),
			strconv.Itoa(tt.Index),
			string(tt.Train),
			clock(tt.Start),
			clock(tt.End),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func clock(m timetable.Minutes) string {
	day, hh, mm := m.Clock()
	return fmt.Sprintf("d%d %02d:%02d", day, hh, mm)
}
