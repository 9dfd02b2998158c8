package stats

import (
	"encoding/csv"
	"io"
	"strconv"
)

// WriteCSV renders statistic rows as
// patientId,statisticCode,structure1,structure2,value with the numeric
// value in a locale-invariant decimal format.
func WriteCSV(w io.Writer, patientID string, values []StatisticValue) error {
	cw := csv.NewWriter(w)
	for _, v := range values {
		record := []string{
			patientID,
			v.Code,
			v.Structure1,
			v.Structure2,
			strconv.FormatFloat(v.Value, 'g', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
