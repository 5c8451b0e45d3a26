package climate

import (
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"
)

// hourlyRow is one line of a standard hourly weather CSV export.
type hourlyRow struct {
	Day         int     `csv:"day"`  // 1-365
	Hour        int     `csv:"hour"` // 0-23
	TempC       float64 `csv:"temp_c"`
	GHIWm2      float64 `csv:"ghi_wm2"`
	HumidityPct float64 `csv:"humidity_pct"`
}

// ParseCSV reads an hourly weather file into a Record. The file must contain
// exactly one row per hour of a 365-day year; anything else is rejected here
// so the simulator can assume well-formed fixed-length series.
func ParseCSV(r io.Reader, latDeg float64) (*Record, error) {
	var rows []hourlyRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("parsing weather csv: %w", err)
	}
	if len(rows) != Hours {
		return nil, fmt.Errorf("weather file has %d hourly rows, want %d", len(rows), Hours)
	}

	rec := &Record{
		Latitude: latDeg,
		TempC:    make([]float64, Hours),
		GHI:      make([]float64, Hours),
		Humidity: make([]float64, Hours),
	}
	for n, row := range rows {
		if row.Day < 1 || row.Day > 365 || row.Hour < 0 || row.Hour > 23 {
			return nil, fmt.Errorf("row %d: day %d hour %d out of range", n+1, row.Day, row.Hour)
		}
		i := (row.Day-1)*24 + row.Hour
		rec.TempC[i] = row.TempC
		rec.GHI[i] = row.GHIWm2
		rec.Humidity[i] = row.HumidityPct
	}

	rec.computeAggregates()
	return rec, nil
}

// LoadCSVFile opens and parses an hourly weather file.
func LoadCSVFile(path string, latDeg float64) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening weather file: %w", err)
	}
	defer f.Close()
	return ParseCSV(f, latDeg)
}
