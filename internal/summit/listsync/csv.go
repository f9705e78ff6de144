package listsync

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"sotadiploma/internal/summit"
)

// listDateLayout is the dd/MM/yyyy format of the summit list.
const listDateLayout = "02/01/2006"

var requiredColumns = []string{"SummitCode", "SummitName", "ValidFrom", "ValidTo"}

// ParseCSV reads the association summit list. The first line is a title and
// the second the column header. Only summits of a known region are returned;
// rows with unparsable dates are counted in skipped.
func ParseCSV(r io.Reader) (entries []summit.ListEntry, skipped int, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, errors.New("summit list is empty")
		}
		return nil, 0, fmt.Errorf("read title line: %w", err)
	}
	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, 0, fmt.Errorf("summit list has no %s column", name)
		}
	}

	entries = []summit.ListEntry{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, skipped, fmt.Errorf("read summit list: %w", err)
		}
		field := func(name string) string {
			i := columns[name]
			if i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		code := field("SummitCode")
		if _, ok := summit.RegionFor(code); !ok {
			continue
		}
		from, errFrom := time.Parse(listDateLayout, field("ValidFrom"))
		to, errTo := time.Parse(listDateLayout, field("ValidTo"))
		if errFrom != nil || errTo != nil {
			skipped++
			continue
		}
		entries = append(entries, summit.ListEntry{
			Code:      code,
			Name:      field("SummitName"),
			ValidFrom: from,
			ValidTo:   to,
		})
	}
	return entries, skipped, nil
}
