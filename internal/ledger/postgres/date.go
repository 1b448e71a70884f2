package postgres

import (
	"fmt"
	"time"
)

var dateLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02",
}

// scannedDate accepts a date column whether the driver hands back a time or its text form.
type scannedDate struct {
	time.Time
}

func (d *scannedDate) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		d.Time = dayOf(v)
		return nil
	case string:
		return d.parse(v)
	case []byte:
		return d.parse(string(v))
	case nil:
		d.Time = time.Time{}
		return nil
	}
	return fmt.Errorf("cannot scan %T into a date", src)
}

func (d *scannedDate) parse(s string) error {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = dayOf(t)
			return nil
		}
	}
	return fmt.Errorf("cannot parse %q as a date", s)
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
