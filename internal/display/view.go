// Package display turns a weather snapshot into the strings shown to the user.
package display

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/i474232898/weather-lookup/internal/normalize"
	"github.com/i474232898/weather-lookup/internal/weather"
)

const (
	dateLayout = "Monday 2 January" // en-GB weekday, day, month
	timeLayout = "3:04 PM"          // en-US 12-hour clock
)

// View is the rendered display. Fields are empty when the snapshot lacks the
// data behind them.
type View struct {
	Query       string `json:"query"`
	Location    string `json:"location"`
	Temperature string `json:"temperature,omitempty"`
	Date        string `json:"date,omitempty"`
	Time        string `json:"time,omitempty"`
	Description string `json:"description,omitempty"`

	// ShowDetails is set once the payload names a place; it gates the
	// feels-like, humidity and wind tiles.
	ShowDetails bool   `json:"showDetails"`
	FeelsLike   string `json:"feelsLike,omitempty"`
	Humidity    string `json:"humidity,omitempty"`
	Wind        string `json:"wind,omitempty"`

	Ready bool `json:"ready"`
}

// Render builds the View for a snapshot and the current query text.
// Only the presence of "main" is checked; missing leaves render as "".
func Render(query string, s weather.Snapshot) View {
	p := s.Payload
	v := View{Query: query}

	if name, ok := p.Get("name"); ok {
		v.Location, _ = name.Text()
		v.ShowDetails = true
	}

	if s.Ready() {
		v.Ready = true
		if feels, ok := p.Path("main", "feelsLike"); ok {
			v.Temperature = celsius(feels)
			v.FeelsLike = v.Temperature
		}
		if humidity, ok := p.Path("main", "humidity"); ok {
			v.Humidity = percent(humidity)
		}
		if local, ok := LocalTime(p); ok {
			v.Date = local.Format(dateLayout)
			v.Time = local.Format(timeLayout)
		}
	}

	if list, ok := p.Get("weather"); ok {
		if first, ok := list.Index(0); ok {
			if desc, ok := first.Get("main"); ok {
				v.Description, _ = desc.Text()
			}
		}
	}

	if speed, ok := p.Path("wind", "speed"); ok {
		if f, ok := speed.Float(); ok {
			v.Wind = round(f) + "km/h"
		}
	}

	return v
}

// LocalTime is the observation time at the observed place: dt shifted by the
// timezone offset and read as UTC.
func LocalTime(p normalize.Value) (time.Time, bool) {
	dtVal, ok := p.Get("dt")
	if !ok {
		return time.Time{}, false
	}
	dt, ok := dtVal.Float()
	if !ok {
		return time.Time{}, false
	}

	var offset float64
	if tz, ok := p.Get("timezone"); ok {
		offset, _ = tz.Float()
	}
	return time.Unix(int64(dt+offset), 0).UTC(), true
}

func celsius(v normalize.Value) string {
	f, ok := v.Float()
	if !ok {
		return ""
	}
	return round(f) + "°C"
}

// percent prints a number in its shortest form, so 6e1 and 60.0 both read "60%".
func percent(v normalize.Value) string {
	if f, ok := v.Float(); ok {
		return strconv.FormatFloat(f, 'f', -1, 64) + "%"
	}
	if text, ok := v.Text(); ok && text != "" {
		return text + "%"
	}
	return ""
}

// round formats f with no decimals, halves away from zero, and never "-0".
func round(f float64) string {
	r := math.Round(f)
	if r == 0 {
		r = 0
	}
	return strconv.FormatFloat(r, 'f', 0, 64)
}

// Write prints v as the plain-text layout used on a terminal.
func Write(w io.Writer, v View) error {
	if !v.Ready && v.Location == "" {
		_, err := fmt.Fprintln(w, "Enter Location")
		return err
	}

	lines := []string{v.Location}
	if v.Temperature != "" {
		lines = append(lines, v.Temperature)
	}
	if v.Date != "" {
		lines = append(lines, v.Date, "Time: "+v.Time)
	}
	if v.Description != "" {
		lines = append(lines, v.Description)
	}
	if v.ShowDetails {
		lines = append(lines, fmt.Sprintf("Feels Like %s | Humidity %s | Winds %s", v.FeelsLike, v.Humidity, v.Wind))
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
