// Package timeutil decodes the capture timestamps snapshot producers send.
// Debugger frontends emit RFC 3339 strings while scripted producers usually
// send raw seconds since epoch, sometimes fractional.
package timeutil

import (
	"encoding/json"
	"math"
	"strconv"
	"time"
)

type Time time.Time

func (t *Time) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == "{}" {
		return nil
	}
	if s[0] == '"' {
		tt, err := time.Parse(`"`+time.RFC3339+`"`, s)
		if err != nil {
			return err
		}
		*t = Time(tt)
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	sec, frac := math.Modf(f)
	*t = Time(time.Unix(int64(sec), int64(frac*float64(time.Second))))
	return nil
}

func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t))
}

func (t Time) Time() time.Time {
	return time.Time(t)
}

// Equal reports whether both timestamps name the same instant.
func (t Time) Equal(u Time) bool {
	return time.Time(t).Equal(time.Time(u))
}
