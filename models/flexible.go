package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexibleString accepts JSON strings and numbers interchangeably. Aggregator
// callbacks are inconsistent about how they encode monetary fields.
type FlexibleString string

func (fs *FlexibleString) UnmarshalJSON(data []byte) error {
	var s string
	var i int64
	var f float64

	if err := json.Unmarshal(data, &s); err == nil {
		*fs = FlexibleString(s)
		return nil
	}

	if err := json.Unmarshal(data, &i); err == nil {
		*fs = FlexibleString(fmt.Sprintf("%d", i))
		return nil
	}

	if err := json.Unmarshal(data, &f); err == nil {
		*fs = FlexibleString(fmt.Sprintf("%g", f))
		return nil
	}

	return fmt.Errorf("unable to parse %s as FlexibleString", string(data))
}

func (fs FlexibleString) ToFloat64() (float64, error) {
	if fs == "" {
		return 0, nil
	}
	return strconv.ParseFloat(string(fs), 64)
}

func (fs FlexibleString) String() string {
	return string(fs)
}

// Bool returns a pointer to v. Pointer booleans are required on columns with
// a true default, otherwise gorm omits an explicit false on insert.
func Bool(v bool) *bool {
	return &v
}
