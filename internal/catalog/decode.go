package catalog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// rawRecord mirrors one vehicle object as exported by the dealer feed.
// The feed is loosely typed: numbers arrive as numbers or comma-grouped
// strings, flags as booleans or Y/N letters, and nested objects are
// sometimes flattened. Every field here is optional.
type rawRecord struct {
	CarNo          flexString `json:"carNo"`
	CarName        flexString `json:"carName"`
	Name           flexString `json:"name"`
	Brand          flexString `json:"brand"`
	ModelName      flexString `json:"modelName"`
	Fuel           nameField  `json:"fuel"`
	FuelName       flexString `json:"fuelName"`
	Color          nameField  `json:"color"`
	Gear           flexString `json:"gear"`
	Segment        flexString `json:"segment"`
	BodyType       flexString `json:"bodyType"`
	Km             flexInt    `json:"km"`
	Yyyy           flexInt    `json:"yyyy"`
	DemoAmt        flexInt    `json:"demoAmt"`
	MonthlyDemoAmt flexInt    `json:"monthlyDemoAmt"`
	NoAccident     flexBool   `json:"noAccident"`
	Options        namesField `json:"options"`
	Tags           []string   `json:"tags"`
}

// decodeRecords accepts the feed in any of its observed shapes: a bare JSON
// array, an object wrapping the array under data/items/list, or
// newline-delimited JSON objects.
func decodeRecords(raw []byte) ([]rawRecord, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty catalog payload")
	}

	if trimmed[0] == '[' {
		var recs []rawRecord
		if err := json.Unmarshal(trimmed, &recs); err != nil {
			return nil, fmt.Errorf("decode catalog array: %w", err)
		}
		return recs, nil
	}

	if trimmed[0] == '{' {
		var wrapper struct {
			Data  json.RawMessage `json:"data"`
			Items json.RawMessage `json:"items"`
			List  json.RawMessage `json:"list"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err == nil {
			for _, inner := range []json.RawMessage{wrapper.Data, wrapper.Items, wrapper.List} {
				if len(inner) == 0 {
					continue
				}
				var recs []rawRecord
				if err := json.Unmarshal(inner, &recs); err != nil {
					return nil, fmt.Errorf("decode wrapped catalog array: %w", err)
				}
				return recs, nil
			}
		}
		// fall through: could be NDJSON whose first line is an object
	}

	var recs []rawRecord
	sc := bufio.NewScanner(bytes.NewReader(trimmed))
	sc.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec rawRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("decode catalog line: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan catalog lines: %w", err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("no records in catalog payload")
	}
	return recs, nil
}

// flexString decodes strings, numbers and null into a plain string.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	*f = flexString(data)
	return nil
}

// flexInt decodes numbers, numeric strings (commas tolerated) and null.
// Valid reports whether a value was present.
type flexInt struct {
	Value int
	Valid bool
}

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	s := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		f.Value, f.Valid = n, true
		return nil
	}
	if fl, err := strconv.ParseFloat(s, 64); err == nil {
		f.Value, f.Valid = int(fl), true
		return nil
	}
	// unparseable numeric is treated as absent, not fatal
	return nil
}

func (f flexInt) ptr() *int {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}

// flexBool decodes booleans, Y/N style letters, numeric flags and null.
type flexBool struct {
	Value bool
	Valid bool
}

func (f *flexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch {
	case bytes.Equal(data, []byte("true")):
		f.Value, f.Valid = true, true
	case bytes.Equal(data, []byte("false")):
		f.Value, f.Valid = false, true
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "y", "yes", "true", "1":
			f.Value, f.Valid = true, true
		case "n", "no", "false", "0":
			f.Value, f.Valid = false, true
		}
	default:
		if n, err := strconv.Atoi(string(data)); err == nil {
			f.Value, f.Valid = n != 0, true
		}
	}
	return nil
}

func (f flexBool) ptr() *bool {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}

// nameField decodes either a bare string or an object carrying {"name": ...}.
type nameField string

func (n *nameField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if data[0] == '{' {
		var obj struct {
			Name flexString `json:"name"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*n = nameField(obj.Name)
		return nil
	}
	var s flexString
	if err := s.UnmarshalJSON(data); err != nil {
		return err
	}
	*n = nameField(s)
	return nil
}

// namesField decodes either a string array or an object carrying
// {"names": [...]}.
type namesField []string

func (n *namesField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = nil
		return nil
	}
	if data[0] == '{' {
		var obj struct {
			Names []string `json:"names"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*n = obj.Names
		return nil
	}
	var arr []string
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}
	*n = arr
	return nil
}
