package types

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Address is a location in the inspected process's address space. Debugger
// frontends emit addresses as hex strings, captures sometimes as decimal
// strings or numbers; all three forms decode.
type Address uint64

func (a Address) String() string {
	return "0x" + strconv.FormatUint(uint64(a), 16)
}

func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Address) UnmarshalJSON(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	var s string
	if b[0] == '"' {
		err := json.Unmarshal(b, &s)
		if err != nil {
			return err
		}
	} else {
		s = string(b)
	}
	var v uint64
	var err error
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err = strconv.ParseUint(s[2:], 16, 64)
	} else {
		v, err = strconv.ParseUint(s, 10, 64)
	}
	if err != nil {
		return err
	}
	*a = Address(v)
	return nil
}
