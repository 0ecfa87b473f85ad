package cart

import (
	"encoding/json"
	"strconv"
)

// ProductID identifies a product in the external catalog. It is opaque to the
// cart and never generated locally.
type ProductID string

// MarshalJSON writes integer ids as JSON numbers so stored carts match the
// catalog's own representation, and everything else as a string.
func (id ProductID) MarshalJSON() ([]byte, error) {
	if isInteger(string(id)) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON accepts both numeric and string ids.
func (id *ProductID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ProductID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ProductID(n.String())
	return nil
}

func isInteger(s string) bool {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return false
	}
	return strconv.FormatInt(v, 10) == s
}
