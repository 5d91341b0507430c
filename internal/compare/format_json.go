package compare

import (
	"encoding/json"
)

// JSONFormatter renders a comparison as JSON.
type JSONFormatter struct {
	Pretty bool
}

// Format marshals the comparison, indented when Pretty is set.
func (jf *JSONFormatter) Format(cmp *Comparison) (string, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(cmp, "", "  ")
	} else {
		data, err = json.Marshal(cmp)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}
