package evaluate

import (
	"encoding/json"
	"fmt"

	"github.com/poiesic/stixify/core"
)

// Validation is the structural check result for one bundle file.
type Validation struct {
	File    string   `json:"file"`
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

// ValidateDocument checks the bundle envelope and every indicator in data and
// collects all problems rather than stopping at the first.
func ValidateDocument(file string, data []byte) Validation {
	v := Validation{File: file, Errors: []string{}}

	var bundle core.Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		v.Errors = append(v.Errors, fmt.Errorf("%w: %w", ErrUnreadableBundle, err).Error())
		return v
	}

	envelope := bundle
	envelope.Objects = nil
	if err := core.ValidateBundle(&envelope); err != nil {
		v.Errors = append(v.Errors, err.Error())
	}
	for i := range bundle.Objects {
		if err := core.ValidateIndicator(&bundle.Objects[i]); err != nil {
			v.Errors = append(v.Errors, fmt.Sprintf("objects[%d]: %v", i, err))
		}
	}

	v.IsValid = len(v.Errors) == 0
	return v
}
