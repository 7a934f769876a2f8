package domain

import (
	"errors"
	"fmt"
)

// InvalidDatasetError marks input that cannot be analyzed at all (no dataset, no columns, no rows).
type InvalidDatasetError struct {
	Source string
	Reason string
}

func (e *InvalidDatasetError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("invalid dataset: %s", e.Reason)
	}
	return fmt.Sprintf("invalid dataset %q: %s", e.Source, e.Reason)
}

func IsInvalidDataset(err error) bool {
	var target *InvalidDatasetError
	return errors.As(err, &target)
}
