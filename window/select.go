package window

import "fmt"

// InsufficientEntitiesError is returned when fewer continuous vehicles exist
// than were requested.
type InsufficientEntitiesError struct {
	Required int
	Found    int
}

func (e *InsufficientEntitiesError) Error() string {
	return fmt.Sprintf("not enough continuous vehicles found. required: %d, found: %d", e.Required, e.Found)
}

// Select returns the first count ids.
func Select(ids []string, count int) ([]string, error) {
	if count < 0 {
		return nil, fmt.Errorf("vehicle count must not be negative, got %d", count)
	}
	if len(ids) < count {
		return nil, &InsufficientEntitiesError{Required: count, Found: len(ids)}
	}
	selected := make([]string, count)
	copy(selected, ids[:count])
	return selected, nil
}
