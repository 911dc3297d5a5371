package platform

import "fmt"

// normalizeError folds a platform error into the single string shape the
// worker persists on the destination row: platform, code, message and the
// platform's correlation id when one was supplied.
func normalizeError(platform string, code any, message, traceID string) error {
	if traceID != "" {
		return fmt.Errorf("%s: (%v) %s [%s]", platform, code, message, traceID)
	}
	return fmt.Errorf("%s: (%v) %s", platform, code, message)
}
