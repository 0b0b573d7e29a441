package services

import "fmt"

// Counter names are namespaced per concern; order numbers additionally per
// brand so every brand gets its own human-readable sequence.
const (
	orderCounterPrefix = "orders:"
	qaCounterName      = "qa-cases"
)

func formatOrderNumber(seq int64) string {
	return fmt.Sprintf("ORD-%06d", seq)
}

func formatQACode(seq int64) string {
	return fmt.Sprintf("QA-%05d", seq)
}
