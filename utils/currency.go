package utils

import (
	"fmt"
	"strconv"
)

// FormatRupees formats whole rupees with Indian digit grouping.
// Example: 1234567 -> "₹12,34,567"
func FormatRupees(amount int) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := strconv.Itoa(amount)
	if len(digits) <= 3 {
		return fmt.Sprintf("%s₹%s", sign, digits)
	}

	// last three digits, then groups of two
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	grouped := ""
	for len(head) > 2 {
		grouped = "," + head[len(head)-2:] + grouped
		head = head[:len(head)-2]
	}
	grouped = head + grouped

	return fmt.Sprintf("%s₹%s,%s", sign, grouped, tail)
}
