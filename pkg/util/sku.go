package util

import (
	"fmt"
	"math/rand"
	"strings"
)

// GenerateSKU builds NAM-CA-1234 from the first letters of the product name
// and category plus four random digits
func GenerateSKU(name, category string) string {
	if category == "" {
		category = "general"
	}
	return fmt.Sprintf("%s-%s-%d", skuPart(name, 3), skuPart(category, 2), 1000+rand.Intn(9000))
}

func skuPart(s string, n int) string {
	s = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	if len(s) > n {
		return s[:n]
	}
	return s
}
