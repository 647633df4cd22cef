package sku

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"
)

const (
	productCodeLen = 6
	valueCodeLen   = 3
	suffixRange    = 10000
)

var nonAlnumUpperRegex = regexp.MustCompile(`[^A-Z0-9]`)

// Generate builds a legible SKU such as "KAOSPO-BLU-XL-0427" from the product
// name and the option values in option-type order. The random suffix does
// not make the result unique; uniqueness is enforced at insert time.
func Generate(productName string, optionValues []string) string {
	return build(productName, optionValues, randomSuffix())
}

func build(productName string, optionValues []string, suffix int) string {
	parts := make([]string, 0, len(optionValues)+2)

	if code := code(productName, productCodeLen); code != "" {
		parts = append(parts, code)
	}

	for _, v := range optionValues {
		if c := code(v, valueCodeLen); c != "" {
			parts = append(parts, c)
		}
	}

	parts = append(parts, fmt.Sprintf("%04d", suffix%suffixRange))
	return strings.Join(parts, "-")
}

func code(s string, max int) string {
	c := nonAlnumUpperRegex.ReplaceAllString(strings.ToUpper(s), "")
	if len(c) > max {
		c = c[:max]
	}
	return c
}

func randomSuffix() int {
	n, err := rand.Int(rand.Reader, big.NewInt(suffixRange))
	if err != nil {
		// fallback: time-based entropy
		return int(time.Now().UnixNano() % suffixRange)
	}
	return int(n.Int64())
}
