package utils

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderNumberPattern = regexp.MustCompile(`^ORD\d{15}$`)

func TestGenerateOrderNumber_Format(t *testing.T) {
	now := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)

	for i := 0; i < 50; i++ {
		n := GenerateOrderNumber(now)
		require.Regexp(t, orderNumberPattern, n)
		assert.True(t, strings.HasPrefix(n, "ORD250314150926"), "timestamp part must match the given time, got %s", n)
	}
}

func TestGenerateOrderNumber_SuffixRange(t *testing.T) {
	now := time.Now()
	seen := map[string]bool{}

	for i := 0; i < 200; i++ {
		n := GenerateOrderNumber(now)
		require.Len(t, n, 18)
		seen[n[15:]] = true
	}
	// 200 draws from 1000 suffixes; more than one distinct value is expected.
	assert.Greater(t, len(seen), 1)
}
