package test

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

const nameLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// RandomName returns a display name of minLen..maxLen letters.
func RandomName(minLen, maxLen int) string {
	if minLen <= 0 {
		minLen = 1
	}
	if maxLen < minLen {
		maxLen = minLen
	}
	length := minLen + rand.IntN(maxLen-minLen+1)
	var b strings.Builder
	b.Grow(length)
	for range length {
		b.WriteByte(nameLetters[rand.IntN(len(nameLetters))])
	}
	return b.String()
}

// RandomEmail returns a unique-enough mixed-case address, useful for
// exercising case-insensitive lookups.
func RandomEmail() string {
	return fmt.Sprintf("%s.%d@Test.com", RandomName(4, 10), rand.IntN(1_000_000))
}
