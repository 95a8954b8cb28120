package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile("[^A-Z0-9]+")

// TenantPrefix derives the complaint id prefix from a company name ("Acme Corp" -> "ACM").
func TenantPrefix(name string) string {
	s := nonAlnum.ReplaceAllString(strings.ToUpper(name), "")
	if len(s) > 3 {
		s = s[:3]
	}
	if s == "" {
		return "CMP"
	}
	return s
}

// SequenceID formats the human-facing complaint id.
func SequenceID(prefix string, seq int64) string {
	return fmt.Sprintf("%s-%06d", prefix, seq)
}
