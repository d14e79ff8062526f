package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinDescriptionLen is the shortest paragraph accepted as a description.
const MinDescriptionLen = 20

var (
	blockSepRe   = regexp.MustCompile(`\n[\s\p{Zs}]*\n`)
	inlineCodeRe = regexp.MustCompile("`([^`]+)`")
	boldRe       = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicRe     = regexp.MustCompile(`\*([^*]+)\*`)
	linkRe       = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	htmlTagRe    = regexp.MustCompile(`<[^>]+>`)
	spaceRe      = regexp.MustCompile(`[\s\p{Zs}]+`)
)

// ExtractDescription returns the first prose paragraph of body with inline
// markup removed. Headings, list items and code fences are skipped, as is any
// paragraph shorter than MinDescriptionLen characters after cleanup.
func ExtractDescription(body string) (string, bool) {
	normalized := strings.ReplaceAll(body, "\r\n", "\n")
	for _, block := range blockSepRe.Split(normalized, -1) {
		block = strings.TrimSpace(block)
		if block == "" || skipBlock(block) {
			continue
		}
		text := stripInline(block)
		if utf8.RuneCountInString(text) >= MinDescriptionLen {
			return text, true
		}
	}
	return "", false
}

func skipBlock(b string) bool {
	for _, prefix := range []string{"#", "-", "*", "1.", "```"} {
		if strings.HasPrefix(b, prefix) {
			return true
		}
	}
	return false
}

func stripInline(b string) string {
	s := inlineCodeRe.ReplaceAllString(b, "$1")
	s = boldRe.ReplaceAllString(s, "$1")
	s = italicRe.ReplaceAllString(s, "$1")
	s = linkRe.ReplaceAllString(s, "$1")
	s = htmlTagRe.ReplaceAllString(s, "")
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
