package patch

import (
	"regexp"
	"strconv"
	"strings"
)

// Pattern matches either a literal substring or a regular expression. The
// zero value matches nothing and reports IsZero.
type Pattern struct {
	literal string
	re      *regexp.Regexp
}

func Literal(text string) Pattern {
	return Pattern{literal: text}
}

// Regexp compiles expr and panics on a malformed expression. Patterns are
// package level declarations, so a bad one fails at init.
func Regexp(expr string) Pattern {
	return Pattern{re: regexp.MustCompile(expr)}
}

func (p Pattern) IsZero() bool {
	return p.literal == "" && p.re == nil
}

func (p Pattern) IsLiteral() bool {
	return p.re == nil && p.literal != ""
}

func (p Pattern) String() string {
	if p.re != nil {
		return "/" + p.re.String() + "/"
	}
	return strconv.Quote(p.literal)
}

func (p Pattern) Contains(text string) bool {
	switch {
	case p.re != nil:
		return p.re.MatchString(text)
	case p.literal != "":
		return strings.Contains(text, p.literal)
	default:
		return false
	}
}

// findAll returns the non-overlapping matches in text as submatch index
// pairs, the same shape regexp.FindAllStringSubmatchIndex uses. A literal
// pattern yields only the whole-match pair.
func (p Pattern) findAll(text string) [][]int {
	if p.re != nil {
		return p.re.FindAllStringSubmatchIndex(text, -1)
	}
	if p.literal == "" {
		return nil
	}

	var matches [][]int
	offset := 0
	for {
		i := strings.Index(text[offset:], p.literal)
		if i < 0 {
			return matches
		}
		start := offset + i
		end := start + len(p.literal)
		matches = append(matches, []int{start, end})
		offset = end
	}
}

// expand substitutes ${n} references in template with the groups of match.
func (p Pattern) expand(template string, text string, match []int) string {
	if p.re == nil {
		return template
	}
	return string(p.re.ExpandString(nil, template, text, match))
}

func groups(text string, match []int) []string {
	result := make([]string, len(match)/2)
	for i := range result {
		start, end := match[2*i], match[2*i+1]
		if start >= 0 && end >= 0 {
			result[i] = text[start:end]
		}
	}
	return result
}
