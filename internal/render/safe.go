package render

import (
	"regexp"
	"strconv"
	"strings"
)

var escaper = strings.NewReplacer(
	`&`, `&amp;`,
	`<`, `&lt;`,
	`>`, `&gt;`,
)

// placeholderMark delimits stashed code bodies. It is stripped from the
// source before rendering so user text can never forge a placeholder.
const placeholderMark = "\x00"

var placeholderRe = regexp.MustCompile(`\x00(\d+)\x00`)

// pass carries the state of a single Transform call.
type pass struct {
	protect bool
	stashed []string
}

func (p *pass) stash(body string) string {
	p.stashed = append(p.stashed, body)
	return placeholderMark + strconv.Itoa(len(p.stashed)-1) + placeholderMark
}

func (p *pass) restore(s string) string {
	if len(p.stashed) == 0 {
		return s
	}
	// A stashed body may itself hold placeholders (a fence inside an inline
	// span), so unwrap at most once per stashed body.
	for range p.stashed {
		if !strings.Contains(s, placeholderMark) {
			break
		}
		s = placeholderRe.ReplaceAllStringFunc(s, func(m string) string {
			i, err := strconv.Atoi(m[1 : len(m)-1])
			if err != nil || i >= len(p.stashed) {
				return m
			}
			return p.stashed[i]
		})
	}
	return s
}
