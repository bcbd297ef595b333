package migrator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var ErrNotCreateTable = errors.New("not a CREATE TABLE statement")

type RuleKind string

const (
	KindStatement  RuleKind = "statement"
	KindConstraint RuleKind = "constraint"
	KindType       RuleKind = "type"
	KindIdentifier RuleKind = "identifier"
)

// Rule rewrites every match of Pattern with Replace (regexp expansion applies).
type Rule struct {
	Kind    RuleKind
	Pattern string
	Replace string
	re      *regexp.Regexp
}

// TokenRule matches the whitespace separated tokens of from as whole words,
// ignoring case.
func TokenRule(kind RuleKind, from, to string) Rule {
	words := strings.Fields(from)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return Rule{
		Kind:    kind,
		Pattern: `(?i)\b` + strings.Join(words, `\s+`) + `\b`,
		Replace: to,
	}
}

// Dialect is an ordered rule table from one SQL dialect to another.
type Dialect struct {
	Name  string
	rules []Rule
}

func NewDialect(name string, rules ...Rule) (*Dialect, error) {
	d := &Dialect{Name: name}
	for _, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile %s rule %q: %w", r.Kind, r.Pattern, err)
		}
		r.re = re
		d.rules = append(d.rules, r)
	}
	return d, nil
}

// Rules returns a copy of the rule table.
func (d *Dialect) Rules() []Rule {
	return append([]Rule(nil), d.rules...)
}

var createTableRe = regexp.MustCompile(`(?is)^\s*CREATE\s+TABLE\b`)

// Translate rewrites a CREATE TABLE statement. Anything else is rejected.
//
// Identifier rules only see quoted spans ('...', "...", `...`, [...]); every
// other kind only sees the text between them, and statement rules only the
// text before the first quoted span.
func (d *Dialect) Translate(ddl string) (string, error) {
	if !createTableRe.MatchString(ddl) {
		return "", fmt.Errorf("%w: %.40q", ErrNotCreateTable, ddl)
	}
	var b strings.Builder
	for i, seg := range splitQuoted(strings.TrimSpace(ddl)) {
		text := seg.text
		for _, r := range d.rules {
			if r.appliesTo(i, seg.quoted) {
				text = r.re.ReplaceAllString(text, r.Replace)
			}
		}
		b.WriteString(text)
	}
	return b.String(), nil
}

func (r Rule) appliesTo(index int, quoted bool) bool {
	switch r.Kind {
	case KindIdentifier:
		return quoted
	case KindStatement:
		return index == 0 && !quoted
	default:
		return !quoted
	}
}

type segment struct {
	text   string
	quoted bool
}

// splitQuoted cuts s into alternating plain and quoted spans. An unterminated
// quote runs to the end of s.
func splitQuoted(s string) []segment {
	var out []segment
	start := 0
	for i := 0; i < len(s); {
		closer, ok := quoteCloser(s[i])
		if !ok {
			i++
			continue
		}
		end := closingQuote(s, i, closer)
		if start < i {
			out = append(out, segment{text: s[start:i]})
		}
		out = append(out, segment{text: s[i:end], quoted: true})
		start, i = end, end
	}
	if start < len(s) {
		out = append(out, segment{text: s[start:]})
	}
	return out
}

func quoteCloser(c byte) (byte, bool) {
	switch c {
	case '\'', '"', '`':
		return c, true
	case '[':
		return ']', true
	}
	return 0, false
}

// closingQuote returns the index just past the span opened at s[i]. A doubled
// closer is an escaped quote, except inside brackets.
func closingQuote(s string, i int, closer byte) int {
	for j := i + 1; j < len(s); j++ {
		if s[j] != closer {
			continue
		}
		if closer != ']' && j+1 < len(s) && s[j+1] == closer {
			j++
			continue
		}
		return j + 1
	}
	return len(s)
}

// SQLiteToPostgres maps SQLite table definitions to Postgres ones. TEXT,
// INTEGER, NUMERIC, BOOLEAN, VARCHAR and DATE need no rule.
func SQLiteToPostgres() *Dialect {
	d, err := NewDialect("sqlite->postgres",
		Rule{
			Kind:    KindStatement,
			Pattern: `(?i)^CREATE\s+TABLE\s+(IF\s+NOT\s+EXISTS\s+)?`,
			Replace: "CREATE TABLE IF NOT EXISTS ",
		},
		Rule{Kind: KindIdentifier, Pattern: "^`([^`\"]*)`$", Replace: `"$1"`},
		Rule{Kind: KindIdentifier, Pattern: `^\[([^\]"]*)\]$`, Replace: `"$1"`},
		Rule{
			Kind:    KindConstraint,
			Pattern: `(?i)\bINTEGER(\s+NOT\s+NULL)?\s+PRIMARY\s+KEY(?:\s+(?:ASC|DESC))?\s+AUTOINCREMENT\b`,
			Replace: "SERIAL${1} PRIMARY KEY",
		},
		TokenRule(KindType, "REAL", "DOUBLE PRECISION"),
		TokenRule(KindType, "DATETIME", "TIMESTAMP"),
		TokenRule(KindType, "BLOB", "BYTEA"),
	)
	if err != nil {
		panic(err)
	}
	return d
}
