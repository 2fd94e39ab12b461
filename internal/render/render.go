// Package render fills the report template with upgrade counts.
//
// Templates use {name} placeholders, optionally with a format spec
// {name:[[fill]align][0][width][.precision]}. Values are text, so they are
// left-aligned unless an alignment is given. {{ and }} produce literal
// braces.
package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/ncruces/go-strftime"

	"github.com/sznuper/updavail/internal/failure"
	"github.com/sznuper/updavail/internal/report"
)

const stage = "render"

// DefaultTimeFormat is the strftime layout used for {time}.
const DefaultTimeFormat = "%c"

// Context is the data available to a template.
type Context struct {
	Upgrade     int
	Install     int
	Remove      int
	NotUpgraded int
	Upgradable  int
	Time        time.Time
	TimeFormat  string
}

// NewContext derives a Context from a parsed report and the render time.
func NewContext(r report.UpgradeReport, now time.Time, timeFormat string) Context {
	if timeFormat == "" {
		timeFormat = DefaultTimeFormat
	}
	return Context{
		Upgrade:     r.Upgrade,
		Install:     r.Install,
		Remove:      r.Remove,
		NotUpgraded: r.NotUpgraded,
		Upgradable:  r.Upgradable(),
		Time:        now,
		TimeFormat:  timeFormat,
	}
}

func (c Context) lookup(name string) (string, bool) {
	switch name {
	case "upgrade":
		return strconv.Itoa(c.Upgrade), true
	case "install":
		return strconv.Itoa(c.Install), true
	case "remove":
		return strconv.Itoa(c.Remove), true
	case "not_upgraded":
		return strconv.Itoa(c.NotUpgraded), true
	case "upgradable":
		return strconv.Itoa(c.Upgradable), true
	case "time":
		return strftime.Format(c.TimeFormat, c.Time), true
	}
	return "", false
}

// Render substitutes ctx into tmpl. With maxWidth > 0 the result is refilled
// so that no line is wider than maxWidth columns; otherwise the template's
// own line breaks are kept. Errors are failure.Render.
func Render(tmpl string, ctx Context, maxWidth int) (string, error) {
	out, err := substitute(tmpl, ctx)
	if err != nil {
		return "", failure.New(failure.Render, stage, err)
	}
	if maxWidth > 0 {
		out = Fill(out, maxWidth)
	}
	return out, nil
}

func substitute(tmpl string, ctx Context) (string, error) {
	var b strings.Builder
	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		switch c {
		case '{':
			if i+1 < len(tmpl) && tmpl[i+1] == '{' {
				b.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(tmpl[i+1:], '}')
			if end < 0 {
				return "", fmt.Errorf("unterminated placeholder at offset %d", i)
			}
			field := tmpl[i+1 : i+1+end]
			if strings.ContainsRune(field, '{') {
				return "", fmt.Errorf("unexpected '{' in placeholder %q", field)
			}
			s, err := expand(field, ctx)
			if err != nil {
				return "", err
			}
			b.WriteString(s)
			i += end + 1
		case '}':
			if i+1 < len(tmpl) && tmpl[i+1] == '}' {
				b.WriteByte('}')
				i++
				continue
			}
			return "", fmt.Errorf("single '}' at offset %d", i)
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

func expand(field string, ctx Context) (string, error) {
	name, spec, hasSpec := strings.Cut(field, ":")
	v, ok := ctx.lookup(name)
	if !ok {
		return "", fmt.Errorf("unknown placeholder: %s", name)
	}
	if !hasSpec || spec == "" {
		return v, nil
	}
	f, err := parseSpec(spec)
	if err != nil {
		return "", fmt.Errorf("placeholder %s: %w", name, err)
	}
	return f.apply(v), nil
}

// format is the string subset of a Python format spec:
// [[fill]align][0][width][.precision][s]. Every value is text, so the
// default alignment is left.
type format struct {
	fill      string
	align     byte
	width     int
	precision int // -1 means none
}

func isAlign(r rune) bool {
	return r == '<' || r == '>' || r == '^'
}

func parseSpec(spec string) (format, error) {
	f := format{fill: " ", align: '<', precision: -1}
	runes := []rune(spec)
	explicitAlign := false
	switch {
	case len(runes) >= 2 && isAlign(runes[1]):
		f.fill = string(runes[0])
		f.align = byte(runes[1])
		runes = runes[2:]
		explicitAlign = true
	case len(runes) >= 1 && isAlign(runes[0]):
		f.align = byte(runes[0])
		runes = runes[1:]
		explicitAlign = true
	}

	if len(runes) > 0 && runes[len(runes)-1] == 's' {
		runes = runes[:len(runes)-1]
	}
	widthPart, precPart, hasPrec := strings.Cut(string(runes), ".")

	if strings.HasPrefix(widthPart, "0") && len(widthPart) > 1 && !explicitAlign {
		f.fill = "0"
	}
	if widthPart != "" {
		w, err := parseUint(widthPart)
		if err != nil {
			return format{}, fmt.Errorf("invalid format spec %q", spec)
		}
		f.width = w
	}
	if hasPrec {
		p, err := parseUint(precPart)
		if err != nil {
			return format{}, fmt.Errorf("invalid format spec %q", spec)
		}
		f.precision = p
	}
	return f, nil
}

func parseUint(s string) (int, error) {
	if s == "" || strings.TrimLeft(s, "0123456789") != "" {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return strconv.Atoi(s)
}

func (f format) apply(text string) string {
	if f.precision >= 0 {
		text, _ = cut(text, f.precision, false)
	}
	pad := f.width - runewidth.StringWidth(text)
	if pad <= 0 {
		return text
	}
	switch f.align {
	case '>':
		return strings.Repeat(f.fill, pad) + text
	case '^':
		left := pad / 2
		return strings.Repeat(f.fill, left) + text + strings.Repeat(f.fill, pad-left)
	default:
		return text + strings.Repeat(f.fill, pad)
	}
}
