// Package naming formats output clip filenames from a user-configurable
// pattern string. Recognized placeholders: {name}, {num}, {duration},
// {timestamp}, {project}. {num} supports zero-padded width specs in the
// form {num:03d}.
package naming

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const DefaultPattern = "{name}_part_{num:03d}"

var (
	rePlaceholder = regexp.MustCompile(`\{(name|num|duration|timestamp|project)(?::(0?\d+)d)?\}`)
	reSpecial     = regexp.MustCompile(`[^\w\s-]`)
	reSpaces      = regexp.MustCompile(`\s+`)
	reUnderscores = regexp.MustCompile(`_+`)
)

// Clip holds the values substituted into a naming pattern.
type Clip struct {
	Name      string  // cleaned source filename stem
	Num       int     // 1-based clip index
	Duration  float64 // configured clip length in seconds
	Timestamp float64 // clip start offset in the source, seconds
	Project   string
}

// Format expands pattern for one clip and appends the .mp4 extension.
func Format(pattern string, c Clip) string {
	if pattern == "" {
		pattern = DefaultPattern
	}
	out := rePlaceholder.ReplaceAllStringFunc(pattern, func(m string) string {
		groups := rePlaceholder.FindStringSubmatch(m)
		switch groups[1] {
		case "name":
			return c.Name
		case "num":
			if groups[2] != "" {
				width, _ := strconv.Atoi(strings.TrimPrefix(groups[2], "0"))
				return fmt.Sprintf("%0*d", width, c.Num)
			}
			return strconv.Itoa(c.Num)
		case "duration":
			return strconv.Itoa(int(c.Duration))
		case "timestamp":
			return FormatOffset(c.Timestamp)
		case "project":
			return c.Project
		}
		return m
	})
	return out + ".mp4"
}

// FormatOffset renders a start offset as a compact MMmSSs token, for
// example 95.4 -> "01m35s". Offsets of an hour or more include hours.
func FormatOffset(sec float64) string {
	total := int(sec)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%02dm%02ds", m, s)
}

// CleanFilename strips characters that are awkward in filenames: specials
// are removed, whitespace becomes underscores, underscore runs collapse.
func CleanFilename(name string) string {
	cleaned := reSpecial.ReplaceAllString(name, "")
	cleaned = reSpaces.ReplaceAllString(cleaned, "_")
	cleaned = reUnderscores.ReplaceAllString(cleaned, "_")
	return strings.Trim(cleaned, "_")
}
