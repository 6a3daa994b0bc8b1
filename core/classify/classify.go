// Package classify maps changed paths and commit metadata to the buckets used by Stats.
// Every function here is pure and safe for concurrent use.
package classify

import (
	"regexp"
	"strings"
	"time"
)

// interestingLanguages is the allow-list of tracked file extensions.
var interestingLanguages = func() map[string]struct{} {
	set := make(map[string]struct{})
	for _, lang := range []string{
		"java", "js", "css", "clj", "scala", "kt", "groovy", "j2",
		"properties", "sh", "xsd", "xml", "yaml", "yml", "py",
	} {
		set[lang] = struct{}{}
	}
	return set
}()

// prNumberPattern matches a "(#123)" pull request reference.
var prNumberPattern = regexp.MustCompile(`\(#(\d+)\)`)

// prMarker is the literal that flags a summary as referencing a pull request.
const prMarker = "(#"

// ignoredPrefix marks top-level paths that never form a component.
const ignoredPrefix = "master"

// Component returns the text before the first '/' of path.
// Paths without a '/' or starting with "master" have no component.
func Component(path string) (string, bool) {
	if strings.HasPrefix(path, ignoredPrefix) {
		return "", false
	}
	head, _, found := strings.Cut(path, "/")
	if !found {
		return "", false
	}
	return head, true
}

// Language returns the text after the last '.' of path.
// There is no language when the path has no '.' or the text after it contains '/'.
func Language(path string) (string, bool) {
	idx := strings.LastIndexByte(path, '.')
	if idx < 0 {
		return "", false
	}
	ext := path[idx+1:]
	if strings.Contains(ext, "/") {
		return "", false
	}
	return ext, true
}

// IsInterestingLanguage reports whether tag is on the allow-list.
func IsInterestingLanguage(tag string) bool {
	_, ok := interestingLanguages[tag]
	return ok
}

// IsComponentPath reports whether a delta path takes part in the statistics.
func IsComponentPath(path string) bool {
	return strings.Contains(path, "/") && !strings.HasPrefix(path, ignoredPrefix)
}

// HasPRMarker reports whether a commit summary references a pull request.
func HasPRMarker(summary string) bool {
	return strings.Contains(summary, prMarker)
}

// ExtractPRNumber returns the digits of the first "(#N)" in summary.
func ExtractPRNumber(summary string) (string, bool) {
	m := prNumberPattern.FindStringSubmatch(summary)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// CommitDate converts an author timestamp to the author's wall-clock time, expressed in UTC.
func CommitDate(seconds int64, offsetMinutes int) time.Time {
	return time.Unix(seconds+int64(offsetMinutes)*60, 0).UTC()
}

// WeekdayName returns the three-letter English weekday of t.
func WeekdayName(t time.Time) string {
	return t.Weekday().String()[:3]
}

// CountBy counts items by the key returned for each of them.
// Items for which key reports false are skipped.
func CountBy[T any](items []T, key func(T) (string, bool)) map[string]int {
	counts := make(map[string]int)
	for _, item := range items {
		if k, ok := key(item); ok {
			counts[k]++
		}
	}
	return counts
}
