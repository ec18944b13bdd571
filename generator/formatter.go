package generator

import "strings"

// majorKeywords are the statement openers the formatter guarantees a blank
// line before. PARTITION BY is listed but only triggers after a completed
// statement, so a partition clause inside CREATE TABLE is left attached.
var majorKeywords = []string{
	"CREATE TABLE",
	"CREATE INDEX",
	"CREATE UNIQUE INDEX",
	"CREATE POLICY",
	"ALTER TABLE",
	"DROP TABLE",
	"COMMENT ON",
	"PARTITION BY",
	"DO $$",
}

// Format normalizes generated SQL text: trailing whitespace is trimmed,
// runs of blank lines collapse to one, and every statement opening with a
// major keyword gets a blank line before it. The transform is purely
// whitespace-level (the token stream is unchanged) and idempotent, so
// formatting already-formatted text is a no-op.
func Format(sqlText string) string {
	lines := strings.Split(sqlText, "\n")

	var out []string
	prevContent := "" // last non-blank line emitted
	pendingBlank := false

	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			pendingBlank = len(out) > 0
			continue
		}
		if pendingBlank {
			out = append(out, "")
		} else if startsWithMajorKeyword(line) && strings.HasSuffix(prevContent, ";") {
			out = append(out, "")
		}
		out = append(out, line)
		prevContent = line
		pendingBlank = false
	}

	if len(out) == 0 {
		return ""
	}
	return strings.Join(out, "\n") + "\n"
}

func startsWithMajorKeyword(line string) bool {
	for _, kw := range majorKeywords {
		if strings.HasPrefix(line, kw) {
			return true
		}
	}
	return false
}
