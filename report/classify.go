package report

import (
	"regexp"
	"strings"
	"unicode"
)

// Category is the classification of one line of free text.
type Category int

const (
	// CategoryBody is the default: plain narrative text.
	CategoryBody Category = iota
	// CategorySectionHeading is a numbered section such as "1、右岸施工营地".
	CategorySectionHeading
	// CategoryStatKeyword is a statistics line such as "人员投入：张三10人".
	CategoryStatKeyword
	// CategorySubItem is a parenthesized sub item such as "(1) 场地精平".
	CategorySubItem
)

// IndentTwips is the fixed two-character first-line indent applied to
// everything except section headings. It is a length constant, not
// proportional to the font in use.
const IndentTwips = 480

// Segment is a stretch of line text rendered with one bold setting.
type Segment struct {
	Text string
	Bold bool
}

// Classification is the formatting decision for one line.
type Classification struct {
	Category Category
	Indent   bool
	Segments []Segment
}

// statKeywords is the fixed keyword list, in priority order: when several
// keywords occur in one line, the earliest list entry wins.
var statKeywords = []string{"人员投入", "设备投入", "累计工程量", "人员：", "设备："}

var (
	sectionHeadingRE = regexp.MustCompile(`^[0-9]+[、.．]`)
	subItemRE        = regexp.MustCompile(`^[(（][0-9]+[)）]`)
)

// Classify decides the category, indent, and bold spans for one line of
// free text. Markdown emphasis markers and surrounding whitespace are
// stripped from the rendered text; rule matching additionally ignores
// interior whitespace. Classification is deterministic: the same line
// always yields the same result.
func Classify(line string) Classification {
	line = strings.TrimSpace(strings.ReplaceAll(line, "*", ""))
	cleaned := cleanLine(line)

	if sectionHeadingRE.MatchString(cleaned) {
		return Classification{
			Category: CategorySectionHeading,
			Segments: []Segment{{Text: line, Bold: true}},
		}
	}

	for _, kw := range statKeywords {
		if !strings.Contains(cleaned, kw) {
			continue
		}
		return Classification{
			Category: CategoryStatKeyword,
			Indent:   true,
			Segments: splitStatLine(line, kw),
		}
	}

	if subItemRE.MatchString(cleaned) {
		return Classification{
			Category: CategorySubItem,
			Indent:   true,
			Segments: []Segment{{Text: line}},
		}
	}

	return Classification{
		Category: CategoryBody,
		Indent:   true,
		Segments: []Segment{{Text: line}},
	}
}

// cleanLine strips whitespace and folds half-width colons to full-width
// so spaced-out or ASCII-punctuated input still matches the rules.
func cleanLine(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		if r == ':' {
			r = '：'
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// splitStatLine splits a statistics line into a bold label and a plain
// remainder. The split point sits just after the first full- or
// half-width colon; when the line has no colon, just after the keyword
// itself. A line carrying neither renders whole as the bold label.
func splitStatLine(line, keyword string) []Segment {
	cut := -1
	for i, r := range line {
		if r == '：' || r == ':' {
			cut = i + len(string(r))
			break
		}
	}
	if cut < 0 {
		if i := strings.Index(line, keyword); i >= 0 {
			cut = i + len(keyword)
		}
	}
	if cut < 0 || cut >= len(line) {
		return []Segment{{Text: line, Bold: true}}
	}
	return []Segment{
		{Text: line[:cut], Bold: true},
		{Text: line[cut:]},
	}
}
