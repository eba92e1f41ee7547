package workout

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"
)

// DefaultKeywords are the categories recognized when none are configured.
var DefaultKeywords = []string{"PULL", "PUSH", "LEGS", "FULL BODY", "A", "B"}

type (
	// Keyword maps text found in a filename to a workout category.
	Keyword struct {
		Pattern  string
		Category string
	}

	// KeywordTable is an ordered list of keywords where the first match wins.
	KeywordTable []Keyword
)

// NewKeywordTable orders the keywords longest pattern first, so that
// "FULL BODY" is tried before "B". Keywords of equal length keep the order
// they were given in.
func NewKeywordTable(keywords ...Keyword) KeywordTable {
	t := make(KeywordTable, 0, len(keywords))
	for _, k := range keywords {
		if k.Pattern == "" {
			continue
		}
		t = append(t, k)
	}
	slices.SortStableFunc(t, func(a, b Keyword) int {
		return len(b.Pattern) - len(a.Pattern)
	})

	return t
}

// KeywordsFromStrings builds a table where every name is both the pattern
// and the category.
func KeywordsFromStrings(names []string) KeywordTable {
	keywords := make([]Keyword, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		keywords = append(keywords, Keyword{Pattern: n, Category: n})
	}

	return NewKeywordTable(keywords...)
}

// Match returns the category of the first keyword contained in name.
func (t KeywordTable) Match(name string) (string, bool) {
	for _, k := range t {
		if strings.Contains(name, k.Pattern) {
			return k.Category, true
		}
	}

	return "", false
}

const monthNames = `January|February|March|April|May|June|July|August|September|October|November|December|` +
	`Jan|Feb|Mar|Apr|Jun|Jul|Aug|Sep|Oct|Nov|Dec`

var (
	septRe     = regexp.MustCompile(`\bSept\b`)
	dayMonthRe = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)? (` + monthNames + `)\b`)
	monthDayRe = regexp.MustCompile(`\b(` + monthNames + `) (\d{1,2})(?:st|nd|rd|th)?\b`)

	// Full names are tried before abbreviations.
	dateLayouts = []string{"2 January 2006", "2 Jan 2006"}
)

// Parser extracts workout categories and dates from filenames such as
// "Sunday 3rd November PULL.txt".
//
// Filenames never carry a year, so the year of the parser's clock is used.
type Parser struct {
	keywords KeywordTable
	now      func() time.Time
}

// NewParser creates a parser. A nil clock defaults to [time.Now].
func NewParser(keywords KeywordTable, now func() time.Time) *Parser {
	if now == nil {
		now = time.Now
	}

	return &Parser{
		keywords: keywords,
		now:      now,
	}
}

// Parse returns the date and category for a filename.
//
// Filenames without a keyword or a recognizable date are not workouts and
// return false.
func (p *Parser) Parse(filename string) (Date, string, bool) {
	filename = normalize(filename)

	category, ok := p.keywords.Match(filename)
	if !ok {
		return Date{}, "", false
	}
	d, ok := p.date(filename)
	if !ok {
		return Date{}, "", false
	}

	return d, category, true
}

// ParseFile is [Parser.Parse] for a file from the remote listing.
func (p *Parser) ParseFile(f RemoteFile) (ParsedWorkout, bool) {
	d, category, ok := p.Parse(f.Name)
	if !ok {
		return ParsedWorkout{}, false
	}

	return ParsedWorkout{
		Date:     d,
		Category: category,
		Source:   f,
	}, true
}

// Category returns only the category found in filename.
func (p *Parser) Category(filename string) (string, bool) {
	return p.keywords.Match(normalize(filename))
}

// Date returns only the date found in filename.
func (p *Parser) Date(filename string) (Date, bool) {
	return p.date(normalize(filename))
}

func (p *Parser) date(filename string) (Date, bool) {
	var day, month string
	if m := dayMonthRe.FindStringSubmatch(filename); m != nil {
		day, month = m[1], m[2]
	} else if m := monthDayRe.FindStringSubmatch(filename); m != nil {
		month, day = m[1], m[2]
	} else {
		return Date{}, false
	}

	value := fmt.Sprintf("%s %s %d", day, month, p.now().Year())
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return DateOf(t), true
		}
	}

	return Date{}, false
}

func normalize(filename string) string {
	return septRe.ReplaceAllString(filename, "Sep")
}
