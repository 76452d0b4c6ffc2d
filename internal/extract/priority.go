package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// The priority ladder, lower = more preferred. Square icons rank by declared
// size, everything else falls through to the file extension.
const (
	rankOtherSquare = 5
	rankPNG         = 10
	rankJPG         = 20
	rankOther       = 30
	rankNonSquare   = 200
)

// squareRules is evaluated in order; the first matching rule wins, so the
// exact sizes shadow the 24..128 range that contains them.
var squareRules = []struct {
	match func(width int) bool
	rank  int
}{
	{func(w int) bool { return w == 32 }, 1},
	{func(w int) bool { return w == 64 }, 2},
	{func(w int) bool { return w >= 24 && w <= 128 }, 3},
	{func(w int) bool { return w == 16 }, 4},
}

// sizesPattern extracts two decimal numbers separated by anything non-digit,
// tolerating sloppy values like "x128x128".
var sizesPattern = regexp.MustCompile(`(\d+)\D*(\d+)`)

// Priority scores an icon candidate from its declared sizes attribute and,
// when no usable size is declared, from the href's file extension.
func Priority(href, sizes string) int {
	width, height := ParseSizes(sizes)

	if width != 0 && height != 0 {
		if width != height {
			return rankNonSquare
		}
		for _, rule := range squareRules {
			if rule.match(width) {
				return rule.rank
			}
		}
		return rankOtherSquare
	}

	switch {
	case strings.HasSuffix(href, ".png"):
		return rankPNG
	case strings.HasSuffix(href, ".jpg"), strings.HasSuffix(href, ".jpeg"):
		return rankJPG
	}
	return rankOther
}

// ParseSizes extracts (width, height) from a sizes attribute value, returning
// zeros when no two-number match is found.
func ParseSizes(sizes string) (width, height int) {
	m := sizesPattern.FindStringSubmatch(strings.TrimSpace(sizes))
	if len(m) < 3 {
		return 0, 0
	}
	width, _ = strconv.Atoi(m[1])
	height, _ = strconv.Atoi(m[2])
	return width, height
}

// Rank orders candidates ascending by priority. The sort is stable so ties
// keep their discovery order.
func Rank(list []Candidate) {
	sort.SliceStable(list, func(i, j int) bool { return list[i].Priority < list[j].Priority })
}
