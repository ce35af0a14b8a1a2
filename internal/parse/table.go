package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	tableRe = regexp.MustCompile(`(?i)^(?:table|tbl|t)?\s*#?\s*(\d+)$`)
	spaceRe = regexp.MustCompile(`\s+`)
)

// TableNumber extracts the table number from a label such as "12", "T12", "Table 12" or "table #12".
func TableNumber(label string) (int, error) {
	s := strings.TrimSpace(label)
	s = spaceRe.ReplaceAllString(s, " ")

	m := tableRe.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("unable to parse table number from label: %q", label)
	}

	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid table number in label: %q", label)
	}
	return n, nil
}
