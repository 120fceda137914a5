package bot

import "regexp"

var (
	notGoingPattern = regexp.MustCompile(`(?i)^(.+?)\s+(?:không đi|khong di)\s*$`)
	payPattern      = regexp.MustCompile(`(?i)^(.+?)\s+(?:trả|pay)\s+(\S.*)$`)
)

// matchNotGoing recognizes "<name> không đi" over the un-prefixed text.
func matchNotGoing(body string) (name string, ok bool) {
	m := notGoingPattern.FindStringSubmatch(body)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// matchPay recognizes "<name> trả <amount> [note]" over the un-prefixed text.
func matchPay(body string) (name, rest string, ok bool) {
	m := payPattern.FindStringSubmatch(body)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}
