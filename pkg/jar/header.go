package jar

import "strings"

// BuildHeader joins cookies into a Cookie header value, "a=1; b=2".
// An empty name drops the "name=" part. ok is false when cookies is empty,
// meaning no header should be sent.
func BuildHeader(cookies []Cookie) (header string, ok bool) {
	if len(cookies) == 0 {
		return "", false
	}
	var sb strings.Builder
	for i, c := range cookies {
		if i > 0 {
			sb.WriteString("; ")
		}
		if c.Name != "" {
			sb.WriteString(c.Name)
			sb.WriteByte('=')
		}
		sb.WriteString(c.Value)
	}
	return sb.String(), true
}
