package common

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// AttachmentDisposition builds a Content-Disposition header value that asks
// the client to save the response as filename. Non-ASCII names also get an
// RFC 5987 filename* parameter; the plain parameter keeps an ASCII fallback.
func AttachmentDisposition(filename string) string {
	quoted := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\r", "", "\n", "").Replace(filename)
	if isASCII(filename) {
		return `attachment; filename="` + quoted + `"`
	}

	fallback := strings.Map(func(r rune) rune {
		if r >= utf8.RuneSelf {
			return '_'
		}
		return r
	}, quoted)
	return `attachment; filename="` + fallback + `"; filename*=UTF-8''` + url.PathEscape(filename)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
