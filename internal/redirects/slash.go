package redirects

import "strings"

// PrependSlash ensures p starts with "/".
func PrependSlash(p string) string {
	if strings.HasPrefix(p, "/") {
		return p
	}
	return "/" + p
}

// AppendSlash ensures p ends with "/".
func AppendSlash(p string) string {
	if strings.HasSuffix(p, "/") {
		return p
	}
	return p + "/"
}

// AddSlashes ensures p starts and ends with "/".
func AddSlashes(p string) string {
	return AppendSlash(PrependSlash(p))
}
