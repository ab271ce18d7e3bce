package redirects

import "net/http"

// Rule is one canonical redirect. FromPath always starts with "/"; ToPath
// always starts and ends with "/".
type Rule struct {
	FromPath    string `json:"fromPath" yaml:"fromPath"`
	ToPath      string `json:"toPath" yaml:"toPath"`
	IsPermanent bool   `json:"isPermanent" yaml:"isPermanent"`
}

// StatusCode returns the HTTP status the serving layer should answer with.
func (r Rule) StatusCode() int {
	if r.IsPermanent {
		return http.StatusMovedPermanently
	}
	return http.StatusFound
}

// Actionable reports whether status is one the normalizer expands.
func Actionable(status int) bool {
	return status == http.StatusMovedPermanently || status == http.StatusFound
}
