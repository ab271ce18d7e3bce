// Package redirects expands author-written redirect specs into the canonical
// rule table consumed by the serving layer.
//
// The serving layer matches request paths exactly, so every origin is
// registered in both its trailing-slash forms and every target is normalized
// to its slash-suffixed form.
package redirects
