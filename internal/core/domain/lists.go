package domain

import (
	"net/url"
	"strings"
)

// ValidateHTTPURL checks that raw is an absolute http or https URL with a host
func ValidateHTTPURL(field, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return NewValidationError(field, "URL cannot be empty")
	}

	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() {
		return NewValidationError(field, "%q is not an absolute URL", raw)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return NewValidationError(field, "%q must use http or https", raw)
	}

	if u.Host == "" {
		return NewValidationError(field, "%q has no host", raw)
	}

	return nil
}

// ImageItem is one rendered gallery entry
type ImageItem struct {
	Position int // 1-based
	URL      string
}

// ImageList is the ordered gallery owned by a project form.
// It never holds duplicates and its order is the persisted display order.
type ImageList struct {
	urls []string
}

// NewImageList creates a list from existing URLs, dropping duplicates
func NewImageList(urls []string) *ImageList {
	l := &ImageList{}
	l.Load(urls)
	return l
}

// Load replaces the contents without validation (used when populating from a record)
func (l *ImageList) Load(urls []string) {
	l.urls = nil
	for _, u := range urls {
		if u == "" || l.Contains(u) {
			continue
		}
		l.urls = append(l.urls, u)
	}
}

// Add appends url. Duplicates are ignored without error.
func (l *ImageList) Add(raw string) error {
	raw = strings.TrimSpace(raw)
	if err := ValidateHTTPURL("image_url", raw); err != nil {
		return err
	}
	if l.Contains(raw) {
		return nil
	}
	l.urls = append(l.urls, raw)
	return nil
}

// Remove deletes the entry at index
func (l *ImageList) Remove(index int) error {
	if index < 0 || index >= len(l.urls) {
		return &IndexError{Index: index, Len: len(l.urls)}
	}
	l.urls = append(l.urls[:index], l.urls[index+1:]...)
	return nil
}

// Reorder replaces the list with seq, which must be a permutation of the current contents
func (l *ImageList) Reorder(seq []string) error {
	if !isPermutation(l.urls, seq) {
		return NewValidationError("image_urls", "reorder must be a permutation of the current images")
	}
	l.urls = append([]string(nil), seq...)
	return nil
}

// Contains reports whether url is already in the list (exact match)
func (l *ImageList) Contains(u string) bool {
	for _, existing := range l.urls {
		if existing == u {
			return true
		}
	}
	return false
}

// Clear empties the list
func (l *ImageList) Clear() {
	l.urls = nil
}

// Len returns the number of images
func (l *ImageList) Len() int {
	return len(l.urls)
}

// Visible reports whether the gallery container should be shown
func (l *ImageList) Visible() bool {
	return len(l.urls) > 0
}

// URLs returns a copy of the ordered URLs
func (l *ImageList) URLs() []string {
	if len(l.urls) == 0 {
		return nil
	}
	return append([]string(nil), l.urls...)
}

// First returns the first URL and whether one exists
func (l *ImageList) First() (string, bool) {
	if len(l.urls) == 0 {
		return "", false
	}
	return l.urls[0], true
}

// Render projects the list to positioned items; an empty list renders nothing
func (l *ImageList) Render() []ImageItem {
	if len(l.urls) == 0 {
		return nil
	}
	items := make([]ImageItem, len(l.urls))
	for i, u := range l.urls {
		items[i] = ImageItem{Position: i + 1, URL: u}
	}
	return items
}

// TagList is an ordered set of strings (technologies, responsibilities)
type TagList struct {
	values []string
}

// NewTagList creates a tag list from existing values
func NewTagList(values []string) *TagList {
	t := &TagList{}
	t.Load(values)
	return t
}

// Load replaces the contents, applying the same rules as Add
func (t *TagList) Load(values []string) {
	t.values = nil
	for _, v := range values {
		t.Add(v)
	}
}

// Add trims value and appends it unless empty or an exact duplicate.
// It reports whether the value was added.
func (t *TagList) Add(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	for _, existing := range t.values {
		if existing == value {
			return false
		}
	}
	t.values = append(t.values, value)
	return true
}

// Remove deletes the value at index
func (t *TagList) Remove(index int) error {
	if index < 0 || index >= len(t.values) {
		return &IndexError{Index: index, Len: len(t.values)}
	}
	t.values = append(t.values[:index], t.values[index+1:]...)
	return nil
}

// RemoveLast drops the final value, if any
func (t *TagList) RemoveLast() {
	if len(t.values) > 0 {
		t.values = t.values[:len(t.values)-1]
	}
}

// Clear empties the list
func (t *TagList) Clear() {
	t.values = nil
}

// Len returns the number of values
func (t *TagList) Len() int {
	return len(t.values)
}

// Values returns a copy of the values
func (t *TagList) Values() []string {
	return append([]string{}, t.values...)
}

func isPermutation(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[string]int, len(a))
	for _, s := range a {
		counts[s]++
	}
	for _, s := range b {
		counts[s]--
		if counts[s] < 0 {
			return false
		}
	}
	return true
}
