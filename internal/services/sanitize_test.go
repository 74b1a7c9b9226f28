package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizer_Text(t *testing.T) {
	s := NewSanitizer()

	assert.Equal(t, "Hello world", s.Text("  <b>Hello</b> <script>alert(1)</script>world "))
	assert.Equal(t, "Fish & Chips", s.Text("Fish &amp; Chips"))
}

func TestSanitizer_HTML(t *testing.T) {
	s := NewSanitizer()

	out := s.HTML(`<p onclick="x()">Hi <a href="https://example.com">there</a></p><script>alert(1)</script>`)
	assert.Contains(t, out, "<p>Hi ")
	assert.Contains(t, out, "nofollow")
	assert.Contains(t, out, `target="_blank"`)
	assert.NotContains(t, out, "onclick")
	assert.NotContains(t, out, "<script>")
}
