package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalizeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "strips utm params and fragment",
			in:   "https://example.com/jobs/123?utm_source=alert&utm_campaign=x#apply",
			want: "https://example.com/jobs/123",
		},
		{
			name: "strips click ids but keeps real params",
			in:   "https://example.com/jobs?id=42&gclid=abc&fbclid=def&trk=mail",
			want: "https://example.com/jobs?id=42",
		},
		{
			name: "lowercases scheme and host only",
			in:   "HTTPS://Example.COM/Jobs/ABC",
			want: "https://example.com/Jobs/ABC",
		},
		{
			name: "trims trailing slash",
			in:   "https://example.com/jobs/123/",
			want: "https://example.com/jobs/123",
		},
		{
			name: "root path survives",
			in:   "https://example.com/",
			want: "https://example.com/",
		},
		{
			name: "query order is deterministic",
			in:   "https://example.com/jobs?b=2&a=1",
			want: "https://example.com/jobs?a=1&b=2",
		},
		{
			name: "unparseable input passes through",
			in:   "://notaurl",
			want: "://notaurl",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalizeURL(tt.in))
		})
	}
}

func TestCanonicalizeURLSameIdentity(t *testing.T) {
	a := CanonicalizeURL("https://example.com/jobs/99?utm_medium=email")
	b := CanonicalizeURL("https://EXAMPLE.com/jobs/99/")
	assert.Equal(t, a, b)
}

func TestAbsoluteURL(t *testing.T) {
	assert.Equal(t, "https://host.de/jobs/1", AbsoluteURL("https://host.de/search", "/jobs/1"))
	assert.Equal(t, "https://other.de/x", AbsoluteURL("https://host.de", "https://other.de/x"))
	assert.Equal(t, "https://cdn.de/x", AbsoluteURL("https://host.de", "//cdn.de/x"))
	assert.Equal(t, "", AbsoluteURL("https://host.de", "  "))
}
