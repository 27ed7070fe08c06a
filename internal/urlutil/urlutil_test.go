package urlutil

import "testing"

func TestRepository(t *testing.T) {
	tests := []struct {
		url         string
		owner, name string
		ok          bool
	}{
		{"https://api.github.com/repos/octo/repo/issues/1", "octo", "repo", true},
		{"https://api.github.com/repos/octo/repo/commits/abc123", "octo", "repo", true},
		{"https://github.com/octo/repo", "", "", false},
		{"", "", "", false},
	}
	for _, tt := range tests {
		owner, name, ok := Repository(tt.url)
		if owner != tt.owner || name != tt.name || ok != tt.ok {
			t.Errorf("Repository(%q) = %q, %q, %v, want %q, %q, %v",
				tt.url, owner, name, ok, tt.owner, tt.name, tt.ok)
		}
	}
}

func TestSameRepository(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{
			name: "same repository",
			a:    "https://api.github.com/repos/octo/repo/issues/1",
			b:    "https://api.github.com/repos/octo/repo/commits/abc",
			want: true,
		},
		{
			name: "different repository",
			a:    "https://api.github.com/repos/octo/repo/issues/1",
			b:    "https://api.github.com/repos/octo/other/commits/abc",
			want: false,
		},
		{
			name: "different owner",
			a:    "https://api.github.com/repos/octo/repo/issues/1",
			b:    "https://api.github.com/repos/fork/repo/commits/abc",
			want: false,
		},
		{
			name: "malformed never matches",
			a:    "not-a-url",
			b:    "not-a-url",
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameRepository(tt.a, tt.b); got != tt.want {
				t.Errorf("SameRepository() = %v, want %v", got, tt.want)
			}
		})
	}
}
