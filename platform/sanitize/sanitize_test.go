package sanitize

import "testing"

func TestText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "printer on floor 3 is down", "printer on floor 3 is down"},
		{"tags stripped", "<b>urgent</b> issue", "urgent issue"},
		{"script removed", `<script>alert("x")</script>hello`, `alert("x")hello`},
		{"encoded tags stripped", "&lt;img src=x onerror=alert(1)&gt;", ""},
		{"entities decoded", "Q&amp;A session", "Q&A session"},
		{"whitespace trimmed", "  hello  ", "hello"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Text(tc.in); got != tc.want {
				t.Fatalf("Text(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
