package htmltext

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestFromDocument(t *testing.T) {
	t.Parallel()

	html := `<html><head><title>Filing 13D</title><style>p{color:red}</style></head>
	<body><div>Ownership disclosure</div><p>Acme <b>Corp</b> acquired 7%.</p>
	<script>var tracked = true;</script></body></html>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}

	got := FromDocument(doc)
	want := "Filing 13D\nOwnership disclosure\nAcme Corp acquired 7%."
	if got != want {
		t.Fatalf("unexpected text:\n%q\nwant:\n%q", got, want)
	}
}

func TestFromFragment(t *testing.T) {
	t.Parallel()

	got := FromFragment(`<p>Penalty <b>notice</b></p><p>issued today</p>`)
	want := "Penalty notice\nissued today"
	if got != want {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestFromFragmentPlainText(t *testing.T) {
	t.Parallel()

	if got := FromFragment("  plain words  "); got != "plain words" {
		t.Fatalf("unexpected text: %q", got)
	}
}
