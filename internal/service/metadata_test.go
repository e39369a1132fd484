package service

import (
	"testing"

	"meta_debug_web/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTitle(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{name: "title element", body: `<title>  Hello  </title>`, want: "Hello"},
		{name: "title beats og", body: `<title>Doc</title><meta property="og:title" content="OG">`, want: "Doc"},
		{name: "empty title uses og", body: `<title></title><meta property="og:title" content=" OG ">`, want: "OG"},
		{name: "first og title only", body: `<meta property="og:title" content=""><meta property="og:title" content="Second">`, want: "https://x.com/"},
		{name: "nothing", body: `<p>text</p>`, want: "https://x.com/"},
		{name: "entities decoded", body: `<title>Fish &amp; Chips</title>`, want: "Fish & Chips"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := parseDocument(tc.body)
			require.NoError(t, err)
			assert.Equal(t, tc.want, extractTitle(doc, "https://x.com/"))
		})
	}
}

func TestExtractTags(t *testing.T) {
	body := `<head>
		<meta property="og:type" content="website">
		<meta property="og:type" content="article">
		<meta property="og:url" content="">
		<meta name="og:locale" content="en_US">
		<meta name="viewport" content="width=device-width">
		<meta property="article:author" content="Jo">
		<meta name="robots" property="og:ignored" content="index">
		<meta name="" property="fb:app_id" content="123">
		<meta name="keywords">
		<meta http-equiv="refresh" content="30">
		<meta name="OG:Upper" content="kept">
	</head>`

	doc, err := parseDocument(body)
	require.NoError(t, err)

	assert.Equal(t, []models.MetaTagEntry{
		{Name: "og:type", Content: "website"},
		{Name: "og:type", Content: "article"},
		{Name: "og:ignored", Content: "index"},
	}, extractOpenGraphTags(doc))

	assert.Equal(t, []models.MetaTagEntry{
		{Name: "viewport", Content: "width=device-width"},
		{Name: "article:author", Content: "Jo"},
		{Name: "robots", Content: "index"},
		{Name: "fb:app_id", Content: "123"},
		{Name: "OG:Upper", Content: "kept"},
	}, extractMetaTags(doc))
}

func TestExtractTextPreview(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{
			name: "adjacent inline elements are separated",
			body: `<p>foo<b>bar</b></p>`,
			want: "foo bar",
		},
		{
			name: "hidden content skipped",
			body: `<head><style>.a{}</style><script>x=1</script></head><body><template><p>tpl</p></template><noscript>enable js</noscript><p>Shown</p></body>`,
			want: "Shown",
		},
		{
			name: "comments skipped",
			body: `<p>a<!-- secret -->b</p>`,
			want: "a b",
		},
		{
			name: "whitespace collapsed",
			body: "<div>\n\n  one\t\ttwo  </div><div> three</div>",
			want: "one two three",
		},
		{
			name: "empty document",
			body: ``,
			want: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := parseDocument(tc.body)
			require.NoError(t, err)
			assert.Equal(t, tc.want, extractTextPreview(doc))
		})
	}
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "hé", truncateRunes("héllo", 2))
	assert.Equal(t, "héllo", truncateRunes("héllo", 10))
	assert.Equal(t, "", truncateRunes("héllo", 0))
}
