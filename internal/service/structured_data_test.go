package service

import (
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractStructuredData(t *testing.T) {
	body := `<html><head>
		<script type="application/ld+json">{"@type":"Organization","name":"A"}</script>
		<script type="text/javascript">{"@type":"Ignored"}</script>
		<script type="application/ld+json">   </script>
		<script type="Application/LD+JSON; charset=utf-8">{"@type":"WebSite"}</script>
		<script type="application/ld+json">{"@type": "Broken",}</script>
		<script>{"@type":"NoType"}</script>
	</head><body>
		<script type="application/ld+json">[{"@type":"BreadcrumbList"}]</script>
	</body></html>`

	doc, err := parseDocument(body)
	require.NoError(t, err)

	blocks := extractStructuredData(doc)
	require.Len(t, blocks, 4)

	assert.True(t, blocks[0].Valid)
	assert.Equal(t, "Organization", blocks[0].SchemaType())

	assert.True(t, blocks[1].Valid)
	assert.Equal(t, "WebSite", blocks[1].SchemaType())

	assert.False(t, blocks[2].Valid)
	assert.NotEmpty(t, blocks[2].Error)
	assert.Equal(t, `{"@type": "Broken",}`, blocks[2].Raw)

	assert.True(t, blocks[3].Valid)
	assert.Equal(t, "Unknown", blocks[3].SchemaType())
}

func TestExtractStructuredData_RawExcerptLimit(t *testing.T) {
	raw := `{"description":"` + strings.Repeat("é", 3000)
	doc, err := parseDocument(`<script type="application/ld+json">` + raw + `</script>`)
	require.NoError(t, err)

	blocks := extractStructuredData(doc)
	require.Len(t, blocks, 1)
	assert.False(t, blocks[0].Valid)
	assert.NotEmpty(t, blocks[0].Error)
	assert.Equal(t, rawExcerptLimit, utf8.RuneCountInString(blocks[0].Raw))
	assert.True(t, strings.HasPrefix(raw, blocks[0].Raw))
}

func TestExtractStructuredData_DeepNestingIsInvalid(t *testing.T) {
	deep := strings.Repeat("[", 3_000_000) + strings.Repeat("]", 3_000_000)
	body := `<script type="application/ld+json">` + deep + `</script>` +
		`<script type="application/ld+json">{"@type":"Thing"}</script>`

	doc, err := parseDocument(body)
	require.NoError(t, err)

	blocks := extractStructuredData(doc)
	require.Len(t, blocks, 2)
	assert.False(t, blocks[0].Valid)
	assert.Contains(t, blocks[0].Error, "exceeded max depth")
	assert.Equal(t, strings.Repeat("[", rawExcerptLimit), blocks[0].Raw)
	assert.True(t, blocks[1].Valid)
	assert.Equal(t, "Thing", blocks[1].SchemaType())
}

func TestExtractStructuredData_RoundTrip(t *testing.T) {
	text := `{"@context":"https://schema.org","@type":"Event","name":"Concert & <Party>","startDate":"2025-12-10T20:00","location":{"@type":"Place","geo":{"latitude":52.52,"longitude":13.405}},"offers":[{"price":0,"available":true},null]}`
	doc, err := parseDocument(`<script type="application/ld+json">` + text + `</script>`)
	require.NoError(t, err)

	blocks := extractStructuredData(doc)
	require.Len(t, blocks, 1)
	require.True(t, blocks[0].Valid)

	raw, err := blocks[0].Data.MarshalJSON()
	require.NoError(t, err)

	var want, got any
	require.NoError(t, json.Unmarshal([]byte(text), &want))
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, want, got)
}

func TestIsJSONLD(t *testing.T) {
	assert.True(t, isJSONLD("application/ld+json"))
	assert.True(t, isJSONLD(" APPLICATION/LD+JSON "))
	assert.True(t, isJSONLD("application/ld+json;profile=x"))
	assert.False(t, isJSONLD("application/json"))
	assert.False(t, isJSONLD(""))
}
