package templates

import (
	"bytes"
	"context"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/csv2sql/internal/core"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestPreviewGrid(t *testing.T) {
	p := core.BuildPreview(core.Parse("a,b\n1,<b>\n3,4", core.ParseOptions{}), 1)
	out := render(t, PreviewGrid(p))

	assert.Contains(t, out, "<th>a</th><th>b</th>")
	assert.Contains(t, out, "&lt;b&gt;")
	assert.Contains(t, out, "Showing 1 of 2 rows.")
}

func TestPreviewGrid_ShowsErrorsInstead(t *testing.T) {
	p := core.BuildPreview(core.Parse("a,b\n1,2\n3", core.ParseOptions{}), 10)
	out := render(t, PreviewGrid(p))

	assert.Contains(t, out, `role="alert"`)
	assert.Contains(t, out, "row=2 error=too few fields")
	assert.NotContains(t, out, "<table>")
}

func TestConfigTable(t *testing.T) {
	fields := []string{"id", "note"}
	configs := core.ColumnConfigs{
		"id":   {TargetName: "id", Type: core.TypeInt, Include: true},
		"note": {TargetName: `n"x`, Type: core.TypeText, Include: false},
	}
	out := render(t, ConfigTable(fields, configs))

	assert.Contains(t, out, `<option value="int" selected>int</option>`)
	assert.Contains(t, out, `value="n&#34;x"`)
	assert.Equal(t, 1, bytes.Count([]byte(out), []byte(" checked")))
}

func TestSQLOutput(t *testing.T) {
	out := render(t, SQLOutput("SELECT 'a<b'", ""))
	assert.Contains(t, out, "SELECT &#39;a&lt;b&#39;")
	assert.NotContains(t, out, "/api/verify")

	out = render(t, SQLOutput("SELECT 1", "sqlite"))
	assert.Contains(t, out, `hx-post="/api/verify"`)
	assert.Contains(t, out, "Verify with sqlite")
}

func TestErrorAlert(t *testing.T) {
	out := render(t, ErrorAlert("Bad <thing>", "", "GEN001"))
	assert.Contains(t, out, "Bad &lt;thing&gt;")
	assert.Contains(t, out, "<small>GEN001</small>")
	assert.NotContains(t, out, "<span>")
}

func TestErrorList_HeaderError(t *testing.T) {
	p := core.BuildPreview(core.Parse("a,b\"c\n1,2", core.ParseOptions{Delimiter: ','}), 10)
	out := render(t, PreviewGrid(p))

	assert.Contains(t, out, "row=header error=")
	assert.NotContains(t, out, "row=0")
}

func TestReset(t *testing.T) {
	out := render(t, Reset(false))
	assert.Equal(t, `<div id="alerts" aria-live="polite" hx-swap-oob="true"></div>`, out)

	out = render(t, Reset(true))
	assert.Contains(t, out, `<div id="sql-output" hx-swap-oob="true"></div>`)
}

func TestPage_EscapesInput(t *testing.T) {
	out := render(t, Page(PageData{Input: "</textarea><script>x</script>", SQL: "SELECT 1", VerifyBackend: "sqlite"}))

	assert.Contains(t, out, "&lt;/textarea&gt;&lt;script&gt;")
	assert.Contains(t, out, `<div id="sql-output"><pre id="sql-text">`)
	assert.Contains(t, out, "Verify with sqlite")
	assert.Contains(t, out, "delay:250ms")
}
