package review

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		highlighting.NewHighlighting(
			highlighting.WithStyle("github"),
		),
	),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
	),
)

const exportPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { max-width: 52rem; margin: 2rem auto; padding: 0 1rem;
         font-family: Georgia, "Times New Roman", serif; line-height: 1.6; color: #222; }
  h1, h2, h3 { font-family: Helvetica, Arial, sans-serif; }
  h1 { border-bottom: 2px solid #444; padding-bottom: .3rem; }
  blockquote { border-left: 3px solid #bbb; margin-left: 0; padding-left: 1rem; color: #555; }
  .meta { color: #777; font-size: .85rem; margin-bottom: 2rem;
          font-family: Helvetica, Arial, sans-serif; }
</style>
</head>
<body>
<div class="meta">{{.Meta}}</div>
{{.Body}}
</body>
</html>
`

var exportTmpl = template.Must(template.New("export").Parse(exportPage))

// ExportHTML renders the draft's markdown content as a standalone HTML page.
func ExportHTML(draft *Draft) ([]byte, error) {
	var body bytes.Buffer
	if err := md.Convert([]byte(draft.Content), &body); err != nil {
		return nil, fmt.Errorf("rendering draft %s: %w", draft.ID, err)
	}

	meta := fmt.Sprintf("Draft %d — %s review on %q — %d words — generated %s",
		draft.Ordinal, draft.ReviewType, draft.Topic, draft.WordCount(),
		draft.CreatedAt.Format("2 Jan 2006 15:04"))

	var page bytes.Buffer
	err := exportTmpl.Execute(&page, map[string]interface{}{
		"Title": draft.Topic,
		"Meta":  meta,
		// Goldmark output is sanitized markdown rendering, inserted as-is.
		"Body": template.HTML(body.String()),
	})
	if err != nil {
		return nil, fmt.Errorf("rendering export page: %w", err)
	}
	return page.Bytes(), nil
}
