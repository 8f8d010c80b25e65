package utils

import (
	"fmt"
	"html/template"
	"path/filepath"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/gin-contrib/multitemplate"
)

// Views maps the name handlers render by to the file under views/.
var Views = map[string]string{
	"index.html":           "index.html",
	"articles/list.html":   "articles/list.html",
	"articles/detail.html": "articles/detail.html",
	"error.html":           "error.html",
}

// FuncMap is sprig's HTML-safe function set plus the helpers our views use.
func FuncMap() template.FuncMap {
	funcMap := sprig.HtmlFuncMap()
	funcMap["markdown"] = RenderMarkdown
	funcMap["commentMarkdown"] = RenderComment
	funcMap["timeAgo"] = func(t time.Time) string {
		seconds := int(time.Since(t).Seconds())
		switch {
		case seconds < 60:
			return "just now"
		case seconds < 3600:
			return fmt.Sprintf("%d minutes ago", seconds/60)
		case seconds < 86400:
			return fmt.Sprintf("%d hours ago", seconds/3600)
		case seconds < 2592000:
			return fmt.Sprintf("%d days ago", seconds/86400)
		}
		return t.Format("2006-01-02")
	}
	return funcMap
}

// LoadTemplates builds one template set per view: every layout plus the view itself.
func LoadTemplates(templatesDir string) (multitemplate.Renderer, error) {
	r := multitemplate.NewRenderer()

	layouts, err := filepath.Glob(filepath.Join(templatesDir, "layouts", "*.html"))
	if err != nil {
		return nil, err
	}
	if len(layouts) == 0 {
		return nil, fmt.Errorf("no layouts found under %s", templatesDir)
	}

	funcMap := FuncMap()
	for name, view := range Views {
		files := make([]string, 0, len(layouts)+1)
		files = append(files, layouts...)
		files = append(files, filepath.Join(templatesDir, "views", view))
		r.AddFromFilesFuncs(name, funcMap, files...)
	}
	return r, nil
}
