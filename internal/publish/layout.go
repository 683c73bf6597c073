package publish

import "html/template"

type layoutData struct {
	Title   string
	Content template.HTML
	Sidebar template.HTML
}

var layout = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="generator" content="creolewiki">
<title>{{.Title}}</title>
</head>
<body>
{{- if .Sidebar}}
<nav class="sidebar">{{.Sidebar}}</nav>
{{- end}}
<main>
<h1 class="page-title">{{.Title}}</h1>
{{.Content}}
</main>
</body>
</html>
`))
