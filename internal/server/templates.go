package server

import "html/template"

const uploadTemplateName = "upload"

var uploadTemplate = template.Must(template.New(uploadTemplateName).Parse(`<!doctype html>
<html lang="{{.Lang}}">
<head>
  <meta charset="utf-8" />
  <title>Upload {{.Entity}}</title>
  <style>
    body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; margin: 40px; color: #1a1f36; }
    form { max-width: 520px; }
    label { display: block; margin: 16px 0 6px; font-weight: 600; }
    .errors { background: #fdecea; border: 1px solid #f5c2c0; padding: 12px 16px; border-radius: 4px; }
    .errors li { margin: 4px 0; }
  </style>
</head>
<body>
  <h1>Upload {{.Entity}}</h1>
  {{if .Errors}}
  <ul class="errors">
    {{range .Errors}}<li>{{.}}</li>
    {{end}}
  </ul>
  {{end}}
  <form method="post" action="{{.Action}}" enctype="multipart/form-data">
    {{if .NeedsCountry}}
    <label for="country">Country</label>
    <input id="country" name="country" value="{{.Country}}" maxlength="2" required />
    {{end}}
    <label for="file">File (xlsx or csv)</label>
    <input id="file" type="file" name="file" accept=".xlsx,.csv" required />
    <p><button type="submit">Upload</button></p>
  </form>
  <p><a href="{{.TemplateURL}}">Download an empty template</a></p>
</body>
</html>
`))
