package transcript

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{ .Title }}</title>
<style>
body { background: #313338; color: #dbdee1; font-family: sans-serif; margin: 0; padding: 24px; }
header { border-bottom: 1px solid #4e5058; margin-bottom: 16px; padding-bottom: 8px; }
.message { display: flex; flex-direction: column; padding: 6px 0; }
.author { font-weight: bold; color: #f2f3f5; }
.bot { background: #5865f2; border-radius: 3px; font-size: 10px; margin-left: 4px; padding: 1px 4px; }
.time { color: #949ba4; font-size: 12px; margin-left: 8px; }
.embed { border-left: 4px solid; background: #2b2d31; border-radius: 4px; margin: 4px 0; max-width: 520px; padding: 8px 12px; }
.embed-field { margin-top: 4px; }
.reaction { background: #2b2d31; border-radius: 8px; display: inline-block; margin-right: 4px; padding: 2px 6px; }
a { color: #00a8fc; }
</style>
</head>
<body>
<header>
<h1>{{ .Title }}</h1>
<p>Panel: {{ .Meta.PanelName }} | Owner: {{ .Meta.OwnerName }} ({{ .Meta.OwnerID }})</p>
<p>Generated {{ .Generated }} | {{ len .Messages }} messages</p>
</header>
{{- range .Messages }}
<div class="message" id="m{{ .ID }}">
<div><span class="author">{{ .Author }}</span>{{ if .Bot }}<span class="bot">BOT</span>{{ end }}<span class="time">{{ .Timestamp }}</span></div>
<div class="content">{{ .Content }}</div>
{{- range .Attachments }}
<div class="attachment"><a href="{{ .URL }}">{{ .Filename }}</a> ({{ .Size }} bytes)</div>
{{- end }}
{{- range .Embeds }}
<div class="embed" style="border-color: {{ .Color }}">
{{- if .Title }}<div class="author">{{ .Title }}</div>{{ end }}
<div>{{ .Description }}</div>
{{- range .Fields }}
<div class="embed-field"><strong>{{ .Name }}</strong><div>{{ .Value }}</div></div>
{{- end }}
{{- if .Footer }}<div class="time">{{ .Footer }}</div>{{ end }}
</div>
{{- end }}
{{- if .Reactions }}
<div>{{ range .Reactions }}<span class="reaction">{{ .Emoji }} {{ .Count }}</span>{{ end }}</div>
{{- end }}
</div>
{{- end }}
</body>
</html>
`
