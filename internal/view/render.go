package view

import (
	"fmt"
	"html/template"
	"io"
	"time"
)

// Page is the template data for the results page
type Page struct {
	Title      string
	ShowForm   bool
	Notice     *Notice
	View       *View // nil until the session has a result
	FileName   string
	ReceivedAt time.Time
	StatusURL  string // websocket endpoint for upload status, empty to disable
}

// Notice is a one-line message shown above the results
type Notice struct {
	Kind string // "error" or "success"
	Text string
}

// Renderer paints pages from a parsed html/template
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the page template
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the page as HTML
func (r *Renderer) Render(w io.Writer, p *Page) error {
	if p.Title == "" {
		p.Title = "Chat Analysis App"
	}
	return r.tmpl.Execute(w, p)
}

const pageTemplate = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>{{.Title}}</title>
    <style>
      body { font-family: system-ui, -apple-system, Segoe UI, Roboto, sans-serif; margin: 2rem; }
      .card, .results { max-width: 960px; margin: 0 auto 2rem; padding: 1.5rem; border: 1px solid #e5e7eb; border-radius: 12px; }
      h1 { margin-top: 0; }
      form { display: flex; gap: 1rem; align-items: center; }
      input[type="file"] { flex: 1; }
      .btn { display: inline-block; background: #111827; color: white; border: none; padding: 0.6rem 1rem; border-radius: 8px; cursor: pointer; text-decoration: none; }
      .btn:hover { background: #374151; }
      ul { line-height: 1.6; }
      .error { color: #b91c1c; }
      .success { color: #065f46; }
      .status { color: #6b7280; min-height: 1.2em; }
      .chart svg { max-width: 100%; height: auto; }
      .legend span { display: inline-block; margin-right: 1rem; }
      .legend i { display: inline-block; width: 0.8rem; height: 0.8rem; margin-right: 0.3rem; vertical-align: middle; }
      .meta { color: #6b7280; font-size: 0.9rem; }
    </style>
  </head>
  <body>
    {{- if .ShowForm}}
    <div class="card">
      <h1>Chat Analysis App</h1>
      <p>Upload a WhatsApp chat <strong>.txt</strong> file to analyze it.</p>
      <form id="upload-form" action="/analyze" method="post" enctype="multipart/form-data">
        <input id="chat-file" type="file" name="chat" accept=".txt">
        <button class="btn" type="submit">Analyze Chat</button>
      </form>
      <p class="status" id="status"{{if .StatusURL}} data-ws="{{.StatusURL}}"{{end}}></p>
      {{- with .Notice}}
      <p class="{{.Kind}}">{{.Text}}</p>
      {{- end}}
    </div>
    {{- end}}
    {{- with .View}}
    <div class="results" id="results">
      {{- if $.FileName}}
      <p class="meta">{{$.FileName}}{{if not $.ReceivedAt.IsZero}} · {{$.ReceivedAt.Format "2006-01-02 15:04:05"}}{{end}}</p>
      {{- end}}
      {{- range .Sections}}
      <h2>{{.Title}}</h2>
      {{- if .Mount}}
      <div class="chart" id="{{.Mount}}">
        {{- with .Chart}}
        {{- if .Legend}}
        <div class="legend">{{range .Legend}}<span><i style="background: {{.Color}}"></i>{{.Label}}</span>{{end}}</div>
        {{- end}}
        {{- if .Empty}}<p class="meta">No data to chart.</p>{{else}}{{.SVG}}{{end}}
        {{- end}}
      </div>
      {{- end}}
      {{- range .Lists}}
      {{- if .Heading}}
      <h3>{{.Heading}}</h3>
      {{- end}}
      <ul>{{range .Entries}}<li>{{if .Strong}}<strong>{{.Name}}</strong>{{else}}{{.Name}}{{end}}{{.Detail}}</li>{{end}}</ul>
      {{- end}}
      {{- range .Notes}}
      <p><strong>{{.Name}}</strong>{{.Detail}}{{if .Extra}}<br>{{.Extra}}{{end}}</p>
      {{- if .HasQuote}}
      <blockquote>{{.Quote}}</blockquote>
      {{- end}}
      {{- end}}
      {{- end}}
      {{- range .Exports}}
      <a class="btn" href="{{.Href}}" download>{{.Label}}</a>
      {{- end}}
    </div>
    {{- end}}
    {{- if .ShowForm}}
    <script>
      (function () {
        var status = document.getElementById("status");
        var form = document.getElementById("upload-form");
        form.addEventListener("submit", function (e) {
          if (!document.getElementById("chat-file").files[0]) {
            e.preventDefault();
            alert("Please select a file first.");
          }
        });
        var url = status.dataset.ws;
        if (!url || !window.WebSocket) { return; }
        var scheme = location.protocol === "https:" ? "wss://" : "ws://";
        var ws = new WebSocket(scheme + location.host + url);
        ws.onmessage = function (msg) {
          var ev = JSON.parse(msg.data);
          if (ev.type === "upload_started") { status.textContent = "Analyzing " + (ev.fileName || "chat") + "..."; }
          if (ev.type === "upload_completed") { status.textContent = "Analysis ready."; }
          if (ev.type === "upload_failed") { status.textContent = "Analysis failed."; }
        };
      })();
    </script>
    {{- end}}
  </body>
</html>
`
