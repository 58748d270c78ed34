package api

import (
	"html/template"
	"log"
	"net/http"
)

// WidgetPageHandler handles GET /widget: the embedded document the loader
// iframe points at. It renders a minimal chat shell that pulls its branding
// from the bootstrap endpoint and speaks the chat stream protocol over /ws.
func (s *Server) WidgetPageHandler(w http.ResponseWriter, r *http.Request) {
	b := s.branding
	data := map[string]any{
		"WidgetTitle":      b.WidgetTitle,
		"Subtitle":         b.Subtitle,
		"InputPlaceholder": b.InputPlaceholder,
		"AvatarURL":        b.AvatarURL,
		"PrimaryColor":     b.PrimaryColor,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := widgetPage.Execute(w, data); err != nil {
		log.Printf("[api] failed to render widget page: %v", err)
	}
}

var widgetPage = template.Must(template.New("widget").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.WidgetTitle}}</title>
<style>
  body { margin: 0; font-family: sans-serif; display: flex; flex-direction: column; height: 100vh; }
  header { display: flex; align-items: center; gap: 12px; padding: 16px;
    {{if .PrimaryColor}}background: {{.PrimaryColor}}; color: #fff;{{else}}background: #1a1a1a; color: #fff;{{end}} }
  header img { width: 36px; height: 36px; border-radius: 50%; }
  header h1 { font-size: 16px; margin: 0; }
  header p { font-size: 12px; margin: 0; opacity: 0.8; }
  #messages { flex: 1; overflow-y: auto; padding: 16px; }
  .msg { margin: 6px 0; padding: 10px 14px; border-radius: 16px; max-width: 80%; }
  .msg.user { background: #e8e8e8; margin-left: auto; }
  .msg.assistant { background: #f5f5f5; }
  form { display: flex; gap: 8px; padding: 12px; border-top: 1px solid #eee; }
  input { flex: 1; padding: 10px; border: 1px solid #ddd; border-radius: 8px; }
</style>
</head>
<body>
<header>
  <img src="{{.AvatarURL}}" alt="">
  <div><h1>{{.WidgetTitle}}</h1><p>{{.Subtitle}}</p></div>
</header>
<div id="messages"></div>
<form id="composer">
  <input id="input" placeholder="{{.InputPlaceholder}}" autocomplete="off">
  <button type="submit">Send</button>
</form>
<script>
(function () {
    const messages = document.getElementById('messages');
    const input = document.getElementById('input');

    function append(sender, text) {
        const el = document.createElement('div');
        el.className = 'msg ' + sender;
        el.textContent = text;
        messages.appendChild(el);
        messages.scrollTop = messages.scrollHeight;
    }

    // Branding is also available at runtime for host pages that rebrand
    // without a reload.
    fetch('/api/widget/bootstrap')
        .then((r) => r.json())
        .then((cfg) => {
            if (cfg.welcomeMessage) append('assistant', cfg.welcomeMessage);
        })
        .catch(() => {});

    const params = new URLSearchParams(window.location.search);
    const session = params.get('session_id') || '';
    const proto = window.location.protocol === 'https:' ? 'wss' : 'ws';
    const ws = new WebSocket(proto + '://' + window.location.host + '/ws' +
        (session ? '?session_id=' + encodeURIComponent(session) : ''));

    ws.addEventListener('message', (event) => {
        let ev;
        try { ev = JSON.parse(event.data); } catch { return; }
        if (ev.type === 'response' && ev.response_data) append('assistant', ev.response_data.response);
        if (ev.type === 'error' && ev.error) append('assistant', ev.error);
    });

    document.getElementById('composer').addEventListener('submit', (e) => {
        e.preventDefault();
        const text = input.value.trim();
        if (!text) return;
        append('user', text);
        input.value = '';
        if (ws.readyState === WebSocket.OPEN) {
            ws.send(JSON.stringify({ type: 'message', message: text }));
        }
    });
})();
</script>
</body>
</html>
`))
