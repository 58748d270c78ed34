package api

import (
	"log"
	"net/http"
	"text/template"
)

// EmbedScriptHandler handles GET /embed.js: the loader a host page includes
// to get the launcher button, the widget iframe, theme detection and the
// window.Lumine programmatic API.
func (s *Server) EmbedScriptHandler(w http.ResponseWriter, r *http.Request) {
	offsetX, offsetY := s.branding.OffsetStyle()
	data := map[string]any{
		"WidgetURL":    s.publicURL + "/widget",
		"Position":     s.branding.Position,
		"OffsetX":      offsetX,
		"OffsetY":      offsetY,
		"LauncherText": s.branding.LauncherText,
		"AvatarURL":    s.branding.AvatarURL,
		"PrimaryColor": s.branding.PrimaryColor,
		"BorderRadius": s.branding.BorderRadius,
		"Query":        s.branding.Values().Encode(),
	}

	w.Header().Set("Content-Type", "application/javascript")
	if err := embedScript.Execute(w, data); err != nil {
		log.Printf("[api] failed to render embed script: %v", err)
	}
}

var embedScript = template.Must(template.New("embed").Parse(`(function () {
    const WIDGET_URL = '{{.WidgetURL}}';
    const IFRAME_ID = 'lumine-widget-iframe';
    const LAUNCHER_ID = 'lumine-widget-launcher';
    const IS_LEFT = '{{.Position}}' === 'bottom-left';

    const style = document.createElement('style');
    style.innerHTML = '#' + LAUNCHER_ID + ' {' +
        'position: fixed; bottom: {{.OffsetY}};' + (IS_LEFT ? 'left' : 'right') + ': {{.OffsetX}};' +
        'background: #ffffff; color: #1a1a1a; padding: 14px 22px; border-radius: 9999px;' +
        'box-shadow: 0 25px 50px -12px rgba(0,0,0,0.25); cursor: pointer; z-index: 999998;' +
        'display: flex; align-items: center; gap: 12px; font-family: sans-serif;' +
        'border: 1px solid rgba(0,0,0,0.1); }' +
        '#' + LAUNCHER_ID + '.dark-theme { background: #1a1a1a; color: #ffffff; border-color: rgba(255,255,255,0.1); }' +
        '#' + LAUNCHER_ID + '.light-theme { background: #ffffff; color: #1a1a1a; border-color: rgba(0,0,0,0.1); }' +
        '#' + IFRAME_ID + ' {' +
        'position: fixed; bottom: {{.OffsetY}};' + (IS_LEFT ? 'left' : 'right') + ': {{.OffsetX}};' +
        'width: 800px; height: 700px; max-height: 85vh; max-width: calc(100vw - 48px); border: none;' +
        'border-radius: {{if .BorderRadius}}{{.BorderRadius}}{{else}}24px{{end}}; z-index: 999998;' +
        'opacity: 0; pointer-events: none; transition: all 0.4s ease; }' +
        '#' + IFRAME_ID + '.open { opacity: 1; pointer-events: all; }' +
        '#' + IFRAME_ID + '.fullscreen { width: 100vw !important; height: 100vh !important;' +
        'max-height: 100vh !important; bottom: 0 !important; right: 0 !important; border-radius: 0 !important; }';
    document.head.appendChild(style);

    const launcher = document.createElement('div');
    launcher.id = LAUNCHER_ID;
    launcher.innerHTML = '<img src="{{.AvatarURL}}" alt="" style="width:32px;height:32px;border-radius:50%;">' +
        '<span>{{.LauncherText}}</span>';
    document.body.appendChild(launcher);

    // Ordered theme fallback chain: class, data attribute, meta hint,
    // background luminance, OS preference, light.
    function detectTheme() {
        const html = document.documentElement, body = document.body;
        if (html.classList.contains('dark') || body.classList.contains('dark')) return 'dark';
        if (html.classList.contains('light') || body.classList.contains('light')) return 'light';
        const dataTheme = html.getAttribute('data-theme') || body.getAttribute('data-theme');
        if (dataTheme === 'dark' || dataTheme === 'light') return dataTheme;
        const meta = document.querySelector('meta[name="color-scheme"]');
        if (meta) {
            const content = meta.getAttribute('content') || '';
            if (content.includes('dark')) return 'dark';
            if (content.includes('light')) return 'light';
        }
        const match = window.getComputedStyle(body).backgroundColor.match(/\d+/g);
        if (match && match.length >= 3) {
            const [r, g, b] = match.map(Number);
            return (0.299 * r + 0.587 * g + 0.114 * b) / 255 < 0.5 ? 'dark' : 'light';
        }
        if (window.matchMedia && window.matchMedia('(prefers-color-scheme: dark)').matches) return 'dark';
        return 'light';
    }

    function applyTheme(t) {
        launcher.classList.remove('dark-theme', 'light-theme');
        launcher.classList.add(t === 'dark' ? 'dark-theme' : 'light-theme');
    }

    const initialTheme = detectTheme();
    applyTheme(initialTheme);

    const iframe = document.createElement('iframe');
    iframe.id = IFRAME_ID;
    iframe.src = WIDGET_URL + '?theme=' + initialTheme + '{{if .Query}}&{{.Query}}{{end}}';
    document.body.appendChild(iframe);

    const observer = new MutationObserver(() => {
        const t = detectTheme();
        applyTheme(t);
        iframe.contentWindow.postMessage({ type: 'LUMINE_THEME_CHANGE', theme: t }, '*');
    });
    observer.observe(document.documentElement, { attributes: true, attributeFilter: ['class', 'data-theme'] });
    observer.observe(document.body, { attributes: true, attributeFilter: ['class', 'data-theme'] });

    let isOpen = false;

    function toggleWidget() {
        isOpen = !isOpen;
        iframe.classList.toggle('open', isOpen);
        iframe.contentWindow.postMessage({ type: 'LUMINE_WIDGET_TOGGLE', isOpen: isOpen }, '*');
        launcher.style.opacity = isOpen ? '0' : '1';
        launcher.style.pointerEvents = isOpen ? 'none' : 'all';
    }

    function closeWidget() {
        if (!isOpen) return;
        isOpen = false;
        iframe.classList.remove('open', 'fullscreen');
        iframe.contentWindow.postMessage({ type: 'LUMINE_WIDGET_TOGGLE', isOpen: false }, '*');
        launcher.style.opacity = '1';
        launcher.style.pointerEvents = 'all';
    }

    launcher.addEventListener('click', toggleWidget);

    window.Lumine = {
        open: () => { if (!isOpen) toggleWidget(); },
        close: () => { if (isOpen) closeWidget(); },
        search: (query) => {
            if (!isOpen) toggleWidget();
            setTimeout(() => {
                iframe.contentWindow.postMessage({ type: 'LUMINE_WIDGET_SEARCH', query: query }, '*');
            }, 500); // wait for the open transition
        }
    };

    window.addEventListener('lumine-search', (e) => {
        if (e.detail && e.detail.query) window.Lumine.search(e.detail.query);
    });

    window.addEventListener('message', (event) => {
        if (!event.data) return;
        if (event.data.type === 'LUMINE_WIDGET_CLOSE') closeWidget();
        if (event.data.type === 'LUMINE_WIDGET_MODE') {
            iframe.classList.toggle('fullscreen', event.data.mode === 'fullscreen');
        }
    });
})();
`))
