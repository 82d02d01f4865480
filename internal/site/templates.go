package site

// indexTemplate lists the documents of the library.
const indexTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
  <style>{{.CSS}}</style>
</head>
<body>
  <header class="page__header">
    <nav class="navbar__menu"><span class="navbar__brand">{{.Title}}</span></nav>
  </header>
  <main class="index">
    <h1>{{.Title}}</h1>
    {{if .Documents}}
    <ul class="doc-list">
      {{range .Documents}}
      <li><a href="/d/{{.Slug}}">{{.Title}}</a> <span class="doc-meta">{{.Path}} · {{.Sections}} sections</span></li>
      {{end}}
    </ul>
    {{else}}
    <p class="empty">No documents found.</p>
    {{end}}
  </main>
</body>
</html>`

// pageTemplate renders one document: the menu built from its outline and
// one section per outline region.
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Doc.Title}} · {{.Title}}</title>
  <style>{{.CSS}}</style>
</head>
<body data-document="{{.Slug}}">
  <header class="page__header">
    <nav class="navbar__menu">
      <a class="navbar__brand" href="/">{{.Title}}</a>
      <ul class="navbar__list">
        {{range .Entries}}<li data-entry="{{.ID}}"><a class="menu__link" href="{{.Href}}">{{.Label}}</a></li>{{end}}
      </ul>
    </nav>
  </header>
  <main>
    {{if .Doc.Preamble}}<header class="main__hero">
      {{.Doc.Preamble}}
    </header>{{end}}
    {{range .Doc.Sections}}
    <section id="{{.ID}}" data-nav="{{.Label}}">
      <div class="landing__container">
        {{.HTML}}
      </div>
    </section>
    {{end}}
  </main>
  {{if .Entries}}<script src="/static/pagenav.js" defer></script>{{end}}
</body>
</html>`

// cssTemplate styles both pages. SECTION_CLASS and ENTRY_CLASS are
// replaced with the configured active classes.
const cssTemplate = `:root {
  --bg: #ffffff;
  --bg-nav: #f1f3f5;
  --text: #212529;
  --text-muted: #868e96;
  --border: #dee2e6;
  --accent: #228be6;
  --accent-light: #e7f5ff;
  --code-bg: #f1f3f5;
  --content-max-width: 900px;
}

@media (prefers-color-scheme: dark) {
  :root {
    --bg: #1a1b26;
    --bg-nav: #16171f;
    --text: #c0caf5;
    --text-muted: #565f89;
    --border: #292e42;
    --accent: #7aa2f7;
    --accent-light: #1f2335;
    --code-bg: #1f2030;
  }
}

*, *::before, *::after { box-sizing: border-box; margin: 0; padding: 0; }

body {
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
  color: var(--text);
  background: var(--bg);
  line-height: 1.7;
}

.page__header {
  position: fixed;
  top: 0;
  width: 100%;
  z-index: 10;
  background: var(--bg-nav);
  border-bottom: 1px solid var(--border);
}

.navbar__menu { display: flex; align-items: center; gap: 1.5rem; padding: 0 1.5rem; }
.navbar__brand { font-weight: 700; color: var(--text); text-decoration: none; padding: 0.75rem 0; }
.navbar__list { display: flex; flex-wrap: wrap; list-style: none; }
.navbar__list li { border-bottom: 3px solid transparent; transition: border-color 0.2s ease; }
.menu__link { display: block; padding: 0.75rem 1rem; color: var(--text-muted); text-decoration: none; }
.menu__link:hover { color: var(--accent); }

.navbar__list li.ENTRY_CLASS { border-bottom-color: var(--accent); }
.navbar__list li.ENTRY_CLASS .menu__link { color: var(--text); font-weight: 600; }

main { padding-top: 4rem; }
.main__hero, .index { max-width: var(--content-max-width); margin: 0 auto; padding: 2rem 1.5rem; }
.main__hero h1, .index h1 { font-size: 2.25rem; margin-bottom: 1rem; }

section { min-height: 80vh; padding: 2rem 0; transition: background 0.3s ease; }
section.SECTION_CLASS { background: var(--accent-light); }
.landing__container { max-width: var(--content-max-width); margin: 0 auto; padding: 0 1.5rem; }
.landing__container h2 { font-size: 1.75rem; margin-bottom: 1rem; }
.landing__container p { margin-bottom: 1rem; }
.landing__container ul, .landing__container ol { margin: 0 0 1rem 1.5rem; }

a { color: var(--accent); }
code { font-family: "SFMono-Regular", Consolas, monospace; font-size: 0.9em; background: var(--code-bg); padding: 0.1em 0.3em; border-radius: 3px; }
pre { overflow-x: auto; padding: 1rem; margin-bottom: 1rem; border-radius: 6px; border: 1px solid var(--border); }
pre code { background: none; padding: 0; }
table { border-collapse: collapse; margin-bottom: 1rem; }
th, td { border: 1px solid var(--border); padding: 0.4rem 0.8rem; }

.doc-list { list-style: none; }
.doc-list li { padding: 0.5rem 0; border-bottom: 1px solid var(--border); }
.doc-meta, .empty { color: var(--text-muted); font-size: 0.9rem; }
`

// script connects a page to its session. The page only observes section
// visibility and forwards reader input; every marker change and scroll
// arrives from the server as a frame of ops.
const script = `(function () {
  "use strict";

  var sections = Array.prototype.slice.call(document.querySelectorAll("main section"));
  if (sections.length === 0) return;

  var list = document.querySelector("nav.navbar__menu ul.navbar__list");
  var slug = document.body.getAttribute("data-document");
  var scheme = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(scheme + location.host + "/ws/" + encodeURIComponent(slug));
  var observer = null;

  function send(msg) {
    if (ws.readyState === WebSocket.OPEN) ws.send(JSON.stringify(msg));
  }

  function entry(id) {
    if (!list) return null;
    return list.querySelector('li[data-entry="' + CSS.escape(id) + '"]');
  }

  function apply(op) {
    if (op.op === "class") {
      var el = op.target === "section" ? document.getElementById(op.id) : entry(op.id);
      if (el) el.classList.toggle(op.class, op.on);
    } else if (op.op === "scroll") {
      var sec = document.getElementById(op.id);
      if (sec) sec.scrollIntoView({ behavior: op.behavior, block: op.block });
    }
  }

  ws.onmessage = function (ev) {
    var msg = JSON.parse(ev.data);
    switch (msg.type) {
      case "hello":
        observer = new IntersectionObserver(function (entries) {
          send({
            type: "batch",
            entries: entries.map(function (e) {
              return { id: e.target.id, isIntersecting: e.isIntersecting, ratio: e.intersectionRatio };
            })
          });
        }, { threshold: msg.thresholds });
        sections.forEach(function (s) { observer.observe(s); });
        break;
      case "frame":
        (msg.ops || []).forEach(apply);
        break;
      case "reload":
        location.reload();
        break;
      case "error":
        console.warn("pagenav: " + msg.message);
        break;
    }
  };

  ws.onclose = function () {
    if (observer) observer.disconnect();
  };

  if (list) {
    list.addEventListener("click", function (ev) {
      var a = ev.target.closest("a");
      if (!a) return;
      // Without a live socket the plain #id anchor still jumps.
      if (ws.readyState !== WebSocket.OPEN) return;
      ev.preventDefault();
      send({ type: "click", href: a.getAttribute("href") });
    });
  }

  document.addEventListener("scrollend", function () {
    send({ type: "settled" });
  });
})();
`
