package server

import "html/template"

const pageHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 24px; color: #333; }
#toolbar { margin-bottom: 12px; }
#status { margin-left: 12px; color: #888; }
</style>
</head>
<body>
<div id="toolbar"><button id="regroup">Regroup</button><span id="status">connecting</span></div>
<div id="chart">{{.SVG}}</div>
<script>
(function () {
  var status = document.getElementById("status");
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + "/ws");
  var groups = {};
  document.querySelectorAll("g.bubble").forEach(function (g) {
    groups[g.getAttribute("data-key")] = g;
  });
  ws.onmessage = function (ev) {
    var f = JSON.parse(ev.data);
    f.nodes.forEach(function (n) {
      var g = groups[n.name];
      if (!g) return;
      g.setAttribute("transform", "translate(" + n.x + "," + n.y + ")");
      g.querySelector("circle").setAttribute("r", n.r);
      var t = g.querySelector("text");
      if (t) t.style.fillOpacity = n.opacity;
    });
    status.textContent = (f.settled ? "settled" : "running") + " step " + f.step + " alpha " + f.alpha.toFixed(4);
  };
  ws.onclose = function () { status.textContent = "disconnected"; };
  document.getElementById("regroup").onclick = function () {
    fetch("/regroup", { method: "POST" });
  };
})();
</script>
</body>
</html>
`

var pageTemplate = template.Must(template.New("page").Parse(pageHTML))

type pageData struct {
	Title string
	SVG   template.HTML
}
