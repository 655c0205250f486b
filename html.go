package wxcraft

import "html"

// open starts the report container. In markup modes the style block is
// embedded once per call.
func (r *renderer) open(class, css string) {
	if !r.markup() {
		return
	}
	r.add(`<div class="` + class + `">`)
	r.add(css)
	r.base = "  "
	r.indent = r.base
}

func (r *renderer) close() {
	if !r.markup() {
		return
	}
	r.indent = ""
	r.add("</div>")
}

func escapeHTML(s string) string {
	return html.EscapeString(s)
}

const metarCSS = `<style>
.metar-report {
  font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, sans-serif;
  line-height: 1.6;
  color: #333;
}
.metar-report .label {
  font-weight: 600;
  color: #2c3e50;
}
.metar-report code {
  font-family: ui-monospace, SFMono-Regular, Menlo, monospace;
  background: #f4f6f7;
  padding: 2px 4px;
}
.metar-report ul {
  margin-top: 5px;
  margin-bottom: 10px;
  padding-left: 20px;
}
.metar-report li {
  margin-bottom: 3px;
}
</style>`

const tafCSS = `<style>
.taf-report {
  font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, sans-serif;
  line-height: 1.6;
  color: #333;
}
.taf-report .label {
  font-weight: 600;
  color: #2c3e50;
}
.taf-report code {
  font-family: ui-monospace, SFMono-Regular, Menlo, monospace;
  background: #f4f6f7;
  padding: 2px 4px;
}
.taf-report .forecast-section {
  margin-top: 20px;
  margin-bottom: 10px;
  font-size: 1.1em;
  border-bottom: 2px solid #3498db;
  padding-bottom: 5px;
}
.taf-report .section-title {
  font-weight: 700;
  color: #2980b9;
}
.taf-report .change-group {
  margin-top: 15px;
  margin-bottom: 8px;
  font-size: 1.05em;
  color: #34495e;
}
.taf-report .change-type {
  font-weight: 600;
  color: #e74c3c;
}
.taf-report .forecast-content {
  margin-left: 0;
}
.taf-report .change-content {
  margin-left: 20px;
  padding-left: 10px;
  border-left: 3px solid #ecf0f1;
}
.taf-report ul {
  margin-top: 5px;
  margin-bottom: 10px;
  padding-left: 20px;
}
.taf-report li {
  margin-bottom: 3px;
}
</style>`
