// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package xnotifywait

import (
	"expvar"
	"html/template"
	"net/http"

	"github.com/golang/glog"
)

const statusTemplate = `
<!DOCTYPE html>
<html>
<head>
<title>xnotifywait on {{.BindAddress}}</title>
</head>
<body>
<h1>xnotifywait on {{.BindAddress}}</h1>
<p>Build: {{.BuildInfo}}</p>
<p>Metrics: <a href="/metrics">prometheus</a>, <a href="/debug/vars">debug/vars</a></p>
<p>Info: <a href="/tracez">tracez</a>, <a href="/debug/pprof">debug/pprof</a></p>
<h2>Watched roots</h2>
<ul>
{{range .Roots}}<li><tt>{{.}}</tt></li>
{{end}}</ul>
<h2>Events</h2>
<table border=1>
<tr><th>kind</th><th>count</th></tr>
{{range .Events}}<tr><td>{{.Key}}</td><td>{{.Value}}</td></tr>
{{end}}</table>
<p>Dropped: {{.Dropped}}</p>
</body>
</html>
`

var statusTmpl = template.Must(template.New("status").Parse(statusTemplate))

// ServeHTTP satisfies the http.Handler interface, and is used to serve the
// root page of xnotifywait for online status reporting.
func (m *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	data := struct {
		BindAddress string
		BuildInfo   string
		Roots       []string
		Events      []expvar.KeyValue
		Dropped     int64
	}{
		m.Addr(),
		m.buildInfo.String(),
		m.roots.Roots(),
		nil,
		droppedTotal.Value(),
	}
	eventsTotal.Do(func(kv expvar.KeyValue) {
		data.Events = append(data.Events, kv)
	})
	w.Header().Add("Content-type", "text/html")
	w.WriteHeader(http.StatusOK)
	if err := statusTmpl.Execute(w, data); err != nil {
		glog.Warningf("Error while writing status page: %s", err)
	}
}

// quitHandler shuts the Server down on a POST.
func (m *Server) quitHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "use POST to quit", http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("Exiting...\n")); err != nil {
		glog.Warning(err)
	}
	m.quitOnce.Do(func() { close(m.webquit) })
}
