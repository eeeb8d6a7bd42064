package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"easyplot/internal/config"
	"easyplot/internal/storage"
)

var pageTemplate = template.Must(template.New("gallery").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="5">
<title>easyplot gallery</title>
<style>
body { font-family: sans-serif; margin: 2em; }
img { max-width: 100%; border: 1px solid #ddd; }
</style>
</head>
<body>
{{.}}
</body>
</html>
`))

// HandleRoot serves the gallery index
func (s *Server) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	var body bytes.Buffer
	if err := s.markdown.Convert([]byte(s.indexMarkdown()), &body); err != nil {
		s.log.Error("Failed to render gallery index", err)
		http.Error(w, "Failed to render gallery", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, template.HTML(body.String())); err != nil {
		s.log.Error("Failed to write gallery index", err)
	}
}

// indexMarkdown lists the held figures, newest first
func (s *Server) indexMarkdown() string {
	figures := s.Figures()
	var b strings.Builder
	b.WriteString("# easyplot gallery\n\n")
	if len(figures) == 0 {
		b.WriteString("No figures yet. Run a plot with `EASYPLOT_DISPLAY=gallery`.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "Showing the %d most recent figures.\n\n", len(figures))
	for _, f := range figures {
		title := f.Title
		if title == "" {
			title = "Untitled"
		}
		fmt.Fprintf(&b, "## %d. %s\n\n", f.ID, escapeMarkdown(title))
		fmt.Fprintf(&b, "_Displayed %s_\n\n", f.Displayed.Format(time.RFC3339))
		fmt.Fprintf(&b, "![%s](/figures/%d.png)\n\n", escapeMarkdown(title), f.ID)
	}
	return b.String()
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "[", `\[`, "]", `\]`,
	"`", "\\`", "<", "&lt;", ">", "&gt;", "#", `\#`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// HandleFigure serves /figures/{id}.png
func (s *Server) HandleFigure(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/figures/")
	id, err := strconv.Atoi(strings.TrimSuffix(name, ".png"))
	if err != nil || !strings.HasSuffix(name, ".png") {
		http.Error(w, "Invalid figure path", http.StatusBadRequest)
		return
	}

	f, ok := s.figure(id)
	if !ok {
		http.Error(w, "Figure not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", storage.GetContentType(name))
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(f.PNG)
}

// HandleHealth provides health check endpoint
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": s.now().UTC().Format(time.RFC3339),
		"version":   config.GetVersion(),
		"figures":   len(s.Figures()),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}
