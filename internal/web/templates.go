package web

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/mmcdole/movied/internal/domain"
	"github.com/mmcdole/movied/internal/facet"
	"github.com/mmcdole/movied/internal/route"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = []string{
	"home.html",
	"categories.html",
	"lists.html",
	"list.html",
	"movie.html",
	"person.html",
	"search.html",
	"error.html",
}

// layoutData is shared by every page
type layoutData struct {
	Title string
	Nav   string // active navigation section
	Query string // search box value
}

func (s *Server) parseTemplates() (map[string]*template.Template, error) {
	funcs := template.FuncMap{
		"poster":  s.poster,
		"profile": s.profile,
		"href":    itemHref,
		"listURL": func(slug string) string { return route.List(slug).String() },
		"stars":   stars,
		"votes":   votes,
		"kind":    kindLabel,

		"emptyMessage": func() string { return facet.EmptyMessage },
	}

	base, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, err
	}

	out := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tpl, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := tpl.ParseFS(templateFS, "templates/"+page); err != nil {
			return nil, fmt.Errorf("%s: %w", page, err)
		}
		out[page] = tpl
	}
	return out, nil
}

// render writes a page with status 200
func (s *Server) render(w http.ResponseWriter, name string, data any) {
	s.renderStatus(w, http.StatusOK, name, data)
}

func (s *Server) renderStatus(w http.ResponseWriter, status int, name string, data any) {
	tpl, ok := s.templates[name]
	if !ok {
		s.logger.Error("render: template not found", "template", name)
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tpl.ExecuteTemplate(w, "layout", data); err != nil {
		s.logger.Error("render: execute failed", "template", name, "error", err)
	}
}

// errorPageData is the inline error page
type errorPageData struct {
	layoutData
	Heading string
	Message string
}

// renderError maps err to a status and renders the error page.
// Missing entities are 404; every upstream failure is 502.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, action string, err error) {
	status := statusFor(err)
	if status == http.StatusNotFound {
		s.logger.Info("not found", "path", r.URL.Path, "error", err)
	} else {
		s.logger.Error("upstream request failed", "path", r.URL.Path, "action", action, "error", err)
	}

	heading := "Something went wrong"
	if status == http.StatusNotFound {
		heading = "Not found"
	}
	s.renderStatus(w, status, "error.html", errorPageData{
		layoutData: layoutData{Title: heading},
		Heading:    heading,
		Message:    fmt.Sprintf("Couldn't finish %s: %v", action, err),
	})
}

func statusFor(err error) int {
	var statusErr *domain.StatusError
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrListNotFound):
		return http.StatusNotFound
	case errors.As(err, &statusErr) && statusErr.Status == http.StatusNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.renderStatus(w, http.StatusNotFound, "error.html", errorPageData{
		layoutData: layoutData{Title: "Not found"},
		Heading:    "Not found",
		Message:    "There is no page at " + r.URL.Path + ".",
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("json encode failed", "error", err)
	}
}

func (s *Server) poster(path string) string {
	return domain.ImageURL(s.imageBase, domain.SizeCard, path)
}

func (s *Server) profile(path string) string {
	return domain.ImageURL(s.imageBase, domain.SizeCast, path)
}

func itemHref(item domain.Item) string {
	return route.ForItem(item).String()
}

func stars(voteAverage float64) string {
	if voteAverage <= 0 {
		return "☆ –"
	}
	return fmt.Sprintf("★ %.1f", domain.StarRating(voteAverage))
}

func votes(n int) string {
	if n == 1 {
		return "1 vote"
	}
	return humanize.Comma(int64(n)) + " votes"
}

func kindLabel(k domain.MediaKind) string {
	switch k {
	case domain.MediaKindPerson:
		return facet.Person.Label()
	case domain.MediaKindTV:
		return facet.TV.Label()
	default:
		return facet.Movie.Label()
	}
}
