package web

import (
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mmcdole/movied/internal/autocomplete"
	"github.com/mmcdole/movied/internal/catalog"
	"github.com/mmcdole/movied/internal/domain"
	"github.com/mmcdole/movied/internal/facet"
	"github.com/mmcdole/movied/internal/route"
)

// tabView is one facet tab with its link
type tabView struct {
	facet.Tab
	Href   string
	Active bool
}

func tabViews(rt route.Route, facets []facet.Facet, active facet.Facet, items []domain.Item) []tabView {
	tabs := facet.Tabs(facets, items)
	out := make([]tabView, len(tabs))
	for i, t := range tabs {
		out[i] = tabView{Tab: t, Href: facetHref(rt, t.Facet), Active: t.Facet == active}
	}
	return out
}

type homePageData struct {
	layoutData
	Home *catalog.Home
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	home, err := s.svc.Home(r.Context())
	if err != nil {
		s.renderError(w, r, "loading home", err)
		return
	}
	s.render(w, "home.html", homePageData{
		layoutData: layoutData{Title: "Home", Nav: "home"},
		Home:       home,
	})
}

type categoriesPageData struct {
	layoutData
	Genres []domain.Genre
	Genre  domain.Genre
	Movies []domain.Item
	Empty  string
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	genres, err := s.svc.Genres(ctx)
	if err != nil {
		s.renderError(w, r, "loading genres", err)
		return
	}

	data := categoriesPageData{
		layoutData: layoutData{Title: "Categories", Nav: "categories"},
		Genres:     genres,
		Empty:      facet.EmptyMessage,
	}
	if len(genres) == 0 {
		s.render(w, "categories.html", data)
		return
	}

	// First genre by default
	data.Genre = genres[0]
	if raw := r.URL.Query().Get("genre"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			s.renderError(w, r, "loading genre", domain.ErrNotFound)
			return
		}
		found := false
		for _, g := range genres {
			if g.ID == id {
				data.Genre, found = g, true
				break
			}
		}
		if !found {
			s.renderError(w, r, "loading genre", domain.ErrNotFound)
			return
		}
	}

	movies, err := s.svc.CategoryMovies(ctx, data.Genre.ID)
	if err != nil {
		s.renderError(w, r, "loading "+data.Genre.Name, err)
		return
	}
	data.Movies = movies
	data.Title = data.Genre.Name
	s.render(w, "categories.html", data)
}

type listCard struct {
	List    domain.CuratedList
	Preview []domain.Item
}

type listsPageData struct {
	layoutData
	Lists []listCard
}

func (s *Server) handleLists(w http.ResponseWriter, r *http.Request) {
	lists, err := s.svc.Lists()
	if err != nil {
		s.renderError(w, r, "loading lists", err)
		return
	}

	cards := make([]listCard, len(lists))
	for i, l := range lists {
		cards[i].List = l
		preview, err := s.svc.ListPreview(r.Context(), l.Slug)
		if err != nil {
			s.logger.Warn("list preview failed", "slug", l.Slug, "error", err)
			continue
		}
		cards[i].Preview = preview
	}

	s.render(w, "lists.html", listsPageData{
		layoutData: layoutData{Title: "Lists", Nav: "lists"},
		Lists:      cards,
	})
}

type listPageData struct {
	layoutData
	Page  *catalog.ListPage
	Empty string
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	rt, ok := s.parseRoute(w, r)
	if !ok {
		return
	}
	page, err := s.svc.List(r.Context(), rt.Slug)
	if err != nil {
		s.renderError(w, r, "loading list", err)
		return
	}
	s.render(w, "list.html", listPageData{
		layoutData: layoutData{Title: page.List.Title, Nav: "lists"},
		Page:       page,
		Empty:      facet.EmptyMessage,
	})
}

type moviePageData struct {
	layoutData
	Page       *domain.MoviePage
	Directors  string
	Trailer    string
	TrailerFor string
	Backdrop   string
}

func (s *Server) handleMovie(w http.ResponseWriter, r *http.Request) {
	rt, ok := s.parseRoute(w, r)
	if !ok {
		return
	}
	page, err := s.svc.MovieDetail(r.Context(), rt.ID)
	if err != nil {
		s.renderError(w, r, "loading movie", err)
		return
	}

	data := moviePageData{
		layoutData: layoutData{Title: page.Detail.GetTitle()},
		Page:       page,
		Directors:  strings.Join(page.Credits.Directors(), ", "),
		Backdrop:   domain.ImageURL(s.imageBase, domain.SizeBackdrop, page.Detail.BackdropPath),
	}
	if v, ok := domain.Trailer(page.Videos); ok {
		data.Trailer = v.URL()
		data.TrailerFor = v.Name
	}
	s.render(w, "movie.html", data)
}

type personPageData struct {
	layoutData
	Name    string
	Credits *domain.PersonCredits
	Tabs    []tabView
	Items   []domain.Item
	Empty   string
}

func (s *Server) handlePerson(w http.ResponseWriter, r *http.Request) {
	rt, ok := s.parseRoute(w, r)
	if !ok {
		return
	}
	credits, err := s.svc.Person(r.Context(), rt.Name)
	if err != nil {
		s.renderError(w, r, "loading person", err)
		return
	}

	active := facet.Parse(r.URL.Query().Get("facet"), facet.DefaultCreditFacet)
	if active == facet.All || active == facet.Person {
		active = facet.DefaultCreditFacet
	}
	name := rt.Name
	if credits.Person != nil {
		name = credits.Person.Name
	}
	s.render(w, "person.html", personPageData{
		layoutData: layoutData{Title: name},
		Name:       name,
		Credits:    credits,
		Tabs:       tabViews(rt, facet.CreditFacets, active, credits.Credits),
		Items:      facet.Filter(active, credits.Credits),
		Empty:      facet.EmptyMessage,
	})
}

type searchPageData struct {
	layoutData
	Tabs  []tabView
	Items []domain.Item
	Empty string
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	data := searchPageData{
		layoutData: layoutData{Title: "Search", Nav: "search", Query: q},
		Empty:      facet.EmptyMessage,
	}

	items, err := s.svc.Search(r.Context(), q)
	if err != nil {
		s.renderError(w, r, "searching", err)
		return
	}

	active := facet.Parse(r.URL.Query().Get("facet"), facet.All)
	if strings.TrimSpace(q) != "" {
		data.Title = "Results for " + q
		data.Tabs = tabViews(route.Search(q), facet.SearchFacets, active, items)
	}
	data.Items = facet.Filter(active, items)
	s.render(w, "search.html", data)
}

// suggestion is one autocomplete entry in the JSON response
type suggestion struct {
	Kind   string `json:"kind"`
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Year   int    `json:"year,omitempty"`
	Href   string `json:"href"`
	Poster string `json:"poster,omitempty"`
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	out := make([]suggestion, 0, autocomplete.MaxResults)

	if utf8.RuneCountInString(q) < autocomplete.MinQueryLength {
		s.writeJSON(w, http.StatusOK, out)
		return
	}

	// A failed lookup shows as no matches, like the terminal search bar
	items, err := s.svc.Suggest(r.Context(), q)
	if err != nil {
		s.logger.Warn("suggest failed", "query", q, "error", err)
		s.writeJSON(w, http.StatusOK, out)
		return
	}
	for _, it := range items {
		out = append(out, suggestion{
			Kind:   it.Kind.String(),
			ID:     it.ID,
			Title:  it.GetTitle(),
			Year:   it.GetYear(),
			Href:   itemHref(it),
			Poster: domain.ImageURL(s.imageBase, domain.SizeThumb, it.ImagePath()),
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

// parseRoute resolves the request path into a route. Malformed ids and
// names are a 404.
func (s *Server) parseRoute(w http.ResponseWriter, r *http.Request) (route.Route, bool) {
	rt, err := route.Parse(r.URL.EscapedPath())
	if err != nil {
		s.logger.Info("bad route", "path", r.URL.Path, "error", err)
		s.handleNotFound(w, r)
		return route.Route{}, false
	}
	return rt, true
}

// facetHref links a route to one of its facet tabs
func facetHref(rt route.Route, f facet.Facet) string {
	base := rt.String()
	if strings.Contains(base, "?") {
		return base + "&facet=" + string(f)
	}
	return base + "?facet=" + string(f)
}
