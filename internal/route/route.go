package route

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mmcdole/movied/internal/domain"
)

// Page identifies a screen shared by the terminal and web front ends
type Page int

const (
	PageHome Page = iota
	PageCategories
	PageLists
	PageList
	PageMovie
	PagePerson
	PageSearch
)

func (p Page) String() string {
	switch p {
	case PageCategories:
		return "categories"
	case PageLists:
		return "lists"
	case PageList:
		return "list"
	case PageMovie:
		return "movie"
	case PagePerson:
		return "person"
	case PageSearch:
		return "search"
	default:
		return "home"
	}
}

// Route is a navigation target
type Route struct {
	Page  Page
	ID    int    // movie id
	Query string // search text
	Slug  string // curated list slug
	Name  string // person name
}

func Home() Route                { return Route{Page: PageHome} }
func Categories() Route          { return Route{Page: PageCategories} }
func Lists() Route               { return Route{Page: PageLists} }
func List(slug string) Route     { return Route{Page: PageList, Slug: slug} }
func Movie(id int) Route         { return Route{Page: PageMovie, ID: id} }
func Person(name string) Route   { return Route{Page: PagePerson, Name: name} }
func Search(query string) Route  { return Route{Page: PageSearch, Query: query} }

// ForItem returns the detail route for a catalog item.
// Shows have no detail page, so they open a search for their title.
func ForItem(item domain.Item) Route {
	switch item.Kind {
	case domain.MediaKindPerson:
		return Person(item.Title)
	case domain.MediaKindTV:
		return Search(item.Title)
	default:
		return Movie(item.ID)
	}
}

// String renders the route as a URL path (with query string for searches)
func (r Route) String() string {
	switch r.Page {
	case PageCategories:
		return "/categories"
	case PageLists:
		return "/lists"
	case PageList:
		return "/lists/" + url.PathEscape(r.Slug)
	case PageMovie:
		return "/movie/" + strconv.Itoa(r.ID)
	case PagePerson:
		return "/person/" + url.PathEscape(r.Name)
	case PageSearch:
		return "/search?q=" + url.QueryEscape(r.Query)
	default:
		return "/"
	}
}

// Parse converts a URL path (optionally with a query string) into a Route
func Parse(raw string) (Route, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Route{}, fmt.Errorf("invalid route %q: %w", raw, err)
	}

	path := strings.Trim(u.EscapedPath(), "/")
	if path == "" {
		return Home(), nil
	}

	parts := strings.Split(path, "/")
	seg := func(i int) (string, error) {
		return url.PathUnescape(parts[i])
	}

	switch {
	case parts[0] == "categories" && len(parts) == 1:
		return Categories(), nil
	case parts[0] == "lists" && len(parts) == 1:
		return Lists(), nil
	case parts[0] == "lists" && len(parts) == 2:
		slug, err := seg(1)
		if err != nil || slug == "" {
			return Route{}, fmt.Errorf("invalid list slug in %q", raw)
		}
		return List(slug), nil
	case parts[0] == "movie" && len(parts) == 2:
		id, err := strconv.Atoi(parts[1])
		if err != nil || id <= 0 {
			return Route{}, fmt.Errorf("invalid movie id in %q", raw)
		}
		return Movie(id), nil
	case parts[0] == "person" && len(parts) == 2:
		name, err := seg(1)
		if err != nil || name == "" {
			return Route{}, fmt.Errorf("invalid person name in %q", raw)
		}
		return Person(name), nil
	case parts[0] == "search" && len(parts) == 1:
		return Search(u.Query().Get("q")), nil
	}
	return Route{}, fmt.Errorf("unknown route %q", raw)
}
