package domain

// ListItem is the interface for entries that can be rendered in a grid or list.
// Item and Genre implement it directly.
type ListItem interface {
	// GetID returns a unique identifier for this entry
	GetID() string

	// GetTitle returns the display title
	GetTitle() string

	// GetYear returns the release year (0 if not applicable)
	GetYear() int

	// GetDescription returns secondary info for display (e.g., "2024", "Person")
	GetDescription() string

	// GetItemType returns the type identifier: "movie", "person", "tv", "genre"
	GetItemType() string
}

func (g Genre) GetID() string          { return "genre:" + itoa(g.ID) }
func (g Genre) GetTitle() string       { return g.Name }
func (g Genre) GetYear() int           { return 0 }
func (g Genre) GetDescription() string { return "" }
func (g Genre) GetItemType() string    { return "genre" }

func (l CuratedList) GetID() string          { return "list:" + l.Slug }
func (l CuratedList) GetTitle() string       { return l.Title }
func (l CuratedList) GetYear() int           { return 0 }
func (l CuratedList) GetDescription() string { return l.Description }
func (l CuratedList) GetItemType() string    { return "list" }
