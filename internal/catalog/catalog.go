// Package catalog holds the read-only registry of theatres, movies and
// seat totals. The catalog is built once at startup from a JSON file or
// the built-in seed set and never mutated afterwards, so lookups need
// no locking.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"marquee/internal/bookingerr"
	"marquee/internal/models"
)

// Show pairs a seat pool key with its fixed seat total.
type Show struct {
	Key        models.ShowKey `json:"key"`
	TotalSeats int            `json:"total_seats"`
}

// File is the JSON layout accepted by Load.
type File struct {
	Theatres []models.Theatre `json:"theatres"`
	Movies   []models.Movie   `json:"movies"`
	Shows    []ShowEntry      `json:"shows"`
}

// ShowEntry is one seat pool definition in a catalog file.
type ShowEntry struct {
	Theatre    string `json:"theatre"`
	Movie      string `json:"movie"`
	TotalSeats int    `json:"total_seats"`
}

// Filter narrows a movie listing. Empty fields match everything.
type Filter struct {
	Theatre string
	Title   string
	Genre   string
}

type Catalog struct {
	theatres      []models.Theatre
	theatreByName map[string]models.Theatre
	movies        []models.Movie
	movieByKey    map[models.ShowKey]models.Movie
	shows         []Show
}

// Load builds a catalog from the JSON file at path, or from the
// built-in seed data when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return New(seedTheatres, seedMovies, seedShows)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}

	return New(f.Theatres, f.Movies, f.Shows)
}

// New validates the catalog data and builds the lookup indexes. Every
// show must reference an existing (theatre, movie) pairing; theatre
// names and per-theatre movie titles must be unique.
func New(theatres []models.Theatre, movies []models.Movie, shows []ShowEntry) (*Catalog, error) {
	c := &Catalog{
		theatreByName: make(map[string]models.Theatre, len(theatres)),
		movieByKey:    make(map[models.ShowKey]models.Movie, len(movies)),
	}

	for _, t := range theatres {
		if t.Name == "" {
			return nil, fmt.Errorf("theatre with empty name")
		}
		if t.BasePrice < 0 {
			return nil, fmt.Errorf("theatre %q: negative base price", t.Name)
		}
		if _, exists := c.theatreByName[t.Name]; exists {
			return nil, fmt.Errorf("duplicate theatre %q", t.Name)
		}
		c.theatreByName[t.Name] = t
		c.theatres = append(c.theatres, t)
	}

	for _, m := range movies {
		if m.Title == "" {
			return nil, fmt.Errorf("movie with empty title at theatre %q", m.Theatre)
		}
		if _, ok := c.theatreByName[m.Theatre]; !ok {
			return nil, fmt.Errorf("movie %q references unknown theatre %q", m.Title, m.Theatre)
		}
		key := models.ShowKey{Theatre: m.Theatre, Movie: m.Title}
		if _, exists := c.movieByKey[key]; exists {
			return nil, fmt.Errorf("duplicate movie %q at theatre %q", m.Title, m.Theatre)
		}
		c.movieByKey[key] = m
		c.movies = append(c.movies, m)
	}

	seen := make(map[models.ShowKey]bool, len(shows))
	for _, s := range shows {
		key := models.ShowKey{Theatre: s.Theatre, Movie: s.Movie}
		if _, ok := c.movieByKey[key]; !ok {
			return nil, fmt.Errorf("show %s references unknown theatre/movie pairing", key)
		}
		if s.TotalSeats <= 0 {
			return nil, fmt.Errorf("show %s: total seats must be positive", key)
		}
		if seen[key] {
			return nil, fmt.Errorf("duplicate show %s", key)
		}
		seen[key] = true
		c.shows = append(c.shows, Show{Key: key, TotalSeats: s.TotalSeats})
	}

	return c, nil
}

// Theatres lists all theatres in load order.
func (c *Catalog) Theatres() []models.Theatre {
	out := make([]models.Theatre, len(c.theatres))
	copy(out, c.theatres)
	return out
}

// Theatre looks up a theatre by name.
func (c *Catalog) Theatre(name string) (models.Theatre, error) {
	t, ok := c.theatreByName[name]
	if !ok {
		return models.Theatre{}, fmt.Errorf("theatre %q: %w", name, bookingerr.ErrNotFound)
	}
	return t, nil
}

// MovieAt looks up a movie by theatre and title, validating the pairing.
func (c *Catalog) MovieAt(theatre, title string) (models.Movie, error) {
	m, ok := c.movieByKey[models.ShowKey{Theatre: theatre, Movie: title}]
	if !ok {
		return models.Movie{}, fmt.Errorf("movie %q at theatre %q: %w", title, theatre, bookingerr.ErrNotFound)
	}
	return m, nil
}

// Movies lists movies matching the filter, in load order.
func (c *Catalog) Movies(f Filter) []models.Movie {
	out := make([]models.Movie, 0, len(c.movies))
	for _, m := range c.movies {
		if f.Theatre != "" && m.Theatre != f.Theatre {
			continue
		}
		if f.Title != "" && m.Title != f.Title {
			continue
		}
		if f.Genre != "" && m.Genre != f.Genre {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Shows lists the seat pool definitions used to initialize inventory.
func (c *Catalog) Shows() []Show {
	out := make([]Show, len(c.shows))
	copy(out, c.shows)
	return out
}
