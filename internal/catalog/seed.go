package catalog

import "marquee/internal/models"

// Built-in catalog used when no catalog file is configured. Prices are
// per seat in minor currency units.

var seedTheatres = []models.Theatre{
	{Name: "AMC Mainstreet 6", BasePrice: 1200},
	{Name: "Regal Union Square", BasePrice: 1500},
	{Name: "Cinemark Tinseltown", BasePrice: 1000},
	{Name: "Alamo Drafthouse Cinema", BasePrice: 1500},
	{Name: "Rio Theatre", BasePrice: 2500},
}

var seedMovies = []models.Movie{
	{Title: "The Shawshank Redemption", Genre: "Drama", Language: "English", Theatre: "AMC Mainstreet 6"},
	{Title: "The Godfather", Genre: "Crime", Language: "English", Theatre: "AMC Mainstreet 6"},
	{Title: "The Dark Knight", Genre: "Action", Language: "English", Theatre: "Alamo Drafthouse Cinema"},
	{Title: "Pulp Fiction", Genre: "Crime", Language: "English", Theatre: "Alamo Drafthouse Cinema"},
	{Title: "Inception", Genre: "Sci-Fi", Language: "English", Theatre: "Cinemark Tinseltown"},
	{Title: "The Matrix", Genre: "Sci-Fi", Language: "English", Theatre: "Rio Theatre"},
	{Title: "The Matrix", Genre: "Sci-Fi", Language: "English", Theatre: "Regal Union Square"},
}

var seedShows = []ShowEntry{
	{Theatre: "AMC Mainstreet 6", Movie: "The Shawshank Redemption", TotalSeats: 100},
	{Theatre: "AMC Mainstreet 6", Movie: "The Godfather", TotalSeats: 50},
	{Theatre: "Alamo Drafthouse Cinema", Movie: "The Dark Knight", TotalSeats: 75},
	{Theatre: "Alamo Drafthouse Cinema", Movie: "Pulp Fiction", TotalSeats: 35},
	{Theatre: "Rio Theatre", Movie: "The Matrix", TotalSeats: 35},
	{Theatre: "Regal Union Square", Movie: "The Matrix", TotalSeats: 100},
	{Theatre: "Cinemark Tinseltown", Movie: "Inception", TotalSeats: 10},
}
