package api

import (
	"fmt"
	"strings"

	"gamedex/internal/catalog"
	"gamedex/internal/recommend"
)

// formatNames joins names as "a, b and c".
func formatNames(names []string) string {
	return joinList(names, " and ")
}

// formatOrList joins names as "a, b or c".
func formatOrList(names []string) string {
	return joinList(names, " or ")
}

func joinList(names []string, lastSep string) string {
	all := strings.Join(names, ", ")
	if i := strings.LastIndex(all, ", "); i >= 0 {
		all = all[:i] + lastSep + all[i+2:]
	}
	return all
}

func plural(word string, count int) string {
	if count > 1 {
		return word + "s"
	}
	return word
}

func pluralVerb(count int) string {
	if count > 1 {
		return "are"
	}
	return "is"
}

// gameInfo renders the full catalog card for one game.
func gameInfo(g catalog.Game) string {
	releaseDate := "N/A"
	if g.ReleaseDate != nil {
		releaseDate = g.ReleaseDate.Format("January 2, 2006")
	}
	price := "Price not available"
	if g.Price != nil && *g.Price > 0 {
		price = fmt.Sprintf("$%.2f", *g.Price)
	} else if g.Price != nil {
		price = "Free"
	}
	description := g.ShortDescription
	if description == "" {
		description = "No description available."
	}
	requiredAge := "Not available"
	if g.RequiredAge > 0 {
		requiredAge = fmt.Sprintf("%d", g.RequiredAge)
	}
	owners := g.EstimatedOwners
	if owners == "" {
		owners = "Not available"
	}
	reviews := g.Reviews
	if reviews == "" {
		reviews = "No reviews available."
	}
	metacritic := "No Metacritic score available."
	if g.MetacriticScore != nil {
		metacritic = fmt.Sprintf("Metacritic score: %d", *g.MetacriticScore)
	}
	languages := "No supported languages listed."
	if len(g.Languages) > 0 {
		languages = strings.Join(g.Languages, ", ")
	}

	var osSupport []string
	if g.SupportWindows {
		osSupport = append(osSupport, "Windows")
	}
	if g.SupportMac {
		osSupport = append(osSupport, "Mac")
	}
	if g.SupportLinux {
		osSupport = append(osSupport, "Linux")
	}
	osText := "No operating system support listed."
	if len(osSupport) > 0 {
		osText = strings.Join(osSupport, ", ")
	}

	return fmt.Sprintf(
		"%s was released on %s by %s.\n"+
			"It costs %s and was developed by %s.\n"+
			"Required age: %s.\n"+
			"Description: %s\n"+
			"Estimated owners: %s.\n"+
			"Reviews: %s\n"+
			"%s\n"+
			"Languages supported: %s\n"+
			"Operating system support: %s",
		g.Name, releaseDate, formatNames(g.Publishers),
		price, formatNames(g.Developers),
		requiredAge, description, owners, reviews, metacritic, languages, osText,
	)
}

// recommendationReplies phrases the positive header and the empty-result
// reply for a recommendation outcome.
func recommendationReplies(result recommend.Result) (positive, negative string) {
	n := len(result.Games)
	verb := pluralVerb(n)
	genreLabel := plural("genre", len(result.Genres))
	publisherLabel := plural("publisher", len(result.Publishers))

	switch result.Kind {
	case recommend.KindCombined:
		subject := fmt.Sprintf("the %s %s and %s %s",
			formatOrList(result.Genres), genreLabel,
			formatOrList(result.Publishers), publisherLabel)
		positive = fmt.Sprintf("Here %s %d of our recommendations based on %s:", verb, n, subject)
		negative = fmt.Sprintf("Sorry, I couldn't find any games for %s combination.", subject)
	case recommend.KindPublisher:
		pubs := formatOrList(result.Publishers)
		positive = fmt.Sprintf("Here %s %d games published by %s:", verb, n, pubs)
		negative = fmt.Sprintf("Sorry, I couldn't find any games published by %s.", pubs)
	case recommend.KindGenre:
		subject := fmt.Sprintf("the %s %s", formatOrList(result.Genres), genreLabel)
		positive = fmt.Sprintf("Here %s %d games of %s:", verb, n, subject)
		negative = fmt.Sprintf("Sorry, I couldn't find any games of %s.", subject)
	default:
		positive = fmt.Sprintf("Here %s %d games across all genres and publishers.", verb, n)
		negative = "Sorry, I couldn't retrieve the top games right now."
	}
	return positive, negative
}
