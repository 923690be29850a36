// Package scraper fetches a player's double-xp gain from their runeclan tracker page.
//
// Each lookup is one form POST to the player's page followed by a goquery search for
// the positive gain cell. A page without that cell is not an error: it yields a Lookup
// with Found set to false, which usually means the player gained nothing during the
// event. Transport, status and parse failures are returned as errors.
package scraper
