package services

import "github.com/smolnikov/readhub/internal/client/models"

// DemoPassword signs in any seeded demo author. Demo accounts carry no real
// credential material; the shared password only keeps the login flow uniform.
const DemoPassword = "readhub-demo"

// seededAuthors is the built-in table of demo authors. Records predate the
// PreventCopying flag and per-book overrides, so lookups must normalize
// before handing a copy out.
var seededAuthors = map[string]*models.Profile{
	"seed-author-amelia": {
		ID:        "seed-author-amelia",
		Username:  "amelia_hart",
		DisplayID: "100001",
		FirstName: "Amelia",
		LastName:  "Hart",
		Bio:       "Writes slow-burn mysteries set in coastal towns.",
		PublishedBooks: []string{
			"book-harbor-lights",
			"book-the-last-ferry",
		},
		Privacy: models.PrivacySettings{
			Comments: models.CommentSettings{Global: true},
		},
	},
	"seed-author-viktor": {
		ID:        "seed-author-viktor",
		Username:  "v_reznik",
		DisplayID: "100002",
		FirstName: "Viktor",
		LastName:  "Reznik",
		Bio:       "Short stories, mostly about trains.",
		PublishedBooks: []string{
			"book-night-express",
		},
		Privacy: models.PrivacySettings{
			HideSubscriptions: true,
			Comments: models.CommentSettings{
				Global:  false,
				PerBook: map[string]bool{"book-night-express": true},
			},
		},
	},
	"seed-author-june": {
		ID:        "seed-author-june",
		Username:  "june_okafor",
		DisplayID: "100003",
		FirstName: "June",
		LastName:  "Okafor",
		Bio:       "Serialized fantasy. New chapter every Friday.",
		PublishedBooks: []string{
			"book-ash-and-ivory",
			"book-the-glass-orchard",
			"book-winterward",
		},
		Privacy: models.PrivacySettings{
			PreventCopying: true,
			Comments:       models.CommentSettings{Global: true},
		},
	},
}

// seededAuthor returns a normalized copy of the seeded author with the
// given id, or nil. Callers own the copy.
func seededAuthor(id string) *models.Profile {
	seed, ok := seededAuthors[id]
	if !ok {
		return nil
	}
	profile := seed.Clone()
	profile.Normalize()
	return profile
}

// seededAuthorByUsername resolves a seeded author by the name a user would
// type at the login prompt. Returns nil when the username is not seeded.
func seededAuthorByUsername(username string) *models.Profile {
	for id, seed := range seededAuthors {
		if seed.Username == username {
			return seededAuthor(id)
		}
	}
	return nil
}
