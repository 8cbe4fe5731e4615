package repository

// Key layout. Users and games are JSON documents under prefixed keys with a
// set per entity type for listing; scores are append-only lists so insertion
// order survives for the stable leaderboard tie-break.
const (
	usersSetKey  = "users"
	gamesSetKey  = "games"
	scoresLogKey = "scores:log"
)

func userKey(name string) string {
	return "user:" + name
}

func gameKey(id string) string {
	return "game:" + id
}

func userScoresKey(name string) string {
	return "scores:user:" + name
}

func cacheKey(key string) string {
	return "cache:" + key
}
