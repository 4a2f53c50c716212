package store

// Key prefixes. Library entries live under
// <collection>:<uid>:<videoID> so one prefix scan lists a user's
// collection and deletes never cross user boundaries.
const (
	sessionPrefix = "session:"
)

// libraryKey builds the primary key for a library entry.
func libraryKey(collection, uid, videoID string) []byte {
	return []byte(collection + ":" + uid + ":" + videoID)
}

// libraryPrefix builds the scan prefix for one user's collection.
func libraryPrefix(collection, uid string) []byte {
	return []byte(collection + ":" + uid + ":")
}
