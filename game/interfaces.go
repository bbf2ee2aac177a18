package game

// Notifier delivers game messages to players. This is defined here to break
// the import cycle between game and broadcast.
type Notifier interface {
	BroadcastToRoom(roomID string, message string) error
	SendToUser(userID string, message string) error
}

// WordValidator checks a word against a real dictionary. A lookup failure
// must be reported as invalid, never as an error.
type WordValidator interface {
	Validate(word string) (valid bool, definition string)
}
