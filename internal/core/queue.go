package core

// NoCursor marks a queue with nothing loaded.
const NoCursor = -1

// Queue represents an ordered, id-unique list of songs and the position of
// the loaded entry.
type Queue struct {
	Songs        []Song `json:"songs"`
	CurrentIndex int    `json:"current_index"`
}

// NewQueue returns an empty queue with no cursor.
func NewQueue() *Queue {
	return &Queue{CurrentIndex: NoCursor}
}

// Current returns the loaded song, or nil if the cursor is unset.
func (q *Queue) Current() *Song {
	if q == nil || !q.ValidIndex(q.CurrentIndex) {
		return nil
	}
	return &q.Songs[q.CurrentIndex]
}

// Upcoming returns songs after the current position.
func (q *Queue) Upcoming() []Song {
	if q == nil || q.CurrentIndex < 0 || q.CurrentIndex >= len(q.Songs)-1 {
		return nil
	}
	return q.Songs[q.CurrentIndex+1:]
}

// Len returns the total number of songs in the queue.
func (q *Queue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.Songs)
}

// IsEmpty returns true if the queue has no songs.
func (q *Queue) IsEmpty() bool {
	return q.Len() == 0
}

// ValidIndex reports whether i addresses an entry.
func (q *Queue) ValidIndex(i int) bool {
	return q != nil && i >= 0 && i < len(q.Songs)
}

// IndexOf returns the position of the song with id, or NoCursor.
func (q *Queue) IndexOf(id string) int {
	if q == nil {
		return NoCursor
	}
	for i := range q.Songs {
		if q.Songs[i].ID == id {
			return i
		}
	}
	return NoCursor
}

// Contains reports whether a song with id is queued.
func (q *Queue) Contains(id string) bool {
	return q.IndexOf(id) != NoCursor
}

// Add appends song unless its id is already present. It reports whether the
// queue changed. The cursor is never moved.
func (q *Queue) Add(song Song) bool {
	if q.Contains(song.ID) {
		return false
	}
	q.Songs = append(q.Songs, song)
	return true
}

// Remove deletes the song with id and keeps the cursor pointing at the same
// entry. If the loaded entry itself is removed the cursor becomes NoCursor.
// It returns the removed index, or NoCursor when nothing matched.
func (q *Queue) Remove(id string) int {
	idx := q.IndexOf(id)
	if idx == NoCursor {
		return NoCursor
	}
	q.Songs = append(q.Songs[:idx:idx], q.Songs[idx+1:]...)
	switch {
	case idx == q.CurrentIndex:
		q.CurrentIndex = NoCursor
	case idx < q.CurrentIndex:
		q.CurrentIndex--
	}
	return idx
}

// Replace swaps in songs, dropping repeated ids, and unsets the cursor.
func (q *Queue) Replace(songs []Song) {
	q.Songs = Dedupe(songs)
	q.CurrentIndex = NoCursor
}

// Clear empties the queue.
func (q *Queue) Clear() {
	q.Songs = nil
	q.CurrentIndex = NoCursor
}

// Clone returns a deep copy safe to hand to readers.
func (q *Queue) Clone() *Queue {
	if q == nil {
		return NewQueue()
	}
	songs := make([]Song, len(q.Songs))
	for i, s := range q.Songs {
		songs[i] = s.Clone()
	}
	return &Queue{Songs: songs, CurrentIndex: q.CurrentIndex}
}

// Dedupe returns songs with later repeats of an id removed.
func Dedupe(songs []Song) []Song {
	if len(songs) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(songs))
	out := make([]Song, 0, len(songs))
	for _, s := range songs {
		if _, ok := seen[s.ID]; ok {
			continue
		}
		seen[s.ID] = struct{}{}
		out = append(out, s)
	}
	return out
}
