package dedup

// SeenSet records fingerprint keys already encountered during one run along
// with the file that first produced each key. It is not safe for concurrent
// use.
type SeenSet struct {
	first map[string]string
}

// NewSeenSet returns an empty set.
func NewSeenSet() *SeenSet {
	return &SeenSet{first: make(map[string]string)}
}

// Add registers key for name. When key is already present it returns the
// original file name and false.
func (s *SeenSet) Add(key, name string) (string, bool) {
	if first, ok := s.first[key]; ok {
		return first, false
	}
	s.first[key] = name
	return name, true
}

// Len returns the number of distinct keys.
func (s *SeenSet) Len() int {
	return len(s.first)
}
