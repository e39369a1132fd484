package service

import "meta_debug_web/internal/domain/models"

// imageSet is an insertion-ordered set of image candidates keyed by URL.
// The first candidate added for a URL wins.
type imageSet struct {
	items []models.ImageCandidate
	seen  map[string]struct{}
}

func newImageSet() *imageSet {
	return &imageSet{
		items: []models.ImageCandidate{},
		seen:  map[string]struct{}{},
	}
}

// Add records the candidate unless its URL is already present and reports
// whether it was added.
func (s *imageSet) Add(url, label string) bool {
	if _, ok := s.seen[url]; ok {
		return false
	}
	s.seen[url] = struct{}{}
	s.items = append(s.items, models.ImageCandidate{URL: url, Label: label})
	return true
}

func (s *imageSet) Len() int {
	return len(s.items)
}

func (s *imageSet) Items() []models.ImageCandidate {
	return s.items
}
