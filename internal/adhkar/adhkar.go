// Package adhkar stores the dhikr content shown by the viewer and the
// car-display screen. Content lives in one JSON file written atomically;
// when the file is absent the built-in collection is used.
package adhkar

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/natefinch/atomic"
)

const (
	CategoryMorning = "morning"
	CategoryEvening = "evening"
	CategoryCar     = "car"
)

func IsValidCategory(category string) bool {
	return category == CategoryMorning || category == CategoryEvening || category == CategoryCar
}

// Item is one dhikr entry. Repeat is how many times it is recited.
type Item struct {
	ID          int64  `json:"id"`
	Arabic      string `json:"arabic"`
	Translation string `json:"translation"`
	Category    string `json:"category"`
	Repeat      int    `json:"repeat"`
}

type Store struct {
	mu    sync.Mutex
	path  string
	items []Item
}

// Open loads the content file at path, falling back to the built-in
// collection when the file does not exist.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.items = seedItems()
			return s, nil
		}
		return nil, fmt.Errorf("read adhkar %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, &s.items); err != nil {
		return nil, fmt.Errorf("decode adhkar %s: %w", path, err)
	}
	return s, nil
}

// List returns items, filtered to one category when it is non-empty.
func (s *Store) List(category string) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]Item, 0, len(s.items))
	for _, item := range s.items {
		if category == "" || item.Category == category {
			items = append(items, item)
		}
	}
	return items
}

func (s *Store) Get(id int64) (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(id); i >= 0 {
		return s.items[i], true
	}
	return Item{}, false
}

func (s *Store) Add(item Item) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var maxID int64
	for _, existing := range s.items {
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}
	item.ID = maxID + 1
	if item.Repeat <= 0 {
		item.Repeat = 1
	}
	s.items = append(s.items, item)
	if err := s.persist(); err != nil {
		s.items = s.items[:len(s.items)-1]
		return Item{}, err
	}
	return item, nil
}

func (s *Store) Update(id int64, item Item) (Item, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return Item{}, false, nil
	}
	previous := s.items[i]
	item.ID = id
	if item.Repeat <= 0 {
		item.Repeat = 1
	}
	s.items[i] = item
	if err := s.persist(); err != nil {
		s.items[i] = previous
		return Item{}, true, err
	}
	return item, true, nil
}

func (s *Store) Delete(id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return false, nil
	}
	previous := s.items[i]
	s.items = append(s.items[:i], s.items[i+1:]...)
	if err := s.persist(); err != nil {
		s.items = append(s.items, previous)
		return true, err
	}
	return true, nil
}

// index must be called with the mutex held.
func (s *Store) index(id int64) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// persist must be called with the mutex held.
func (s *Store) persist() error {
	raw, err := json.MarshalIndent(s.items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode adhkar: %w", err)
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create adhkar dir: %w", err)
		}
	}
	if err := atomic.WriteFile(s.path, bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("write adhkar %s: %w", s.path, err)
	}
	return nil
}

func seedItems() []Item {
	return []Item{
		{ID: 1, Arabic: "سُبْحَانَ اللَّهِ وَبِحَمْدِهِ", Translation: "Glory be to Allah and praise Him", Category: CategoryMorning, Repeat: 100},
		{ID: 2, Arabic: "أَصْبَحْنَا وَأَصْبَحَ الْمُلْكُ لِلَّهِ", Translation: "We have reached the morning and the dominion belongs to Allah", Category: CategoryMorning, Repeat: 1},
		{ID: 3, Arabic: "اللَّهُمَّ بِكَ أَصْبَحْنَا وَبِكَ أَمْسَيْنَا", Translation: "O Allah, by You we enter the morning and by You we enter the evening", Category: CategoryMorning, Repeat: 1},
		{ID: 4, Arabic: "أَمْسَيْنَا وَأَمْسَى الْمُلْكُ لِلَّهِ", Translation: "We have reached the evening and the dominion belongs to Allah", Category: CategoryEvening, Repeat: 1},
		{ID: 5, Arabic: "أَعُوذُ بِكَلِمَاتِ اللَّهِ التَّامَّاتِ مِنْ شَرِّ مَا خَلَقَ", Translation: "I seek refuge in the perfect words of Allah from the evil of what He created", Category: CategoryEvening, Repeat: 3},
		{ID: 6, Arabic: "سُبْحَانَ الَّذِي سَخَّرَ لَنَا هَذَا وَمَا كُنَّا لَهُ مُقْرِنِينَ", Translation: "Glory be to Him who subjected this to us, and we could not have done it ourselves", Category: CategoryCar, Repeat: 1},
		{ID: 7, Arabic: "بِسْمِ اللَّهِ تَوَكَّلْتُ عَلَى اللَّهِ", Translation: "In the name of Allah, I place my trust in Allah", Category: CategoryCar, Repeat: 1},
	}
}
