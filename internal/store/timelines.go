package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/shassankhatoonabadi/abandoned-prs/internal/model"
)

// SaveTimelines persists timelines into the store at path, keyed by pull
// number. An existing store is overwritten key by key.
func SaveTimelines(path string, timelines []model.Timeline) error {
	s, err := Open(path)
	if err != nil {
		return err
	}
	defer s.Close()

	for i := range timelines {
		if err := s.Put(strconv.Itoa(timelines[i].PullNumber), &timelines[i]); err != nil {
			return err
		}
	}
	return nil
}

// LoadTimelines reads every timeline out of the store at path, in pull
// number order.
func LoadTimelines(path string) ([]model.Timeline, error) {
	s, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	var timelines []model.Timeline
	err = s.ForEach(func(key string, value json.RawMessage) error {
		var tl model.Timeline
		if err := json.Unmarshal(value, &tl); err != nil {
			return fmt.Errorf("timeline %s: %w", key, err)
		}
		timelines = append(timelines, tl)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(timelines, func(i, j int) bool {
		return timelines[i].PullNumber < timelines[j].PullNumber
	})
	return timelines, nil
}
