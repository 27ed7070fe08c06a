package collect

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shassankhatoonabadi/abandoned-prs/internal/pipeline"
	"github.com/shassankhatoonabadi/abandoned-prs/internal/store"
)

// LoadInputs reads a repository's collected raw data back into per-pull
// processing inputs. Pulls whose timeline was never collected come back
// with no events; their synthetic root event still anchors a timeline.
func LoadInputs(paths store.Paths) ([]pipeline.Input, error) {
	pulls, err := store.Open(paths.RawPulls())
	if err != nil {
		return nil, err
	}
	defer pulls.Close()
	timelines, err := store.Open(paths.RawTimelines())
	if err != nil {
		return nil, err
	}
	defer timelines.Close()
	commits, err := store.Open(paths.Commits())
	if err != nil {
		return nil, err
	}
	defer commits.Close()

	var inputs []pipeline.Input
	err = pulls.ForEach(func(key string, value json.RawMessage) error {
		number, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("raw pull key %q is not a number: %w", key, err)
		}

		in := pipeline.Input{PullNumber: number, Pull: value}

		if raw, found, err := timelines.Get(key); err != nil {
			return err
		} else if found {
			if err := json.Unmarshal(raw, &in.Events); err != nil {
				return fmt.Errorf("raw timeline for pull %d: %w", number, err)
			}
		}
		if raw, found, err := commits.Get(key); err != nil {
			return err
		} else if found {
			if err := json.Unmarshal(raw, &in.Commits); err != nil {
				return fmt.Errorf("raw commits for pull %d: %w", number, err)
			}
		}

		inputs = append(inputs, in)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inputs, nil
}
