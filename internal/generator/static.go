package generator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/vytor/chordflash/internal/prompt"
)

// StaticGenerator replays canned responses in order, wrapping around.
// The prompt is ignored.
type StaticGenerator struct {
	mu        sync.Mutex
	responses [][]byte
	next      int
}

func NewStaticGenerator(responses ...[]byte) *StaticGenerator {
	return &StaticGenerator{responses: responses}
}

// LoadStaticGenerator reads every *.json file in dir, sorted by name.
// Files are not validated here; they go through quiz.Parse like any other
// generator output.
func LoadStaticGenerator(dir string) (*StaticGenerator, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no *.json quiz files in %s", dir)
	}
	sort.Strings(paths)

	responses := make([][]byte, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		responses = append(responses, data)
	}
	return NewStaticGenerator(responses...), nil
}

func (s *StaticGenerator) Name() string {
	return "static"
}

func (s *StaticGenerator) Generate(ctx context.Context, _ prompt.Prompt) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.responses) == 0 {
		return nil, ErrEmptyCompletion
	}
	out := s.responses[s.next%len(s.responses)]
	s.next++
	return append([]byte(nil), out...), nil
}
