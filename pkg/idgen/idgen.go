package idgen

import (
	"fmt"
	"sync"
	"time"

	"github.com/sony/sonyflake"
)

// Generator produces monotonically increasing, globally unique ComposeIDs.
type Generator struct {
	sf *sonyflake.Sonyflake
}

var (
	defaultGenerator     *Generator
	defaultGeneratorOnce sync.Once
)

func initDefaultGenerator() {
	defaultGenerator = New()
}

// DefaultGenerator returns the package-level default generator.
func DefaultGenerator() *Generator {
	defaultGeneratorOnce.Do(initDefaultGenerator)
	return defaultGenerator
}

// New creates a generator with a fixed epoch so ids stay comparable across runs.
func New() *Generator {
	sf := sonyflake.NewSonyflake(sonyflake.Settings{
		StartTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if sf == nil {
		sf = sonyflake.NewSonyflake(sonyflake.Settings{
			StartTime: time.Now(),
		})
	}

	return &Generator{sf: sf}
}

// GenerateComposeID returns a new id of the form "compose-<snowflake>".
func (g *Generator) GenerateComposeID() (string, error) {
	id, err := g.sf.NextID()
	if err != nil {
		return "", fmt.Errorf("generate compose id: %w", err)
	}
	return fmt.Sprintf("compose-%d", id), nil
}

// GenerateComposeID uses the default generator.
func GenerateComposeID() (string, error) {
	return DefaultGenerator().GenerateComposeID()
}
