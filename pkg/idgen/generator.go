package idgen

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// Generator hands out unique flow identifiers
type Generator interface {
	GenerateID() string
}

// SnowflakeGenerator implements Generator using Twitter Snowflake ids rendered in base 10
type SnowflakeGenerator struct {
	node *snowflake.Node
}

// NewSnowflakeGenerator initializes a new ID generator.
// nodeID must be unique per server instance (0-1023) to prevent collisions.
func NewSnowflakeGenerator(nodeID int64) (*SnowflakeGenerator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to create snowflake node: %w", err)
	}

	return &SnowflakeGenerator{node: node}, nil
}

// GenerateID returns a new unique id. snowflake.Node is safe for concurrent use.
func (g *SnowflakeGenerator) GenerateID() string {
	return g.node.Generate().String()
}
