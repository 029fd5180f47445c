package idgen

import (
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
)

// OrderPrefix starts every order number
const OrderPrefix = "ORD"

// epoch is 2024-01-01T00:00:00Z, which keeps generated ids short
var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func init() {
	snowflake.Epoch = epoch.UnixMilli()
}

// SnowflakeGenerator issues time-ordered, unique order numbers such as
// "ORD1794323455210541056". Each process must use a distinct node id.
type SnowflakeGenerator struct {
	node   *snowflake.Node
	prefix string
}

// NewSnowflakeGenerator creates a generator for node (0-1023)
func NewSnowflakeGenerator(node int64) (*SnowflakeGenerator, error) {
	n, err := snowflake.NewNode(node)
	if err != nil {
		return nil, fmt.Errorf("snowflake node %d: %w", node, err)
	}
	return &SnowflakeGenerator{node: n, prefix: OrderPrefix}, nil
}

// NextOrderNumber returns a new order number
func (g *SnowflakeGenerator) NextOrderNumber() string {
	return g.prefix + g.node.Generate().String()
}
