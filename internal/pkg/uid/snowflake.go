package uid

import (
	"crypto/sha256"
	"os"
	"strconv"

	"github.com/bwmarrin/snowflake"
)

// Snowflake generates time-ordered int64 identifiers.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake creates a generator whose node id is taken from the
// SNOWFLAKE_NODE_ID environment variable, falling back to a hash of the
// hostname so that multiple instances rarely collide.
func NewSnowflake() (*Snowflake, error) {
	nodeID, err := resolveNodeID()
	if err != nil {
		return nil, err
	}

	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}

	return &Snowflake{node: node}, nil
}

// Generate returns a new unique int64 identifier.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}

func resolveNodeID() (int64, error) {
	if raw := os.Getenv("SNOWFLAKE_NODE_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, err
		}
		return id % 1024, nil
	}

	host, err := os.Hostname()
	if err != nil {
		return 0, err
	}

	sum := sha256.Sum256([]byte(host))
	id := int64(sum[0])<<8 | int64(sum[1])
	return id % 1024, nil
}
