package utilities

import (
	"os"
	"strconv"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/segmentio/ksuid"
)

var (
	nodeOnce sync.Once
	node     *snowflake.Node
)

// NewKSUID generates a new globally unique, time-sortable KSUID string.
// Users, projects and issues are keyed by it.
func NewKSUID() string {
	return ksuid.New().String()
}

// NewSnowflakeID returns an id from the process-wide snowflake node.
// The node id comes from SNOWFLAKE_NODE (default 1). If the node cannot be
// created it falls back to a KSUID so callers always get a unique id.
func NewSnowflakeID() string {
	nodeOnce.Do(func() {
		nodeID := int64(1)
		if v, err := strconv.ParseInt(os.Getenv("SNOWFLAKE_NODE"), 10, 64); err == nil {
			nodeID = v
		}
		n, err := snowflake.NewNode(nodeID)
		if err != nil {
			n, _ = snowflake.NewNode(1)
		}
		node = n
	})
	if node == nil {
		return NewKSUID()
	}
	return node.Generate().String()
}
