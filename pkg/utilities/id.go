package utilities

import (
	"os"
	"strconv"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/segmentio/ksuid"
)

// NewKSUID generates a new globally unique KSUID string. Used for
// identity and room primary keys.
func NewKSUID() string {
	return ksuid.New().String()
}

var (
	nodeOnce sync.Once
	node     *snowflake.Node
)

// NewSnowflakeID generates a time-ordered snowflake ID string, suitable
// for audit-log rows where insertion order matters. The node ID comes
// from SNOWFLAKE_NODE (default 1) and is initialized once per process;
// if initialization fails a KSUID is returned so an ID is always
// produced.
func NewSnowflakeID() string {
	nodeOnce.Do(func() {
		id := int64(1)
		if v := os.Getenv("SNOWFLAKE_NODE"); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				id = n
			}
		}
		if n, err := snowflake.NewNode(id); err == nil {
			node = n
		}
	})
	if node == nil {
		return NewKSUID()
	}
	return node.Generate().String()
}
