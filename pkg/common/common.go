package common

import (
	"os"
	"strconv"
	"sync"

	"github.com/bwmarrin/snowflake"
)

const (
	ENABLED  = "enabled"
	DISABLED = "disabled"
)

var (
	snowflakeNode *snowflake.Node
	snowflakeOnce sync.Once
)

// UUIDint64 returns a cluster-unique int64 identifier.
// The snowflake node id is taken from SALESDESK_NODE_ID (0-1023) when
// running more than one instance against the same database.
func UUIDint64() int64 {
	snowflakeOnce.Do(func() {
		var nodeID int64
		if v := os.Getenv("SALESDESK_NODE_ID"); v != "" {
			if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
				nodeID = parsed % 1024
			}
		}
		node, err := snowflake.NewNode(nodeID)
		if err != nil {
			panic(err)
		}
		snowflakeNode = node
	})
	return snowflakeNode.Generate().Int64()
}
