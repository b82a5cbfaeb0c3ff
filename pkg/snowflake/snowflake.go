package snowflake

import (
	"os"
	"strconv"

	"github.com/bwmarrin/snowflake"
)

var node *snowflake.Node

// 多副本部署时通过 SNOWFLAKE_NODE 区分节点，避免 id 撞车
func init() {
	nodeID := int64(1)
	if v := os.Getenv("SNOWFLAKE_NODE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			nodeID = n
		}
	}
	node, _ = snowflake.NewNode(nodeID)
}

func GenStatusID() int64 {
	return node.Generate().Int64()
}

func GenID() int64 {
	return node.Generate().Int64()
}
