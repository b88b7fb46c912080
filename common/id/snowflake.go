package id

import (
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
)

var (
	node *snowflake.Node
	once sync.Once
)

// Init initializes the Snowflake node with the given node ID.
func Init(nodeID int64) error {
	var err error
	once.Do(func() {
		node, err = snowflake.NewNode(nodeID)
	})
	return err
}

// New generates a new globally unique int64 ID using the Snowflake algorithm.
// IDs are time-ordered and unique across distributed instances.
func New() int64 {
	return node.Generate().Int64()
}

// NewIssueID returns a human-readable issue identifier of the form
// ISSUE-YYYYMMDD-<snowflake>. The date part uses the given creation time.
func NewIssueID(createdAt time.Time) string {
	return fmt.Sprintf("ISSUE-%s-%d", createdAt.Format("20060102"), New())
}
