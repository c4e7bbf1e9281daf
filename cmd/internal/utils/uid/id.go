package uid

import (
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/labstack/gommon/log"
)

var (
	node *snowflake.Node
	once sync.Once
)

func Init(machineID int64) {
	once.Do(func() {
		var err error
		node, err = snowflake.NewNode(machineID)
		if err != nil {
			log.Fatalf("failed to initialize snowflake node: %v", err)
		}
	})
}

// Generate returns a new item id in its decimal string form, which is how
// ids travel through sessions, cookies and JSON.
func Generate() string {
	if node == nil {
		log.Fatalf("uid package not initialized")
	}
	return node.Generate().String()
}
