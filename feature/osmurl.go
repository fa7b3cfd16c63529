package feature

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const nodePrefix = "node/"

// ParseNodeID parses node IDs in the form node/918579285. Plain numbers are
// accepted as well.
func ParseNodeID(id string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimPrefix(id, nodePrefix), 10, 64)
	if err != nil {
		return 0, errors.Errorf("invalid node id '%s'", id)
	}
	if n <= 0 {
		return 0, errors.Errorf("invalid node id '%s'", id)
	}
	return n, nil
}

func FormatNodeID(id int64) string {
	return nodePrefix + strconv.FormatInt(id, 10)
}

// EditorURL returns the URL of the iD editor for a node.
func EditorURL(id int64) string {
	return fmt.Sprintf("https://www.openstreetmap.org/edit?editor=id&node=%d", id)
}

// NodeURL returns the openstreetmap.org page of a node.
func NodeURL(id int64) string {
	return fmt.Sprintf("https://www.openstreetmap.org/node/%d", id)
}
