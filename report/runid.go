package report

import (
	"crypto/rand"
	"strconv"
	"time"

	"github.com/mr-tron/base58"
)

// NewRunID generates a short run identifier: "RN_" plus 6 random bytes in
// base58. Run IDs stamp log lines, summaries, and the lock file so
// overlapping invocations can be told apart in the record.
func NewRunID() string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means something is deeply wrong with the
		// host; a timestamp still gives a usable identifier.
		return "RN_" + strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return "RN_" + base58.Encode(buf)
}
