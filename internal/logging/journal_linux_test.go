//go:build linux

package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJournalKey(t *testing.T) {
	assert.Equal(t, "WAS_PINNED", journalKey("was_pinned"))
	assert.Equal(t, "HISTORY_LEN", journalKey("history.len"))
	assert.Equal(t, "ERR", journalKey("err"))
}
