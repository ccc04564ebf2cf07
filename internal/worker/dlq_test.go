package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeadKeyPerQueue(t *testing.T) {
	assert.Equal(t, "jobs:email:dead", deadKey(QueueEmail))
	assert.Equal(t, "jobs:receipt:dead", deadKey(QueueReceipt))
}
