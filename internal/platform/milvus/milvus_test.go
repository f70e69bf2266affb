package milvus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOpCtxAddsDeadline(t *testing.T) {
	c := &Client{timeout: 30 * time.Second}

	ctx, cancel := c.opCtx(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	assert.True(t, ok, "data-path calls must carry a deadline")
	assert.LessOrEqual(t, time.Until(deadline), 30*time.Second)
}

func TestOpCtxKeepsEarlierParentDeadline(t *testing.T) {
	c := &Client{timeout: 30 * time.Second}

	parent, parentCancel := context.WithTimeout(context.Background(), time.Second)
	defer parentCancel()

	ctx, cancel := c.opCtx(parent)
	defer cancel()

	deadline, ok := ctx.Deadline()
	assert.True(t, ok)
	assert.LessOrEqual(t, time.Until(deadline), time.Second)
}
