package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/remotehive/jobboard-gin/internal/model"
	"github.com/remotehive/jobboard-gin/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestWorkflowLogRepository_SameTimestampOrder 测试同一时间戳的日志顺序
// 同一个时钟刻度内写入的多条日志必须按写入顺序还原,
// 仅靠发生时间排序无法区分它们
func TestWorkflowLogRepository_SameTimestampOrder(t *testing.T) {
	db := setupJobPostTestDB(t)
	repo := repository.NewWorkflowLogRepository(db)
	ctx := context.Background()

	occurredAt := time.Now().Truncate(time.Second)
	statuses := []string{"draft", "pending_approval", "approved", "active"}
	for i := 1; i < len(statuses); i++ {
		entry := &model.WorkflowLogModel{
			ID:         fmt.Sprintf("wlog-%03d", i),
			JobPostID:  "post-001",
			FromStatus: statuses[i-1],
			ToStatus:   statuses[i],
			ActorID:    "user-1",
			OccurredAt: occurredAt,
		}
		require.NoError(t, repo.Append(ctx, nil, entry))
	}

	entries, err := repo.FindByJobPostID(ctx, "post-001")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for i, entry := range entries {
		assert.Equal(t, statuses[i], entry.FromStatus)
		assert.Equal(t, statuses[i+1], entry.ToStatus)
	}
	// 自增序号严格递增
	assert.Less(t, entries[0].Seq, entries[1].Seq)
	assert.Less(t, entries[1].Seq, entries[2].Seq)
}
