package service_test

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/remotehive/jobboard-gin/internal/model"
	"github.com/remotehive/jobboard-gin/internal/service"
	"github.com/remotehive/jobboard-gin/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readArchiveLines 解压并读取归档文件的全部记录
func readArchiveLines(t *testing.T, path string) []map[string]interface{} {
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	gz, err := gzip.NewReader(file)
	require.NoError(t, err)
	defer gz.Close()

	var records []map[string]interface{}
	scanner := bufio.NewScanner(gz)
	for scanner.Scan() {
		var record map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &record))
		records = append(records, record)
	}
	require.NoError(t, scanner.Err())
	return records
}

// TestArchiveService_CreateArchive 测试归档导出
func TestArchiveService_CreateArchive(t *testing.T) {
	db := setupServiceTestDB(t)
	dir := t.TempDir()
	svc := service.NewArchiveService(db, dir)
	ctx := context.Background()

	// 一个终态职位带日志,一个非终态职位
	seedPost(t, db, "post-closed", string(workflow.StatusClosed), nil, nil)
	seedPost(t, db, "post-active", string(workflow.StatusActive), nil, nil)
	logEntry := &model.WorkflowLogModel{
		ID:         "wlog-1",
		JobPostID:  "post-closed",
		FromStatus: string(workflow.StatusActive),
		ToStatus:   string(workflow.StatusClosed),
		ActorID:    "admin-1",
		ActorRole:  "admin",
		OccurredAt: time.Now(),
	}
	require.NoError(t, db.Create(logEntry).Error)

	path, err := svc.CreateArchive(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path) || filepath.Dir(path) == dir)

	records := readArchiveLines(t, path)
	require.Len(t, records, 1)

	jobPost := records[0]["job_post"].(map[string]interface{})
	assert.Equal(t, "post-closed", jobPost["ID"])

	logs := records[0]["workflow_logs"].([]interface{})
	require.Len(t, logs, 1)

	// 导出不删除库内数据
	var count int64
	require.NoError(t, db.Model(&model.JobPostModel{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

// TestArchiveService_CutoffExcludesRecent 测试归档截止时间
func TestArchiveService_CutoffExcludesRecent(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := service.NewArchiveService(db, t.TempDir())
	ctx := context.Background()

	seedPost(t, db, "post-closed", string(workflow.StatusClosed), nil, nil)

	// 截止时间早于职位的更新时间,不导出任何记录
	path, err := svc.CreateArchive(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	records := readArchiveLines(t, path)
	assert.Empty(t, records)
}

// TestArchiveService_ListAndDelete 测试归档列表与删除
func TestArchiveService_ListAndDelete(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := service.NewArchiveService(db, t.TempDir())
	ctx := context.Background()

	path, err := svc.CreateArchive(ctx, time.Now())
	require.NoError(t, err)

	archives, err := svc.ListArchives(ctx)
	require.NoError(t, err)
	require.Len(t, archives, 1)
	assert.Equal(t, filepath.Base(path), archives[0].Filename)

	// 目录穿越被拒绝
	err = svc.DeleteArchive(ctx, "../../etc/passwd")
	require.Error(t, err)

	require.NoError(t, svc.DeleteArchive(ctx, archives[0].Filename))
	archives, err = svc.ListArchives(ctx)
	require.NoError(t, err)
	assert.Empty(t, archives)
}
