package service

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/remotehive/jobboard-gin/internal/model"
	"github.com/remotehive/jobboard-gin/internal/workflow"
	"gorm.io/gorm"
)

// ArchiveService 归档服务
// 将终态职位及其完整工作流日志导出为 JSON Lines 文件,
// 导出不删除库内数据,工作流日志始终保持可回放
type ArchiveService struct {
	db          *gorm.DB
	archiveDir  string
	compression bool
}

// ArchiveInfo 归档文件信息
type ArchiveInfo struct {
	Filename  string    `json:"filename"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// archiveRecord 归档文件中的单条记录
type archiveRecord struct {
	JobPost      *model.JobPostModel       `json:"job_post"`
	WorkflowLogs []*model.WorkflowLogModel `json:"workflow_logs"`
}

// NewArchiveService 创建归档服务
func NewArchiveService(db *gorm.DB, archiveDir string) *ArchiveService {
	// 确保归档目录存在
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		archiveDir = os.TempDir()
	}

	return &ArchiveService{
		db:          db,
		archiveDir:  archiveDir,
		compression: true,
	}
}

// CreateArchive 创建归档
// 导出在 before 之前进入终态的职位及其全部工作流日志
func (s *ArchiveService) CreateArchive(ctx context.Context, before time.Time) (string, error) {
	// 1. 查询待归档职位
	terminal := []string{
		string(workflow.StatusRejected),
		string(workflow.StatusClosed),
		string(workflow.StatusExpired),
		string(workflow.StatusFilled),
	}
	var posts []*model.JobPostModel
	err := s.db.WithContext(ctx).
		Where("status IN ?", terminal).
		Where("updated_at < ?", before).
		Order("updated_at ASC").
		Find(&posts).Error
	if err != nil {
		return "", fmt.Errorf("failed to query archivable job posts: %w", err)
	}

	// 2. 生成归档文件名
	timestamp := time.Now().Format("20060102_150405")
	ext := ".jsonl"
	if s.compression {
		ext = ".jsonl.gz"
	}
	filename := fmt.Sprintf("archive_%s%s", timestamp, ext)
	archivePath := filepath.Join(s.archiveDir, filename)

	file, err := os.Create(archivePath)
	if err != nil {
		return "", fmt.Errorf("failed to create archive file: %w", err)
	}
	defer file.Close()

	var writer io.Writer = file
	if s.compression {
		gzWriter := gzip.NewWriter(file)
		defer gzWriter.Close()
		writer = gzWriter
	}

	// 3. 每个职位一行,附带完整工作流日志
	encoder := json.NewEncoder(writer)
	for _, post := range posts {
		var logs []*model.WorkflowLogModel
		err := s.db.WithContext(ctx).
			Where("job_post_id = ?", post.ID).
			Order("occurred_at ASC, seq ASC").
			Find(&logs).Error
		if err != nil {
			return "", fmt.Errorf("failed to query workflow logs for %s: %w", post.ID, err)
		}

		if err := encoder.Encode(&archiveRecord{JobPost: post, WorkflowLogs: logs}); err != nil {
			return "", fmt.Errorf("failed to write archive record: %w", err)
		}
	}

	return archivePath, nil
}

// ListArchives 列出所有归档文件
func (s *ArchiveService) ListArchives(ctx context.Context) ([]ArchiveInfo, error) {
	var archives []ArchiveInfo

	entries, err := os.ReadDir(s.archiveDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !isArchiveFile(entry.Name()) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		archives = append(archives, ArchiveInfo{
			Filename:  entry.Name(),
			Path:      filepath.Join(s.archiveDir, entry.Name()),
			Size:      info.Size(),
			CreatedAt: info.ModTime(),
		})
	}

	return archives, nil
}

// ArchiveDir 获取归档目录
func (s *ArchiveService) ArchiveDir() string {
	return s.archiveDir
}

// DeleteArchive 删除归档文件
func (s *ArchiveService) DeleteArchive(ctx context.Context, filename string) error {
	archivePath := filepath.Join(s.archiveDir, filename)

	// 安全检查:确保文件在归档目录内
	absArchiveDir, err := filepath.Abs(s.archiveDir)
	if err != nil {
		return fmt.Errorf("failed to get absolute archive directory: %w", err)
	}

	absArchivePath, err := filepath.Abs(archivePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute archive path: %w", err)
	}

	if !strings.HasPrefix(absArchivePath, absArchiveDir) {
		return fmt.Errorf("invalid archive path: %s", filename)
	}

	if err := os.Remove(archivePath); err != nil {
		return fmt.Errorf("failed to delete archive: %w", err)
	}

	return nil
}

// CleanupOldArchives 清理超过保留期的归档文件
func (s *ArchiveService) CleanupOldArchives(ctx context.Context, retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}

	archives, err := s.ListArchives(ctx)
	if err != nil {
		return err
	}

	cutoff := time.Now().Add(-time.Duration(retentionDays) * 24 * time.Hour)
	for _, archive := range archives {
		if archive.CreatedAt.Before(cutoff) {
			if err := s.DeleteArchive(ctx, archive.Filename); err != nil {
				return err
			}
		}
	}

	return nil
}

// isArchiveFile 检查是否是归档文件
func isArchiveFile(filename string) bool {
	if strings.HasSuffix(filename, ".jsonl.gz") {
		return true
	}
	return filepath.Ext(filename) == ".jsonl" || strings.HasPrefix(filename, "archive_")
}
