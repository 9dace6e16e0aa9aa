package integration_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/remotehive/jobboard-gin/internal/integration"
	"github.com/remotehive/jobboard-gin/internal/model"
	"github.com/remotehive/jobboard-gin/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupEmployerTestDB 创建雇主管理器测试数据库
func setupEmployerTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.EmployerModel{},
		&model.SequenceModel{},
	)
	require.NoError(t, err)

	return db
}

// TestFormatEmployerNumber 测试雇主编号格式化
func TestFormatEmployerNumber(t *testing.T) {
	assert.Equal(t, "RH0001", integration.FormatEmployerNumber(1))
	assert.Equal(t, "RH0042", integration.FormatEmployerNumber(42))
	assert.Equal(t, "RH9999", integration.FormatEmployerNumber(9999))
	// 超过 4 位后自然扩展位宽
	assert.Equal(t, "RH10000", integration.FormatEmployerNumber(10000))
	assert.Equal(t, "RH123456", integration.FormatEmployerNumber(123456))
}

// TestEmployerManager_ConcurrentCreate 测试并发创建雇主
// 序号分配是唯一的互斥点,N 个并发创建必须得到 N 个互不相同的编号
func TestEmployerManager_ConcurrentCreate(t *testing.T) {
	db := setupEmployerTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 内存库按连接隔离,固定单连接让所有 goroutine 共享同一个库
	sqlDB.SetMaxOpenConns(1)

	mgr := integration.NewEmployerManager(db)
	const n = 10

	numbers := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			employer, err := mgr.Create(context.Background(), &integration.CreateEmployerInput{
				Name:         fmt.Sprintf("Employer %d", i),
				ContactEmail: fmt.Sprintf("hr%d@example.test", i),
			})
			if assert.NoError(t, err) {
				numbers <- employer.EmployerNumber
			}
		}(i)
	}
	wg.Wait()
	close(numbers)

	seen := make(map[string]bool)
	for number := range numbers {
		assert.False(t, seen[number], "duplicate employer number %s", number)
		seen[number] = true
	}
	assert.Len(t, seen, n)
}

// TestEmployerManager_Create 测试创建雇主
func TestEmployerManager_Create(t *testing.T) {
	db := setupEmployerTestDB(t)
	mgr := integration.NewEmployerManager(db)
	ctx := context.Background()

	first, err := mgr.Create(ctx, &integration.CreateEmployerInput{
		Name:         "Acme Remote",
		ContactEmail: "jobs@acme.example",
		Industry:     "software",
		SizeBand:     "11-50",
	})
	require.NoError(t, err)
	assert.Equal(t, "RH0001", first.EmployerNumber)
	assert.Equal(t, model.VerificationUnverified, first.VerificationStatus)
	assert.True(t, first.IsActive)

	// 编号连续分配
	second, err := mgr.Create(ctx, &integration.CreateEmployerInput{
		Name:         "Globex",
		ContactEmail: "hr@globex.example",
	})
	require.NoError(t, err)
	assert.Equal(t, "RH0002", second.EmployerNumber)
	assert.NotEqual(t, first.ID, second.ID)
}

// TestEmployerManager_Create_Validation 测试创建校验
func TestEmployerManager_Create_Validation(t *testing.T) {
	db := setupEmployerTestDB(t)
	mgr := integration.NewEmployerManager(db)
	ctx := context.Background()

	_, err := mgr.Create(ctx, &integration.CreateEmployerInput{
		ContactEmail: "jobs@acme.example",
	})
	require.Error(t, err)
	assert.True(t, workflow.IsValidation(err))

	_, err = mgr.Create(ctx, &integration.CreateEmployerInput{
		Name:         "Acme Remote",
		ContactEmail: "not-an-email",
	})
	require.Error(t, err)
	assert.True(t, workflow.IsValidation(err))
}

// TestEmployerManager_Update 测试更新雇主属性
func TestEmployerManager_Update(t *testing.T) {
	db := setupEmployerTestDB(t)
	mgr := integration.NewEmployerManager(db)
	ctx := context.Background()

	employer, err := mgr.Create(ctx, &integration.CreateEmployerInput{
		Name:         "Acme Remote",
		ContactEmail: "jobs@acme.example",
	})
	require.NoError(t, err)

	newName := "Acme Remote Inc"
	newLocation := "Lisbon"
	updated, err := mgr.Update(ctx, employer.ID, &integration.EmployerUpdate{
		Name:     &newName,
		Location: &newLocation,
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Remote Inc", updated.Name)
	assert.Equal(t, "Lisbon", updated.Location)
	// 缺省字段保持不变,编号不可变更
	assert.Equal(t, "jobs@acme.example", updated.ContactEmail)
	assert.Equal(t, employer.EmployerNumber, updated.EmployerNumber)
}

// TestEmployerManager_VerifyAndDeactivate 测试认证与停用
func TestEmployerManager_VerifyAndDeactivate(t *testing.T) {
	db := setupEmployerTestDB(t)
	mgr := integration.NewEmployerManager(db)
	ctx := context.Background()

	employer, err := mgr.Create(ctx, &integration.CreateEmployerInput{
		Name:         "Acme Remote",
		ContactEmail: "jobs@acme.example",
	})
	require.NoError(t, err)

	verified, err := mgr.Verify(ctx, employer.ID)
	require.NoError(t, err)
	assert.Equal(t, model.VerificationVerified, verified.VerificationStatus)

	deactivated, err := mgr.Deactivate(ctx, employer.ID)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)

	// 停用后记录仍可读取
	found, err := mgr.Get(ctx, employer.ID)
	require.NoError(t, err)
	assert.False(t, found.IsActive)
	assert.Equal(t, model.VerificationVerified, found.VerificationStatus)
}
