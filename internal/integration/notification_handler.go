package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/remotehive/jobboard-gin/internal/model"
	"github.com/remotehive/jobboard-gin/internal/repository"
	"github.com/remotehive/jobboard-gin/internal/websocket"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// StatusChangeEvent 状态转换通知事件
// 转换提交后产生,投递给通知方
type StatusChangeEvent struct {
	JobPostID  string    `json:"job_post_id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	ActorID    string    `json:"actor_id"`
	ActorRole  string    `json:"actor_role"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// WebhookConfig 通知 Webhook 配置
type WebhookConfig struct {
	URL       string            `mapstructure:"url"`
	Method    string            `mapstructure:"method"`
	Headers   map[string]string `mapstructure:"headers"`
	AuthType  string            `mapstructure:"auth_type"` // bearer/basic/header
	AuthKey   string            `mapstructure:"auth_key"`
	AuthToken string            `mapstructure:"auth_token"`
}

// NotificationHandler 通知处理器接口
// 投递是尽力而为的,失败只记录日志,不影响已提交的转换
type NotificationHandler interface {
	Handle(evt *StatusChangeEvent) error
	Stop()
}

// dbNotificationHandler 基于数据库的通知处理器
// 事件先落库再异步推送,worker 按指数退避重试
type dbNotificationHandler struct {
	db         *gorm.DB
	eventRepo  repository.NotificationEventRepository
	hub        *websocket.Hub
	webhooks   []WebhookConfig
	httpClient *http.Client
	logger     *logrus.Logger
	queue      chan *StatusChangeEvent
	stop       chan struct{}
}

// NewNotificationHandler 创建通知处理器
func NewNotificationHandler(db *gorm.DB, hub *websocket.Hub, webhooks []WebhookConfig, workers int, logger *logrus.Logger) NotificationHandler {
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = logrus.New()
	}

	handler := &dbNotificationHandler{
		db:         db,
		eventRepo:  repository.NewNotificationEventRepository(db),
		hub:        hub,
		webhooks:   webhooks,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
		queue:      make(chan *StatusChangeEvent, 1000),
		stop:       make(chan struct{}),
	}

	for i := 0; i < workers; i++ {
		go handler.worker()
	}

	return handler
}

// Handle 处理状态转换通知
func (h *dbNotificationHandler) Handle(evt *StatusChangeEvent) error {
	// 1. 持久化事件到数据库
	eventData, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	eventModel := &model.NotificationEventModel{
		ID:         uuid.New().String(),
		JobPostID:  evt.JobPostID,
		FromStatus: evt.FromStatus,
		ToStatus:   evt.ToStatus,
		ActorID:    evt.ActorID,
		Data:       eventData,
		Status:     model.NotificationPending,
		RetryCount: 0,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := h.eventRepo.Save(context.Background(), eventModel); err != nil {
		return fmt.Errorf("failed to save notification event: %w", err)
	}

	// 2. 广播到 WebSocket 订阅方
	if h.hub != nil {
		h.hub.BroadcastToJobPost(evt.JobPostID, eventData)
	}

	// 3. 异步推送到 Webhook
	select {
	case h.queue <- evt:
	default:
		// 队列满时丢弃,只记录日志
		h.logger.WithFields(logrus.Fields{
			"job_post_id": evt.JobPostID,
			"to_status":   evt.ToStatus,
		}).Warn("notification queue full, dropping event")
	}

	return nil
}

// worker 通知推送 worker
func (h *dbNotificationHandler) worker() {
	for {
		select {
		case evt := <-h.queue:
			h.pushToWebhooks(evt)
		case <-h.stop:
			return
		}
	}
}

// pushToWebhooks 推送事件到所有 Webhook,指数退避重试
func (h *dbNotificationHandler) pushToWebhooks(evt *StatusChangeEvent) {
	var eventModel model.NotificationEventModel
	err := h.db.Where("job_post_id = ? AND to_status = ?", evt.JobPostID, evt.ToStatus).
		Order("created_at DESC").
		First(&eventModel).Error
	if err != nil {
		h.logger.WithError(err).Warn("failed to find notification event record")
		return
	}

	// 没有配置 Webhook 时直接标记成功
	if len(h.webhooks) == 0 {
		eventModel.Status = model.NotificationSuccess
		eventModel.UpdatedAt = time.Now()
		h.saveEventModel(&eventModel)
		return
	}

	maxRetries := 3
	backoff := time.Second

	for i := 0; i < maxRetries; i++ {
		success := true
		for j := range h.webhooks {
			if err := h.sendWebhookRequest(&h.webhooks[j], evt); err != nil {
				success = false
				h.logger.WithError(err).WithField("url", h.webhooks[j].URL).Warn("failed to send webhook request")
			}
		}

		if success {
			eventModel.Status = model.NotificationSuccess
			eventModel.UpdatedAt = time.Now()
			h.saveEventModel(&eventModel)
			return
		}

		eventModel.RetryCount++
		eventModel.UpdatedAt = time.Now()
		h.saveEventModel(&eventModel)

		if i < maxRetries-1 {
			time.Sleep(backoff)
			backoff *= 2
		}
	}

	eventModel.Status = model.NotificationFailed
	eventModel.UpdatedAt = time.Now()
	h.saveEventModel(&eventModel)
}

// saveEventModel 保存事件投递状态
func (h *dbNotificationHandler) saveEventModel(eventModel *model.NotificationEventModel) {
	if err := h.eventRepo.Save(context.Background(), eventModel); err != nil {
		h.logger.WithError(err).Warn("failed to update notification event status")
	}
}

// sendWebhookRequest 发送单个 Webhook 请求
func (h *dbNotificationHandler) sendWebhookRequest(webhook *WebhookConfig, evt *StatusChangeEvent) error {
	eventData, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	method := webhook.Method
	if method == "" {
		method = http.MethodPost
	}

	req, err := http.NewRequest(method, webhook.URL, bytes.NewBuffer(eventData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for key, value := range webhook.Headers {
		req.Header.Set(key, value)
	}

	switch webhook.AuthType {
	case "bearer":
		req.Header.Set("Authorization", "Bearer "+webhook.AuthToken)
	case "basic":
		req.SetBasicAuth(webhook.AuthKey, webhook.AuthToken)
	case "header":
		req.Header.Set(webhook.AuthKey, webhook.AuthToken)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status code: %d", resp.StatusCode)
	}

	return nil
}

// Stop 停止通知处理器
func (h *dbNotificationHandler) Stop() {
	close(h.stop)
}
