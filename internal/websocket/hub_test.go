package websocket

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient 创建不带真实连接的测试客户端
func newTestClient(id, jobPostID string) *Client {
	return &Client{
		ID:        id,
		JobPostID: jobPostID,
		Send:      make(chan []byte, 8),
	}
}

// TestHub_RegisterUnregister 测试客户端注册与注销
func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := newTestClient("client-1", "post-1")
	hub.Register <- client

	assert.Eventually(t, func() bool {
		return hub.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	hub.Unregister <- client

	assert.Eventually(t, func() bool {
		return hub.ClientCount() == 0
	}, time.Second, 10*time.Millisecond)

	// 注销后 Send channel 被关闭
	_, ok := <-client.Send
	assert.False(t, ok)
}

// TestHub_BroadcastToJobPost 测试按职位定向广播
func TestHub_BroadcastToJobPost(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	subscriber := newTestClient("client-1", "post-1")
	other := newTestClient("client-2", "post-2")
	hub.Register <- subscriber
	hub.Register <- other

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 2
	}, time.Second, 10*time.Millisecond)

	hub.BroadcastToJobPost("post-1", []byte(`{"to_status":"active"}`))

	select {
	case msg := <-subscriber.Send:
		assert.Equal(t, `{"to_status":"active"}`, string(msg))
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive broadcast")
	}

	// 订阅其他职位的客户端收不到消息
	select {
	case msg := <-other.Send:
		t.Fatalf("unexpected message for other client: %s", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

// TestHub_ConcurrentBroadcastEvictsOnce 测试并发广播下的慢客户端剔除
// 发送缓冲已满的客户端会在广播中被剔除并关闭 Send,
// 多个并发广播不得对同一客户端重复 close 或并发修改 clients
func TestHub_ConcurrentBroadcastEvictsOnce(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	// 无缓冲 Send 且无人消费,每次广播都会触发剔除路径
	slow := &Client{ID: "client-slow", JobPostID: "post-1", Send: make(chan []byte)}
	hub.Register <- slow

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.BroadcastToJobPost("post-1", []byte(`{"to_status":"active"}`))
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, hub.ClientCount())
	_, ok := <-slow.Send
	assert.False(t, ok)
}
